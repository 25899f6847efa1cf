// Package monthly maintains the month-to-date rollup derived from snapshot
// summaries.
package monthly

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/store/costdb"
)

type Store interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	EnsureMonthInitialized(ctx context.Context, now time.Time) error
	UpdateMonth(ctx context.Context, now time.Time) error
	GetMonth(ctx context.Context, yearMonth string) (*domain.MonthlySummary, error)
	ListMonths(ctx context.Context, limit int) ([]domain.MonthlySummary, error)
}

type monthlyStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &monthlyStore{db: db}, nil
}

// InTransaction runs fn with a transaction bound to its context. Every
// store call inside fn sees the same transaction; an error from fn rolls
// everything back.
func (m *monthlyStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(costdb.WithTransaction(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// exec runs against the transaction bound to ctx when one is present.
func (m *monthlyStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := costdb.GetTransaction(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return m.db.ExecContext(ctx, query, args...)
}

func (m *monthlyStore) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	if tx := costdb.GetTransaction(ctx); tx != nil {
		return tx.QueryRowContext(ctx, query, args...)
	}
	return m.db.QueryRowContext(ctx, query, args...)
}

func (m *monthlyStore) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if tx := costdb.GetTransaction(ctx); tx != nil {
		return tx.QueryContext(ctx, query, args...)
	}
	return m.db.QueryContext(ctx, query, args...)
}

// EnsureMonthInitialized creates a zero row for the month of now if none
// exists. Idempotent; an existing total is never regressed.
func (m *monthlyStore) EnsureMonthInitialized(ctx context.Context, now time.Time) error {
	yearMonth := now.UTC().Format("2006-01")

	_, err := m.exec(ctx,
		`INSERT INTO monthly_summary (year_month, total_monthly_cost, breakdown, created_at)
		 VALUES (?, 0, '{}', ?)
		 ON CONFLICT (year_month) DO NOTHING`,
		yearMonth, now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("initialize month %s: %w", yearMonth, err)
	}
	return nil
}

// UpdateMonth recomputes the month-to-date total for the month of now: the
// snapshot summaries are grouped by calendar day, each day contributes its
// highest total_daily_cost, and the days are summed. Multiple scans within
// a day therefore never double-count. The breakdown is copied from the
// month's newest snapshot, a deliberate simplification that mirrors how
// the totals were reported historically.
func (m *monthlyStore) UpdateMonth(ctx context.Context, now time.Time) error {
	yearMonth := now.UTC().Format("2006-01")
	start := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var total float64
	err := m.queryRow(ctx,
		`SELECT COALESCE(SUM(day_max), 0) FROM (
		     SELECT MAX(total_daily_cost) AS day_max
		     FROM cost_summary
		     WHERE timestamp >= ? AND timestamp < ?
		     GROUP BY CAST(timestamp AS DATE)
		 )`,
		start, end,
	).Scan(&total)
	if err != nil {
		return fmt.Errorf("aggregate month %s: %w", yearMonth, err)
	}

	breakdown := "{}"
	err = m.queryRow(ctx,
		`SELECT breakdown FROM cost_summary
		 WHERE timestamp >= ? AND timestamp < ?
		 ORDER BY timestamp DESC
		 LIMIT 1`,
		start, end,
	).Scan(&breakdown)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("latest breakdown for %s: %w", yearMonth, err)
	}

	_, err = m.exec(ctx,
		`INSERT INTO monthly_summary (year_month, total_monthly_cost, breakdown, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (year_month) DO UPDATE
		 SET total_monthly_cost = excluded.total_monthly_cost,
		     breakdown = excluded.breakdown`,
		yearMonth, total, breakdown, now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("update month %s: %w", yearMonth, err)
	}
	return nil
}

// GetMonth returns one month's summary, or nil when the month has no row.
func (m *monthlyStore) GetMonth(ctx context.Context, yearMonth string) (*domain.MonthlySummary, error) {
	row := m.queryRow(ctx,
		`SELECT year_month, total_monthly_cost, breakdown, created_at
		 FROM monthly_summary
		 WHERE year_month = ?`,
		yearMonth,
	)

	summary, err := scanMonth(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query month %s: %w", yearMonth, err)
	}
	return summary, nil
}

// ListMonths returns up to limit summaries, newest month first.
func (m *monthlyStore) ListMonths(ctx context.Context, limit int) ([]domain.MonthlySummary, error) {
	rows, err := m.query(ctx,
		`SELECT year_month, total_monthly_cost, breakdown, created_at
		 FROM monthly_summary
		 ORDER BY year_month DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query months: %w", err)
	}
	defer rows.Close()

	var months []domain.MonthlySummary
	for rows.Next() {
		summary, err := scanMonth(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		months = append(months, *summary)
	}
	return months, rows.Err()
}

func scanMonth(scan func(...any) error) (*domain.MonthlySummary, error) {
	var (
		summary   domain.MonthlySummary
		breakdown string
	)
	if err := scan(&summary.YearMonth, &summary.TotalMonthlyCost, &breakdown, &summary.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(breakdown), &summary.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return &summary, nil
}
