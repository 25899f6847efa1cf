// Package snapshot persists scan results: resource-level rows, the per-scan
// summary row and the separate function rows.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/costwatch/costwatch/pkg/adapters"
	"github.com/costwatch/costwatch/pkg/models/domain"
)

type Store interface {
	Save(ctx context.Context, records []domain.ResourceRecord, ts time.Time) (domain.Snapshot, error)
	GetLatestSummary(ctx context.Context) (*domain.Snapshot, error)
	GetCostHistory(ctx context.Context, windowHours int) ([]domain.CostPoint, error)
	GetResources(ctx context.Context, ts time.Time) ([]domain.ResourceRecord, error)
	GetKindResources(ctx context.Context, ts time.Time, kind domain.Kind) ([]domain.ResourceRecord, error)
}

type snapshotStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &snapshotStore{db: db}, nil
}

// Save writes one scan's records and summary in a single transaction.
// Function-kind records go to their own upserted table and never count
// toward the snapshot totals or breakdown; every other record lands in
// cost_records with its report category applied.
func (s *snapshotStore) Save(ctx context.Context, records []domain.ResourceRecord, ts time.Time) (domain.Snapshot, error) {
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	snapshot := domain.Snapshot{
		Timestamp: ts,
		Breakdown: make(map[string]float64),
	}

	for _, record := range records {
		if record.Kind == domain.KindFunction {
			if err := insertFunction(ctx, tx, record, ts); err != nil {
				return domain.Snapshot{}, err
			}
			continue
		}

		if err := insertRecord(ctx, tx, record, ts); err != nil {
			return domain.Snapshot{}, err
		}
		snapshot.TotalHourlyCost += record.HourlyCost
		snapshot.TotalDailyCost += record.DailyCost
		snapshot.Breakdown[record.ReportCategory()] += record.DailyCost
	}

	breakdown, err := json.Marshal(snapshot.Breakdown)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("marshal breakdown: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO cost_summary (timestamp, total_hourly_cost, total_daily_cost, breakdown)
		 VALUES (?, ?, ?, ?)`,
		ts, snapshot.TotalHourlyCost, snapshot.TotalDailyCost, string(breakdown),
	)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("insert summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}
	return snapshot, nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, record domain.ResourceRecord, ts time.Time) error {
	row := adapters.MapResourceRecordDomainToStore(record)
	attributes, err := json.Marshal(row.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cost_records (timestamp, category, kind, resource_id, region, hourly_cost, daily_cost, attributes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts, row.Category, row.Kind, row.ResourceID, row.Region, row.HourlyCost, row.DailyCost, string(attributes),
	)
	if err != nil {
		return fmt.Errorf("insert cost record %s: %w", row.ResourceID, err)
	}
	return nil
}

func insertFunction(ctx context.Context, tx *sql.Tx, record domain.ResourceRecord, ts time.Time) error {
	row := adapters.MapResourceRecordDomainToFunctionStore(record)
	attributes, err := json.Marshal(row.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO function_records (timestamp, resource_id, region, hourly_cost, daily_cost, attributes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ts, row.ResourceID, row.Region, row.HourlyCost, row.DailyCost, string(attributes),
	)
	if err != nil {
		return fmt.Errorf("upsert function record %s: %w", row.ResourceID, err)
	}
	return nil
}

// GetLatestSummary returns the most recent snapshot summary, or nil when
// nothing has been scanned yet.
func (s *snapshotStore) GetLatestSummary(ctx context.Context) (*domain.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT timestamp, total_hourly_cost, total_daily_cost, breakdown
		 FROM cost_summary
		 ORDER BY timestamp DESC
		 LIMIT 1`,
	)

	var (
		snapshot  domain.Snapshot
		breakdown string
	)
	err := row.Scan(&snapshot.Timestamp, &snapshot.TotalHourlyCost, &snapshot.TotalDailyCost, &breakdown)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest summary: %w", err)
	}
	if err := json.Unmarshal([]byte(breakdown), &snapshot.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return &snapshot, nil
}

// GetCostHistory returns one point per snapshot in the window, newest last.
// Totals are recomputed from the resource-level rows rather than read from
// the summary, so a snapshot whose scan found nothing reports zero.
func (s *snapshotStore) GetCostHistory(ctx context.Context, windowHours int) ([]domain.CostPoint, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.timestamp,
		        COALESCE(SUM(r.hourly_cost), 0) AS hourly,
		        COALESCE(SUM(r.daily_cost), 0) AS daily
		 FROM cost_summary s
		 LEFT JOIN cost_records r ON r.timestamp = s.timestamp
		 WHERE s.timestamp >= ?
		 GROUP BY s.timestamp
		 ORDER BY s.timestamp`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("query cost history: %w", err)
	}
	defer rows.Close()

	var points []domain.CostPoint
	for rows.Next() {
		var p domain.CostPoint
		if err := rows.Scan(&p.Timestamp, &p.TotalHourlyCost, &p.TotalDailyCost); err != nil {
			return nil, fmt.Errorf("scan cost point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetResources returns the non-function records of one snapshot.
func (s *snapshotStore) GetResources(ctx context.Context, ts time.Time) ([]domain.ResourceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, resource_id, region, hourly_cost, daily_cost, attributes
		 FROM cost_records
		 WHERE timestamp = ?
		 ORDER BY daily_cost DESC`,
		ts,
	)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	return scanResourceRows(rows)
}

// GetKindResources returns one snapshot's records of a single kind, reading
// the function table when asked for functions.
func (s *snapshotStore) GetKindResources(ctx context.Context, ts time.Time, kind domain.Kind) ([]domain.ResourceRecord, error) {
	if kind == domain.KindFunction {
		return s.functionResources(ctx, ts)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, resource_id, region, hourly_cost, daily_cost, attributes
		 FROM cost_records
		 WHERE timestamp = ? AND kind = ?
		 ORDER BY daily_cost DESC`,
		ts, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s resources: %w", kind, err)
	}
	defer rows.Close()

	return scanResourceRows(rows)
}

func (s *snapshotStore) functionResources(ctx context.Context, ts time.Time) ([]domain.ResourceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource_id, region, hourly_cost, daily_cost, attributes
		 FROM function_records
		 WHERE timestamp = ?
		 ORDER BY daily_cost DESC`,
		ts,
	)
	if err != nil {
		return nil, fmt.Errorf("query function resources: %w", err)
	}
	defer rows.Close()

	var records []domain.ResourceRecord
	for rows.Next() {
		var (
			record     domain.ResourceRecord
			attributes sql.NullString
		)
		record.Kind = domain.KindFunction
		if err := rows.Scan(&record.ResourceID, &record.Region, &record.HourlyCost, &record.DailyCost, &attributes); err != nil {
			return nil, fmt.Errorf("scan function record: %w", err)
		}
		if attributes.Valid {
			if err := json.Unmarshal([]byte(attributes.String), &record.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshal attributes: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanResourceRows(rows *sql.Rows) ([]domain.ResourceRecord, error) {
	var records []domain.ResourceRecord
	for rows.Next() {
		var (
			kind       string
			record     domain.ResourceRecord
			attributes sql.NullString
		)
		if err := rows.Scan(&kind, &record.ResourceID, &record.Region, &record.HourlyCost, &record.DailyCost, &attributes); err != nil {
			return nil, fmt.Errorf("scan cost record: %w", err)
		}
		record.Kind, _ = domain.ParseKind(kind)
		if attributes.Valid {
			if err := json.Unmarshal([]byte(attributes.String), &record.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshal attributes: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
