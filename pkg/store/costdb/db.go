// Package costdb owns the embedded DuckDB database: schema bootstrap and
// the transaction plumbing shared by the snapshot and monthly stores.
package costdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const CostRecordsSchema = `
	CREATE TABLE IF NOT EXISTS cost_records (
		timestamp TIMESTAMP NOT NULL,
		category VARCHAR NOT NULL,
		kind VARCHAR NOT NULL,
		resource_id VARCHAR NOT NULL,
		region VARCHAR NOT NULL,
		hourly_cost DOUBLE NOT NULL,
		daily_cost DOUBLE NOT NULL,
		attributes JSON
	);
`

const CostSummarySchema = `
	CREATE TABLE IF NOT EXISTS cost_summary (
		timestamp TIMESTAMP NOT NULL,
		total_hourly_cost DOUBLE NOT NULL,
		total_daily_cost DOUBLE NOT NULL,
		breakdown JSON
	);
`

const FunctionRecordsSchema = `
	CREATE TABLE IF NOT EXISTS function_records (
		timestamp TIMESTAMP NOT NULL,
		resource_id VARCHAR NOT NULL,
		region VARCHAR NOT NULL,
		hourly_cost DOUBLE NOT NULL,
		daily_cost DOUBLE NOT NULL,
		attributes JSON,
		PRIMARY KEY (timestamp, resource_id, region)
	);
`

const MonthlySummarySchema = `
	CREATE TABLE IF NOT EXISTS monthly_summary (
		year_month VARCHAR NOT NULL UNIQUE,
		total_monthly_cost DOUBLE NOT NULL,
		breakdown JSON,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

var bootQueries = []string{
	CostRecordsSchema,
	CostSummarySchema,
	FunctionRecordsSchema,
	MonthlySummarySchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
