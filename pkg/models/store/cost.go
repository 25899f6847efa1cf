package store

import "time"

// CostRecord is one persisted resource-level row. Category carries the
// report bucket (kind or traffic) while Kind keeps the resource's own kind.
type CostRecord struct {
	Timestamp  time.Time
	Category   string
	Kind       string
	ResourceID string
	Region     string
	HourlyCost float64
	DailyCost  float64
	Attributes map[string]string
}

// CostSummary is one persisted per-scan summary row.
type CostSummary struct {
	Timestamp       time.Time
	TotalHourlyCost float64
	TotalDailyCost  float64
	Breakdown       map[string]float64
}

// FunctionRecord is a serverless-function row; kept apart from CostRecord
// rows and upserted by (timestamp, resource_id, region).
type FunctionRecord struct {
	Timestamp  time.Time
	ResourceID string
	Region     string
	HourlyCost float64
	DailyCost  float64
	Attributes map[string]string
}

// MonthlySummary is one row per calendar month, unique on YearMonth.
type MonthlySummary struct {
	YearMonth        string
	TotalMonthlyCost float64
	Breakdown        map[string]float64
	CreatedAt        time.Time
}
