package api

import "time"

type Resource struct {
	Kind       string            `json:"kind"`
	ResourceID string            `json:"resource_id"`
	Region     string            `json:"region"`
	HourlyCost float64           `json:"hourly_cost"`
	DailyCost  float64           `json:"daily_cost"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type CurrentCost struct {
	Timestamp       time.Time          `json:"timestamp"`
	TotalHourlyCost float64            `json:"total_hourly_cost"`
	TotalDailyCost  float64            `json:"total_daily_cost"`
	Breakdown       map[string]float64 `json:"service_breakdown"`
	Resources       []Resource         `json:"resources"`
}

type CostPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	TotalHourlyCost float64   `json:"total_hourly_cost"`
	TotalDailyCost  float64   `json:"total_daily_cost"`
}

type MonthlySummary struct {
	YearMonth        string             `json:"year_month"`
	TotalMonthlyCost float64            `json:"total_monthly_cost"`
	Breakdown        map[string]float64 `json:"service_breakdown"`
	DaysInMonth      int                `json:"days_in_month,omitempty"`
}

type ScanStatus struct {
	State         string    `json:"state"`
	RunID         string    `json:"run_id,omitempty"`
	Progress      int       `json:"progress"`
	StartedAt     time.Time `json:"started_at,omitzero"`
	FinishedAt    time.Time `json:"finished_at,omitzero"`
	ResourceCount int       `json:"resource_count"`
	Error         string    `json:"error,omitempty"`
}

type ScanTrigger struct {
	OK    bool   `json:"ok"`
	RunID string `json:"run_id,omitempty"`
	Error string `json:"error,omitempty"`
}
