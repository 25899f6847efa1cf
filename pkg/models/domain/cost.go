package domain

import "time"

// ResourceRecord is one discovered, priced resource from a single scan.
// Records are immutable once built; the next scan supersedes them with new
// records under a new snapshot timestamp.
type ResourceRecord struct {
	Kind       Kind
	ResourceID string
	Region     string
	HourlyCost float64
	// DailyCost is hourly x 24 by convention for hour-billed kinds; storage
	// kinds derive it from the monthly rate instead.
	DailyCost  float64
	Attributes map[string]string
}

// ReportCategory returns the bucket this record is reported under in
// snapshot breakdowns. Network-transfer billed kinds collapse into the
// synthetic traffic bucket; so do compute records flagged as
// data-transfer-out charges.
func (r ResourceRecord) ReportCategory() string {
	if trafficKinds[r.Kind] {
		return TrafficCategory
	}
	if r.Kind == KindCompute && r.Attributes[AttrTrafficType] == TrafficTypeDataOut {
		return TrafficCategory
	}
	return string(r.Kind)
}

// Snapshot is one completed scan's point-in-time cost summary.
type Snapshot struct {
	Timestamp       time.Time
	TotalHourlyCost float64
	TotalDailyCost  float64
	// Breakdown maps report category (kind or the traffic bucket) to the
	// summed daily cost of that category's records.
	Breakdown map[string]float64
}

// CostPoint is one entry of a cost history query, recomputed from the
// resource-level rows of its timestamp.
type CostPoint struct {
	Timestamp       time.Time
	TotalHourlyCost float64
	TotalDailyCost  float64
}

// MonthlySummary is the rolling month-to-date total for one calendar month.
type MonthlySummary struct {
	YearMonth        string
	TotalMonthlyCost float64
	Breakdown        map[string]float64
	CreatedAt        time.Time
}
