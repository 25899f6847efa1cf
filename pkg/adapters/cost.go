package adapters

import (
	"maps"

	"github.com/costwatch/costwatch/pkg/models/api"
	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/models/store"
)

func MapResourceRecordDomainToStore(r domain.ResourceRecord) store.CostRecord {
	return store.CostRecord{
		Category:   r.ReportCategory(),
		Kind:       string(r.Kind),
		ResourceID: r.ResourceID,
		Region:     r.Region,
		HourlyCost: r.HourlyCost,
		DailyCost:  r.DailyCost,
		Attributes: maps.Clone(r.Attributes),
	}
}

func MapResourceRecordDomainToFunctionStore(r domain.ResourceRecord) store.FunctionRecord {
	return store.FunctionRecord{
		ResourceID: r.ResourceID,
		Region:     r.Region,
		HourlyCost: r.HourlyCost,
		DailyCost:  r.DailyCost,
		Attributes: maps.Clone(r.Attributes),
	}
}

func MapCostRecordStoreToDomain(r store.CostRecord) domain.ResourceRecord {
	kind, _ := domain.ParseKind(r.Kind)
	return domain.ResourceRecord{
		Kind:       kind,
		ResourceID: r.ResourceID,
		Region:     r.Region,
		HourlyCost: r.HourlyCost,
		DailyCost:  r.DailyCost,
		Attributes: maps.Clone(r.Attributes),
	}
}

func MapResourceRecordDomainToApi(r domain.ResourceRecord) api.Resource {
	return api.Resource{
		Kind:       string(r.Kind),
		ResourceID: r.ResourceID,
		Region:     r.Region,
		HourlyCost: r.HourlyCost,
		DailyCost:  r.DailyCost,
		Attributes: r.Attributes,
	}
}

func MapSnapshotDomainToApi(s domain.Snapshot, resources []domain.ResourceRecord) api.CurrentCost {
	out := api.CurrentCost{
		Timestamp:       s.Timestamp,
		TotalHourlyCost: s.TotalHourlyCost,
		TotalDailyCost:  s.TotalDailyCost,
		Breakdown:       s.Breakdown,
		Resources:       make([]api.Resource, 0, len(resources)),
	}
	for _, r := range resources {
		out.Resources = append(out.Resources, MapResourceRecordDomainToApi(r))
	}
	return out
}

func MapCostPointDomainToApi(p domain.CostPoint) api.CostPoint {
	return api.CostPoint{
		Timestamp:       p.Timestamp,
		TotalHourlyCost: p.TotalHourlyCost,
		TotalDailyCost:  p.TotalDailyCost,
	}
}

func MapMonthlySummaryDomainToApi(m domain.MonthlySummary) api.MonthlySummary {
	return api.MonthlySummary{
		YearMonth:        m.YearMonth,
		TotalMonthlyCost: m.TotalMonthlyCost,
		Breakdown:        m.Breakdown,
	}
}

func MapScanStatusDomainToApi(s domain.ScanStatus) api.ScanStatus {
	return api.ScanStatus{
		State:         string(s.State),
		RunID:         s.RunID,
		Progress:      s.Progress,
		StartedAt:     s.StartedAt,
		FinishedAt:    s.FinishedAt,
		ResourceCount: s.ResourceCount,
		Error:         s.Error,
	}
}
