package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"golang.org/x/exp/maps"
)

type TableConfig struct {
	KindWidth     int
	ResourceWidth int
	RegionWidth   int
	HourlyWidth   int
	DailyWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KindWidth:     16,
		ResourceWidth: 48,
		RegionWidth:   16,
		HourlyWidth:   12,
		DailyWidth:    12,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type snapshotReport struct {
	Snapshot  *domain.Snapshot
	Breakdown []breakdownRow
	Resources []domain.ResourceRecord
}

type breakdownRow struct {
	Category  string
	DailyCost float64
}

func (c *Reporter) Handle(snapshot *domain.Snapshot, records []domain.ResourceRecord) error {
	funcMap := template.FuncMap{
		"formatRow": func(kind, resource, region string, hourly, daily interface{}) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %*v | %*v |",
				c.config.KindWidth, kind,
				c.config.ResourceWidth, resource,
				c.config.RegionWidth, region,
				c.config.HourlyWidth, hourly,
				c.config.DailyWidth, daily)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.KindWidth+2),
				strings.Repeat("-", c.config.ResourceWidth+2),
				strings.Repeat("-", c.config.RegionWidth+2),
				strings.Repeat("-", c.config.HourlyWidth+2),
				strings.Repeat("-", c.config.DailyWidth+2))
		},
		"usd": func(v float64) string {
			return fmt.Sprintf("%.4f", v)
		},
	}

	tmpl := `
Cost Snapshot {{.Snapshot.Timestamp.Format "2006-01-02 15:04:05 MST"}}

Total Hourly Cost: USD {{printf "%.4f" .Snapshot.TotalHourlyCost}}
Total Daily Cost:  USD {{printf "%.2f" .Snapshot.TotalDailyCost}}

=== Breakdown ===
{{range .Breakdown}}{{.Category}}: USD {{printf "%.2f" .DailyCost}}/day
{{end}}
{{separator}}
{{formatRow "Kind" "Resource" "Region" "Hourly" "Daily"}}
{{separator}}
{{range .Resources}}{{formatRow (printf "%s" .Kind) .ResourceID .Region (usd .HourlyCost) (usd .DailyCost)}}
{{end}}{{separator}}
`

	t, err := template.New("snapshot").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	report := snapshotReport{
		Snapshot:  snapshot,
		Resources: records,
	}
	categories := maps.Keys(snapshot.Breakdown)
	sort.Slice(categories, func(i, j int) bool {
		return snapshot.Breakdown[categories[i]] > snapshot.Breakdown[categories[j]]
	})
	for _, category := range categories {
		report.Breakdown = append(report.Breakdown, breakdownRow{
			Category:  category,
			DailyCost: snapshot.Breakdown[category],
		})
	}

	return t.Execute(c.writer, report)
}
