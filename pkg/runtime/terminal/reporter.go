package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/costwatch/costwatch/pkg/models/domain"
)

// Reporter outputs monthly summaries to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(summary *domain.MonthlySummary) error {
	tmpl := `
Month: {{.YearMonth}}
Total Month-to-Date: USD {{printf "%.2f" .TotalMonthlyCost}}

{{range $category, $daily := .Breakdown}}{{$category}}: USD {{printf "%.2f" $daily}}/day
{{end}}`
	t, err := template.New("month").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary)
}
