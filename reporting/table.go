package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/types"
)

const reasonColumnWidth = 80

// Table renders the report as a bordered results table: one row per case
// plus a totals footer.
func (r *Report) Table(title string) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%s)", title, formatDuration(r.Duration())))

	t.AppendHeader(table.Row{"Test Case", "Status", "Points Awarded", "Reason"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Points Awarded", Align: text.AlignRight},
		{Name: "Reason", WidthMax: reasonColumnWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, res := range r.results {
		t.AppendRow(table.Row{
			res.Name,
			statusString(res.Status),
			res.PointsAwarded,
			firstLine(res.Reason),
		})
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		r.pointsAwarded,
		fmt.Sprintf("/ %d", r.pointsAvailable),
	})

	if r.AllPassed() {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	return t.Render()
}

// statusString returns a compact marker for a case status.
func statusString(status types.CaseStatus) string {
	switch status {
	case types.CaseStatusPassed:
		return "✓ pass"
	case types.CaseStatusStartupFailed:
		return "✗ failed to start"
	default:
		return "✗ fail"
	}
}

// firstLine keeps table rows readable; the full reason lives in the CSV.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
