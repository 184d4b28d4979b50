package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// CSVFilename names the report artifact for a run, stamped the way the
// recorder stamps its artifacts.
func CSVFilename(t time.Time) string {
	return fmt.Sprintf("test_results_%s.csv", t.Format("20060102_150405"))
}

// CSV renders the report as a spreadsheet-importable artifact: a header,
// one row per case with the full (bounded) reason text, and a totals row.
func (r *Report) CSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Test Case", "Status", "Points Awarded", "Reason"}); err != nil {
		return "", err
	}
	for _, res := range r.results {
		record := []string{
			res.Name,
			statusString(res.Status),
			strconv.Itoa(res.PointsAwarded),
			res.Reason,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	totals := []string{"Total", "", strconv.Itoa(r.pointsAwarded), fmt.Sprintf("/ %d", r.pointsAvailable)}
	if err := w.Write(totals); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
