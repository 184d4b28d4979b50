// Package reporting accumulates per-case results into a suite report and
// renders it as a terminal table and a CSV artifact.
package reporting

import (
	"fmt"
	"time"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/types"
)

// Report is the ordered record of one suite run. Results are appended as
// cases complete and never mutated afterwards.
type Report struct {
	runID   string
	results []types.CaseResult

	pointsAwarded   int
	pointsAvailable int

	startTime time.Time
	endTime   time.Time
}

// NewReport starts an empty report for the given run.
func NewReport(runID string) *Report {
	return &Report{
		runID:     runID,
		startTime: time.Now(),
	}
}

// Add appends one case result and updates the point totals. Awarded
// points can never exceed available points: a case only contributes its
// full value when it passed.
func (r *Report) Add(result types.CaseResult) {
	r.results = append(r.results, result)
	r.pointsAvailable += result.PointsAvailable
	r.pointsAwarded += result.PointsAwarded
}

// Finish stamps the report's end time.
func (r *Report) Finish() {
	r.endTime = time.Now()
}

// RunID returns the run this report belongs to.
func (r *Report) RunID() string { return r.runID }

// Results returns the per-case outcomes in execution order.
func (r *Report) Results() []types.CaseResult { return r.results }

// PointsAwarded returns the total points earned across the run.
func (r *Report) PointsAwarded() int { return r.pointsAwarded }

// PointsAvailable returns the total points attainable across the run.
func (r *Report) PointsAvailable() int { return r.pointsAvailable }

// Duration returns the wall-clock length of the run.
func (r *Report) Duration() time.Duration {
	end := r.endTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(r.startTime)
}

// AllPassed reports whether every recorded case passed.
func (r *Report) AllPassed() bool {
	for _, res := range r.results {
		if !res.Passed() {
			return false
		}
	}
	return len(r.results) > 0
}

// String renders the one-line terminal summary.
func (r *Report) String() string {
	return fmt.Sprintf("Total points: %d / %d (%d/%d cases passed)",
		r.pointsAwarded, r.pointsAvailable, r.passedCount(), len(r.results))
}

func (r *Report) passedCount() int {
	n := 0
	for _, res := range r.results {
		if res.Passed() {
			n++
		}
	}
	return n
}
