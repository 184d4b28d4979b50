package types

import "time"

// CaseStatus represents the outcome of a single test case.
type CaseStatus string

const (
	CaseStatusPassed        CaseStatus = "pass"
	CaseStatusFailed        CaseStatus = "fail"
	CaseStatusStartupFailed CaseStatus = "startup_failed"
)

// MaxReasonLength bounds the free-text reason attached to a case result.
const MaxReasonLength = 2000

// CaseResult is the per-case outcome recorded by the suite runner.
// It is created once per case and never mutated afterwards.
type CaseResult struct {
	Name            string
	Status          CaseStatus
	PointsAwarded   int
	PointsAvailable int
	Reason          string
	Duration        time.Duration
}

// Passed reports whether the case matched both golden transcripts.
func (r CaseResult) Passed() bool {
	return r.Status == CaseStatusPassed
}

// TruncateReason bounds a reason string to MaxReasonLength characters.
func TruncateReason(reason string) string {
	if len(reason) > MaxReasonLength {
		return reason[:MaxReasonLength]
	}
	return reason
}
