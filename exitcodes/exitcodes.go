// Package exitcodes defines the process exit codes used by autograde.
package exitcodes

const (
	// Success means every test case passed.
	Success = 0
	// GradingFailed means the suite ran but at least one case failed.
	GradingFailed = 1
	// RuntimeErr means grading could not run at all (bad config, missing
	// artifacts, no test cases).
	RuntimeErr = 2
)
