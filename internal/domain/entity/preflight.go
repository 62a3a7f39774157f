package entity

import "time"

// CheckStatus is the outcome of a single preflight check.
type CheckStatus string

const (
	CheckOK      CheckStatus = "ok"
	CheckWarning CheckStatus = "warning"
	CheckFailed  CheckStatus = "failed"
	CheckSkipped CheckStatus = "skipped"
)

// CheckResult is the result of one preflight check against one network or service.
type CheckResult struct {
	Network   string        `json:"network,omitempty" yaml:"network,omitempty"`
	Check     string        `json:"check" yaml:"check"`
	Status    CheckStatus   `json:"status" yaml:"status"`
	Message   string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration  time.Duration `json:"durationNs" yaml:"durationNs"`
	FromCache bool          `json:"fromCache,omitempty" yaml:"fromCache,omitempty"`
}

// PreflightReport collects the results of a preflight run.
type PreflightReport struct {
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Results   []CheckResult `json:"results" yaml:"results"`
}

// Failed reports whether any check failed.
func (r PreflightReport) Failed() bool {
	for _, res := range r.Results {
		if res.Status == CheckFailed {
			return true
		}
	}
	return false
}

// Count returns the number of results with the given status.
func (r PreflightReport) Count(status CheckStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
