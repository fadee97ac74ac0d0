package heartbeat

import "time"

// Reason explains a module verdict
type Reason string

const (
	ReasonFirstObservation Reason = "first-observation"
	ReasonProgressed       Reason = "progressed"
	ReasonFresh            Reason = "fresh"
	ReasonStale            Reason = "stale"
)

// Verdict is the health of a single module as seen by one healthcheck run
type Verdict struct {
	Key     ModuleKey     `json:"key"`
	Healthy bool          `json:"healthy"`
	Reason  Reason        `json:"reason"`
	Age     time.Duration `json:"age"`
}

// Report aggregates the verdicts of one healthcheck run
type Report struct {
	CheckedAt time.Time   `json:"checked_at"`
	Modules   []Verdict   `json:"modules"`
	Removed   []ModuleKey `json:"removed,omitempty"`
}

// Healthy is the logical AND of all module verdicts. An empty report is healthy.
func (r *Report) Healthy() bool {
	for _, v := range r.Modules {
		if !v.Healthy {
			return false
		}
	}
	return true
}

// ExitCode maps the report to a process exit status: 0 healthy, 1 unhealthy
func (r *Report) ExitCode() int {
	if r.Healthy() {
		return 0
	}
	return 1
}
