package heartbeat

import "time"

// Record is the persisted liveness evidence of one module
type Record struct {
	Token string `json:"token"`
}

// Observation is the aggregator's memory of the last token it saw for a module
type Observation struct {
	LastSeenToken  string `json:"lastSeenToken"`
	ObservedAtTime int64  `json:"observedAtTime"` // unix milliseconds, checker clock
}

// NewObservation creates an observation of token at the given time
func NewObservation(token string, at time.Time) Observation {
	return Observation{
		LastSeenToken:  token,
		ObservedAtTime: at.UnixMilli(),
	}
}

// ObservedAt returns the observation time
func (o Observation) ObservedAt() time.Time {
	return time.UnixMilli(o.ObservedAtTime)
}

// Age returns how long ago the observation was made relative to now
func (o Observation) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-o.ObservedAtTime) * time.Millisecond
}
