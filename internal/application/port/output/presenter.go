package output

import "github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"

// Presenter defines the interface for presenting output to users
// Different implementations can format output for CLI, JSON, or other formats
type Presenter interface {
	// PresentReport presents the verdicts of one healthcheck run
	PresentReport(report *heartbeat.Report) error

	// PresentError presents an error
	PresentError(err error) error
}
