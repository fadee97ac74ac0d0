package presenter

import (
	"encoding/json"
	"io"

	"github.com/YoshitsuguKoike/pulse/internal/application/port/output"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
)

// JSONPresenter implements output.Presenter for JSON output
// Formats all output as JSON for programmatic consumption
type JSONPresenter struct {
	output io.Writer
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter(output io.Writer) output.Presenter {
	return &JSONPresenter{output: output}
}

type moduleView struct {
	Key     string `json:"key"`
	Healthy bool   `json:"healthy"`
	Reason  string `json:"reason"`
	AgeMs   int64  `json:"age_ms"`
}

// PresentReport presents a healthcheck report as JSON
func (p *JSONPresenter) PresentReport(report *heartbeat.Report) error {
	modules := make([]moduleView, 0, len(report.Modules))
	for _, v := range report.Modules {
		modules = append(modules, moduleView{
			Key:     string(v.Key),
			Healthy: v.Healthy,
			Reason:  string(v.Reason),
			AgeMs:   v.Age.Milliseconds(),
		})
	}
	removed := make([]string, 0, len(report.Removed))
	for _, k := range report.Removed {
		removed = append(removed, string(k))
	}

	result := map[string]interface{}{
		"healthy":    report.Healthy(),
		"checked_at": report.CheckedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"modules":    modules,
		"removed":    removed,
	}
	enc := json.NewEncoder(p.output)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// PresentError presents an error as JSON
func (p *JSONPresenter) PresentError(err error) error {
	result := map[string]interface{}{
		"healthy": false,
		"error":   err.Error(),
	}
	return json.NewEncoder(p.output).Encode(result)
}
