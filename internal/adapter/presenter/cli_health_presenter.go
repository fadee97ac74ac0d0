package presenter

import (
	"fmt"
	"io"

	"github.com/YoshitsuguKoike/pulse/internal/application/port/output"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
)

// CLIHealthPresenter prints one line per module followed by a summary
type CLIHealthPresenter struct {
	output io.Writer
}

// NewCLIHealthPresenter creates a new text presenter
func NewCLIHealthPresenter(output io.Writer) output.Presenter {
	return &CLIHealthPresenter{output: output}
}

// PresentReport presents a healthcheck report as text
func (p *CLIHealthPresenter) PresentReport(report *heartbeat.Report) error {
	unhealthy := 0
	for _, v := range report.Modules {
		status := "OK"
		if !v.Healthy {
			status = "STALE"
			unhealthy++
		}
		line := fmt.Sprintf("%-5s %s %s", status, shortKey(v.Key), v.Reason)
		if v.Reason == heartbeat.ReasonFresh || v.Reason == heartbeat.ReasonStale {
			line += fmt.Sprintf(" (%s)", v.Age)
		}
		if _, err := fmt.Fprintln(p.output, line); err != nil {
			return err
		}
	}
	for _, k := range report.Removed {
		if _, err := fmt.Fprintf(p.output, "GONE  %s observation removed\n", shortKey(k)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(p.output, "SUMMARY: modules=%d unhealthy=%d removed=%d\n",
		len(report.Modules), unhealthy, len(report.Removed))
	return err
}

// PresentError presents an error as text
func (p *CLIHealthPresenter) PresentError(err error) error {
	_, werr := fmt.Fprintf(p.output, "ERROR: %v\n", err)
	return werr
}

func shortKey(k heartbeat.ModuleKey) string {
	if len(k) > 12 {
		return string(k[:12])
	}
	return string(k)
}
