package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/pulse/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/pulse/internal/application/port/output"
	"github.com/YoshitsuguKoike/pulse/internal/application/service"
)

func staleIntervalFlag(cmd *cobra.Command, value time.Duration) time.Duration {
	if flag := cmd.Flags().Lookup("stale-interval"); flag != nil && flag.Changed {
		return value
	}
	return globalConfig.StaleInterval()
}

func newHealthcheckCmd() *cobra.Command {
	var stale time.Duration

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Exit 0 when every module signaled recently, 1 otherwise",
		Long: `Compare every module's latest heartbeat token against the one seen by the
previous healthcheck. Intended as a container HEALTHCHECK command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := service.NewHealthcheckService(newRecordStore(), GetLogger())
			code, err := svc.Healthcheck(cmd.Context(), staleIntervalFlag(cmd, stale))
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&stale, "stale-interval", service.DefaultStaleInterval, "maximum age of an unchanged heartbeat")
	return cmd
}

func newStatusCmd() *cobra.Command {
	var stale time.Duration
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Run a healthcheck and print the verdict of every module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p output.Presenter
			if format == "json" {
				p = presenter.NewJSONPresenter(cmd.OutOrStdout())
			} else {
				p = presenter.NewCLIHealthPresenter(cmd.OutOrStdout())
			}

			svc := service.NewHealthcheckService(newRecordStore(), GetLogger())
			report, err := svc.Check(cmd.Context(), staleIntervalFlag(cmd, stale))
			if err != nil {
				// text errors go to stderr through ReportError
				if format == "json" {
					if perr := p.PresentError(err); perr != nil {
						GetLogger().Warn("write error report: %v", perr)
					}
				}
				return &ExitError{Code: 1, Err: err}
			}
			if err := p.PresentReport(report); err != nil {
				return err
			}
			if code := report.ExitCode(); code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&stale, "stale-interval", service.DefaultStaleInterval, "maximum age of an unchanged heartbeat")
	cmd.Flags().StringVar(&format, "format", "", "Output format (json for CI integration)")
	return cmd
}
