package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/pulse/internal/app"
	"github.com/YoshitsuguKoike/pulse/internal/app/config"
	"github.com/YoshitsuguKoike/pulse/internal/application/service"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
	infraConfig "github.com/YoshitsuguKoike/pulse/internal/infra/config"
	"github.com/YoshitsuguKoike/pulse/internal/infrastructure/repository"
)

// appFs is the filesystem used by all commands. Tests swap in a memory filesystem.
var appFs afero.Fs = afero.NewOsFs()

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

// ExitError carries a process exit status out of a command.
// Err is nil when the status itself is the whole result (e.g. unhealthy).
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// ReportError prints err unless it is a bare exit status
func ReportError(err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
}

type rootFlags struct {
	home     string
	dataDir  string
	logLevel string
}

func NewRoot() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pulse",
		Short:         "File-based liveness heartbeats and healthchecks for background jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(flags)
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&flags.home, "home", "", "pulse home directory (default $PULSE_HOME or the platform data dir)")
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "directory holding heartbeat records (default <home>/healthcheck)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "stderr log level: debug, info, warn, error")

	cmd.AddCommand(newHealthcheckCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newSignalCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newPipeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig resolves paths and settings before any command runs.
// Priority: flags > setting.json > setting.yaml > defaults
func loadConfig(flags *rootFlags) error {
	paths := app.ResolvePaths()
	if flags.home != "" {
		paths = app.PathsFor(flags.home)
	}

	cfg, err := infraConfig.LoadSettings(appFs, paths)
	if err != nil {
		return err
	}

	if flags.dataDir != "" || flags.logLevel != "" {
		dataDir := cfg.DataDir()
		if flags.dataDir != "" {
			dataDir = flags.dataDir
		}
		level := cfg.StderrLevel()
		if flags.logLevel != "" {
			if _, err := app.ParseLogLevel(flags.logLevel); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			level = flags.logLevel
		}
		cfg = config.NewAppConfig(
			cfg.Home(), dataDir, cfg.Module(),
			cfg.Interval(), cfg.StaleInterval(), cfg.SignalTimeout(),
			level,
			cfg.ConfigSource(), cfg.SettingPath(),
		)
	}

	globalConfig = cfg
	InitGlobalLogger(cfg.StderrLevel(), os.Stderr)
	GetLogger().Debug("config source=%s data_dir=%s", cfg.ConfigSource(), cfg.DataDir())
	return nil
}

func newRecordStore() *repository.FileRecordStore {
	return repository.NewFileRecordStore(appFs, globalConfig.DataDir())
}

// emitterFlags are shared by commands that emit heartbeats
type emitterFlags struct {
	module   string
	interval time.Duration
}

func (f *emitterFlags) register(cmd *cobra.Command, withInterval bool) {
	cmd.Flags().StringVar(&f.module, "module", "", "module name (default from settings)")
	if withInterval {
		cmd.Flags().DurationVar(&f.interval, "interval", 0, "minimum spacing between heartbeat writes (default from settings)")
	}
}

func (f *emitterFlags) newEmitter(cmd *cobra.Command) (*service.Emitter, error) {
	name := f.module
	if name == "" {
		name = globalConfig.Module()
	}
	module, err := heartbeat.NewModuleName(name)
	if err != nil {
		return nil, err
	}

	interval := globalConfig.Interval()
	if flag := cmd.Flags().Lookup("interval"); flag != nil && flag.Changed {
		interval = f.interval
	}

	return service.NewEmitter(newRecordStore(), module, interval, service.WithLogger(GetLogger()))
}
