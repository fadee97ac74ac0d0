package config

import "time"

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (JSON, YAML, defaults)
// and ensures the app layer doesn't depend on infrastructure details.
type Config interface {
	Home() string    // pulse home directory (PULSE_HOME)
	DataDir() string // directory holding heartbeat and observation records
	Module() string  // module name used by signal/stop/run/pipe

	Interval() time.Duration      // debounce window between heartbeat writes
	StaleInterval() time.Duration // max age of an unchanged token before unhealthy
	SignalTimeout() time.Duration // bound on heartbeat emission in run (0 = unbounded)
	StderrLevel() string          // stderr log level

	// Metadata
	ConfigSource() string // Source of configuration: "json", "yaml" or "default"
	SettingPath() string  // Path to the settings file if one was loaded
}

// AppConfig is the concrete implementation of Config interface.
type AppConfig struct {
	home    string
	dataDir string
	module  string

	interval      time.Duration
	staleInterval time.Duration
	signalTimeout time.Duration
	stderrLevel   string

	configSource string
	settingPath  string
}

// NewAppConfig creates a new AppConfig with all values
func NewAppConfig(
	home, dataDir, module string,
	interval, staleInterval, signalTimeout time.Duration,
	stderrLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:          home,
		dataDir:       dataDir,
		module:        module,
		interval:      interval,
		staleInterval: staleInterval,
		signalTimeout: signalTimeout,
		stderrLevel:   stderrLevel,
		configSource:  configSource,
		settingPath:   settingPath,
	}
}

// Home returns the pulse home directory
func (c *AppConfig) Home() string {
	return c.home
}

// DataDir returns the record directory
func (c *AppConfig) DataDir() string {
	return c.dataDir
}

// Module returns the configured module name
func (c *AppConfig) Module() string {
	return c.module
}

// Interval returns the heartbeat debounce window
func (c *AppConfig) Interval() time.Duration {
	return c.interval
}

// StaleInterval returns the staleness threshold used by the healthcheck
func (c *AppConfig) StaleInterval() time.Duration {
	return c.staleInterval
}

// SignalTimeout returns how long heartbeats continue around a long operation
func (c *AppConfig) SignalTimeout() time.Duration {
	return c.signalTimeout
}

// StderrLevel returns the stderr log level
func (c *AppConfig) StderrLevel() string {
	return c.stderrLevel
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path of the loaded settings file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}
