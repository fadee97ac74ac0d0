package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/pulse/internal/app"
	"github.com/YoshitsuguKoike/pulse/internal/app/config"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
)

// Defaults applied when a setting is absent
const (
	DefaultIntervalMs      = 1000
	DefaultStaleIntervalMs = 10000
	DefaultSignalTimeoutMs = 0
	DefaultStderrLevel     = "warn"
)

// RawSettings represents the structure of setting.json / setting.yaml.
// Pointer fields distinguish "absent" from zero values.
type RawSettings struct {
	DataDir *string `json:"data_dir" yaml:"data_dir"`
	Module  *string `json:"module" yaml:"module"`

	IntervalMs      *float64 `json:"interval_ms" yaml:"interval_ms"`
	StaleIntervalMs *float64 `json:"stale_interval_ms" yaml:"stale_interval_ms"`
	SignalTimeoutMs *float64 `json:"signal_timeout_ms" yaml:"signal_timeout_ms"`

	StderrLevel *string `json:"stderr_level" yaml:"stderr_level"`
}

// LoadSettings loads configuration from the pulse home directory.
// Priority: setting.json > setting.yaml > defaults
func LoadSettings(fsys afero.Fs, paths app.Paths) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	settingPath := ""

	if data, err := afero.ReadFile(fsys, paths.SettingJSON); err == nil {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", paths.SettingJSON, err)
		}
		configSource = "json"
		settingPath = paths.SettingJSON
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", paths.SettingJSON, err)
	} else if data, err := afero.ReadFile(fsys, paths.SettingYAML); err == nil {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true) // Fail on unknown fields
		if err := dec.Decode(settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", paths.SettingYAML, err)
		}
		configSource = "yaml"
		settingPath = paths.SettingYAML
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", paths.SettingYAML, err)
	}

	applyDefaults(settings, paths)

	return buildAppConfig(settings, paths, configSource, settingPath)
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings, paths app.Paths) {
	if settings.DataDir == nil || *settings.DataDir == "" {
		v := paths.Data
		settings.DataDir = &v
	}
	if settings.Module == nil || *settings.Module == "" {
		v := heartbeat.DefaultModuleName().String()
		settings.Module = &v
	}
	if settings.IntervalMs == nil {
		v := float64(DefaultIntervalMs)
		settings.IntervalMs = &v
	}
	if settings.StaleIntervalMs == nil {
		v := float64(DefaultStaleIntervalMs)
		settings.StaleIntervalMs = &v
	}
	if settings.SignalTimeoutMs == nil {
		v := float64(DefaultSignalTimeoutMs)
		settings.SignalTimeoutMs = &v
	}
	if settings.StderrLevel == nil {
		v := DefaultStderrLevel
		settings.StderrLevel = &v
	}
}

// buildAppConfig converts RawSettings to AppConfig, validating intervals
func buildAppConfig(settings *RawSettings, paths app.Paths, configSource, settingPath string) (*config.AppConfig, error) {
	interval, err := millis("interval_ms", *settings.IntervalMs)
	if err != nil {
		return nil, err
	}
	stale, err := millis("stale_interval_ms", *settings.StaleIntervalMs)
	if err != nil {
		return nil, err
	}
	timeout, err := millis("signal_timeout_ms", *settings.SignalTimeoutMs)
	if err != nil {
		return nil, err
	}
	if _, err := app.ParseLogLevel(*settings.StderrLevel); err != nil {
		return nil, fmt.Errorf("stderr_level: %w", err)
	}

	return config.NewAppConfig(
		paths.Home,
		*settings.DataDir,
		*settings.Module,
		interval,
		stale,
		timeout,
		*settings.StderrLevel,
		configSource,
		settingPath,
	), nil
}

func millis(field string, v float64) (time.Duration, error) {
	d, err := heartbeat.IntervalFromMillis(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// CreateDefaultSettings creates a default setting.yaml content
func CreateDefaultSettings(paths app.Paths) []byte {
	settings := &RawSettings{}
	applyDefaults(settings, paths)

	data, _ := yaml.Marshal(settings)
	return data
}
