package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/pulse/internal/app"
	"github.com/YoshitsuguKoike/pulse/internal/domain/model/heartbeat"
)

const testHome = "/pulse"

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := appFs
	appFs = afero.NewMemMapFs()
	t.Cleanup(func() { appFs = prev })
	return appFs
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--home", testHome, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func moduleKey(t *testing.T, name string) heartbeat.ModuleKey {
	t.Helper()
	m, err := heartbeat.NewModuleName(name)
	require.NoError(t, err)
	return m.Key()
}

func dataPath(key string) string {
	return app.PathsFor(testHome).Data + "/" + key
}

func TestHealthcheckCmd_NoModules(t *testing.T) {
	useMemFs(t)

	_, err := execute(t, "", "healthcheck")
	assert.NoError(t, err)
	assert.Equal(t, 0, ExitCode(err))
}

func TestHealthcheckCmd_SignalThenCheck(t *testing.T) {
	fs := useMemFs(t)

	_, err := execute(t, "", "signal", "--module", "etl")
	require.NoError(t, err)

	exists, err := afero.Exists(fs, dataPath(moduleKey(t, "etl").HeartbeatKey()))
	require.NoError(t, err)
	require.True(t, exists)

	_, err = execute(t, "", "healthcheck")
	assert.NoError(t, err, "first observation is healthy")

	// unchanged token with a zero stale interval is immediately stale
	_, err = execute(t, "", "healthcheck", "--stale-interval", "0s")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))

	// a new heartbeat makes the module healthy again
	_, err = execute(t, "", "signal", "--module", "etl")
	require.NoError(t, err)
	_, err = execute(t, "", "healthcheck", "--stale-interval", "0s")
	assert.NoError(t, err)
}

func TestStopCmd_RemovesModule(t *testing.T) {
	fs := useMemFs(t)
	key := moduleKey(t, "etl")

	_, err := execute(t, "", "signal", "--module", "etl")
	require.NoError(t, err)
	_, err = execute(t, "", "healthcheck")
	require.NoError(t, err)

	_, err = execute(t, "", "stop", "--module", "etl")
	require.NoError(t, err)

	_, err = execute(t, "", "healthcheck", "--stale-interval", "0s")
	assert.NoError(t, err, "stopped modules do not count")

	exists, _ := afero.Exists(fs, dataPath(key.ObservationKey()))
	assert.False(t, exists, "orphaned observation should be removed")
}

func TestStatusCmd_JSON(t *testing.T) {
	useMemFs(t)

	_, err := execute(t, "", "signal", "--module", "a")
	require.NoError(t, err)
	_, err = execute(t, "", "signal", "--module", "b")
	require.NoError(t, err)

	out, err := execute(t, "", "status", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Healthy bool `json:"healthy"`
		Modules []struct {
			Key    string `json:"key"`
			Reason string `json:"reason"`
		} `json:"modules"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Healthy)
	require.Len(t, result.Modules, 2)
	for _, m := range result.Modules {
		assert.Equal(t, string(heartbeat.ReasonFirstObservation), m.Reason)
	}
}

func TestStatusCmd_TextUnhealthy(t *testing.T) {
	useMemFs(t)

	_, err := execute(t, "", "signal", "--module", "a")
	require.NoError(t, err)
	_, err = execute(t, "", "status")
	require.NoError(t, err)

	out, err := execute(t, "", "status", "--stale-interval", "0s")
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, out, "STALE")
	assert.Contains(t, out, "SUMMARY: modules=1 unhealthy=1 removed=0")
}

func TestStatusCmd_StoreFailureKeepsError(t *testing.T) {
	for _, format := range []string{"", "json"} {
		t.Run("format="+format, func(t *testing.T) {
			fs := useMemFs(t)
			_, err := execute(t, "", "signal", "--module", "a")
			require.NoError(t, err)

			// the first observation cannot be written
			appFs = afero.NewReadOnlyFs(fs)

			out, err := execute(t, "", "status", "--format", format)
			require.Error(t, err)
			assert.Equal(t, 1, ExitCode(err))

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			require.Error(t, exitErr.Err, "the store error must reach ReportError")
			assert.Contains(t, err.Error(), moduleKey(t, "a").ObservationKey())

			if format == "json" {
				assert.Contains(t, out, `"error"`)
			}
		})
	}
}

func TestPipeCmd(t *testing.T) {
	fs := useMemFs(t)

	out, err := execute(t, "row1\nrow2\n", "pipe", "--module", "loader", "--interval", "1h")
	require.NoError(t, err)
	assert.Equal(t, "row1\nrow2\n", out)

	exists, _ := afero.Exists(fs, dataPath(moduleKey(t, "loader").HeartbeatKey()))
	assert.False(t, exists, "module is stopped at end of input")
}

func TestRunCmd_PropagatesExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	fs := useMemFs(t)

	_, err := execute(t, "", "run", "--module", "job", "--interval", "10ms", "--", "sh", "-c", "sleep 0.05; exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))

	exists, _ := afero.Exists(fs, dataPath(moduleKey(t, "job").HeartbeatKey()))
	assert.False(t, exists, "module is stopped when the command exits")
}

func TestRunCmd_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	useMemFs(t)

	out, err := execute(t, "", "run", "--module", "job", "--", "sh", "-c", "echo done")
	require.NoError(t, err)
	assert.Equal(t, "done\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	useMemFs(t)

	out, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "setting.yaml")

	_, err = execute(t, "", "config", "init")
	assert.Error(t, err, "refuses to overwrite without --force")

	out, err = execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "stale_interval: 10s")
	assert.Contains(t, out, "source:         yaml")
}

func TestInvalidSettingsFailCommands(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, app.PathsFor(testHome).SettingJSON, []byte(`{"interval_ms": -1}`), 0o644))

	_, err := execute(t, "", "signal", "--module", "etl")
	assert.ErrorIs(t, err, heartbeat.ErrInvalidInterval)
}

func TestUnknownLogLevelFailsCommands(t *testing.T) {
	useMemFs(t)

	root := NewRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--home", testHome, "--log-level", "chatty", "healthcheck"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
}

func TestVersionCmd(t *testing.T) {
	useMemFs(t)

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pulse version")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(assert.AnError))
	assert.Equal(t, 4, ExitCode(&ExitError{Code: 4}))
}
