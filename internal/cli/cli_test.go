package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailplot/internal/sqlite"
	"github.com/mesh-intelligence/trailplot/internal/telemetry"
	"github.com/mesh-intelligence/trailplot/pkg/types"
)

const sampleLog = "12:00:00.100 -> 1; 10; 20\r\n" +
	"garbage\r\n" +
	"12:00:00.200 -> 2; -5; 7\r\n" +
	"12:00:00.300 -> 1; 11; 22\r\n"

// isolate points the config and data directories at fresh temp dirs.
func isolate(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	configDir = filepath.Join(t.TempDir(), "config")
	dataDir = filepath.Join(t.TempDir(), "data")
	t.Setenv("TRAILPLOT_CONFIG_DIR", configDir)
	t.Setenv("TRAILPLOT_DATA_DIR", dataDir)
	return configDir, dataDir
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), err
}

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))
	return path
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(errors.New("plain")))
	assert.Equal(t, exitUserError, exitCode(userError(errors.New("bad flag"))))
	assert.Equal(t, exitSysError, exitCode(sysError(errors.New("disk full"))))

	wrapped := sysError(types.ErrSourceOpen)
	assert.ErrorIs(t, wrapped, types.ErrSourceOpen)
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setupLogging(&buf, "debug"))
	require.NoError(t, setupLogging(&buf, "WARN"))

	err := setupLogging(&buf, "loud")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "trailplot v"+Version+"\nmodule: "+modulePath+"\n", out)
}

func TestInit(t *testing.T) {
	configDir, dataDir := isolate(t)

	out, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, filepath.Join(configDir, "config.yaml"))
	assert.FileExists(t, filepath.Join(dataDir, "trailplot.db"))

	t.Run("keeps an existing config", func(t *testing.T) {
		path := filepath.Join(configDir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("interval: 250ms\n"), 0o644))

		out, err := runCLI(t, "init")
		require.NoError(t, err)
		assert.NotContains(t, out, "Wrote")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "interval: 250ms\n", string(data))
	})
}

func TestInit_ConfigRoundTripsThroughLoader(t *testing.T) {
	configDir, _ := isolate(t)
	_, err := runCLI(t, "init")
	require.NoError(t, err)

	v, err := loadConfig(configDir, nil)
	require.NoError(t, err)
	cfg := configFromViper(v)

	want := types.DefaultConfig()
	assert.Equal(t, want.Source, cfg.Source)
	assert.Equal(t, want.Chart, cfg.Chart)
	assert.Equal(t, want.Output, cfg.Output)
	assert.Equal(t, want.Interval, cfg.Interval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	configDir, _ := isolate(t)
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	yaml := `source:
  port: /dev/ttyACM0
  baud: 115200
chart:
  title: From file
interval: 250ms
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("TRAILPLOT_CHART_TITLE", "From env")

	cmd := newWatchCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--baud", "57600"}))

	v, err := loadConfig(configDir, cmd.Flags())
	require.NoError(t, err)
	cfg := configFromViper(v)

	assert.Equal(t, 57600, cfg.Source.Baud, "flag beats config file")
	assert.Equal(t, "From env", cfg.Chart.Title, "env beats config file")
	assert.Equal(t, "/dev/ttyACM0", cfg.Source.Port, "config file beats default")
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, types.DriverSerial, cfg.Source.Driver, "default when nothing is set")
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	v, err := loadConfig(t.TempDir(), nil)
	require.NoError(t, err)
	cfg := configFromViper(v)
	assert.Equal(t, types.DefaultBaud, cfg.Source.Baud)
	assert.Equal(t, types.DefaultInterval, cfg.Interval)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("source: [unterminated\n"), 0o644))
	_, err := loadConfig(dir, nil)
	require.Error(t, err)
}

func TestWatch_InvalidConfiguration(t *testing.T) {
	isolate(t)
	_, err := runCLI(t, "watch", "--driver", "carrier-pigeon", "--port", "x", "--headless", "--output", "x.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDriverUnknown)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestWatch_HeadlessNeedsOutput(t *testing.T) {
	isolate(t)
	_, err := runCLI(t, "watch", "--driver", "file", "--port", writeLog(t), "--headless")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrOutputMissing)
}

func TestWatch_SourceOpenFailure(t *testing.T) {
	isolate(t)
	missing := filepath.Join(t.TempDir(), "missing.log")
	_, err := runCLI(t, "watch", "--driver", "file", "--port", missing, "--headless", "--output", "x.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSourceOpen)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestWatch_RecordExportReplay(t *testing.T) {
	_, dataDir := isolate(t)
	work := t.TempDir()
	png := filepath.Join(work, "live.png")

	out, err := runCLI(t, "--json", "watch",
		"--driver", "file", "--port", writeLog(t),
		"--interval", "1ms", "--headless", "--output", png, "--record")
	require.NoError(t, err)

	var res watchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, 2, res.Robots)
	assert.Equal(t, 3, res.Points)
	assert.Equal(t, 4, res.Stats.Lines)
	assert.Equal(t, 1, res.Stats.Dropped)
	assert.FileExists(t, png)

	t.Run("sessions lists the recording", func(t *testing.T) {
		out, err := runCLI(t, "--json", "sessions")
		require.NoError(t, err)
		var sessions []types.Session
		require.NoError(t, json.Unmarshal([]byte(out), &sessions))
		require.Len(t, sessions, 1)
		assert.Equal(t, res.SessionID, sessions[0].SessionID)
		assert.Equal(t, 3, sessions[0].Records)
		assert.Equal(t, types.DriverFile, sessions[0].Driver)

		out, err = runCLI(t, "sessions")
		require.NoError(t, err)
		assert.Contains(t, out, res.SessionID[:8])
		assert.Contains(t, out, "Total: 1 session(s)")
	})

	t.Run("export writes jsonl", func(t *testing.T) {
		path := filepath.Join(work, "run.jsonl")
		out, err := runCLI(t, "export", res.SessionID[:8], "--out", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Exported 3 records")

		records, err := sqlite.LoadJSONL(path)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, types.Record{Stamp: "12:00:00.200", RobotID: 2, X: -5, Y: 7}, records[1])
	})

	t.Run("replay a session", func(t *testing.T) {
		path := filepath.Join(work, "session.svg")
		out, err := runCLI(t, "replay", res.SessionID, "--out", path)
		require.NoError(t, err)
		assert.Contains(t, out, "2 robots, 3 points")
		assert.FileExists(t, path)
	})

	t.Run("replay an export", func(t *testing.T) {
		path := filepath.Join(work, "export.png")
		_, err := runCLI(t, "replay", filepath.Join(work, "run.jsonl"), "--out", path)
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	assert.FileExists(t, filepath.Join(dataDir, "trailplot.db"))
}

func TestReplay_RawLog(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "log.png")
	out, err := runCLI(t, "replay", writeLog(t), "--out", path)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+" (2 robots, 3 points)\n", out)
}

func TestReplay_RawLogSkipsOverlongLines(t *testing.T) {
	isolate(t)
	overlong := "12:00:01.500 -> 9; -15; 42" + strings.Repeat(" ", telemetry.MaxLineLength) + "junk\n"
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, []byte(overlong+sampleLog), 0o644))

	out, err := runCLI(t, "replay", path, "--out", filepath.Join(t.TempDir(), "log.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "(2 robots, 3 points)")
}

func TestReplay_Errors(t *testing.T) {
	isolate(t)

	t.Run("unknown session", func(t *testing.T) {
		_, err := runCLI(t, "replay", "0000", "--out", filepath.Join(t.TempDir(), "x.png"))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrSessionNotFound)
		assert.Equal(t, exitUserError, exitCode(err))
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, err := runCLI(t, "replay", writeLog(t), "--out", "chart.bmp")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnknownFormat)
	})
}

func TestSessions_Empty(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "sessions")
	require.NoError(t, err)
	assert.Equal(t, "No sessions recorded\n", out)

	out, err = runCLI(t, "--json", "sessions")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestExport_UnknownSession(t *testing.T) {
	isolate(t)
	_, err := runCLI(t, "export", "nope")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}
