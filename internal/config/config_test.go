package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geun-Oh/timeln/internal/annotate"
	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/Geun-Oh/timeln/internal/plot"
	"github.com/Geun-Oh/timeln/internal/summary"
	"github.com/Geun-Oh/timeln/internal/timefmt"
)

func load(t *testing.T, args []string, command []string) (Settings, error) {
	t.Helper()
	// Keep a stray ~/.timeln.yaml out of the tests.
	t.Setenv("HOME", t.TempDir())

	fs := pflag.NewFlagSet("timeln", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return Load(viper.New(), fs, command)
}

func TestDefaults(t *testing.T) {
	s, err := load(t, nil, nil)
	require.NoError(t, err)

	assert.False(t, s.Color)
	assert.Empty(t, s.Pattern)
	assert.False(t, s.HasPattern)
	assert.Equal(t, ".", s.PlotDir)
	assert.Equal(t, plot.SVG, s.PlotFormat)
	assert.Equal(t, summary.Simple, s.Summary)
	assert.Equal(t, timefmt.Seconds, s.TimeFormat)
	assert.Equal(t, annotate.Simple, s.Annotation)
	assert.Equal(t, Text, s.Output)
	assert.Equal(t, slog.LevelWarn, s.LogLevel)
	assert.Empty(t, s.ConfigUsed)
}

func TestFlags(t *testing.T) {
	s, err := load(t, []string{
		"-c", "-r", "x", "--fixed", "-p", "--plot-dir", "out", "--plot-format", "png",
		"--summary", "detailed", "--time-format", "ms", "--annotation", "unicode",
		"-o", "json", "--log-level", "debug",
	}, nil)
	require.NoError(t, err)

	assert.True(t, s.Color)
	assert.Equal(t, "x", s.Pattern)
	assert.True(t, s.HasPattern)
	assert.True(t, s.Fixed)
	assert.True(t, s.Plot)
	assert.Equal(t, "out", s.PlotDir)
	assert.Equal(t, plot.PNG, s.PlotFormat)
	assert.Equal(t, summary.Detailed, s.Summary)
	assert.Equal(t, timefmt.Milliseconds, s.TimeFormat)
	assert.Equal(t, annotate.Unicode, s.Annotation)
	assert.Equal(t, JSON, s.Output)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
}

func TestEmptyPatternFlagIsStillAPattern(t *testing.T) {
	s, err := load(t, []string{"-r", ""}, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Pattern)
	assert.True(t, s.HasPattern)

	s, err = load(t, []string{"--regex="}, nil)
	require.NoError(t, err)
	assert.True(t, s.HasPattern)
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("TIMELN_TIME_FORMAT", "m")
	t.Setenv("TIMELN_COLOR", "true")
	t.Setenv("TIMELN_SLOW", "250ms")

	s, err := load(t, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, s.Slow)
	assert.Equal(t, timefmt.MinutesSeconds, s.TimeFormat)
	assert.True(t, s.Color)
}

func TestFlagOverridesEnv(t *testing.T) {
	t.Setenv("TIMELN_SUMMARY", "detailed")

	s, err := load(t, []string{"--summary", "simple"}, nil)
	require.NoError(t, err)
	assert.Equal(t, summary.Simple, s.Summary)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeln.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regex: ERROR\nplot-format: png\nannotation: unicode\n"), 0o644))

	s, err := load(t, []string{"--config", path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ERROR", s.Pattern)
	assert.Equal(t, plot.PNG, s.PlotFormat)
	assert.Equal(t, annotate.Unicode, s.Annotation)
	assert.Equal(t, path, s.ConfigUsed)
}

func TestMissingExplicitConfigFile(t *testing.T) {
	_, err := load(t, []string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}, nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfig))
}

func TestInvalidValues(t *testing.T) {
	for _, args := range [][]string{
		{"--time-format", "hours"},
		{"--summary", "verbose"},
		{"--annotation", "fancy"},
		{"--plot-format", "gif"},
		{"-o", "xml"},
		{"--log-level", "loud"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := load(t, args, nil)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindConfig), err.Error())
		})
	}
}

func TestValidateCombinations(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command []string
	}{
		{"follow without file", []string{"--follow"}, nil},
		{"file and command", []string{"-f", "app.log"}, []string{"make"}},
		{"tui and json", []string{"--tui", "-o", "json"}, nil},
		{"empty plot dir", []string{"-p", "--plot-dir", ""}, nil},
		{"negative slow", []string{"--slow=-1s"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.args, tt.command)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindConfig))
		})
	}
}

func TestCommandIsKept(t *testing.T) {
	s, err := load(t, nil, []string{"go", "test", "./..."})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "test", "./..."}, s.Command)
}
