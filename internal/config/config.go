// Package config binds the command-line flags, TIMELN_* environment variables and the
// optional .timeln.yaml file into validated run settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Geun-Oh/timeln/internal/annotate"
	"github.com/Geun-Oh/timeln/internal/apperr"
	"github.com/Geun-Oh/timeln/internal/plot"
	"github.com/Geun-Oh/timeln/internal/summary"
	"github.com/Geun-Oh/timeln/internal/timefmt"
)

// EnvPrefix prefixes every environment override, e.g. TIMELN_TIME_FORMAT.
const EnvPrefix = "TIMELN"

// Flag names, shared by the flag set, the environment and the config file.
const (
	KeyColor      = "color"
	KeyRegex      = "regex"
	KeyFixed      = "fixed"
	KeyPlot       = "plot"
	KeyPlotDir    = "plot-dir"
	KeyPlotFormat = "plot-format"
	KeySummary    = "summary"
	KeyTimeFormat = "time-format"
	KeyAnnotation = "annotation"
	KeyOutput     = "output"
	KeyFile       = "file"
	KeyFollow     = "follow"
	KeyTUI        = "tui"
	KeySlow       = "slow"
	KeyLogLevel   = "log-level"
	KeyConfig     = "config"
)

// Output selects how timed lines are written to stdout.
type Output int

const (
	Text Output = iota
	JSON
)

// ParseOutput converts "text" or "json" into an Output.
func ParseOutput(name string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return Text, fmt.Errorf("unknown output %q (want text or json)", name)
	}
}

func (o Output) String() string {
	if o == JSON {
		return "json"
	}
	return "text"
}

// Settings is the validated configuration of one run.
type Settings struct {
	Color      bool
	Pattern    string
	HasPattern bool // a pattern was given, even an empty one
	Fixed      bool
	Plot       bool
	PlotDir    string
	PlotFormat plot.Format
	Summary    summary.Style
	TimeFormat timefmt.Format
	Annotation annotate.Style
	Output     Output
	File       string
	Follow     bool
	TUI        bool
	Slow       time.Duration // dashboard flags lines whose delta reaches this; 0 disables
	LogLevel   slog.Level
	Command    []string // command whose stdout is timed; empty reads stdin or File

	// ConfigUsed is the config file that was read, if any.
	ConfigUsed string
}

// RegisterFlags defines the timeln flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP(KeyColor, "c", false, "color the time prefix and highlight matches")
	fs.StringP(KeyRegex, "r", "", "only time lines matching this pattern (supports %{MACRO} names)")
	fs.Bool(KeyFixed, false, "treat the pattern as a literal string")
	fs.BoolP(KeyPlot, "p", false, "write delta and elapsed charts when the run ends")
	fs.String(KeyPlotDir, ".", "directory for chart files")
	fs.String(KeyPlotFormat, "svg", "chart format: svg, png")
	fs.String(KeySummary, "simple", "summary style: simple, detailed")
	fs.String(KeyTimeFormat, "s", "time format: s, ms, m")
	fs.String(KeyAnnotation, "simple", "annotation style: simple, unicode")
	fs.StringP(KeyOutput, "o", "text", "output format: text, json")
	fs.StringP(KeyFile, "f", "", "read this file instead of stdin")
	fs.Bool(KeyFollow, false, "keep reading data appended to --file")
	fs.Bool(KeyTUI, false, "show the interactive dashboard")
	fs.Duration(KeySlow, 0, "dashboard: flag lines whose delta reaches this duration (0 disables)")
	fs.String(KeyLogLevel, "warn", "diagnostic log level: debug, info, warn, error")
	fs.String(KeyConfig, "", "config file (default .timeln.yaml in $HOME or the working directory)")
}

// Load merges fs, the environment and the config file into v and validates the result.
// Flags set on the command line win over the environment, which wins over the file.
func Load(v *viper.Viper, fs *pflag.FlagSet, command []string) (Settings, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Settings{}, apperr.New(apperr.KindConfig, "config: bind flags", err)
	}

	used, err := readFile(v, v.GetString(KeyConfig))
	if err != nil {
		return Settings{}, err
	}

	s, err := decode(v)
	if err != nil {
		return Settings{}, err
	}
	s.Command = command
	s.ConfigUsed = used
	return s, s.Validate()
}

func readFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".timeln")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", apperr.New(apperr.KindConfig, "config: read config file", err)
	}
	return v.ConfigFileUsed(), nil
}

func decode(v *viper.Viper) (Settings, error) {
	s := Settings{
		Color:      v.GetBool(KeyColor),
		Pattern:    v.GetString(KeyRegex),
		HasPattern: v.IsSet(KeyRegex),
		Fixed:      v.GetBool(KeyFixed),
		Plot:       v.GetBool(KeyPlot),
		PlotDir:    v.GetString(KeyPlotDir),
		File:       v.GetString(KeyFile),
		Follow:     v.GetBool(KeyFollow),
		TUI:        v.GetBool(KeyTUI),
		Slow:       v.GetDuration(KeySlow),
	}

	var err error
	if s.PlotFormat, err = plot.ParseFormat(v.GetString(KeyPlotFormat)); err != nil {
		return s, invalid(KeyPlotFormat, err)
	}
	if s.Summary, err = summary.ParseStyle(v.GetString(KeySummary)); err != nil {
		return s, invalid(KeySummary, err)
	}
	if s.TimeFormat, err = timefmt.Parse(v.GetString(KeyTimeFormat)); err != nil {
		return s, invalid(KeyTimeFormat, err)
	}
	if s.Annotation, err = annotate.ParseStyle(v.GetString(KeyAnnotation)); err != nil {
		return s, invalid(KeyAnnotation, err)
	}
	if s.Output, err = ParseOutput(v.GetString(KeyOutput)); err != nil {
		return s, invalid(KeyOutput, err)
	}
	if err = s.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return s, invalid(KeyLogLevel, err)
	}
	return s, nil
}

func invalid(key string, err error) error {
	return apperr.New(apperr.KindConfig, "config: --"+key, err)
}

// Validate rejects combinations of settings that cannot run together.
func (s Settings) Validate() error {
	switch {
	case s.Follow && s.File == "":
		return apperr.Errorf(apperr.KindConfig, "config", "--follow requires --file")
	case s.File != "" && len(s.Command) > 0:
		return apperr.Errorf(apperr.KindConfig, "config", "--file and a command cannot be combined")
	case s.TUI && s.Output == JSON:
		return apperr.Errorf(apperr.KindConfig, "config", "--tui cannot be combined with --output json")
	case s.Slow < 0:
		return apperr.Errorf(apperr.KindConfig, "config", "--slow must not be negative")
	case s.Plot && s.PlotDir == "":
		return apperr.Errorf(apperr.KindConfig, "config", "--plot-dir must not be empty")
	}
	return nil
}
