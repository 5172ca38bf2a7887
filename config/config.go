package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug             = "debug"
	ConfigRows              = "rows"
	ConfigCols              = "cols"
	ConfigStartDepth        = "start-depth"
	ConfigPhaseDepth        = "phase-depth"
	ConfigPhases            = "phases"
	ConfigThreads           = "threads"
	ConfigMaxNodes          = "max-nodes"
	ConfigEvalTable         = "eval-table"
	ConfigEvalTableFraction = "eval-table-fraction"
	ConfigLoadPolicy        = "load-policy"
	ConfigOutputDir         = "output-dir"
	ConfigPixels            = "pixels"
	ConfigLineWidth         = "line-width"
	ConfigLineColor         = "line-color"
	ConfigAssetDir          = "asset-dir"
	ConfigHealthWeight      = "health-weight"
	ConfigHistoryDB         = "history-db"
	ConfigCPUProfile        = "cpu-profile"

	configFileFlag = "config"
	envPrefix      = "RUNEDRAG"
	cfgFile        = "runedrag/config.yaml"
)

type setting struct {
	key   string
	def   any
	usage string
}

var settings = []setting{
	{ConfigDebug, false, "log at debug level"},
	{ConfigRows, 5, "board rows"},
	{ConfigCols, 6, "board columns"},
	{ConfigStartDepth, 5, "moves tried from every cell when picking the start"},
	{ConfigPhaseDepth, 10, "moves per phase of path extension"},
	{ConfigPhases, 5, "phases of path extension"},
	{ConfigThreads, max(1, runtime.NumCPU()), "workers used to score start cells"},
	{ConfigMaxNodes, 0, "node budget per search, 0 for none"},
	{ConfigEvalTable, true, "memoise board evaluations"},
	{ConfigEvalTableFraction, 0.05, "fraction of system memory for the evaluation table"},
	{ConfigLoadPolicy, "strict", "what to do with malformed board file lines: strict or skip"},
	{ConfigOutputDir, "output", "directory for rendered images and output.txt"},
	{ConfigPixels, 60, "cell size in pixels for rendering and screenshot reading"},
	{ConfigLineWidth, 4, "path line width in pixels"},
	{ConfigLineColor, "#969696", "path line colour"},
	{ConfigAssetDir, "", "directory with one sprite per stone type"},
	{ConfigHealthWeight, 1.7, "colour distance weight of health stones when reading screenshots"},
	{ConfigHistoryDB, "", "sqlite file to record solves in, empty to disable"},
	{ConfigCPUProfile, "", "write a cpu profile of solves to this file"},
}

type Config struct {
	*viper.Viper
	path string
	args []string
}

// Load reads settings from, in decreasing priority: command-line flags,
// RUNEDRAG_* environment variables, the config file and the defaults.
// Arguments that are not flags are kept and returned by Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := pflag.NewFlagSet("runedrag", pflag.ContinueOnError)
	fs.String(configFileFlag, "", "config file (default: "+cfgFile+" in the XDG config dirs)")
	for _, s := range settings {
		c.SetDefault(s.key, s.def)
		switch d := s.def.(type) {
		case bool:
			fs.Bool(s.key, d, s.usage)
		case int:
			fs.Int(s.key, d, s.usage)
		case float64:
			fs.Float64(s.key, d, s.usage)
		case string:
			fs.String(s.key, d, s.usage)
		}
	}
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	xdg.Reload()
	explicit, _ := fs.GetString(configFileFlag)
	c.path = explicit
	if c.path == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			c.path = found
		}
	}
	if c.path == "" {
		return nil
	}
	c.SetConfigFile(c.path)
	if err := c.ReadInConfig(); err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// Args returns the non-flag command-line arguments.
func (c *Config) Args() []string {
	return c.args
}

// Path returns the config file in use, if any.
func (c *Config) Path() string {
	return c.path
}

// Write saves all settings to the config file, creating it in the XDG
// config home if there was none.
func (c *Config) Write() error {
	if c.path == "" {
		p, err := xdg.ConfigFile(cfgFile)
		if err != nil {
			return err
		}
		c.path = p
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return c.WriteConfigAs(c.path)
}

// SanitizedSettings returns the settings whose value differs from the
// default.
func (c *Config) SanitizedSettings() map[string]any {
	out := map[string]any{}
	for _, s := range settings {
		v := c.Get(s.key)
		switch s.def.(type) {
		case bool:
			if c.GetBool(s.key) != s.def {
				out[s.key] = v
			}
		case int:
			if c.GetInt(s.key) != s.def {
				out[s.key] = v
			}
		case float64:
			if c.GetFloat64(s.key) != s.def {
				out[s.key] = v
			}
		case string:
			if c.GetString(s.key) != s.def {
				out[s.key] = v
			}
		}
	}
	return out
}

// Known reports whether key is a setting.
func Known(key string) bool {
	for _, s := range settings {
		if s.key == key {
			return true
		}
	}
	return false
}

// Keys lists every setting in a stable order.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}
