package app

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultWindow    = 2
	defaultThreshold = 5.0
)

// Config holds the fully resolved run parameters. Precedence is flag
// over config file over built-in default.
type Config struct {
	InputPath   string // CSV flight log, or archive database with FromArchive set
	OutputDir   string
	Window      int
	Threshold   float64
	Dashboard   bool  // Also write the HTML dashboard
	Archive     bool  // Also archive the flight to SQLite
	FromArchive int64 // Read session ID from an archive instead of CSV; 0 disables
	LogLevel    slog.Level
}

// FileConfig is the optional YAML configuration file.
type FileConfig struct {
	Settings struct {
		LogLevel string `yaml:"logLevel"`
	} `yaml:"settings"`
	Analysis struct {
		Window    *int     `yaml:"window"`
		Threshold *float64 `yaml:"threshold"`
	} `yaml:"analysis"`
}

func NewConfig() *Config {
	return &Config{
		OutputDir: ".",
		Window:    defaultWindow,
		Threshold: defaultThreshold,
		LogLevel:  slog.LevelInfo,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var configPath string
	var window int
	var threshold float64
	var verbose bool
	flag.StringVar(&c.InputPath, "i", "", "Path to the telemetry CSV file (or archive database with -from-archive)")
	flag.StringVar(&c.OutputDir, "o", ".", "Output directory for plots and report")
	flag.StringVar(&configPath, "c", "", "Path to an optional YAML configuration file")
	flag.IntVar(&window, "window", defaultWindow, "Smoothing window half-width in samples")
	flag.Float64Var(&threshold, "threshold", defaultThreshold, "Anomaly deviation threshold in velocity units")
	flag.BoolVar(&c.Dashboard, "html", false, "Also write an interactive HTML dashboard")
	flag.BoolVar(&c.Archive, "archive", false, "Also archive the flight to a SQLite database in the output directory")
	flag.Int64Var(&c.FromArchive, "from-archive", 0, "Read the given session ID from an archive database instead of CSV")
	flag.BoolVar(&verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	if configPath != "" {
		fc, err := LoadFileConfig(configPath)
		if err != nil {
			return nil, err
		}
		if err = c.applyFile(fc); err != nil {
			return nil, err
		}
	}

	// Flags set explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "window" {
			c.Window = window
		}
		if f.Name == "threshold" {
			c.Threshold = threshold
		}
	})

	if verbose {
		c.LogLevel = slog.LevelDebug
	}

	if err := c.validate(); err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}

// LoadFileConfig parses the optional YAML configuration file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var fc FileConfig
	if err = yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing configuration file %s: %w", path, err)
	}
	return &fc, nil
}

func (c *Config) applyFile(fc *FileConfig) error {
	if fc.Analysis.Window != nil {
		c.Window = *fc.Analysis.Window
	}
	if fc.Analysis.Threshold != nil {
		c.Threshold = *fc.Analysis.Threshold
	}
	if fc.Settings.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(fc.Settings.LogLevel)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", fc.Settings.LogLevel, err)
		}
		c.LogLevel = level
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.InputPath == "":
		return errors.New("input path is required")
	case c.OutputDir == "":
		return errors.New("output directory is required")
	case c.FromArchive < 0:
		return fmt.Errorf("invalid session id %d", c.FromArchive)
	}
	return nil
}
