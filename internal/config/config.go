package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config holds the run configuration. Only presentation and logging
// live here; the three data paths (TopM input, Addison input, output)
// come exclusively from the command line.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/dmreport.log"`
}

// ReportConfig contains presentation settings for the exported report.
// Values are cosmetic only; they never change any figure.
type ReportConfig struct {
	SheetName      string `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"Auswertung" validate:"required"`
	HighlightColor string `yaml:"highlight_color" envconfig:"HIGHLIGHT_COLOR" default:"FFFF00" validate:"hexadecimal,len=6"`
}

// Load builds the configuration from defaults, an optional YAML file
// and DMREPORT_* environment overrides for the logging section.
// configFile may be empty.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// envconfig applies the default tags and any env overrides
	if err := envconfig.Process("DMREPORT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
		cfg = mergeConfigs(cfg, *fileCfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file values onto the env/default config. A
// non-empty file value wins.
func mergeConfigs(base, file Config) Config {
	if file.Logging.Level != "" {
		base.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		base.Logging.Format = file.Logging.Format
	}
	if file.Logging.Output != "" {
		base.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		base.Logging.FilePath = file.Logging.FilePath
	}
	if file.Report.SheetName != "" {
		base.Report.SheetName = file.Report.SheetName
	}
	if file.Report.HighlightColor != "" {
		base.Report.HighlightColor = file.Report.HighlightColor
	}
	return base
}

// validate checks the assembled configuration
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}
