package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string   // migration config, relaxed JSON
	SourcePath string   // source workbook
	OutputPath string   // destination workbook
	ExtraPaths []string // additional input workbooks, by ordinal
	RunArgs    []string // values for the config's declared arguments

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.SourcePath == "" {
		return nil, errors.New("SourcePath is a required configuration field and cannot be empty")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OutputPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
