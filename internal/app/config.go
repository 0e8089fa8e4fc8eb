package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProfilePath string // hcl file or directory
	InputPath   string // input records, empty means stdin

	Output    string // "text" or "json"
	LogFormat string
	LogLevel  string
	Debug     bool // dump each record with spew

	ShowPaths bool // enumerate possible paths instead of parsing
	MaxDepth  int  // recursion bound for -paths
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProfilePath == "" {
		return nil, errors.New("ProfilePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
