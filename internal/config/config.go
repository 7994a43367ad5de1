package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the command-line surface so batch settings can live in a
// YAML file checked in next to the scans. Explicit flags always win over
// values loaded from here.
type Config struct {
	Review        string  `yaml:"review"`
	Input         string  `yaml:"input"`
	Output        string  `yaml:"output"`
	CopyUnchanged bool    `yaml:"copyUnchanged"`
	Prefix        string  `yaml:"prefix"`
	Quality       int     `yaml:"quality"`
	MaxSizeMB     int     `yaml:"maxSizeMB"`
	SizeRatio     float64 `yaml:"sizeRatio"`
}

// Load reads a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}
