package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/FastFilter/bloomfilter"
)

type Config struct {
	Capacity     int           `yaml:"capacity"`
	BitsPerValue int           `yaml:"bits_per_value"`
	Inserts      int           `yaml:"inserts"`
	Queries      int           `yaml:"queries"`
	Hash         string        `yaml:"hash"`
	Logging      LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Capacity:     1000,
		BitsPerValue: bloomfilter.DefaultBitsPerValue,
		Inserts:      1000,
		Queries:      100000,
		Hash:         "xxhash",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge copies every field of file whose flag was not set explicitly.
func (c *Config) Merge(file *Config, flags *pflag.FlagSet) {
	if !flags.Changed("capacity") {
		c.Capacity = file.Capacity
	}
	if !flags.Changed("bits-per-value") {
		c.BitsPerValue = file.BitsPerValue
	}
	if !flags.Changed("inserts") {
		c.Inserts = file.Inserts
	}
	if !flags.Changed("queries") {
		c.Queries = file.Queries
	}
	if !flags.Changed("hash") {
		c.Hash = file.Hash
	}
	if !flags.Changed("log-level") {
		c.Logging.Level = file.Logging.Level
	}
	if !flags.Changed("log-format") {
		c.Logging.Format = file.Logging.Format
	}
}

func (c *Config) Validate() error {
	if _, err := bloomfilter.Derive(c.Capacity, c.BitsPerValue); err != nil {
		return err
	}
	if c.Inserts < 0 {
		return fmt.Errorf("inserts must not be negative, got %d", c.Inserts)
	}
	if c.Queries < 0 {
		return fmt.Errorf("queries must not be negative, got %d", c.Queries)
	}
	if _, err := hasherFor(c.Hash); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}
