// Package config loads the noticewatch tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for the review pipeline thresholds.
const (
	DefaultMinConfidence = 0.85
	DefaultMinSampleSize = 5
)

// Config is the flat noticewatch configuration. Paths are relative to
// the working directory unless absolute.
type Config struct {
	DataDir       string  `yaml:"data_dir"`
	NoticeLogPath string  `yaml:"notice_log_path"`
	DatasetPath   string  `yaml:"dataset_path"`
	ReviewsPath   string  `yaml:"reviews_path"`
	PatternsPath  string  `yaml:"patterns_path"`
	ArchiveDBPath string  `yaml:"archive_db_path"`
	Reviewer      string  `yaml:"reviewer"`
	MinConfidence float64 `yaml:"min_confidence"`
	MinSampleSize int     `yaml:"min_sample_size"`
	LogLevel      string  `yaml:"log_level"`
}

// Default returns a config with every path and threshold set.
func Default() *Config {
	cfg := &Config{DataDir: "."}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.NoticeLogPath == "" {
		c.NoticeLogPath = filepath.Join(c.DataDir, "out", "suspicious_notices.jsonl")
	}
	if c.DatasetPath == "" {
		c.DatasetPath = filepath.Join(c.DataDir, "review", "pending_notices.json")
	}
	if c.ReviewsPath == "" {
		c.ReviewsPath = filepath.Join(c.DataDir, "review", "completed_reviews.jsonl")
	}
	if c.PatternsPath == "" {
		c.PatternsPath = filepath.Join(c.DataDir, "config", "clerical_patterns.json")
	}
	if c.ArchiveDBPath == "" {
		c.ArchiveDBPath = filepath.Join(c.DataDir, "out", "decision_archive.db")
	}
	if c.Reviewer == "" {
		c.Reviewer = "legislative_analyst"
	}
	if c.MinConfidence == 0 {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.MinSampleSize == 0 {
		c.MinSampleSize = DefaultMinSampleSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load reads the config file at path. An empty path falls back to the
// NOTICEWATCH_CONFIG environment variable, then to noticewatch.yaml in
// the working directory. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("NOTICEWATCH_CONFIG")
	}
	if path == "" {
		path = "noticewatch.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}
