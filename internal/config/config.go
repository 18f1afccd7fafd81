package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/harrison/csvconv/internal/detect"
	"github.com/harrison/csvconv/internal/models"
	"github.com/harrison/csvconv/internal/transcode"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents csvconv configuration options
type Config struct {
	// Extensions lists the file extensions picked up by the walk, e.g. ".csv"
	Extensions []string `yaml:"extensions" toml:"extensions"`

	// Pattern is a regex matched against file names without extension
	Pattern string `yaml:"pattern" toml:"pattern"`

	// ExcludeDirs lists directory names the walk never enters, e.g. ".git"
	ExcludeDirs []string `yaml:"exclude_dirs" toml:"exclude_dirs"`

	// SkipHidden skips directories whose name starts with "."
	SkipHidden bool `yaml:"skip_hidden" toml:"skip_hidden"`

	// MaxDepth limits recursion (0 = unlimited, 1 = source root only)
	MaxDepth int `yaml:"max_depth" toml:"max_depth"`

	// MinConfidence is the detector score (0-100) below which a guess is ignored
	MinConfidence int `yaml:"min_confidence" toml:"min_confidence"`

	// DecodeMode is "lossy" (drop undecodable bytes) or "strict" (fail the file)
	DecodeMode string `yaml:"decode_mode" toml:"decode_mode"`

	// LogLevel controls console and file log verbosity
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogDir enables per-run log files when non-empty
	LogDir string `yaml:"log_dir" toml:"log_dir"`

	// HistoryDB enables the SQLite run history when non-empty
	HistoryDB string `yaml:"history_db" toml:"history_db"`

	// DryRun detects and decides without writing anything
	DryRun bool `yaml:"dry_run" toml:"dry_run"`

	// Profiles holds the conversion profiles keyed by name
	Profiles map[string]models.Profile `yaml:"profiles" toml:"profiles"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Extensions:    []string{".csv"},
		MinConfidence: detect.DefaultMinConfidence,
		DecodeMode:    string(transcode.DecodeLossy),
		LogLevel:      "info",
		LogDir:        "",
		HistoryDB:     "",
		DryRun:        false,
		Profiles:      models.BuiltinProfiles(),
	}
}

// LoadConfig loads configuration from the specified file path.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply non-zero values from file (merging with defaults)
	if len(fileCfg.Extensions) > 0 {
		cfg.Extensions = fileCfg.Extensions
	}
	if fileCfg.Pattern != "" {
		cfg.Pattern = fileCfg.Pattern
	}
	if len(fileCfg.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = fileCfg.ExcludeDirs
	}
	if fileCfg.SkipHidden {
		cfg.SkipHidden = true
	}
	if fileCfg.MaxDepth != 0 {
		cfg.MaxDepth = fileCfg.MaxDepth
	}
	if fileCfg.MinConfidence != 0 {
		cfg.MinConfidence = fileCfg.MinConfidence
	}
	if fileCfg.DecodeMode != "" {
		cfg.DecodeMode = fileCfg.DecodeMode
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.HistoryDB != "" {
		cfg.HistoryDB = fileCfg.HistoryDB
	}
	if fileCfg.DryRun {
		cfg.DryRun = true
	}

	// Profiles merge field by field so a file can override only the
	// convertible set of a built-in profile.
	for name, p := range fileCfg.Profiles {
		merged := cfg.Profiles[name]
		if p.Description != "" {
			merged.Description = p.Description
		}
		if len(p.Convertible) > 0 {
			merged.Convertible = p.Convertible
		}
		if p.Target != "" {
			merged.Target = p.Target
		}
		merged.Name = name
		cfg.Profiles[name] = merged
	}

	return cfg, nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(extensions []string, decodeMode *string, logLevel *string, logDir *string, historyDB *string, dryRun *bool) {
	if len(extensions) > 0 {
		c.Extensions = extensions
	}
	if decodeMode != nil {
		c.DecodeMode = *decodeMode
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if historyDB != nil {
		c.HistoryDB = *historyDB
	}
	if dryRun != nil {
		c.DryRun = *dryRun
	}
}

// MergeScanFlags merges the walk and detection flags into the configuration.
// Non-nil (or non-empty) values override configuration values.
func (c *Config) MergeScanFlags(pattern *string, excludeDirs []string, skipHidden *bool, maxDepth *int, minConfidence *int) {
	if pattern != nil {
		c.Pattern = *pattern
	}
	if len(excludeDirs) > 0 {
		c.ExcludeDirs = excludeDirs
	}
	if skipHidden != nil {
		c.SkipHidden = *skipHidden
	}
	if maxDepth != nil {
		c.MaxDepth = *maxDepth
	}
	if minConfidence != nil {
		c.MinConfidence = *minConfidence
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if _, err := transcode.ParseDecodeMode(c.DecodeMode); err != nil {
		return fmt.Errorf("invalid decode_mode: %w", err)
	}

	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}
	for _, ext := range c.Extensions {
		if strings.Trim(strings.TrimSpace(ext), ".") == "" {
			return fmt.Errorf("invalid extension %q", ext)
		}
	}

	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
		}
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("min_confidence must be between 0 and 100, got %d", c.MinConfidence)
	}

	for _, name := range models.ProfileNames(c.Profiles) {
		p := c.Profiles[name]
		p.Name = name
		if err := p.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Mode returns the parsed decode mode. Call Validate first.
func (c *Config) Mode() transcode.DecodeMode {
	mode, err := transcode.ParseDecodeMode(c.DecodeMode)
	if err != nil {
		return transcode.DecodeLossy
	}
	return mode
}

// ResolveProfile returns the named profile with its Name set.
func (c *Config) ResolveProfile(name string) (models.Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return models.Profile{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(models.ProfileNames(c.Profiles), ", "))
	}
	p.Name = name
	if err := p.Validate(); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
