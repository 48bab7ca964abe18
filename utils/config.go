package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the recognizer configuration
type Config struct {
	Detection  DetectionConfig  `yaml:"detection" json:"detection"`
	Matching   MatchingConfig   `yaml:"matching" json:"matching"`
	Classifier ClassifierConfig `yaml:"classifier" json:"classifier"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
}

// DetectionConfig holds region detection configuration
type DetectionConfig struct {
	BoundaryChars string `yaml:"boundary_chars" json:"boundary_chars"`
	IgnoreChars   string `yaml:"ignore_chars" json:"ignore_chars"`
	MinRegionSize int    `yaml:"min_region_size" json:"min_region_size"`
}

// MatchingConfig holds pattern matching configuration
type MatchingConfig struct {
	MinConfidence  float64 `yaml:"min_confidence" json:"min_confidence"`
	MinPatternSize int     `yaml:"min_pattern_size" json:"min_pattern_size"`
	MaxPatternSize int     `yaml:"max_pattern_size" json:"max_pattern_size"`
}

// ClassifierConfig holds decision tree configuration
type ClassifierConfig struct {
	MaxDepth  int     `yaml:"max_depth" json:"max_depth"`
	TestRatio float64 `yaml:"test_ratio" json:"test_ratio"`
	ModelPath string  `yaml:"model_path" json:"model_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // json, text
}

// StorageConfig holds training sample storage configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" json:"database_path"`
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			MinRegionSize: 1,
		},
		Matching: MatchingConfig{
			MinConfidence:  0.8,
			MinPatternSize: 3,
			MaxPatternSize: 8,
		},
		Classifier: ClassifierConfig{
			MaxDepth:  10,
			TestRatio: 0.2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			DatabasePath: "gridsight.db",
		},
	}
}

// LoadConfig reads a YAML or JSON config file, fills missing values from
// the defaults and applies environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		ext := strings.ToLower(filepath.Ext(configPath))
		switch ext {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		case ".json":
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse JSON config: %w", err)
			}
		default:
			return nil, fmt.Errorf("unsupported config file format: %s", ext)
		}
	}

	applyEnvOverrides(config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Matching.MinConfidence < 0 || c.Matching.MinConfidence > 1 {
		return fmt.Errorf("matching min_confidence must be in [0,1], got %v", c.Matching.MinConfidence)
	}
	if c.Matching.MinPatternSize < 1 {
		return fmt.Errorf("matching min_pattern_size must be positive, got %d", c.Matching.MinPatternSize)
	}
	if c.Matching.MaxPatternSize < c.Matching.MinPatternSize {
		return fmt.Errorf("matching max_pattern_size %d below min_pattern_size %d",
			c.Matching.MaxPatternSize, c.Matching.MinPatternSize)
	}
	if c.Classifier.MaxDepth < 1 {
		return fmt.Errorf("classifier max_depth must be positive, got %d", c.Classifier.MaxDepth)
	}
	if c.Classifier.TestRatio < 0 || c.Classifier.TestRatio >= 1 {
		return fmt.Errorf("classifier test_ratio must be in [0,1), got %v", c.Classifier.TestRatio)
	}
	if c.Detection.MinRegionSize < 1 {
		return fmt.Errorf("detection min_region_size must be positive, got %d", c.Detection.MinRegionSize)
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GRIDSIGHT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("GRIDSIGHT_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}
	if v := os.Getenv("GRIDSIGHT_DB_PATH"); v != "" {
		config.Storage.DatabasePath = v
	}
	if v := os.Getenv("GRIDSIGHT_MODEL_PATH"); v != "" {
		config.Classifier.ModelPath = v
	}
	if v := os.Getenv("GRIDSIGHT_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Matching.MinConfidence = f
		}
	}
	if v := os.Getenv("GRIDSIGHT_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Classifier.MaxDepth = n
		}
	}
}

// ConfigureLogger applies the logging section to a logger.
func (c *Config) ConfigureLogger(logger *Logger) {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		logger.SetLevel(DEBUG)
	case "info":
		logger.SetLevel(INFO)
	case "warn":
		logger.SetLevel(WARN)
	case "error":
		logger.SetLevel(ERROR)
	default:
		logger.SetLevel(INFO)
	}
	logger.SetFormat(c.Logging.Format)
}
