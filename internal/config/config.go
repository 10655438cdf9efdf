package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ning0612/pcclean/internal/core/checksum"
	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/logger"
)

// Config represents the complete configuration for pcclean
type Config struct {
	// Categories define destination folders in match order
	Categories []domain.Category `mapstructure:"categories"`

	// TempLocations overrides the built-in temp locations per OS family
	TempLocations map[string][]string `mapstructure:"temp_locations"`

	Hash     HashConfig     `mapstructure:"hash"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	State    StateConfig    `mapstructure:"state"`
}

// HashConfig selects how duplicate detection hashes content
type HashConfig struct {
	Algorithm  string `mapstructure:"algorithm"`
	BufferSize int    `mapstructure:"buffer_size"`
}

// ScheduleConfig controls scheduled mode
type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig controls the diagnostic log
type LoggingConfig struct {
	Level         string        `mapstructure:"level"`
	Format        string        `mapstructure:"format"`
	MaskHomePaths bool          `mapstructure:"mask_home_paths"`
	File          LogFileConfig `mapstructure:"file"`
}

// LogFileConfig controls the rotating log file
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// StateConfig controls the run lock and run history
type StateConfig struct {
	Dir     string `mapstructure:"dir"`
	History bool   `mapstructure:"history"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Categories: domain.DefaultCategories(),
		Hash: HashConfig{
			Algorithm:  string(checksum.MD5),
			BufferSize: checksum.DefaultBufferSize,
		},
		Schedule: ScheduleConfig{Interval: 24 * time.Hour},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File: LogFileConfig{
				Enabled:    true,
				Path:       "pcclean.log",
				MaxSizeMB:  10,
				MaxAgeDays: 30,
				MaxBackups: 3,
			},
		},
		State: StateConfig{History: true},
	}
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	names := make(map[string]bool)
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: category name cannot be empty", domain.ErrConfigInvalid)
		}
		if cat.Name == "." || cat.Name == ".." || strings.ContainsAny(cat.Name, `/\`) {
			return fmt.Errorf("%w: category name %q is not a plain folder name", domain.ErrConfigInvalid, cat.Name)
		}
		if names[cat.Name] {
			return fmt.Errorf("%w: duplicate category: %s", domain.ErrConfigInvalid, cat.Name)
		}
		if cat.Name == domain.OthersCategory && len(cat.Extensions) > 0 {
			return fmt.Errorf("%w: %s is the catch-all and takes no extensions", domain.ErrConfigInvalid, cat.Name)
		}
		for _, ext := range cat.Extensions {
			if domain.NormalizeExtension(ext) == "" {
				return fmt.Errorf("%w: category %s has an empty extension", domain.ErrConfigInvalid, cat.Name)
			}
		}
		names[cat.Name] = true
	}

	for family := range c.TempLocations {
		if !domain.ParseOSFamily(family).IsKnown() {
			return fmt.Errorf("%w: unknown OS family in temp_locations: %s", domain.ErrConfigInvalid, family)
		}
	}

	if _, err := checksum.ParseAlgorithm(c.Hash.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}
	if c.Hash.BufferSize <= 0 {
		return fmt.Errorf("%w: hash.buffer_size must be positive, got %d", domain.ErrConfigInvalid, c.Hash.BufferSize)
	}

	if c.Schedule.Interval <= 0 {
		return fmt.Errorf("%w: schedule.interval must be positive, got %v", domain.ErrConfigInvalid, c.Schedule.Interval)
	}

	if c.Logging.File.Enabled && c.Logging.File.Path == "" {
		return fmt.Errorf("%w: logging.file.path is required when file logging is enabled", domain.ErrConfigInvalid)
	}

	return nil
}

// CategorySet returns the immutable lookup table for the configured categories
func (c *Config) CategorySet() domain.CategorySet {
	return domain.NewCategorySet(c.Categories)
}

// HashAlgorithm returns the validated hash algorithm
func (c *Config) HashAlgorithm() checksum.Algorithm {
	algo, err := checksum.ParseAlgorithm(c.Hash.Algorithm)
	if err != nil {
		return checksum.MD5
	}
	return algo
}

// TempLocationOverride returns the configured locations for family, if any
func (c *Config) TempLocationOverride(family domain.OSFamily) ([]string, bool) {
	for key, paths := range c.TempLocations {
		if domain.ParseOSFamily(key) != family {
			continue
		}
		expanded := make([]string, 0, len(paths))
		for _, p := range paths {
			expanded = append(expanded, ExpandPath(p))
		}
		return expanded, true
	}
	return nil, false
}

// StateDir returns the directory for the run lock and history database
func (c *Config) StateDir() (string, error) {
	if c.State.Dir != "" {
		return ExpandPath(c.State.Dir), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config dir: %w", err)
	}
	return filepath.Join(configDir, "pcclean"), nil
}

// LoggerConfig converts the logging section for logger.Init
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.Config{
		Level:         logger.ParseLevel(c.Logging.Level),
		Format:        logger.ParseFormat(c.Logging.Format),
		MaskHomePaths: c.Logging.MaskHomePaths,
		Outputs:       []logger.OutputConfig{{Type: logger.OutputStderr}},
	}
	if c.Logging.File.Enabled {
		cfg.Outputs = append(cfg.Outputs, logger.OutputConfig{Type: logger.OutputFile})
		cfg.File = logger.FileConfig{
			Enabled:    true,
			Path:       ExpandPath(c.Logging.File.Path),
			MaxSizeMB:  c.Logging.File.MaxSizeMB,
			MaxAgeDays: c.Logging.File.MaxAgeDays,
			MaxBackups: c.Logging.File.MaxBackups,
			Compress:   c.Logging.File.Compress,
		}
	}
	return cfg
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			if len(path) > 1 && (path[1] == '/' || path[1] == filepath.Separator) {
				path = filepath.Join(home, path[2:])
			} else if len(path) == 1 {
				path = home
			}
		}
	}
	path = os.ExpandEnv(path)
	return filepath.Clean(path)
}
