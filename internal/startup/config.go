package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"image-watcher/internal/database"
	"image-watcher/internal/logging"
	"image-watcher/internal/query"
	"image-watcher/internal/watcher"
)

// DefaultMetadataCacheSize is the default number of cached metadata responses.
const DefaultMetadataCacheSize = 512

// Config holds all application configuration
type Config struct {
	WatchDir          string
	Recursive         bool
	DatabaseFile      string
	Port              string
	MetricsEnabled    bool
	LogHealthChecks   bool
	Debounce          time.Duration
	FilterFields      []string
	LogLevel          string
	MetadataCacheSize int
}

// fileConfig mirrors Config for YAML decoding. Pointers tell an explicit
// false or zero apart from an absent key.
type fileConfig struct {
	WatchDir          string   `yaml:"watch_dir"`
	Recursive         *bool    `yaml:"recursive"`
	DatabaseFile      string   `yaml:"database_file"`
	Port              string   `yaml:"port"`
	MetricsEnabled    *bool    `yaml:"metrics_enabled"`
	LogHealthChecks   *bool    `yaml:"log_health_checks"`
	Debounce          string   `yaml:"debounce"`
	FilterFields      []string `yaml:"filter_fields"`
	LogLevel          string   `yaml:"log_level"`
	MetadataCacheSize *int     `yaml:"metadata_cache_size"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		WatchDir:          ".",
		DatabaseFile:      database.DefaultFilename,
		Port:              "8080",
		MetricsEnabled:    true,
		Debounce:          watcher.DefaultDebounce,
		FilterFields:      append([]string(nil), query.DefaultFields...),
		LogLevel:          "info",
		MetadataCacheSize: DefaultMetadataCacheSize,
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and the environment.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if err := config.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed fileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return c.mergeWith(&parsed)
}

// mergeWith copies every value present in other into c.
func (c *Config) mergeWith(other *fileConfig) error {
	if other.WatchDir != "" {
		c.WatchDir = other.WatchDir
	}
	if other.Recursive != nil {
		c.Recursive = *other.Recursive
	}
	if other.DatabaseFile != "" {
		c.DatabaseFile = other.DatabaseFile
	}
	if other.Port != "" {
		c.Port = other.Port
	}
	if other.MetricsEnabled != nil {
		c.MetricsEnabled = *other.MetricsEnabled
	}
	if other.LogHealthChecks != nil {
		c.LogHealthChecks = *other.LogHealthChecks
	}
	if other.Debounce != "" {
		d, err := time.ParseDuration(other.Debounce)
		if err != nil {
			return fmt.Errorf("invalid debounce %q: %w", other.Debounce, err)
		}
		c.Debounce = d
	}
	if len(other.FilterFields) > 0 {
		c.FilterFields = query.ParseFields(strings.Join(other.FilterFields, ","))
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MetadataCacheSize != nil {
		c.MetadataCacheSize = *other.MetadataCacheSize
	}
	return nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() error {
	c.WatchDir = getEnv("WATCH_DIR", c.WatchDir)
	c.Recursive = getEnvBool("RECURSIVE", c.Recursive)
	c.DatabaseFile = getEnv("DATABASE_FILE", c.DatabaseFile)
	c.Port = getEnv("PORT", c.Port)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled)
	c.LogHealthChecks = getEnvBool("LOG_HEALTH_CHECKS", c.LogHealthChecks)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MetadataCacheSize = getEnvInt("METADATA_CACHE_SIZE", c.MetadataCacheSize)

	if v := os.Getenv("DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DEBOUNCE %q: %w", v, err)
		}
		c.Debounce = d
	}
	if v := os.Getenv("FILTER_FIELDS"); v != "" {
		c.FilterFields = query.ParseFields(v)
	}
	return nil
}

// Validate checks the configuration and resolves the watch directory to an
// absolute path.
func (c *Config) Validate() error {
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log level must be 'debug', 'info', 'warn', or 'error', got %q", c.LogLevel)
	}

	if c.DatabaseFile == "" || c.DatabaseFile != filepath.Base(c.DatabaseFile) {
		return fmt.Errorf("database file must be a plain file name, got %q", c.DatabaseFile)
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Port)
	}

	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %v", c.Debounce)
	}
	if c.MetadataCacheSize <= 0 {
		return fmt.Errorf("metadata cache size must be positive, got %d", c.MetadataCacheSize)
	}

	watchDir, err := filepath.Abs(c.WatchDir)
	if err != nil {
		return fmt.Errorf("failed to resolve watch directory path: %w", err)
	}
	info, err := os.Stat(watchDir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory %s is not a directory", watchDir)
	}
	c.WatchDir = watchDir
	return nil
}

// IndexPath returns the full path of the index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.WatchDir, c.DatabaseFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
