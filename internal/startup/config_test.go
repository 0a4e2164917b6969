package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-watcher/internal/database"
	"image-watcher/internal/query"
)

var configEnvVars = []string{
	"WATCH_DIR", "RECURSIVE", "DATABASE_FILE", "PORT", "METRICS_ENABLED",
	"LOG_HEALTH_CHECKS", "LOG_LEVEL", "METADATA_CACHE_SIZE", "DEBOUNCE", "FILTER_FIELDS",
}

// clearConfigEnv blanks every variable LoadConfig reads. Empty values are
// treated as unset.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ".", config.WatchDir)
	assert.False(t, config.Recursive)
	assert.Equal(t, database.DefaultFilename, config.DatabaseFile)
	assert.Equal(t, "8080", config.Port)
	assert.True(t, config.MetricsEnabled)
	assert.False(t, config.LogHealthChecks)
	assert.Equal(t, time.Second, config.Debounce)
	assert.Equal(t, query.DefaultFields, config.FilterFields)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, DefaultMetadataCacheSize, config.MetadataCacheSize)
}

func TestDefaultConfigFieldsAreACopy(t *testing.T) {
	config := DefaultConfig()
	config.FilterFields[0] = "changed"
	assert.NotEqual(t, "changed", query.DefaultFields[0])
}

func TestLoadConfigYAML(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfigFile(t, `
watch_dir: /srv/images
recursive: true
database_file: index.json
port: "9090"
metrics_enabled: false
log_health_checks: true
debounce: 250ms
filter_fields: [steps, model]
log_level: debug
metadata_cache_size: 16
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/images", config.WatchDir)
	assert.True(t, config.Recursive)
	assert.Equal(t, "index.json", config.DatabaseFile)
	assert.Equal(t, "9090", config.Port)
	assert.False(t, config.MetricsEnabled, "explicit false must override the default")
	assert.True(t, config.LogHealthChecks)
	assert.Equal(t, 250*time.Millisecond, config.Debounce)
	assert.Equal(t, []string{"Steps", "Model"}, config.FilterFields)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 16, config.MetadataCacheSize)
}

func TestLoadConfigYAMLPartial(t *testing.T) {
	clearConfigEnv(t)

	config, err := LoadConfig(writeConfigFile(t, "port: \"7000\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "7000", config.Port)
	assert.True(t, config.MetricsEnabled, "absent keys keep their defaults")
	assert.Equal(t, database.DefaultFilename, config.DatabaseFile)
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "port: \"9090\"\nrecursive: false\n")

	t.Setenv("PORT", "7070")
	t.Setenv("RECURSIVE", "true")
	t.Setenv("DEBOUNCE", "2s")
	t.Setenv("FILTER_FIELDS", "sampler, Seed")
	t.Setenv("METADATA_CACHE_SIZE", "64")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", config.Port)
	assert.True(t, config.Recursive)
	assert.Equal(t, 2*time.Second, config.Debounce)
	assert.Equal(t, []string{"Sampler", "Seed"}, config.FilterFields)
	assert.Equal(t, 64, config.MetadataCacheSize)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "invalid yaml", yaml: "port: [unterminated"},
		{name: "invalid yaml debounce", yaml: "debounce: soon\n"},
		{name: "invalid env debounce", env: map[string]string{"DEBOUNCE": "later"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfigFile(t, tt.yaml)
			}

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearConfigEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "warning accepted", modify: func(c *Config) { c.LogLevel = "WARNING" }},
		{name: "empty database file", modify: func(c *Config) { c.DatabaseFile = "" }, wantErr: true},
		{name: "database file with directory", modify: func(c *Config) { c.DatabaseFile = "sub/db.json" }, wantErr: true},
		{name: "non numeric port", modify: func(c *Config) { c.Port = "http" }, wantErr: true},
		{name: "port zero", modify: func(c *Config) { c.Port = "0" }, wantErr: true},
		{name: "port too large", modify: func(c *Config) { c.Port = "70000" }, wantErr: true},
		{name: "zero debounce", modify: func(c *Config) { c.Debounce = 0 }, wantErr: true},
		{name: "zero cache size", modify: func(c *Config) { c.MetadataCacheSize = 0 }, wantErr: true},
		{name: "missing watch dir", modify: func(c *Config) { c.WatchDir = filepath.Join(dir, "nope") }, wantErr: true},
		{name: "watch dir is a file", modify: func(c *Config) { c.WatchDir = file }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.WatchDir = dir
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateResolvesWatchDir(t *testing.T) {
	dir := t.TempDir()
	// testing.T.Chdir requires Go 1.24; restore the working directory manually.
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	config := DefaultConfig()
	require.NoError(t, config.Validate())

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(config.WatchDir)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(config.WatchDir))
	assert.Equal(t, want, got)
	assert.Equal(t, filepath.Join(config.WatchDir, database.DefaultFilename), config.IndexPath())
}
