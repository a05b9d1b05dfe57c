package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "standard", cfg.Policy)
	assert.Equal(t, 10, cfg.Engine.MaxDepth)
	assert.Equal(t, 2, cfg.Engine.ShortCircuitDepth)
	assert.Equal(t, 100, cfg.Engine.TextLimit)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, int64(64*1024*1024), cfg.Document.MaxBytes)
	require.NoError(t, cfg.Validate())
}

func TestNewViperReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
policy: Strict
engine:
  max_depth: 5
  short_circuit_depth: 1
log:
  level: debug
  json: true
watch:
  debounce: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "strict", cfg.Policy)
	assert.Equal(t, 5, cfg.Engine.MaxDepth)
	assert.Equal(t, 1, cfg.Engine.ShortCircuitDepth)
	assert.Equal(t, 100, cfg.Engine.TextLimit, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
}

func TestNewViperMissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNewViperWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CONTRASTCHECK_POLICY", "strict")
	t.Setenv("CONTRASTCHECK_ENGINE_MAX_DEPTH", "12")
	t.Setenv("CONTRASTCHECK_WATCH_DEBOUNCE", "40ms")

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "strict", cfg.Policy)
	assert.Equal(t, 12, cfg.Engine.MaxDepth)
	assert.Equal(t, 40*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("CONTRASTCHECK_LOG_LEVEL=error\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CONTRASTCHECK_LOG_LEVEL") })

	require.NoError(t, LoadDotEnv())
	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errPart string
	}{
		{name: "unknown policy", mutate: func(c *Config) { c.Policy = "lenient" }, errPart: "policy must be one of"},
		{name: "zero depth", mutate: func(c *Config) { c.Engine.MaxDepth = 0 }, errPart: "engine.max_depth must be at least 1"},
		{name: "depth too large", mutate: func(c *Config) { c.Engine.MaxDepth = 65 }, errPart: "engine.max_depth must be at most 64"},
		{
			name:    "short circuit beyond max depth",
			mutate:  func(c *Config) { c.Engine.MaxDepth = 3; c.Engine.ShortCircuitDepth = 4 },
			errPart: "engine.short_circuit_depth must not exceed max_depth",
		},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, errPart: "log.level"},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.Debounce = -time.Second }, errPart: "watch.debounce"},
		{name: "zero max bytes", mutate: func(c *Config) { c.Document.MaxBytes = 0 }, errPart: "document.max_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}
