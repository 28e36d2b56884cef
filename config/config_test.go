package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/realmgate/errors"
)

const sampleConfig = `
version: "1.2.0"
platform:
  name: realmgate-test
  environment: test
policy:
  path: /etc/realmgate/policy.yaml
metrics:
  enabled: true
  port: 9191
`

func TestParse(t *testing.T) {
	cfg, err := NewLoader().Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "realmgate-test", cfg.Platform.Name)
	assert.Equal(t, "test", cfg.Platform.Environment)
	assert.Equal(t, "/etc/realmgate/policy.yaml", cfg.Policy.Path)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path) // default kept
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := NewLoader().Parse([]byte(`platform: {name: minimal}`))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "minimal", cfg.Platform.Name)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := NewLoader().Parse([]byte("platform: [broken"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REALMGATE_PLATFORM_NAME", "from-env")
	t.Setenv("REALMGATE_POLICY_PATH", "/env/policy.yaml")
	t.Setenv("REALMGATE_METRICS_ENABLED", "true")
	t.Setenv("REALMGATE_METRICS_PORT", "9999")

	cfg, err := NewLoader().Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Platform.Name)
	assert.Equal(t, "/env/policy.yaml", cfg.Policy.Path)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9999, cfg.Metrics.Port)
}

func TestCustomEnvPrefix(t *testing.T) {
	t.Setenv("CUSTOM_PLATFORM_NAME", "prefixed")

	cfg, err := NewLoaderWithPrefix("CUSTOM").Parse([]byte(sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Platform.Name)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Platform.Name = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingConfig)

	cfg = Default()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 99999
	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	cfg = Default()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "metrics"
	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	// Disabled metrics skip port and path validation.
	cfg = Default()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Port = -1
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "realmgate-test", cfg.Platform.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)
	assert.True(t, errors.IsFatal(err))
}
