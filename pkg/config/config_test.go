package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 17373, cfg.BridgePort)
	assert.Equal(t, "stdio", cfg.Transport)
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	cfg, err := Load([]string{"--bridge-port=9999", "--log-level=debug"})
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.BridgePort)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadYAMLFileThenFlagOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bridge_port: 4000\nlog_level: warn\n"), 0o644))

	cfg, err := Load([]string{"--config=" + path, "--log-level=error"})
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.BridgePort) // from YAML, flag not passed
	assert.Equal(t, "error", cfg.LogLevel) // flag wins over YAML
}
