package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPath(t *testing.T) {
	p, err := ConfigPath("custom.config")
	require.NoError(t, err)
	assert.Equal(t, "custom.config", p)

	p, err = ConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, ConfigFileName, filepath.Base(p))
}

func TestLoadConfigInit(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.FileExists(t, path)

	_, err = LoadConfig(path, true)
	assert.Error(t, err)

	cfg, err = LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, "2d", cfg.Animation.InitialView)
}
