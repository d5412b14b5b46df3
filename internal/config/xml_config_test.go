package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "LCU_BIND", "LCU_LOG_LEVEL", "LCU_LAYOUT_FILE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "127.0.0.1:8090", c.GetServerAddr())
	assert.Equal(t, 33*time.Millisecond, c.Interval2D())
	assert.Equal(t, 100*time.Millisecond, c.ReadoutPollInterval())
	assert.Equal(t, time.Hour, c.HistoryRetention())
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lcu.xml")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "missing config must not be created")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "lcu.xml")

	c := DefaultConfig()
	c.Server.Port = 9100
	c.Animation.InitialView = "3d"
	c.Layout.File = "layouts/custom.yaml"
	require.NoError(t, c.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, loaded.Server.Port)
	assert.Equal(t, "3d", loaded.Animation.InitialView)
	assert.Equal(t, filepath.Join(dir, "layouts/custom.yaml"), loaded.Layout.File)
	assert.Empty(t, loaded.History.DatabasePath)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9200")
	t.Setenv("LCU_BIND", "0.0.0.0")
	t.Setenv("LCU_LOG_LEVEL", "debug")
	t.Setenv("LCU_LAYOUT_FILE", "/etc/lcu/layout.yaml")

	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.xml"))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9200", c.GetServerAddr())
	assert.Equal(t, "debug", c.Advanced.LogLevel)
	assert.Equal(t, "/etc/lcu/layout.yaml", c.Layout.File)
}

func TestLoadConfigErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "<LCUSimulator><Server>"},
		{"bad view", "<LCUSimulator><Animation><InitialView>4d</InitialView></Animation></LCUSimulator>"},
		{"zero frame rate", "<LCUSimulator><Animation><FrameRate3D>0</FrameRate3D></Animation></LCUSimulator>"},
		{"negative interval", "<LCUSimulator><Animation><Interval2DMillis>-1</Interval2DMillis></Animation></LCUSimulator>"},
		{"quoted memory limit", "<LCUSimulator><History><DuckDBMemoryLimit>1GB'; DROP</DuckDBMemoryLimit></History></LCUSimulator>"},
		{"unitless memory limit", "<LCUSimulator><History><DuckDBMemoryLimit>512</DuckDBMemoryLimit></History></LCUSimulator>"},
		{"negative websocket size", "<LCUSimulator><Advanced><WebSocketMaxMessageSizeKB>-1</WebSocketMaxMessageSizeKB></Advanced></LCUSimulator>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lcu.xml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestMemoryLimitFormats(t *testing.T) {
	for _, v := range []string{"", "256MB", "1.5 GiB", "4GB", "512KiB"} {
		c := DefaultConfig()
		c.History.DuckDBMemory = v
		assert.NoError(t, c.Validate(), v)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lcu.xml")
	require.NoError(t, os.WriteFile(path, []byte("<LCUSimulator><Server><Port>8123</Port></Server></LCUSimulator>"), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8123, c.Server.Port)
	assert.Equal(t, 30, c.Animation.FrameRate3D)
	assert.Equal(t, "info", c.Advanced.LogLevel)
}
