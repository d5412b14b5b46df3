package layout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	l, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 1200.0, l.Width)
	assert.Equal(t, 700.0, l.Height)
	assert.Equal(t, Position{X: 100, Y: 500}, l.Tank)
	assert.Equal(t, Position{X: 100, Y: 380}, l.Heater)
	assert.Equal(t, []Position{{180, 500}, {240, 500}}, l.Pumps)
	assert.Equal(t, []float64{0, 150, 250}, l.Channels.ValveOffsets)
	assert.Len(t, l.CoolantPipes, 5)
	assert.Equal(t, models.RGB(100, 150, 200), models.Color(l.CoolantPipes[0].Color))
	assert.Equal(t, models.RGB(255, 150, 150), models.Color(l.RefrigerantPipes[2].Color))

	assert.Equal(t, 250.0, l.ChannelY(3))
	assert.Equal(t, 600.0, l.LoopY(2))
}

func TestParseReaderRejects(t *testing.T) {
	base, err := os.ReadFile("default_layout.yaml")
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "unknown key",
			mutate:  func(s string) string { return s + "\nbogus: 1\n" },
			wantErr: "bogus",
		},
		{
			name:    "bad color",
			mutate:  func(s string) string { return strings.Replace(s, `"#6496c8"`, `"#zz96c8"`, 1) },
			wantErr: "invalid color",
		},
		{
			name: "missing pump",
			mutate: func(s string) string {
				return strings.Replace(s, "  - {x: 240, y: 500}\n", "", 1)
			},
			wantErr: "want 2 pumps",
		},
		{
			name:    "unknown valve type",
			mutate:  func(s string) string { return strings.Replace(s, "valve_type: ball", "valve_type: needle", 1) },
			wantErr: "unknown valve type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReader(strings.NewReader(tt.mutate(string(base))))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, defaultLayout, 0644))

	l, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "Liquid Cooling Unit (LCU) - RSCU A C01", l.Title)

	_, err = Parse(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
