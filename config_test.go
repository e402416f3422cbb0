package ember

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[window]
width = 640
height = 480

[particles]
count = 42
palette = ["#112233"]

[renderer]
immediate = true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.Equal(t, DefaultConfig().Window.Title, cfg.Window.Title, "unset fields keep defaults")

	assert.Equal(t, 42, cfg.Particles.Count)
	assert.Equal(t, []string{"#112233"}, cfg.Particles.Palette)
	assert.Equal(t, DefaultConfig().Particles.Gravity, cfg.Particles.Gravity)

	assert.True(t, cfg.Renderer.Immediate)
}

func TestLoadConfig_MalformedIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\nwidth = "), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
