package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal(DefaultYAML(), &cfg))
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadSearchOrder(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(work, "configs", "marble.yaml"), "maze:\n  size: large\n")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "large", cfg.Maze.Size)
	assert.Equal(t, Default().World, cfg.World, "missing fields keep defaults")

	writeFile(t, filepath.Join(home, ".marble", "configs", "marble.yaml"), "maze:\n  size: small\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "small", cfg.Maze.Size)

	custom := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, custom, "display:\n  tick_rate: 30\n")
	cfg, err = Load(custom)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Display.TickRate)
	assert.Equal(t, "medium", cfg.Maze.Size)
}

func TestLoadSkipsMalformedOptionalFiles(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".marble", "configs", "marble.yaml"), "maze: [not a map")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadCustomErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, bad, "world: [1, 2")
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"unknown size", func(c *Config) { c.Maze.Size = "huge" }, false},
		{"world too small", func(c *Config) { c.World.Width = 5 }, false},
		{"large fits", func(c *Config) { c.Maze.Size = "large" }, true},
		{"zero tilt", func(c *Config) { c.Input.Tilt = 0 }, false},
		{"tilt above cap", func(c *Config) { c.Input.MaxTilt = 1 }, false},
		{"decay above one", func(c *Config) { c.Input.Decay = 1.5 }, false},
		{"no tick rate", func(c *Config) { c.Display.TickRate = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	p, err := ParsePreset("")
	require.NoError(t, err)
	assert.Equal(t, PresetNormal, p)

	_, err = ParsePreset("nightmare")
	assert.Error(t, err)

	for _, preset := range []Preset{PresetEasy, PresetNormal, PresetHard} {
		cfg := Default()
		ApplyPreset(&cfg, preset)
		assert.NoError(t, cfg.Validate(), "preset %s", preset)
	}

	cfg := Default()
	ApplyPreset(&cfg, PresetHard)
	assert.Equal(t, "large", cfg.Maze.Size)
}

func TestExpandHome(t *testing.T) {
	home, _ := isolate(t)
	assert.Equal(t, filepath.Join(home, ".marble", "marble.db"), ExpandHome("~/.marble/marble.db"))
	assert.Equal(t, "/tmp/x.db", ExpandHome("/tmp/x.db"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
