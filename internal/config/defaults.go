package config

import (
	_ "embed"
)

//go:embed defaults/marble.yaml
var defaultMarbleYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Maze: MazeConfig{
			Size: "medium",
		},
		World: WorldConfig{
			Width:  16,
			Height: 20,
		},
		Input: InputConfig{
			Tilt:    4,
			MaxTilt: 12,
			Decay:   0.92,
		},
		Display: DisplayConfig{
			TickRate: 45,
		},
		Storage: StorageConfig{
			DBPath: "~/.marble/marble.db",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultMarbleYAML
}
