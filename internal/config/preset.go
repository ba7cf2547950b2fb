package config

import "fmt"

// Preset is a named difficulty.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case "":
		return PresetNormal, nil
	case PresetEasy, PresetNormal, PresetHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown preset %q", s)
	}
}

// ApplyPreset picks the maze size and tilt response for a preset.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Maze.Size = "small"
		cfg.Input.Tilt = 3
		cfg.Input.MaxTilt = 9
	case PresetNormal:
		cfg.Maze.Size = "medium"
	case PresetHard:
		cfg.Maze.Size = "large"
		cfg.Input.Tilt = 6
		cfg.Input.MaxTilt = 18
		cfg.Input.Decay = 0.97
	}
}
