// Package config provides YAML-based configuration loading for the marble
// game and its presets.
package config

import (
	"fmt"

	"github.com/vovakirdan/hidden-marble/internal/maze"
)

// Config contains all configuration for a marble session.
type Config struct {
	Maze    MazeConfig    `yaml:"maze"`
	World   WorldConfig   `yaml:"world"`
	Input   InputConfig   `yaml:"input"`
	Display DisplayConfig `yaml:"display"`
	Storage StorageConfig `yaml:"storage"`
}

// MazeConfig selects the generated maze.
type MazeConfig struct {
	Size string `yaml:"size"` // "small", "medium" or "large"
	Seed int64  `yaml:"seed"` // 0 picks a random seed
}

// WorldConfig defines the play area in meters.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// InputConfig defines how key presses tilt the box.
type InputConfig struct {
	Tilt    float64 `yaml:"tilt"`     // Gravity added per key press (m/s^2)
	MaxTilt float64 `yaml:"max_tilt"` // Gravity magnitude cap per axis
	Decay   float64 `yaml:"decay"`    // Fraction of tilt kept each tick, 0..1
}

// DisplayConfig defines terminal rendering.
type DisplayConfig struct {
	TickRate int  `yaml:"tick_rate"` // Frames per second
	Reveal   bool `yaml:"reveal"`    // Draw the maze before it is solved
}

// StorageConfig locates the save database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// MazeSize resolves the configured maze size.
func (c Config) MazeSize() (maze.Size, error) {
	return maze.SizeByName(c.Maze.Size)
}

// Validate checks that the config describes a playable session.
func (c Config) Validate() error {
	size, err := c.MazeSize()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	// The tile maze must fit inside the borders.
	if c.World.Width < float64(2*size.Width+1) || c.World.Height < float64(2*size.Height+1) {
		return fmt.Errorf("config: world %gx%g too small for %s maze", c.World.Width, c.World.Height, size.Name)
	}
	if c.Input.Tilt <= 0 || c.Input.MaxTilt < c.Input.Tilt {
		return fmt.Errorf("config: tilt %g must be positive and at most max_tilt %g", c.Input.Tilt, c.Input.MaxTilt)
	}
	if c.Input.Decay < 0 || c.Input.Decay > 1 {
		return fmt.Errorf("config: decay %g outside [0, 1]", c.Input.Decay)
	}
	if c.Display.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive")
	}
	return nil
}
