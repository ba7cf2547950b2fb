package maze

import (
	"fmt"
	"math/rand"
)

// Def bundles a generated maze with its start and exit tiles.
// Both positions are tile coordinates.
type Def struct {
	Maze  TileMaze
	Start Position
	Exit  Position
}

// NewDef generates a maze of the given size. The start is a random top-row
// cell and the exit is the boundary wall below the middle bottom-row cell.
func NewDef(size Size, rng *rand.Rand) Def {
	start := TileAt(Position{X: rng.Intn(size.Width), Y: 0})
	bottom := TileAt(Position{X: size.Width / 2, Y: size.Height - 1})
	exit := Position{X: bottom.X, Y: bottom.Y + 1}

	return Def{
		Maze:  Generate(size.Width, size.Height, rng),
		Start: start,
		Exit:  exit,
	}
}

// Validate checks that the start is a passage and the exit is a wall, both
// inside the maze.
func (d Def) Validate() error {
	if d.Maze == nil {
		return fmt.Errorf("maze: definition has no maze")
	}
	if !InBounds(d.Maze, d.Start) {
		return fmt.Errorf("maze: start %v: %w", d.Start, ErrPositionOutOfBounds)
	}
	if !InBounds(d.Maze, d.Exit) {
		return fmt.Errorf("maze: exit %v: %w", d.Exit, ErrPositionOutOfBounds)
	}
	if d.Maze.IsWall(d.Start.X, d.Start.Y) {
		return fmt.Errorf("maze: start %v is a wall", d.Start)
	}
	if !d.Maze.IsWall(d.Exit.X, d.Exit.Y) {
		return fmt.Errorf("maze: exit %v is not a wall", d.Exit)
	}
	return nil
}
