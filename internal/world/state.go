package world

import (
	"slices"

	"github.com/ByteArena/box2d"

	"github.com/vovakirdan/hidden-marble/internal/maze"
)

// State is everything needed to rebuild a world after a restart.
type State struct {
	Width          float64
	Height         float64
	Maze           maze.Def
	MarblePosition box2d.B2Vec2
	MarbleVelocity box2d.B2Vec2
	InMaze         bool
	Rolling        bool
	Solved         bool
}

// Snapshot captures the current world state.
func (w *World) Snapshot() State {
	w.mustBeLive("Snapshot")
	return State{
		Width:          w.width,
		Height:         w.height,
		Maze:           w.def,
		MarblePosition: w.marble.Position(),
		MarbleVelocity: w.marble.LinearVelocity(),
		InMaze:         w.inMaze,
		Rolling:        w.rolling,
		Solved:         w.solved,
	}
}

// Restore rebuilds a world from s. The maze box geometry is rebuilt from the
// same definition, so fixture descriptors match the original world.
func Restore(s State, opts ...Option) (*World, error) {
	opts = append(slices.Clip(opts), WithMarblePosition(s.MarblePosition))
	w, err := New(s.Width, s.Height, s.Maze, opts...)
	if err != nil {
		return nil, err
	}
	w.marble.SetLinearVelocity(s.MarbleVelocity)
	w.inMaze = s.InMaze
	w.rolling = s.Rolling
	w.solved = s.Solved
	return w, nil
}
