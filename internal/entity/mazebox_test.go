package entity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ByteArena/box2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hidden-marble/internal/maze"
)

func newPhysics() *box2d.B2World {
	w := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	return &w
}

func smallDef(seed int64) maze.Def {
	return maze.NewDef(maze.Small, rand.New(rand.NewSource(seed)))
}

func countWalls(m maze.TileMaze) int {
	n := 0
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.IsWall(x, y) {
				n++
			}
		}
	}
	return n
}

func TestBuildMazeBoxDescriptorCounts(t *testing.T) {
	for _, size := range maze.Sizes() {
		t.Run(size.Name, func(t *testing.T) {
			def := maze.NewDef(size, rand.New(rand.NewSource(11)))
			_, defs, err := BuildMazeBox(newPhysics(), def.Maze, def.Exit)
			require.NoError(t, err)

			var plain, corners, sensors int
			for _, d := range defs {
				switch {
				case d.IsSensor:
					sensors++
				case d.IsCorner:
					corners++
				default:
					plain++
				}
			}

			assert.Equal(t, countWalls(def.Maze)-1-4, plain)
			assert.Equal(t, 4, corners)
			assert.Equal(t, 1, sensors)
		})
	}
}

func TestBuildMazeBoxLeavesExitGap(t *testing.T) {
	def := smallDef(5)
	_, defs, err := BuildMazeBox(newPhysics(), def.Maze, def.Exit)
	require.NoError(t, err)

	exit := box2d.MakeB2Vec2(float64(def.Exit.X), float64(def.Maze.Height()-def.Exit.Y-1))
	for _, d := range defs {
		assert.NotEqual(t, exit, d.Center, "descriptor sits on the exit tile")
	}
}

func TestBuildMazeBoxOrder(t *testing.T) {
	def := smallDef(8)
	w, h := def.Maze.Width(), def.Maze.Height()
	_, defs, err := BuildMazeBox(newPhysics(), def.Maze, def.Exit)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(defs), 5)

	sensor := defs[len(defs)-1]
	assert.True(t, sensor.IsSensor)
	assert.Equal(t, box2d.MakeB2Vec2(float64(w)/2-0.5, float64(h)/2-0.5), sensor.Center)

	corners := defs[len(defs)-5 : len(defs)-1]
	// top-left, bottom-left, bottom-right, top-right
	want := []box2d.B2Vec2{
		box2d.MakeB2Vec2(0, float64(h-1)),
		box2d.MakeB2Vec2(0, 0),
		box2d.MakeB2Vec2(float64(w-1), 0),
		box2d.MakeB2Vec2(float64(w-1), float64(h-1)),
	}
	for i, c := range corners {
		assert.True(t, c.IsCorner)
		assert.Equal(t, want[i], c.Center)
	}

	// Plain blocks come row-major from the top row
	prev := defs[0].Center
	for _, d := range defs[1 : len(defs)-5] {
		if d.Center.Y == prev.Y {
			assert.Greater(t, d.Center.X, prev.X)
		} else {
			assert.Less(t, d.Center.Y, prev.Y)
		}
		prev = d.Center
	}
}

func TestBuildMazeBoxFixturesOnBody(t *testing.T) {
	def := smallDef(2)
	body, defs, err := BuildMazeBox(newPhysics(), def.Maze, def.Exit)
	require.NoError(t, err)

	count, sensors := 0, 0
	for f := body.GetFixtureList(); f != nil; f = f.GetNext() {
		count++
		if f.IsSensor() {
			sensors++
		}
		_, ok := f.GetUserData().(FixtureDef)
		assert.True(t, ok, "fixture without descriptor")
	}
	assert.Equal(t, len(defs), count)
	assert.Equal(t, 1, sensors)
}

func TestBuildMazeBoxDeterminism(t *testing.T) {
	def := smallDef(21)

	_, a, err := BuildMazeBox(newPhysics(), def.Maze, def.Exit)
	require.NoError(t, err)
	_, b, err := BuildMazeBox(newPhysics(), def.Maze, def.Exit)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	other := smallDef(22)
	_, c, err := BuildMazeBox(newPhysics(), other.Maze, other.Exit)
	require.NoError(t, err)
	if maze.Format(other.Maze) != maze.Format(def.Maze) {
		assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	}
}

func TestBuildMazeBoxErrors(t *testing.T) {
	grid, err := maze.ParseGrid(`
		#####
		#...#
		#.#.#
		#####
	`)
	require.NoError(t, err)

	tests := []struct {
		name string
		m    maze.TileMaze
		exit maze.Position
		err  error
	}{
		{"exit is passage", grid, maze.Pos(1, 1), ErrInvalidExit},
		{"exit out of bounds", grid, maze.Pos(2, 9), maze.ErrPositionOutOfBounds},
		{"exit is corner", grid, maze.Pos(4, 3), ErrInvalidExit},
		{"too small", maze.NewGrid(2, 2), maze.Pos(1, 1), ErrMazeTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildMazeBox(newPhysics(), tt.m, tt.exit)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBuildMazeBoxCornerMustBeWall(t *testing.T) {
	grid, err := maze.ParseGrid(`
		.####
		#...#
		#####
	`)
	require.NoError(t, err)

	_, _, err = BuildMazeBox(newPhysics(), grid, maze.Pos(2, 2))
	assert.ErrorIs(t, err, ErrCornerNotWall)
}

func TestCornerAt(t *testing.T) {
	for _, c := range Corners {
		got, err := CornerAt(c.Position(9, 11), 9, 11)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := CornerAt(maze.Pos(4, 0), 9, 11)
	assert.ErrorIs(t, err, ErrNotCorner)
}

func TestCornerVertices(t *testing.T) {
	center := box2d.MakeB2Vec2(0, 10)
	tests := []struct {
		corner Corner
		origin box2d.B2Vec2
		first  box2d.B2Vec2 // arc point at 0 degrees
		last   box2d.B2Vec2 // arc point at 90 degrees
	}{
		{CornerTopLeft, box2d.MakeB2Vec2(0.5, 9.5), box2d.MakeB2Vec2(-0.5, 9.5), box2d.MakeB2Vec2(0.5, 10.5)},
		{CornerBottomLeft, box2d.MakeB2Vec2(0.5, 10.5), box2d.MakeB2Vec2(-0.5, 10.5), box2d.MakeB2Vec2(0.5, 9.5)},
		{CornerBottomRight, box2d.MakeB2Vec2(-0.5, 10.5), box2d.MakeB2Vec2(0.5, 10.5), box2d.MakeB2Vec2(-0.5, 9.5)},
		{CornerTopRight, box2d.MakeB2Vec2(-0.5, 9.5), box2d.MakeB2Vec2(0.5, 9.5), box2d.MakeB2Vec2(-0.5, 10.5)},
	}
	for _, tt := range tests {
		t.Run(tt.corner.String(), func(t *testing.T) {
			v := CornerVertices(tt.corner, center, CornerRadius)
			require.Len(t, v, 8)
			assert.Equal(t, tt.origin, v[0])
			assert.InDelta(t, tt.first.X, v[1].X, 1e-9)
			assert.InDelta(t, tt.first.Y, v[1].Y, 1e-9)
			assert.InDelta(t, tt.last.X, v[7].X, 1e-9)
			assert.InDelta(t, tt.last.Y, v[7].Y, 1e-9)

			for _, p := range v[1:] {
				dist := math.Hypot(p.X-v[0].X, p.Y-v[0].Y)
				assert.InDelta(t, CornerRadius, dist, 1e-9)
			}
		})
	}
}

func TestTileLocation(t *testing.T) {
	def := smallDef(4)
	table := NewTable()
	box, err := NewMazeBox(table, newPhysics(), def.Maze, def.Exit)
	require.NoError(t, err)

	w, h := def.Maze.Width(), def.Maze.Height()
	assert.Equal(t, float64(w), box.Width())
	assert.Equal(t, float64(h), box.Height())

	// Odd-sized tile mazes put the middle tile on the origin
	mid := box.TileLocation(maze.Pos((w-1)/2, (h-1)/2))
	assert.InDelta(t, 0, mid.X, 1e-9)
	assert.InDelta(t, 0, mid.Y, 1e-9)

	topLeft := box.TileLocation(maze.Pos(0, 0))
	assert.InDelta(t, -float64(w-1)/2, topLeft.X, 1e-9)
	assert.InDelta(t, float64(h-1)/2, topLeft.Y, 1e-9)

	defs := box.FixtureDefs()
	defs[0].IsSensor = true
	assert.False(t, box.FixtureDefs()[0].IsSensor, "FixtureDefs must return a copy")
}
