package maze

import (
	"fmt"
	"math/rand"
)

// Size is a maze size preset measured in wall-based cells.
// The tile representation is (2*Width+1) x (2*Height+1).
type Size struct {
	Name   string
	Width  int
	Height int
}

// Size presets.
var (
	Small  = Size{Name: "small", Width: 4, Height: 5}  // 9 x 11 tiles
	Medium = Size{Name: "medium", Width: 5, Height: 6} // 11 x 13 tiles
	Large  = Size{Name: "large", Width: 7, Height: 8}  // 15 x 17 tiles
)

// Sizes lists the presets from smallest to largest.
func Sizes() []Size {
	return []Size{Small, Medium, Large}
}

// SizeByName returns the preset with the given name.
func SizeByName(name string) (Size, error) {
	for _, s := range Sizes() {
		if s.Name == name {
			return s, nil
		}
	}
	return Size{}, fmt.Errorf("maze: unknown size %q", name)
}

// SizeOf returns the size of a tile maze. A maze matching no preset gets a
// size named "custom".
func SizeOf(m TileMaze) Size {
	w, h := (m.Width()-1)/2, (m.Height()-1)/2
	for _, s := range Sizes() {
		if s.Width == w && s.Height == h {
			return s
		}
	}
	return Size{Name: "custom", Width: w, Height: h}
}

// TileAt converts a wall-based cell position into its tile position.
func TileAt(p Position) Position {
	return Position{X: p.X*2 + 1, Y: p.Y*2 + 1}
}

// direction offsets in cell space: north, east, south, west.
var directions = [4]Position{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Generate carves a perfect maze of width x height cells with the recursive
// backtracker algorithm and returns its tile representation.
// The same rng state always yields the same maze.
func Generate(width, height int, rng *rand.Rand) *Grid {
	g := NewGrid(width*2+1, height*2+1)
	if width <= 0 || height <= 0 {
		return g
	}

	visited := make([]bool, width*height)
	start := Position{X: rng.Intn(width), Y: rng.Intn(height)}
	stack := []Position{start}
	visited[start.Y*width+start.X] = true
	tile := TileAt(start)
	g.carve(tile.X, tile.Y)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		// Collect unvisited neighbors in a shuffled order
		var next []Position
		for _, i := range rng.Perm(len(directions)) {
			d := directions[i]
			n := Position{X: cur.X + d.X, Y: cur.Y + d.Y}
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			if visited[n.Y*width+n.X] {
				continue
			}
			next = append(next, n)
		}

		if len(next) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		n := next[0]
		visited[n.Y*width+n.X] = true

		// Knock down the wall tile between cur and n, then open n
		from := TileAt(cur)
		to := TileAt(n)
		g.carve((from.X+to.X)/2, (from.Y+to.Y)/2)
		g.carve(to.X, to.Y)

		stack = append(stack, n)
	}

	return g
}
