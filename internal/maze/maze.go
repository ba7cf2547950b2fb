// Package maze provides the tile maze model consumed by the physics core,
// plus a recursive backtracker generator that produces such mazes.
//
// A tile maze stores walls and passages as separate grid cells. Row 0 is the
// top row. Mazes are immutable once generated.
package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Glyphs used by the text form of a tile maze.
const (
	WallGlyph    = '#'
	PassageGlyph = '.'
)

// ErrPositionOutOfBounds is returned when a position lies outside a maze.
var ErrPositionOutOfBounds = errors.New("maze: position out of bounds")

// Position is a cell coordinate. X grows to the right, Y grows downward.
type Position struct {
	X, Y int
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// String returns the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// TileMaze is the read-only view of a maze the physics core consumes.
type TileMaze interface {
	// Width returns the number of tile columns.
	Width() int
	// Height returns the number of tile rows.
	Height() int
	// IsWall reports whether the tile at (x, y) is a wall.
	IsWall(x, y int) bool
}

// InBounds reports whether p is a valid tile position of m.
func InBounds(m TileMaze, p Position) bool {
	return p.X >= 0 && p.X < m.Width() && p.Y >= 0 && p.Y < m.Height()
}

// Grid is the default TileMaze implementation.
type Grid struct {
	width  int
	height int
	walls  []bool
}

// NewGrid creates a grid of the given size where every tile is a wall.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		walls:  make([]bool, width*height),
	}
	for i := range g.walls {
		g.walls[i] = true
	}
	return g
}

// Width returns the number of tile columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of tile rows.
func (g *Grid) Height() int {
	return g.height
}

// IsWall reports whether the tile at (x, y) is a wall.
// Tiles outside the grid are solid.
func (g *Grid) IsWall(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return true
	}
	return g.walls[y*g.width+x]
}

// carve turns the tile at (x, y) into a passage.
func (g *Grid) carve(x, y int) {
	g.walls[y*g.width+x] = false
}

// String returns the text form of the grid.
func (g *Grid) String() string {
	return Format(g)
}

// Format renders any tile maze as rows of '#' (wall) and '.' (passage).
func Format(m TileMaze) string {
	var sb strings.Builder
	sb.Grow((m.Width() + 1) * m.Height())

	for y := 0; y < m.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < m.Width(); x++ {
			if m.IsWall(x, y) {
				sb.WriteRune(WallGlyph)
			} else {
				sb.WriteRune(PassageGlyph)
			}
		}
	}
	return sb.String()
}

// ParseGrid parses the text form produced by Format.
// Blank lines and surrounding whitespace are ignored.
func ParseGrid(s string) (*Grid, error) {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}

	if len(rows) == 0 {
		return nil, errors.New("maze: empty grid")
	}

	width := len(rows[0])
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("maze: row %d has width %d, want %d", y, len(row), width)
		}
		for x, r := range row {
			switch r {
			case WallGlyph:
			case PassageGlyph:
				g.carve(x, y)
			default:
				return nil, fmt.Errorf("maze: unexpected glyph %q at (%d,%d)", r, x, y)
			}
		}
	}
	return g, nil
}
