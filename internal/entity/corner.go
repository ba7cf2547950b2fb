package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByteArena/box2d"

	"github.com/vovakirdan/hidden-marble/internal/maze"
)

// ErrNotCorner is returned when a position is not one of a maze's grid corners.
var ErrNotCorner = errors.New("entity: position is not a maze corner")

// Corner identifies one of the four grid corners of a maze.
type Corner uint8

const (
	CornerTopLeft Corner = iota
	CornerBottomLeft
	CornerBottomRight
	CornerTopRight
)

// Corners lists the corners in the order the maze box replaces them.
var Corners = [4]Corner{CornerTopLeft, CornerBottomLeft, CornerBottomRight, CornerTopRight}

// String returns the corner name.
func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerBottomRight:
		return "bottom-right"
	case CornerTopRight:
		return "top-right"
	default:
		return "unknown"
	}
}

// Position returns the tile position of the corner in a width x height maze.
func (c Corner) Position(width, height int) maze.Position {
	switch c {
	case CornerBottomLeft:
		return maze.Pos(0, height-1)
	case CornerBottomRight:
		return maze.Pos(width-1, height-1)
	case CornerTopRight:
		return maze.Pos(width-1, 0)
	default:
		return maze.Pos(0, 0)
	}
}

// CornerAt resolves a tile position to a corner of a width x height maze.
func CornerAt(p maze.Position, width, height int) (Corner, error) {
	for _, c := range Corners {
		if c.Position(width, height) == p {
			return c, nil
		}
	}
	return 0, fmt.Errorf("entity: %v in %dx%d maze: %w", p, width, height, ErrNotCorner)
}

// cornerGeometry holds the arc origin offset (in half radii, box2D axes) and
// the per-axis sign applied to the arc points.
type cornerGeometry struct {
	offset box2d.B2Vec2
	rotate box2d.B2Vec2
}

var cornerTable = [...]cornerGeometry{
	CornerTopLeft:     {offset: box2d.B2Vec2{X: 1, Y: -1}, rotate: box2d.B2Vec2{X: -1, Y: 1}},
	CornerBottomLeft:  {offset: box2d.B2Vec2{X: 1, Y: 1}, rotate: box2d.B2Vec2{X: -1, Y: -1}},
	CornerBottomRight: {offset: box2d.B2Vec2{X: -1, Y: 1}, rotate: box2d.B2Vec2{X: 1, Y: -1}},
	CornerTopRight:    {offset: box2d.B2Vec2{X: -1, Y: -1}, rotate: box2d.B2Vec2{X: 1, Y: 1}},
}

// cornerVertexCount is capped by Box2D's polygon vertex limit.
const cornerVertexCount = box2d.B2_maxPolygonVertices

// ArcOrigin returns the center of the fillet arc for a corner block centered
// at center.
func ArcOrigin(c Corner, center box2d.B2Vec2, radius float64) box2d.B2Vec2 {
	g := cornerTable[c]
	half := radius / 2
	return box2d.MakeB2Vec2(center.X+g.offset.X*half, center.Y+g.offset.Y*half)
}

// CornerVertices returns the fan approximating a rounded corner block: the
// arc origin followed by points sampled evenly over a 90 degree arc.
func CornerVertices(c Corner, center box2d.B2Vec2, radius float64) []box2d.B2Vec2 {
	g := cornerTable[c]
	origin := ArcOrigin(c, center, radius)

	vertices := make([]box2d.B2Vec2, cornerVertexCount)
	vertices[0] = origin
	for i := 0; i < cornerVertexCount-1; i++ {
		angle := float64(i) / float64(cornerVertexCount-2) * math.Pi / 2
		vertices[i+1] = box2d.MakeB2Vec2(
			origin.X+radius*math.Cos(angle)*g.rotate.X,
			origin.Y+radius*math.Sin(angle)*g.rotate.Y,
		)
	}
	return vertices
}

func cornerShape(c Corner, center box2d.B2Vec2, radius float64) box2d.B2PolygonShape {
	vertices := CornerVertices(c, center, radius)
	shape := box2d.MakeB2PolygonShape()
	shape.Set(vertices, len(vertices))
	return shape
}
