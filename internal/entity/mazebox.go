package entity

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ByteArena/box2d"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/hidden-marble/internal/maze"
)

// CornerRadius is the fillet radius of the four rounded maze corners.
const CornerRadius = 1.0

// Maze box construction errors.
var (
	ErrMazeTooSmall   = errors.New("entity: maze too small")
	ErrInvalidExit    = errors.New("entity: invalid exit")
	ErrCornerNotWall  = errors.New("entity: maze corner is not a wall")
	errMissingFixture = errors.New("entity: no wall fixture")
)

// FixtureDef describes one fixture of the maze box. Plain blocks and corners
// are 1 x 1 meters; the sensor spans the maze interior.
type FixtureDef struct {
	Center   box2d.B2Vec2
	IsCorner bool
	IsSensor bool
}

// mazeFixture pairs a live fixture with its descriptor.
type mazeFixture struct {
	fixture *box2d.B2Fixture
	def     FixtureDef
	removed bool
}

// MazeBox is the static body holding the maze walls and the exit sensor.
type MazeBox struct {
	*Entity
	defs []FixtureDef
}

// NewMazeBox builds the maze box body for m and binds it to t.
func NewMazeBox(t *Table, world *box2d.B2World, m maze.TileMaze, exit maze.Position) (*MazeBox, error) {
	body, defs, err := BuildMazeBox(world, m, exit)
	if err != nil {
		return nil, err
	}
	return &MazeBox{
		Entity: t.bind(KindMazeBox, body, float64(m.Width()), float64(m.Height())),
		defs:   defs,
	}, nil
}

// TileLocation returns the world position of the center of tile p.
func (b *MazeBox) TileLocation(p maze.Position) box2d.B2Vec2 {
	local := box2d.MakeB2Vec2(float64(p.X), b.height-float64(p.Y)-1)
	return box2d.B2TransformVec2Mul(b.Transform(), local)
}

// FixtureDefs returns a copy of the maze box fixture descriptors in creation
// order.
func (b *MazeBox) FixtureDefs() []FixtureDef {
	out := make([]FixtureDef, len(b.defs))
	copy(out, b.defs)
	return out
}

// BuildMazeBox creates the static maze box body for m: one unit block per
// wall tile, a gap at exit, rounded blocks at the four grid corners and a
// sensor covering the interior. The body is centered on the world origin.
// It returns the body and the fixture descriptors in creation order.
func BuildMazeBox(world *box2d.B2World, m maze.TileMaze, exit maze.Position) (*box2d.B2Body, []FixtureDef, error) {
	width, height := m.Width(), m.Height()
	if width < 3 || height < 2 {
		return nil, nil, fmt.Errorf("entity: %dx%d tiles: %w", width, height, ErrMazeTooSmall)
	}
	if err := checkExit(m, exit); err != nil {
		return nil, nil, err
	}
	for _, c := range Corners {
		p := c.Position(width, height)
		if !m.IsWall(p.X, p.Y) {
			return nil, nil, fmt.Errorf("entity: %s corner %v: %w", c, p, ErrCornerNotWall)
		}
	}

	rows := scanWalls(m)

	offset := box2d.MakeB2Vec2(float64(width)/2-0.5, float64(height)/2-0.5)
	bodyDef := box2d.MakeB2BodyDef()
	bodyDef.Position = box2d.MakeB2Vec2(-offset.X, -offset.Y)
	body := world.CreateBody(&bodyDef)

	// Wall blocks, row-major from the top row
	fixtures := make([]*mazeFixture, 0, width*height)
	byTile := make(map[maze.Position]*mazeFixture, width*height)
	for y, xs := range rows {
		for _, x := range xs {
			center := box2d.MakeB2Vec2(float64(x), float64(height-y-1))
			square := box2d.MakeB2PolygonShape()
			square.SetAsBoxFromCenterAndAngle(0.5, 0.5, center, 0)

			mf := &mazeFixture{def: FixtureDef{Center: center}}
			mf.fixture = attachWall(body, &square, mf.def)
			fixtures = append(fixtures, mf)
			byTile[maze.Pos(x, y)] = mf
		}
	}

	// Exit gap
	if err := removeFixture(body, byTile, exit); err != nil {
		world.DestroyBody(body)
		return nil, nil, err
	}

	// Rounded corners replace the plain corner blocks
	for _, c := range Corners {
		p := c.Position(width, height)
		old := byTile[p]
		if err := removeFixture(body, byTile, p); err != nil {
			world.DestroyBody(body)
			return nil, nil, err
		}

		shape := cornerShape(c, old.def.Center, CornerRadius)
		mf := &mazeFixture{def: FixtureDef{Center: old.def.Center, IsCorner: true}}
		mf.fixture = attachWall(body, &shape, mf.def)
		fixtures = append(fixtures, mf)
	}

	// Interior sensor
	sensor := box2d.MakeB2PolygonShape()
	sensor.SetAsBoxFromCenterAndAngle(float64(width-2)/2, float64(height-1)/2, offset, 0)
	sensorDef := FixtureDef{Center: offset, IsSensor: true}
	fixtureDef := box2d.MakeB2FixtureDef()
	fixtureDef.Shape = &sensor
	fixtureDef.IsSensor = true
	fixtureDef.UserData = sensorDef
	fixtures = append(fixtures, &mazeFixture{
		fixture: body.CreateFixtureFromDef(&fixtureDef),
		def:     sensorDef,
	})

	defs := make([]FixtureDef, 0, len(fixtures))
	for _, mf := range fixtures {
		if !mf.removed {
			defs = append(defs, mf.def)
		}
	}
	return body, defs, nil
}

// checkExit validates that exit is an in-bounds wall tile that is not one of
// the rounded corners.
func checkExit(m maze.TileMaze, exit maze.Position) error {
	if !maze.InBounds(m, exit) {
		return fmt.Errorf("entity: exit %v: %w: %w", exit, ErrInvalidExit, maze.ErrPositionOutOfBounds)
	}
	if !m.IsWall(exit.X, exit.Y) {
		return fmt.Errorf("entity: exit %v is not a wall: %w", exit, ErrInvalidExit)
	}
	if c, err := CornerAt(exit, m.Width(), m.Height()); err == nil {
		return fmt.Errorf("entity: exit %v is the %s corner: %w", exit, c, ErrInvalidExit)
	}
	return nil
}

// scanWalls lists the wall columns of every row. Rows are scanned in
// parallel; the result is in row order.
func scanWalls(m maze.TileMaze) [][]int {
	rows := make([][]int, m.Height())

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := range rows {
		g.Go(func() error {
			for x := 0; x < m.Width(); x++ {
				if m.IsWall(x, y) {
					rows[y] = append(rows[y], x)
				}
			}
			return nil
		})
	}
	//nolint:errcheck // Row scans never fail
	g.Wait()

	return rows
}

// attachWall adds a solid maze fixture carrying def as user data.
func attachWall(body *box2d.B2Body, shape box2d.B2ShapeInterface, def FixtureDef) *box2d.B2Fixture {
	fixtureDef := box2d.MakeB2FixtureDef()
	fixtureDef.Shape = shape
	fixtureDef.Friction = MazeBoxFriction
	fixtureDef.Restitution = MazeBoxRestitution
	fixtureDef.UserData = def
	return body.CreateFixtureFromDef(&fixtureDef)
}

// removeFixture destroys the wall block at p.
func removeFixture(body *box2d.B2Body, byTile map[maze.Position]*mazeFixture, p maze.Position) error {
	mf, ok := byTile[p]
	if !ok || mf.removed {
		return fmt.Errorf("entity: %v: %w", p, errMissingFixture)
	}
	body.DestroyFixture(mf.fixture)
	mf.removed = true
	delete(byTile, p)
	return nil
}
