// Package world runs the marble simulation: it owns the Box2D world and the
// three entities, steps physics at a fixed rate and turns contacts into
// gameplay events.
package world

import (
	"fmt"
	"io"
	"slices"

	"github.com/ByteArena/box2d"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hidden-marble/internal/entity"
	"github.com/vovakirdan/hidden-marble/internal/maze"
)

// Option configures a World.
type Option func(*options)

type options struct {
	logger    *log.Logger
	marblePos *box2d.B2Vec2
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMarblePosition places the marble at p instead of the maze start tile.
func WithMarblePosition(p box2d.B2Vec2) Option {
	return func(o *options) {
		o.marblePos = &p
	}
}

// World is the simulation aggregate. It is not safe for concurrent use.
type World struct {
	logger *log.Logger

	physics  *box2d.B2World
	entities *entity.Table
	borders  *entity.Borders
	marble   *entity.Marble
	mazeBox  *entity.MazeBox

	def    maze.Def
	width  float64
	height float64

	listeners []Listener

	inMaze      bool
	rolling     bool
	solved      bool
	accumulator float64
	steps       int

	disposed bool
}

// New builds a world of width x height meters around def. The marble starts
// on the maze start tile unless WithMarblePosition says otherwise.
func New(width, height float64, def maze.Def, opts ...Option) (*World, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("world: invalid maze definition: %w", err)
	}

	physics := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	w := &World{
		logger:   o.logger,
		physics:  &physics,
		entities: entity.NewTable(),
		def:      def,
		width:    width,
		height:   height,
	}

	w.borders = entity.NewBorders(w.entities, w.physics, width, height)

	mazeBox, err := entity.NewMazeBox(w.entities, w.physics, def.Maze, def.Exit)
	if err != nil {
		w.entities.Destroy(w.physics)
		return nil, fmt.Errorf("world: cannot build maze box: %w", err)
	}
	w.mazeBox = mazeBox

	start := w.mazeBox.TileLocation(def.Start)
	if o.marblePos != nil {
		start = *o.marblePos
	}
	w.marble = entity.NewMarble(w.entities, w.physics, start, MarbleRadius)

	w.physics.SetContactListener(&contactListener{world: w})

	w.logger.Info("world created",
		"maze", fmt.Sprintf("%dx%d", def.Maze.Width(), def.Maze.Height()),
		"fixtures", len(w.mazeBox.FixtureDefs()),
		"width", width,
		"height", height,
	)
	return w, nil
}

// Update applies gravity, emits roll and stop events from the current marble
// speed and advances the simulation by delta seconds in fixed steps.
func (w *World) Update(delta float64, gravity box2d.B2Vec2) {
	w.mustBeLive("Update")

	w.physics.SetGravity(gravity)

	lenSquared := w.marble.LinearVelocity().LengthSquared()
	if lenSquared > RollThreshold {
		w.rolling = true
		material := w.rollMaterial()
		for _, l := range w.listeners {
			l.MarbleRoll(lenSquared, material)
		}
	} else if w.rolling {
		w.rolling = false
		for _, l := range w.listeners {
			l.MarbleStop()
		}
	}

	w.step(delta)
}

// step runs the fixed-step accumulator. A backlog longer than
// MaxStepsPerFrame steps collapses to a single step.
func (w *World) step(delta float64) {
	w.accumulator += delta
	if w.accumulator > MaxStepsPerFrame*TimeStep+stepEpsilon {
		w.accumulator = TimeStep
	}
	for w.accumulator >= TimeStep-stepEpsilon {
		w.physics.Step(TimeStep, VelocityIterations, PositionIterations)
		w.accumulator -= TimeStep
		w.steps++
	}
}

func (w *World) rollMaterial() entity.Material {
	if w.inMaze {
		return entity.MaterialWood
	}
	return entity.MaterialGlass
}

// AddListener registers l. Nil and already registered listeners are ignored.
func (w *World) AddListener(l Listener) {
	if l == nil || slices.Contains(w.listeners, l) {
		return
	}
	w.listeners = append(slices.Clip(w.listeners), l)
}

// RemoveListener unregisters l. Unknown listeners are ignored.
func (w *World) RemoveListener(l Listener) {
	i := slices.Index(w.listeners, l)
	if i < 0 {
		return
	}
	w.listeners = slices.Delete(slices.Clone(w.listeners), i, i+1)
}

// Resize changes the reported world dimensions. The borders keep their
// original size.
func (w *World) Resize(width, height float64) {
	w.mustBeLive("Resize")
	w.width, w.height = width, height
}

// Dispose destroys every body. Calling Dispose again is a no-op; any other
// call afterwards panics.
func (w *World) Dispose() {
	if w.disposed {
		return
	}
	// Destroying bodies reports EndContact for live contacts; the contact
	// listener ignores them from here on.
	w.disposed = true
	w.entities.Destroy(w.physics)
	w.listeners = nil
	w.logger.Debug("world disposed", "steps", w.steps)
}

func (w *World) mustBeLive(op string) {
	if w.disposed {
		panic("world: " + op + " called after Dispose")
	}
}

// Width returns the world width in meters.
func (w *World) Width() float64 {
	w.mustBeLive("Width")
	return w.width
}

// Height returns the world height in meters.
func (w *World) Height() float64 {
	w.mustBeLive("Height")
	return w.height
}

// Def returns the maze definition the world was built from.
func (w *World) Def() maze.Def {
	w.mustBeLive("Def")
	return w.def
}

// MarblePosition returns the marble center in world coordinates.
func (w *World) MarblePosition() box2d.B2Vec2 {
	w.mustBeLive("MarblePosition")
	return w.marble.Position()
}

// MarbleVelocity returns the marble's linear velocity.
func (w *World) MarbleVelocity() box2d.B2Vec2 {
	w.mustBeLive("MarbleVelocity")
	return w.marble.LinearVelocity()
}

// SetMarbleVelocity overrides the marble's linear velocity.
func (w *World) SetMarbleVelocity(v box2d.B2Vec2) {
	w.mustBeLive("SetMarbleVelocity")
	w.marble.SetLinearVelocity(v)
}

// MarbleWidth returns the marble diameter.
func (w *World) MarbleWidth() float64 {
	w.mustBeLive("MarbleWidth")
	return w.marble.Width()
}

// MazeBoxWidth returns the maze box width in meters.
func (w *World) MazeBoxWidth() float64 {
	w.mustBeLive("MazeBoxWidth")
	return w.mazeBox.Width()
}

// MazeBoxHeight returns the maze box height in meters.
func (w *World) MazeBoxHeight() float64 {
	w.mustBeLive("MazeBoxHeight")
	return w.mazeBox.Height()
}

// MazeTransform returns the maze box body transform.
func (w *World) MazeTransform() box2d.B2Transform {
	w.mustBeLive("MazeTransform")
	return w.mazeBox.Transform()
}

// MazeFixtureDefs returns the maze box fixture descriptors in creation order.
func (w *World) MazeFixtureDefs() []entity.FixtureDef {
	w.mustBeLive("MazeFixtureDefs")
	return w.mazeBox.FixtureDefs()
}

// MarbleStart returns the world position of the maze start tile.
func (w *World) MarbleStart() box2d.B2Vec2 {
	w.mustBeLive("MarbleStart")
	return w.mazeBox.TileLocation(w.def.Start)
}

// MazeExit returns the world position of the maze exit tile.
func (w *World) MazeExit() box2d.B2Vec2 {
	w.mustBeLive("MazeExit")
	return w.mazeBox.TileLocation(w.def.Exit)
}

// Steps returns the number of physics steps taken so far.
func (w *World) Steps() int {
	w.mustBeLive("Steps")
	return w.steps
}

// MarbleInMaze reports whether the marble overlaps the maze interior.
func (w *World) MarbleInMaze() bool {
	w.mustBeLive("MarbleInMaze")
	return w.inMaze
}

// Solved reports whether the marble has left the maze at least once.
func (w *World) Solved() bool {
	w.mustBeLive("Solved")
	return w.solved
}
