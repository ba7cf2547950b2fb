package world

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ByteArena/box2d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hidden-marble/internal/entity"
	"github.com/vovakirdan/hidden-marble/internal/maze"
)

type hitEvent struct {
	impulse  float64
	material entity.Material
}

type rollEvent struct {
	lenSquared float64
	material   entity.Material
}

type recorder struct {
	hits   []hitEvent
	rolls  []rollEvent
	stops  int
	solved int
}

func (r *recorder) MarbleHit(impulse float64, material entity.Material) {
	r.hits = append(r.hits, hitEvent{impulse, material})
}

func (r *recorder) MarbleRoll(lenSquared float64, material entity.Material) {
	r.rolls = append(r.rolls, rollEvent{lenSquared, material})
}

func (r *recorder) MarbleStop() { r.stops++ }
func (r *recorder) MazeSolved() { r.solved++ }

func (r *recorder) empty() bool {
	return len(r.hits) == 0 && len(r.rolls) == 0 && r.stops == 0 && r.solved == 0
}

var zero = box2d.MakeB2Vec2(0, 0)

// corridorDef is a single vertical corridor: start at the top, exit in the
// bottom wall.
func corridorDef(t *testing.T) maze.Def {
	t.Helper()
	grid, err := maze.ParseGrid(`
		###
		#.#
		#.#
		#.#
		###
	`)
	require.NoError(t, err)
	return maze.Def{Maze: grid, Start: maze.Pos(1, 1), Exit: maze.Pos(1, 4)}
}

func generatedDef() maze.Def {
	return maze.NewDef(maze.Small, rand.New(rand.NewSource(1)))
}

func newWorld(t *testing.T, width, height float64, def maze.Def, opts ...Option) (*World, *recorder) {
	t.Helper()
	w, err := New(width, height, def, opts...)
	require.NoError(t, err)
	t.Cleanup(w.Dispose)

	rec := &recorder{}
	w.AddListener(rec)
	return w, rec
}

func run(w *World, frames int, gravity box2d.B2Vec2) {
	for i := 0; i < frames; i++ {
		w.Update(TimeStep, gravity)
	}
}

func TestFixedStepCount(t *testing.T) {
	for k := 1; k <= MaxStepsPerFrame; k++ {
		w, _ := newWorld(t, 20, 20, generatedDef())
		w.Update(float64(k)*TimeStep, zero)
		assert.Equal(t, k, w.Steps(), "delta of %d steps", k)
	}
}

func TestFixedStepClampsBacklog(t *testing.T) {
	w, _ := newWorld(t, 20, 20, generatedDef())
	w.Update(10, zero)
	assert.Equal(t, 1, w.Steps())

	w.Update(6*TimeStep, zero)
	assert.Equal(t, 2, w.Steps())
}

func TestFixedStepCarriesRemainder(t *testing.T) {
	w, _ := newWorld(t, 20, 20, generatedDef())

	w.Update(TimeStep/3, zero)
	w.Update(TimeStep/3, zero)
	assert.Equal(t, 0, w.Steps())

	w.Update(TimeStep/3, zero)
	assert.Equal(t, 1, w.Steps())

	w.Update(0, zero)
	assert.Equal(t, 1, w.Steps())
}

func TestZeroGravityKeepsMarbleStill(t *testing.T) {
	w, rec := newWorld(t, 20, 20, generatedDef())
	start := w.MarbleStart()
	require.Equal(t, start, w.MarblePosition())

	w.Update(TimeStep, zero)

	assert.Equal(t, start, w.MarblePosition())
	assert.True(t, rec.empty(), "unexpected events: %+v", rec)
	assert.True(t, w.MarbleInMaze())
}

func TestRollThresholdIsStrict(t *testing.T) {
	below := math.Sqrt(RollThreshold)
	for below*below > RollThreshold {
		below = math.Nextafter(below, 0)
	}

	w, rec := newWorld(t, 20, 20, generatedDef(), WithMarblePosition(box2d.MakeB2Vec2(0, 9)))
	w.SetMarbleVelocity(box2d.MakeB2Vec2(below, 0))
	w.Update(TimeStep, zero)
	assert.Empty(t, rec.rolls)

	w.SetMarbleVelocity(box2d.MakeB2Vec2(math.Sqrt(2.2), 0))
	w.Update(TimeStep, zero)
	require.Len(t, rec.rolls, 1)
	assert.Greater(t, rec.rolls[0].lenSquared, RollThreshold)
	assert.Equal(t, entity.MaterialGlass, rec.rolls[0].material)
}

func TestRollAndStop(t *testing.T) {
	w, rec := newWorld(t, 20, 20, generatedDef(), WithMarblePosition(box2d.MakeB2Vec2(0, 9)))

	for i := 0; i < 5; i++ {
		w.SetMarbleVelocity(box2d.MakeB2Vec2(2, 0))
		w.Update(TimeStep, zero)
	}
	assert.Len(t, rec.rolls, 5)
	assert.Zero(t, rec.stops)

	for i := 0; i < 3; i++ {
		w.SetMarbleVelocity(zero)
		w.Update(TimeStep, zero)
	}
	assert.Len(t, rec.rolls, 5)
	assert.Equal(t, 1, rec.stops)

	w.SetMarbleVelocity(box2d.MakeB2Vec2(-2, 0))
	w.Update(TimeStep, zero)
	assert.Len(t, rec.rolls, 6)
	assert.Equal(t, 1, rec.stops)
}

func TestRollMaterialInsideMaze(t *testing.T) {
	w, rec := newWorld(t, 20, 20, generatedDef())

	w.Update(TimeStep, zero)
	require.True(t, w.MarbleInMaze())

	w.SetMarbleVelocity(box2d.MakeB2Vec2(1.5, 0))
	w.Update(TimeStep, zero)
	require.Len(t, rec.rolls, 1)
	assert.Equal(t, entity.MaterialWood, rec.rolls[0].material)
}

func TestMazeSolvedOnce(t *testing.T) {
	w, rec := newWorld(t, 10, 20, corridorDef(t))

	down := box2d.MakeB2Vec2(0, -10)
	up := box2d.MakeB2Vec2(0, 10)

	run(w, 150, down)
	assert.Equal(t, 1, rec.solved)
	assert.True(t, w.Solved())
	assert.False(t, w.MarbleInMaze())
	assert.Less(t, w.MarblePosition().Y, w.MazeExit().Y)

	run(w, 150, up)
	assert.True(t, w.MarbleInMaze(), "marble should be back in the corridor")

	run(w, 150, down)
	assert.False(t, w.MarbleInMaze())
	assert.Equal(t, 1, rec.solved)
}

func TestExitMazeDirect(t *testing.T) {
	w, rec := newWorld(t, 20, 20, generatedDef())

	w.enterMaze()
	assert.True(t, w.MarbleInMaze())

	w.exitMaze()
	w.enterMaze()
	w.exitMaze()

	assert.Equal(t, 1, rec.solved)
	assert.False(t, w.MarbleInMaze())
}

func TestHitWood(t *testing.T) {
	w, rec := newWorld(t, 10, 20, corridorDef(t))
	w.SetMarbleVelocity(box2d.MakeB2Vec2(0, 30))

	run(w, 10, zero)

	require.NotEmpty(t, rec.hits)
	for _, h := range rec.hits {
		assert.Greater(t, h.impulse, HitThreshold)
		assert.Equal(t, entity.MaterialWood, h.material)
	}
}

func TestHitGlass(t *testing.T) {
	w, rec := newWorld(t, 20, 20, generatedDef(), WithMarblePosition(box2d.MakeB2Vec2(0, 9)))
	w.SetMarbleVelocity(box2d.MakeB2Vec2(0, 30))

	run(w, 10, zero)

	require.NotEmpty(t, rec.hits)
	assert.Equal(t, entity.MaterialGlass, rec.hits[0].material)
}

func TestSlowContactIsNotAHit(t *testing.T) {
	w, rec := newWorld(t, 10, 20, corridorDef(t))
	w.SetMarbleVelocity(box2d.MakeB2Vec2(0, 3))

	run(w, 20, zero)

	assert.Empty(t, rec.hits)
	assert.Less(t, w.MarbleVelocity().Y, 0.5, "marble should have stopped at the wall")
}

func TestSlowImpactIsInelastic(t *testing.T) {
	w, _ := newWorld(t, 10, 20, corridorDef(t))
	w.SetMarbleVelocity(box2d.MakeB2Vec2(0, 5))

	run(w, 20, zero)

	assert.InDelta(t, 0, w.MarbleVelocity().Y, 0.05, "impact below %v m/s should not bounce", VelocityThreshold)
}

func TestFastImpactRebounds(t *testing.T) {
	w, _ := newWorld(t, 10, 20, corridorDef(t))
	w.SetMarbleVelocity(box2d.MakeB2Vec2(0, 12))

	run(w, 20, zero)

	assert.Less(t, w.MarbleVelocity().Y, -0.1, "impact above %v m/s should bounce", VelocityThreshold)
}

func TestListeners(t *testing.T) {
	w, err := New(20, 20, generatedDef())
	require.NoError(t, err)
	defer w.Dispose()

	var order []string
	first := &ListenerFuncs{OnSolved: func() { order = append(order, "first") }}
	second := &ListenerFuncs{OnSolved: func() { order = append(order, "second") }}

	w.AddListener(nil)
	w.AddListener(first)
	w.AddListener(second)
	w.AddListener(first)
	w.RemoveListener(&ListenerFuncs{})

	w.exitMaze()
	assert.Equal(t, []string{"first", "second"}, order)

	w.RemoveListener(first)
	w.RemoveListener(first)
	w.solved = false
	w.exitMaze()
	assert.Equal(t, []string{"first", "second", "second"}, order)
}

func TestAdapterSatisfiesListener(t *testing.T) {
	type onlySolved struct {
		Adapter
		n *int
	}
	n := 0
	w, _ := newWorld(t, 20, 20, generatedDef())
	w.AddListener(&onlySolved{n: &n})
	w.AddListener(&ListenerFuncs{OnSolved: func() { n++ }})

	w.SetMarbleVelocity(box2d.MakeB2Vec2(2, 0))
	w.Update(TimeStep, zero)
	w.exitMaze()
	assert.Equal(t, 1, n)
}

func TestDispose(t *testing.T) {
	w, err := New(20, 20, generatedDef())
	require.NoError(t, err)
	rec := &recorder{}
	w.AddListener(rec)

	w.Update(TimeStep, zero)
	require.True(t, w.MarbleInMaze())

	w.Dispose()
	w.Dispose()

	assert.Zero(t, rec.solved, "teardown must not report the marble leaving the maze")
	assert.Panics(t, func() { w.Update(TimeStep, zero) })
	assert.Panics(t, func() { w.MarblePosition() })
	assert.Panics(t, func() { w.Snapshot() })
	assert.NotPanics(t, func() { w.AddListener(rec) })
	assert.NotPanics(t, func() { w.RemoveListener(rec) })
}

func TestAccessors(t *testing.T) {
	def := generatedDef()
	w, _ := newWorld(t, 12, 16, def)

	assert.Equal(t, 12.0, w.Width())
	assert.Equal(t, 16.0, w.Height())
	assert.Equal(t, 2*MarbleRadius, w.MarbleWidth())
	assert.Equal(t, float64(def.Maze.Width()), w.MazeBoxWidth())
	assert.Equal(t, float64(def.Maze.Height()), w.MazeBoxHeight())

	tf := w.MazeTransform()
	assert.InDelta(t, -(float64(def.Maze.Width())/2 - 0.5), tf.P.X, 1e-9)
	assert.InDelta(t, -(float64(def.Maze.Height())/2 - 0.5), tf.P.Y, 1e-9)

	exit := w.MazeExit()
	assert.InDelta(t, tf.P.X+float64(def.Exit.X), exit.X, 1e-9)
	assert.InDelta(t, tf.P.Y+float64(def.Maze.Height()-def.Exit.Y-1), exit.Y, 1e-9)

	_, wantDefs, err := entity.BuildMazeBox(newPhysics(), def.Maze, def.Exit)
	require.NoError(t, err)
	assert.Equal(t, wantDefs, w.MazeFixtureDefs())

	w.Resize(30, 40)
	assert.Equal(t, 30.0, w.Width())
	assert.Equal(t, 40.0, w.Height())
}

func TestNewRejectsBadDefinitions(t *testing.T) {
	def := corridorDef(t)

	startInWall := def
	startInWall.Start = maze.Pos(0, 1)
	_, err := New(10, 20, startInWall)
	assert.Error(t, err)

	cornerExit := def
	cornerExit.Exit = maze.Pos(0, 4)
	_, err = New(10, 20, cornerExit)
	assert.ErrorIs(t, err, entity.ErrInvalidExit)

	noMaze := maze.Def{}
	_, err = New(10, 20, noMaze)
	assert.Error(t, err)
}

func TestSnapshotRestore(t *testing.T) {
	w, _ := newWorld(t, 20, 20, generatedDef())
	run(w, 30, box2d.MakeB2Vec2(3, -4))
	w.SetMarbleVelocity(box2d.MakeB2Vec2(2, 0))
	w.Update(TimeStep, zero)

	s := w.Snapshot()
	restored, err := Restore(s)
	require.NoError(t, err)
	defer restored.Dispose()

	assert.Equal(t, s.MarblePosition, restored.MarblePosition())
	assert.Equal(t, s.MarbleVelocity, restored.MarbleVelocity())
	assert.Equal(t, w.MazeFixtureDefs(), restored.MazeFixtureDefs())
	assert.Equal(t, entity.Fingerprint(w.MazeFixtureDefs()), entity.Fingerprint(restored.MazeFixtureDefs()))
	assert.Equal(t, s, restored.Snapshot())
}

func newPhysics() *box2d.B2World {
	pw := box2d.MakeB2World(zero)
	return &pw
}
