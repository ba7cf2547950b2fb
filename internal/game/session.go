// Package game runs one marble session on top of the world simulation:
// it turns tilt input into gravity, tracks hits and solves, and draws the
// board into a core.Screen. Like the world, it has no terminal dependencies.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/ByteArena/box2d"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hidden-marble/internal/config"
	"github.com/vovakirdan/hidden-marble/internal/core"
	"github.com/vovakirdan/hidden-marble/internal/entity"
	"github.com/vovakirdan/hidden-marble/internal/maze"
	"github.com/vovakirdan/hidden-marble/internal/world"
)

// Status is the coarse session state.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusSolved  Status = "solved"
)

// Result describes a solved maze.
type Result struct {
	Size        string
	Seed        int64
	Steps       int
	Hits        int
	Duration    time.Duration // Simulated time until the solve
	Fingerprint uint64
}

// StepResult is returned from Step.
type StepResult struct {
	Status Status
	Quit   bool
	Solved bool // The maze was solved during this step
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger passed down to every world.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithListener registers an extra world listener on every world the session
// creates.
func WithListener(l world.Listener) Option {
	return func(s *Session) {
		if l != nil {
			s.extra = append(s.extra, l)
		}
	}
}

// WithSolvedHandler sets a callback run once per solved maze.
func WithSolvedHandler(fn func(Result)) Option {
	return func(s *Session) {
		s.onSolved = fn
	}
}

// Session is a single player's game. It is not safe for concurrent use.
type Session struct {
	cfg      config.Config
	size     maze.Size
	logger   *log.Logger
	extra    []world.Listener
	onSolved func(Result)

	world *world.World
	tilt  *core.Tilt
	seed  int64
	delta float64

	frames      uint64
	elapsed     float64
	hits        int
	lastHit     entity.Material
	rolling     bool
	paused      bool
	reveal      bool
	solved      bool
	solvedNow   bool
	result      Result
	fingerprint uint64
}

// New creates a session for cfg. Call Reset or Resume before stepping.
func New(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	size, err := cfg.MazeSize()
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:    cfg,
		size:   size,
		logger: log.New(io.Discard),
		tilt:   core.NewTilt(cfg.Input.Tilt, cfg.Input.MaxTilt, cfg.Input.Decay),
		delta:  1 / float64(cfg.Display.TickRate),
		reveal: cfg.Display.Reveal,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reset starts a new maze. A zero seed picks one from the clock.
func (s *Session) Reset(seed int64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	def := maze.NewDef(s.size, rand.New(rand.NewSource(seed)))
	w, err := world.New(s.cfg.World.Width, s.cfg.World.Height, def, world.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("game: cannot create world: %w", err)
	}
	s.install(w, seed)
	return nil
}

// Resume continues a saved game.
func (s *Session) Resume(st world.State) error {
	w, err := world.Restore(st, world.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("game: cannot restore world: %w", err)
	}
	s.size = maze.SizeOf(st.Maze.Maze)
	s.install(w, 0)
	s.solved = st.Solved
	s.rolling = st.Rolling
	return nil
}

func (s *Session) install(w *world.World, seed int64) {
	if s.world != nil {
		s.world.Dispose()
	}
	s.world = w
	s.seed = seed
	s.tilt = core.NewTilt(s.cfg.Input.Tilt, s.cfg.Input.MaxTilt, s.cfg.Input.Decay)
	s.frames = 0
	s.elapsed = 0
	s.hits = 0
	s.lastHit = entity.MaterialGlass
	s.rolling = false
	s.paused = false
	s.solved = false
	s.solvedNow = false
	s.result = Result{}
	s.fingerprint = entity.Fingerprint(w.MazeFixtureDefs())

	w.AddListener(s)
	for _, l := range s.extra {
		w.AddListener(l)
	}
}

// Step advances the session by one tick of input.
func (s *Session) Step(in core.InputFrame) StepResult {
	if in.Has(core.ActionQuit) {
		return StepResult{Status: s.Status(), Quit: true}
	}
	if s.world == nil {
		return StepResult{Status: s.Status()}
	}
	if in.Has(core.ActionRestart) {
		if err := s.Reset(0); err != nil {
			s.logger.Error("cannot restart", "err", err)
		}
		return StepResult{Status: s.Status()}
	}
	if in.Has(core.ActionReveal) {
		s.reveal = !s.reveal
	}
	if in.Has(core.ActionPause) {
		s.paused = !s.paused
	}
	if s.paused {
		return StepResult{Status: s.Status()}
	}

	gx, gy := s.tilt.Apply(in)
	s.solvedNow = false
	s.world.Update(s.delta, box2d.MakeB2Vec2(gx, gy))
	s.frames++
	s.elapsed += s.delta

	return StepResult{Status: s.Status(), Solved: s.solvedNow}
}

// Status returns the coarse session state.
func (s *Session) Status() Status {
	switch {
	case s.solved:
		return StatusSolved
	case s.paused:
		return StatusPaused
	default:
		return StatusPlaying
	}
}

// World returns the live world, or nil before the first Reset.
func (s *Session) World() *world.World {
	return s.world
}

// Save captures the current world state.
func (s *Session) Save() world.State {
	return s.world.Snapshot()
}

// Hits returns the number of hard collisions since the maze started.
func (s *Session) Hits() int {
	return s.hits
}

// Seed returns the seed of the current maze, or 0 for a resumed maze.
func (s *Session) Seed() int64 {
	return s.seed
}

// Fingerprint identifies the current maze geometry.
func (s *Session) Fingerprint() uint64 {
	return s.fingerprint
}

// SizeName returns the size of the current maze.
func (s *Session) SizeName() string {
	return s.size.Name
}

// Revealed reports whether the maze walls are drawn while unsolved.
func (s *Session) Revealed() bool {
	return s.reveal
}

// Close disposes the current world.
func (s *Session) Close() {
	if s.world != nil {
		s.world.Dispose()
		s.world = nil
	}
}

// MarbleHit implements world.Listener.
func (s *Session) MarbleHit(impulse float64, material entity.Material) {
	s.hits++
	s.lastHit = material
	s.logger.Debug("marble hit", "impulse", impulse, "material", material)
}

// MarbleRoll implements world.Listener.
func (s *Session) MarbleRoll(float64, entity.Material) {
	s.rolling = true
}

// MarbleStop implements world.Listener.
func (s *Session) MarbleStop() {
	s.rolling = false
}

// MazeSolved implements world.Listener.
func (s *Session) MazeSolved() {
	if s.solved {
		return
	}
	s.solved = true
	s.solvedNow = true
	s.result = Result{
		Size:        s.size.Name,
		Seed:        s.seed,
		Steps:       s.world.Steps(),
		Hits:        s.hits,
		Duration:    time.Duration(s.elapsed * float64(time.Second)),
		Fingerprint: s.fingerprint,
	}
	if s.onSolved != nil {
		s.onSolved(s.result)
	}
}

// LastResult returns the result of the most recent solve.
func (s *Session) LastResult() (Result, bool) {
	return s.result, s.solved && s.result.Size != ""
}
