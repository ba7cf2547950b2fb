package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hidden-marble/internal/config"
	"github.com/vovakirdan/hidden-marble/internal/core"
	"github.com/vovakirdan/hidden-marble/internal/game"
	"github.com/vovakirdan/hidden-marble/internal/storage"
	"github.com/vovakirdan/hidden-marble/internal/world"
)

// DefaultSlot is the save slot of local games.
const DefaultSlot = "local"

// Options configures a game model.
type Options struct {
	Config   config.Config
	Store    *storage.Store // Optional; nothing is saved without it
	Slot     string         // Save slot, DefaultSlot if empty
	Seed     int64          // Maze seed, 0 for random
	Resume   bool           // Continue the game saved in Slot
	Logger   *log.Logger
	Listener world.Listener // Extra listener, e.g. telemetry
	Width    int
	Height   int
}

// Model is the Bubble Tea model for a marble session.
type Model struct {
	session    *game.Session
	screen     *core.Screen
	store      *storage.Store
	slot       string
	saveID     string
	tickRate   int
	logger     *log.Logger
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	quitting   bool
	err        error
}

// NewModel creates a model and starts or resumes its maze.
func NewModel(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	slot := opts.Slot
	if slot == "" {
		slot = DefaultSlot
	}

	sessionOpts := []game.Option{game.WithLogger(logger)}
	if opts.Listener != nil {
		sessionOpts = append(sessionOpts, game.WithListener(opts.Listener))
	}
	session, err := game.New(opts.Config, sessionOpts...)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		session:    session,
		screen:     core.NewScreen(opts.Width, opts.Height),
		store:      opts.Store,
		slot:       slot,
		tickRate:   opts.Config.Display.TickRate,
		logger:     logger,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}

	seed := opts.Seed
	if seed == 0 {
		seed = opts.Config.Maze.Seed
	}
	if opts.Resume && m.store != nil {
		if m.resume() {
			return m, nil
		}
	}
	if err := session.Reset(seed); err != nil {
		return Model{}, err
	}
	return m, nil
}

// resume loads the slot's save. Returns false if there is nothing usable.
func (m *Model) resume() bool {
	st, id, err := m.store.LoadGame(m.slot)
	if errors.Is(err, storage.ErrNoSave) {
		return false
	}
	if err != nil {
		m.logger.Warn("cannot load saved game", "slot", m.slot, "error", err)
		return false
	}
	if err := m.session.Resume(st); err != nil {
		m.logger.Warn("cannot resume saved game", "slot", m.slot, "error", err)
		return false
	}
	m.saveID = id
	m.logger.Info("resumed game", "slot", m.slot, "id", id)
	return true
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The world is sized in meters; only the screen changes.
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		return m.quit()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	res := m.session.Step(m.inputFrame)
	m.inputFrame.Clear()

	if res.Solved {
		m.recordSolve()
	}

	return m, tickCmd(m.tickRate)
}

// recordSolve stores the finished maze in the history.
func (m *Model) recordSolve() {
	r, ok := m.session.LastResult()
	if !ok || m.store == nil {
		return
	}
	if m.saveID == "" {
		id, err := m.store.SaveGame(m.slot, m.session.Save())
		if err != nil {
			m.logger.Warn("cannot save game", "slot", m.slot, "error", err)
		}
		m.saveID = id
	}
	_, err := m.store.RecordSolve(storage.Solve{
		SaveID:      m.saveID,
		Size:        r.Size,
		Steps:       r.Steps,
		Hits:        r.Hits,
		Duration:    r.Duration,
		Fingerprint: r.Fingerprint,
	})
	if err != nil {
		m.logger.Warn("cannot record solve", "error", err)
	}
}

// quit saves an unsolved maze for later, or clears the slot of a solved one.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.store != nil && m.session.World() != nil {
		if m.session.Status() == game.StatusSolved {
			m.err = m.store.EraseGame(m.slot)
		} else {
			m.saveID, m.err = m.store.SaveGame(m.slot, m.session.Save())
		}
		if m.err != nil {
			m.logger.Warn("cannot save game", "slot", m.slot, "error", m.err)
		}
	}
	m.session.Close()
	return m, tea.Quit
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.session.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".marble", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("marble_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.session.Render(m.screen)
	return RenderScreen(m.screen)
}

// Session returns the running session.
func (m Model) Session() *game.Session {
	return m.session
}

// Err returns the error of the final save, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program with a new model.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
