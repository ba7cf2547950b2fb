package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hidden-marble/internal/config"
	"github.com/vovakirdan/hidden-marble/internal/game"
	"github.com/vovakirdan/hidden-marble/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "marble.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testOptions(store *storage.Store) Options {
	cfg := config.Default()
	cfg.Maze.Size = "small"
	return Options{Config: cfg, Store: store, Seed: 17, Width: 80, Height: 30}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelTicksAndRenders(t *testing.T) {
	m, err := NewModel(testOptions(nil))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	if m.Init() == nil {
		t.Fatal("Init should start the tick loop")
	}

	m, _ = update(t, m, runeKey('s'))
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if got := m.Session().Snapshot().Frames; got != 1 {
		t.Errorf("Frames = %d, want 1", got)
	}

	view := m.View()
	if !strings.Contains(view, "HIDDEN MARBLE") {
		t.Errorf("view missing HUD:\n%s", view)
	}
}

func TestModelQuitSavesAndResumes(t *testing.T) {
	store := openStore(t)

	m, err := NewModel(testOptions(store))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	for range 10 {
		m, _ = update(t, m, runeKey('a'))
		m, _ = update(t, m, TickMsg{})
	}
	fp := m.Session().Fingerprint()

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if m.Err() != nil {
		t.Fatalf("save failed: %v", m.Err())
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}

	st, _, err := store.LoadGame(DefaultSlot)
	if err != nil {
		t.Fatalf("LoadGame failed: %v", err)
	}

	opts := testOptions(store)
	opts.Seed = 99
	opts.Resume = true
	resumed, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	if got := resumed.Session().Fingerprint(); got != fp {
		t.Errorf("resumed fingerprint = %x, want %x", got, fp)
	}
	pos := resumed.Session().World().MarblePosition()
	if pos != st.MarblePosition {
		t.Errorf("marble at %v, want %v", pos, st.MarblePosition)
	}
}

func TestModelResumeWithoutSaveStartsNewMaze(t *testing.T) {
	opts := testOptions(openStore(t))
	opts.Resume = true
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	if m.Session().Seed() != 17 {
		t.Errorf("Seed = %d, want 17", m.Session().Seed())
	}
}

func TestModelRecordsSolve(t *testing.T) {
	store := openStore(t)
	m, err := NewModel(testOptions(store))
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	m, _ = update(t, m, TickMsg{})

	m.Session().MazeSolved()
	m.recordSolve()

	solves, err := store.Solves(10)
	if err != nil {
		t.Fatalf("Solves failed: %v", err)
	}
	if len(solves) != 1 {
		t.Fatalf("got %d solves, want 1", len(solves))
	}
	if solves[0].Size != "small" || solves[0].Fingerprint != m.Session().Fingerprint() {
		t.Errorf("unexpected solve %+v", solves[0])
	}

	// Quitting a solved maze clears the slot.
	m, _ = update(t, m, runeKey('q'))
	if _, _, err := store.LoadGame(DefaultSlot); !errors.Is(err, storage.ErrNoSave) {
		t.Errorf("LoadGame err = %v, want ErrNoSave", err)
	}
	if m.Session().Status() != game.StatusSolved {
		t.Error("session should stay solved")
	}
}

func TestSlotFor(t *testing.T) {
	if got := slotFor("alice"); got != "ssh:alice" {
		t.Errorf("slotFor(alice) = %q", got)
	}
	if got := slotFor(""); got != "ssh:anonymous" {
		t.Errorf("slotFor(\"\") = %q", got)
	}
}
