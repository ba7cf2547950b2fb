package main

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/hidden-marble/internal/maze"
)

func TestParseVec(t *testing.T) {
	v, err := parseVec("1.5, -9.8")
	if err != nil {
		t.Fatalf("parseVec failed: %v", err)
	}
	if v.X != 1.5 || v.Y != -9.8 {
		t.Errorf("parseVec = %v", v)
	}

	for _, bad := range []string{"", "1", "a,b", "1,"} {
		if _, err := parseVec(bad); err == nil {
			t.Errorf("parseVec(%q) should fail", bad)
		}
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"localhost:2222": "2222",
		"2222":           "2222",
	}
	for addr, want := range tests {
		if got := portOf(addr); got != want {
			t.Errorf("portOf(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestMarkDef(t *testing.T) {
	def := maze.NewDef(maze.Small, rand.New(rand.NewSource(3)))
	lines := strings.Split(markDef(def), "\n")

	if len(lines) != def.Maze.Height() {
		t.Fatalf("got %d lines, want %d", len(lines), def.Maze.Height())
	}
	if got := lines[def.Start.Y][def.Start.X]; got != 'S' {
		t.Errorf("start cell = %q, want S", got)
	}
	if got := lines[def.Exit.Y][def.Exit.X]; got != 'E' {
		t.Errorf("exit cell = %q, want E", got)
	}
	if strings.Count(markDef(def), "S") != 1 || strings.Count(markDef(def), "E") != 1 {
		t.Error("start and exit must be marked once")
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	defer func() { flagPreset, flagSeed, flagFPS = "", 0, 0 }()

	flagPreset = "hard"
	flagSeed = 99
	flagFPS = 30

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Maze.Size != "large" || cfg.Maze.Seed != 99 || cfg.Display.TickRate != 30 {
		t.Errorf("flags not applied: %+v", cfg)
	}

	flagPreset = "impossible"
	if _, err := loadConfig(); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	defer func() { flagSeed, flagFrames, flagQuiet = 0, 450, false }()

	flagSeed = 7
	flagFrames = 90
	flagQuiet = true

	var first, second bytes.Buffer
	if err := simulate(&first); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if err := simulate(&second); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("runs differ:\n%s\n%s", first.String(), second.String())
	}
	if !strings.Contains(first.String(), "seed 7") {
		t.Errorf("summary missing seed: %s", first.String())
	}
}

func TestSimulateRejectsBadTilt(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	defer func() { flagTilt = "0,-9.8" }()

	flagTilt = "down"
	if err := simulate(&bytes.Buffer{}); err == nil {
		t.Error("invalid tilt should fail")
	}
}

func TestSavesOnEmptySlot(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	defer func() { flagDBPath = "" }()
	flagDBPath = filepath.Join(t.TempDir(), "marble.db")

	var out bytes.Buffer
	if err := showSave(&out, "nobody"); err != nil {
		t.Fatalf("showSave failed: %v", err)
	}
	if !strings.Contains(out.String(), "is empty") {
		t.Errorf("unexpected output: %s", out.String())
	}

	out.Reset()
	if err := eraseSave(&out, "nobody"); err != nil {
		t.Fatalf("eraseSave failed: %v", err)
	}
	if !strings.Contains(out.String(), "Erased slot") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestPrintMaze(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	defer func() { flagSeed = 0 }()
	flagSeed = 42

	var out bytes.Buffer
	if err := printMaze(&out); err != nil {
		t.Fatalf("printMaze failed: %v", err)
	}
	if strings.Count(out.String(), "S") != 1 || strings.Count(out.String(), "E") != 1 {
		t.Errorf("expected one start and one exit:\n%s", out.String())
	}
}
