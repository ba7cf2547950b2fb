package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ByteArena/box2d"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hidden-marble/internal/entity"
	"github.com/vovakirdan/hidden-marble/internal/maze"
	"github.com/vovakirdan/hidden-marble/internal/world"
)

var (
	flagFrames int
	flagTilt   string
	flagQuiet  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless simulation",
	Long: `Build a maze world and run it without a terminal UI, printing every
gameplay event. Useful for checking determinism: the same seed, tilt and
frame count always print the same events and fingerprint.

Examples:
  marble sim --seed 7
  marble sim --seed 7 --frames 900 --tilt 2,-9.8
  marble sim --preset hard --quiet`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagFrames, "frames", 450, "Number of frames to simulate")
	simCmd.Flags().StringVar(&flagTilt, "tilt", "0,-9.8", "Constant gravity as x,y")
	simCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Only print the summary")
}

func runSim(cmd *cobra.Command, _ []string) {
	if err := simulate(cmd.OutOrStdout()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// simulate runs the configured maze for flagFrames frames and writes the
// events and a summary to out.
func simulate(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, "marble-sim")
	if err != nil {
		return err
	}
	gravity, err := parseVec(flagTilt)
	if err != nil {
		return err
	}
	size, err := cfg.MazeSize()
	if err != nil {
		return err
	}

	seed := cfg.Maze.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	def := maze.NewDef(size, rand.New(rand.NewSource(seed)))
	w, err := world.New(cfg.World.Width, cfg.World.Height, def, world.WithLogger(logger))
	if err != nil {
		return err
	}
	defer w.Dispose()

	frame := 0
	var hits, rolls, stops int
	solvedAt := -1
	w.AddListener(&world.ListenerFuncs{
		OnHit: func(impulse float64, material entity.Material) {
			hits++
			if !flagQuiet {
				fmt.Fprintf(out, "%5d hit    %-5s impulse=%.2f\n", frame, material, impulse)
			}
		},
		OnRoll: func(float64, entity.Material) {
			rolls++
		},
		OnStop: func() {
			stops++
			if !flagQuiet {
				fmt.Fprintf(out, "%5d stop\n", frame)
			}
		},
		OnSolved: func() {
			solvedAt = frame
			if !flagQuiet {
				fmt.Fprintf(out, "%5d solved\n", frame)
			}
		},
	})

	delta := 1 / float64(cfg.Display.TickRate)
	for frame = 0; frame < flagFrames; frame++ {
		w.Update(delta, gravity)
	}

	pos := w.MarblePosition()
	fmt.Fprintf(out, "seed %d  size %s  fingerprint %016x\n", seed, size.Name, entity.Fingerprint(w.MazeFixtureDefs()))
	fmt.Fprintf(out, "frames %d  steps %d  hits %d  rolling frames %d  stops %d\n", flagFrames, w.Steps(), hits, rolls, stops)
	fmt.Fprintf(out, "marble at (%.3f, %.3f)  in maze %v\n", pos.X, pos.Y, w.MarbleInMaze())
	if solvedAt >= 0 {
		fmt.Fprintf(out, "solved at frame %d\n", solvedAt)
	}
	return nil
}

// parseVec parses "x,y".
func parseVec(s string) (box2d.B2Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return box2d.B2Vec2{}, fmt.Errorf("invalid vector %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return box2d.B2Vec2{}, fmt.Errorf("invalid vector %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return box2d.B2Vec2{}, fmt.Errorf("invalid vector %q: %w", s, err)
	}
	return box2d.MakeB2Vec2(x, y), nil
}
