// marble is a tilt-the-box maze game for the terminal: a marble rolls
// through a maze whose walls stay hidden until the marble finds the exit.
//
// Usage:
//
//	marble play              - Play a maze in the terminal
//	marble serve             - Serve games over SSH, with optional WebSocket telemetry
//	marble sim               - Run a headless simulation and print its events
//	marble maze              - Print a generated maze
//	marble history           - Show solved mazes
//	marble saves             - Inspect or erase saved games
//
// Global flags:
//
//	--config <path>   - Custom marble.yaml
//	--preset <name>   - Difficulty preset: easy, normal, hard
//	--seed <value>    - Maze seed for reproducible mazes
//	--db <path>       - Database path (default from config: ~/.marble/marble.db)
//	--log-level <lvl> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hidden-marble/internal/config"
	"github.com/vovakirdan/hidden-marble/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagSeed     int64
	flagDBPath   string
	flagFPS      int
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marble",
	Short: "Hidden Marble - roll a marble out of an invisible maze",
	Long: `Hidden Marble is a terminal maze game. Tilt the box to roll a marble
through a maze you cannot see; the walls appear once the marble escapes.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  sim      - Headless simulation
  maze     - Print a generated maze
  history  - View solved mazes
  saves    - Inspect or erase saved games

Examples:
  marble play
  marble play --preset hard --seed 42
  marble serve --ssh :2222 --ws :8080
  marble sim --frames 450 --tilt 0,-9.8`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom marble.yaml")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Maze seed (0 = from config, or random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(mazeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(savesCmd)
}

// loadConfig resolves the config file, the preset and the flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return cfg, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagSeed != 0 {
		cfg.Maze.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagFPS > 0 {
		cfg.Display.TickRate = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger creates the command logger writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openStore opens the configured database.
func openStore(cfg config.Config) (*storage.Store, error) {
	return storage.Open(config.ExpandHome(cfg.Storage.DBPath))
}
