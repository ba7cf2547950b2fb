package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hidden-marble/internal/platform/tui"
)

var (
	flagSlot    string
	flagNew     bool
	flagLogFile string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a maze",
	Long: `Play Hidden Marble in this terminal. Quitting saves the maze; the next
play continues it unless --new is given.

Controls:
  W/A/S/D, arrows  - Tilt the box
  Space            - Level the box
  V                - Reveal or hide the maze
  P/Esc            - Pause
  R                - New maze
  Ctrl+S           - Screenshot to ~/.marble/screenshots
  Q/Ctrl+C         - Save and quit

Examples:
  marble play
  marble play --new --preset easy
  marble play --slot practice`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSlot, "slot", tui.DefaultSlot, "Save slot")
	playCmd.Flags().BoolVar(&flagNew, "new", false, "Start a new maze instead of continuing the saved one")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, fileErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if fileErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", fileErr)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, "marble")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Store:  store,
		Slot:   flagSlot,
		Resume: !flagNew,
		Logger: logger,
		Width:  width,
		Height: height,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
