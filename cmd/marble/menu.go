package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hidden-marble/internal/config"
	"github.com/vovakirdan/hidden-marble/internal/platform/tui"
	"github.com/vovakirdan/hidden-marble/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a menu",
	Long: `Start Hidden Marble in interactive menu mode: continue the saved maze,
start a new one at a chosen difficulty, or browse the history. After a
game you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(io.Discard, "marble")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	for {
		result, err := tui.RunMenu(hasSave(store), width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		width, height = result.Width, result.Height

		opts := tui.Options{
			Config: cfg,
			Store:  store,
			Slot:   tui.DefaultSlot,
			Logger: logger,
			Width:  width,
			Height: height,
		}

		switch result.Choice {
		case tui.MenuChoiceContinue:
			opts.Resume = true
		case tui.MenuChoiceNew:
			config.ApplyPreset(&opts.Config, result.Preset)
		case tui.MenuChoiceHistory:
			if store == nil {
				continue
			}
			if err := tui.RunHistory(store, width, height); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			continue
		default:
			return
		}

		if err := tui.Run(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			return
		}
	}
}

// hasSave reports whether the local slot holds a saved game.
func hasSave(store *storage.Store) bool {
	if store == nil {
		return false
	}
	_, _, err := store.LoadGame(tui.DefaultSlot)
	return err == nil
}
