package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hidden-marble/internal/entity"
	"github.com/vovakirdan/hidden-marble/internal/maze"
	"github.com/vovakirdan/hidden-marble/internal/platform/tui"
	"github.com/vovakirdan/hidden-marble/internal/storage"
	"github.com/vovakirdan/hidden-marble/internal/world"
)

var flagSaveSlot string

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect or erase saved games",
}

var savesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the game saved in a slot",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := showSave(cmd.OutOrStdout(), flagSaveSlot); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var savesEraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Erase the game saved in a slot",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := eraseSave(cmd.OutOrStdout(), flagSaveSlot); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// showSave prints the game in slot, rebuilding its world to check that the
// save is playable.
func showSave(out io.Writer, slot string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	st, id, err := store.LoadGame(slot)
	if errors.Is(err, storage.ErrNoSave) {
		fmt.Fprintf(out, "Slot %q is empty.\n", slot)
		return nil
	}
	if err != nil {
		return err
	}

	w, err := world.Restore(st)
	if err != nil {
		return fmt.Errorf("save %s is not playable: %w", id, err)
	}
	defer w.Dispose()

	fmt.Fprintf(out, "Slot %q, save %s\n", slot, id)
	fmt.Fprintf(out, "%s maze %dx%d  start %v  exit %v  fingerprint %016x\n",
		maze.SizeOf(st.Maze.Maze).Name, st.Maze.Maze.Width(), st.Maze.Maze.Height(),
		st.Maze.Start, st.Maze.Exit, entity.Fingerprint(w.MazeFixtureDefs()))
	fmt.Fprintf(out, "marble at (%.3f, %.3f)  in maze %v  solved %v\n",
		st.MarblePosition.X, st.MarblePosition.Y, st.InMaze, st.Solved)
	return nil
}

func eraseSave(out io.Writer, slot string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EraseGame(slot); err != nil {
		return err
	}
	fmt.Fprintf(out, "Erased slot %q.\n", slot)
	return nil
}

func init() {
	savesCmd.PersistentFlags().StringVar(&flagSaveSlot, "slot", tui.DefaultSlot, "Save slot")
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesEraseCmd)
}
