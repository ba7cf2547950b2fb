package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hidden-marble/internal/maze"
)

var mazeCmd = &cobra.Command{
	Use:   "maze",
	Short: "Print a generated maze",
	Long: `Print the tile grid of a generated maze with its start (S) and exit (E).
Walls are '#', passages '.'.

Examples:
  marble maze --seed 42
  marble maze --preset hard`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := printMaze(cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func printMaze(out io.Writer) error {
	cfg, err := loadConfig()
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
	fmt.Fprintf(out, "%s maze, seed %d\n%s\n", size.Name, seed, markDef(def))
	return nil
}

// markDef formats the maze with the start and exit tiles marked.
func markDef(def maze.Def) string {
	rows := []byte(maze.Format(def.Maze))
	width := def.Maze.Width() + 1 // Trailing newline
	rows[def.Start.Y*width+def.Start.X] = 'S'
	rows[def.Exit.Y*width+def.Exit.X] = 'E'
	return string(rows)
}
