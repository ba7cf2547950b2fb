package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hidden-marble/internal/platform/tui"
)

var flagPlain bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show solved mazes",
	Long: `Display recently solved mazes and per-size statistics.

Examples:
  marble history
  marble history --plain`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain table instead of the interactive view")
}

func runHistory(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if !flagPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	solves, err := store.Solves(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving solves: %v\n", err)
		return
	}

	fmt.Println("Solved Mazes")
	fmt.Println()

	if len(solves) == 0 {
		fmt.Println("No mazes solved yet.")
		fmt.Println()
		fmt.Println("Play 'marble play' and find the way out!")
		return
	}

	fmt.Printf("  %-16s  %-6s  %6s  %4s  %7s\n", "Date", "Size", "Steps", "Hits", "Time")
	fmt.Printf("  %-16s  %-6s  %6s  %4s  %7s\n", "----", "----", "-----", "----", "----")
	for _, s := range solves {
		fmt.Printf("  %-16s  %-6s  %6d  %4d  %6.1fs\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.Size, s.Steps, s.Hits, s.Duration.Seconds())
	}

	stats, err := store.Stats()
	if err != nil {
		return
	}
	fmt.Println()
	for _, st := range stats {
		fmt.Printf("  %-6s  %d solved, best %d steps\n", st.Size, st.Solves, st.BestSteps)
	}
}
