package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/hidden-marble/internal/platform/tui"
	"github.com/vovakirdan/hidden-marble/internal/telemetry"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the marble SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH user has their own save slot, so reconnecting continues the last
maze. Solves from every user share one history.

With --ws, gameplay events of all sessions are streamed as JSON to
WebSocket clients at ws://<addr>/events.

Examples:
  marble serve                           # Listen on :23234 with auto-generated key
  marble serve --ssh :2222               # Listen on port 2222
  marble serve --ws :8080                # Also stream events
  marble serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Telemetry WebSocket address (disabled if empty)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, err := newLogger(os.Stderr, "marble-ssh")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open database", "error", err)
		// Continue without storage
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	var hub *telemetry.Hub
	if flagWSAddr != "" {
		hub = telemetry.NewHub(logger.WithPrefix("marble-ws"))
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		Game:        cfg,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}, store, hub, logger)
	if err != nil {
		logger.Error("cannot create server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(ctx)
	})
	if hub != nil {
		g.Go(func() error {
			return hub.Serve(ctx, flagWSAddr)
		})
	}

	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(flagSSHAddr))
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
