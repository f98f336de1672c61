package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/cli/config"
	"github.com/dbforge-labs/dbforge/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dbforge console server",
		Long: `Start a local web server providing the database administration console.

The console provides:
- Connection management with simulated connect and test flows
- Database explorer with schema and table browsing
- Table data viewer with search, paging and row editing
- Query workbench with canned result sets`,
		Example: `  # Start on the default port
  dbforge serve

  # Start on a custom port
  dbforge serve --port 3000

  # Start without auto-opening the browser
  dbforge serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch fixtures file for changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	// CLI flags override config file
	port := cfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := cfg.OpenBrowser
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := cfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	backend, err := openBackend(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open backend: %w", err)
	}
	defer func() { _ = backend.Close() }()

	serverCfg := ui.Config{
		Registry:      backend.Registry,
		Catalog:       backend.Catalog,
		Runner:        backend.Runner,
		Hub:           backend.Hub,
		Port:          port,
		SessionSecret: cfg.SessionSecret,
		Logger:        logger,
	}
	// Hot-reloading needs a real file to watch; the embedded fixtures
	// cannot change underneath us.
	if watch && cfg.Fixtures != "" {
		serverCfg.FixturesPath = cfg.Fixtures
	}

	server := ui.NewServer(serverCfg)

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Printf("Starting dbforge console on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
