package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/decocms/mcps/internal/cmd"
	"github.com/decocms/mcps/internal/config"
	"github.com/decocms/mcps/internal/daemon"
	"github.com/decocms/mcps/internal/flags"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Addr      string
	Stdio     bool
	CORS      bool
	cfgLoader config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: &config.DefaultLoader{},
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--addr] [--stdio] [--cors]",
		Short: "Launches an 'mcps' daemon instance",
		Long: "Launches an 'mcps' daemon instance, which serves the configured platform " +
			"catalogs over an HTTP API and, optionally, the MCP stdio transport",
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		"Address for the daemon's HTTP API to bind (defaults to the configured api.addr)",
	)

	cobraCommand.Flags().BoolVar(
		&c.Stdio,
		"stdio",
		false,
		"Also serve the bound tools over the MCP stdio transport",
	)

	cobraCommand.Flags().BoolVar(
		&c.CORS,
		"cors",
		false,
		"Enable CORS on the HTTP API (defaults to the configured api.cors_enabled)",
	)

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
func (c *DaemonCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config from '%s': %w", flags.ConfigFile, err)
	}

	addr := strings.TrimSpace(c.Addr)
	if addr == "" {
		addr = cfg.API.Addr
	}

	corsEnabled := cfg.API.CORSEnabled
	if cobraCmd.Flags().Changed("cors") {
		corsEnabled = c.CORS
	}

	d, err := daemon.NewDaemon(
		daemon.Dependencies{
			Logger: logger,
			Cfg:    cfg,
			Addr:   addr,
			Stdio:  c.Stdio,
		},
		daemon.WithCORSEnabled(corsEnabled),
	)
	if err != nil {
		return fmt.Errorf("failed to create mcps daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	runErr := make(chan error, 1)
	go func() {
		if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	select {
	case <-daemonCtx.Done():
		logger.Info("Shutting down daemon")
		err := <-runErr // Wait for cleanup and deferred logging.
		return err      // Graceful Ctrl+C / SIGTERM.
	case err := <-runErr:
		if err != nil {
			logger.Error("daemon exited with error", "error", err)
		}
		return err // Propagate daemon failure.
	}
}
