package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/decocms/mcps/internal/cmd"
	"github.com/decocms/mcps/internal/flags"
)

// RootCmd should be used to represent the root command.
type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the root command and runs it, exiting on failure.
func Execute() {
	logger, err := configureLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error executing root command: %s", err)
		os.Exit(1)
	}

	rootCmd, err := NewRootCmd(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error executing root command: %s", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a newly configured (Cobra) root command.
func NewRootCmd(logger hclog.Logger) (*cobra.Command, error) {
	c := &RootCmd{
		BaseCmd: &cmd.BaseCmd{},
	}
	c.SetLogger(logger)

	rootCmd := &cobra.Command{
		Use:          "mcps <command> [args]",
		Short:        "'mcps' exposes REST platforms as MCP tool servers.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	daemonCmd, err := NewDaemonCmd(c.BaseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(daemonCmd)

	toolsCmd, err := NewToolsCmd(c.BaseCmd)
	if err != nil {
		return nil, err
	}
	rootCmd.AddCommand(toolsCmd)

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'mcps' CLI exposes external REST platforms (media generation, CMS,
e-commerce) as MCP tool servers with flat argument schemas and resilient
request forwarding.`
}

func configureLogger() (hclog.Logger, error) {
	logPath := strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))

	// If MCPS_LOG_PATH is not set, don't log anywhere.
	// Logging to stdout would corrupt the MCP stdio transport.
	logOutput := io.Discard

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		logOutput = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mcps",
		Level:  hclog.LevelFromString(getLogLevel()),
		Output: logOutput,
	})

	return logger, nil
}

func getLogLevel() string {
	lvl := strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "info"
	}
}
