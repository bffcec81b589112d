// ABOUTME: Entry point for the admin-portal server and CLI
// ABOUTME: Builds the cobra command tree and resolves the config file location

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389/admin-portal/internal/config"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
       _           _                              _        _
  __ _| |_ __ ___ (_)_ __        _ __   ___  _ __| |_ __ _| |
 / _' | | '_ ' _ \| | '_ \ _____| '_ \ / _ \| '__| __/ _' | |
| (_| | | | | | | | | | | |_____| |_) | (_) | |  | || (_| | |
 \__,_|_|_| |_| |_|_|_| |_|     | .__/ \___/|_|   \__\__,_|_|
                                |_|
`

// getConfigPath returns the path to the portal config file.
// Priority: ADMIN_PORTAL_CONFIG env var > XDG_CONFIG_HOME/admin-portal/config.yaml > ~/.config/admin-portal/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("ADMIN_PORTAL_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "admin-portal", "config.yaml")
}

// globalOptions holds flags shared by every command
type globalOptions struct {
	configPath string
}

// path returns the --config flag value or the default location
func (o *globalOptions) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return getConfigPath()
}

// load reads and validates the config file
func (o *globalOptions) load() (*config.Config, string, error) {
	path := o.path()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "admin-portal",
		Short:         "Per-client themed admin portal",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $ADMIN_PORTAL_CONFIG or ~/.config/admin-portal/config.yaml)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newThemesCmd(opts))
	root.AddCommand(newClientsCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newHealthCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "admin-portal %s\n", version)
			return err
		},
	}
}
