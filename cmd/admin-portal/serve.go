// ABOUTME: serve command: prints the startup banner and runs the portal until interrupted
// ABOUTME: Also hosts the health command that probes a running portal

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/admin-portal/internal/server"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var noBanner bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin portal server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, configPath, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !noBanner && cfg.Logging.Format != "json" {
				printBanner(out, configPath, cfg.BaseURL(), cfg.Theming.CatalogPath, cfg.Database.Path, cfg.Tailscale.Enabled, cfg.Tailscale.Hostname, cfg.Tailscale.Funnel)
			}

			logger := setupLogger(cfg.Logging)
			logger.Info("starting admin-portal",
				"config", configPath,
				"http_addr", cfg.Server.HTTPAddr,
				"version", version,
			)

			srv, err := server.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "do not print the startup banner")
	return cmd
}

func printBanner(out io.Writer, configPath, baseURL, catalogPath, dbPath string, tailscale bool, hostname string, funnel bool) {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Fprint(out, banner)
	gray.Fprintf(out, "    version: %s\n\n", version)

	if catalogPath == "" {
		catalogPath = "(built-in)"
	}
	if dbPath == "" {
		dbPath = "(disabled)"
	}

	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Config:    %s\n", configPath)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Catalog:   %s\n", catalogPath)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Database:  %s\n", dbPath)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "URL:       %s\n", baseURL)

	if tailscale {
		green.Fprint(out, "    ▶ ")
		fmt.Fprint(out, "Tailscale: ")
		cyan.Fprint(out, hostname)
		if funnel {
			yellow.Fprint(out, " [funnel]")
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

func newHealthCmd(opts *globalOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a running portal is healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			base := strings.TrimSuffix(cfg.BaseURL(), "/")
			body, err := getHealth(ctx, base+"/health")
			if err != nil {
				return err
			}
			ready, err := getHealth(ctx, base+"/health/ready")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "healthy: %s, %s\n", body, ready)
			return err
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

// getHealth GETs url and returns the body, failing on any non-200 status
func getHealth(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unhealthy: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return strings.TrimSpace(string(body)), nil
}
