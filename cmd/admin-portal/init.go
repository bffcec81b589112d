// ABOUTME: init command: writes a starter config.yaml and catalog.toml
// ABOUTME: Generates a random session secret so the config validates immediately

package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/admin-portal/internal/catalog"
)

// catalogFileName is written next to the config file and referenced relatively.
const catalogFileName = "catalog.toml"

type initOptions struct {
	force             bool
	httpAddr          string
	username          string
	dbPath            string
	defaultClient     string
	tailscaleHostname string
	funnel            bool
	logLevel          string
	logFormat         string
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	o := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file and theme catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), opts.path(), o)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&o.force, "force", false, "overwrite existing files")
	f.StringVar(&o.httpAddr, "http-addr", "localhost:8181", "HTTP listen address")
	f.StringVar(&o.username, "username", "admin", "operator username allowed to sign in")
	f.StringVar(&o.dbPath, "db", "", "SQLite database path (default: portal.db next to the config)")
	f.StringVar(&o.defaultClient, "default-client", "", "client used when a request names none")
	f.StringVar(&o.tailscaleHostname, "tailscale-hostname", "", "serve on the tailnet under this hostname")
	f.BoolVar(&o.funnel, "funnel", false, "expose the tailnet listener publicly via Funnel")
	f.StringVar(&o.logLevel, "log-level", "info", "log level (debug/info/warn/error)")
	f.StringVar(&o.logFormat, "log-format", "text", "log format (text/json)")
	return cmd
}

func runInit(out io.Writer, configPath string, o *initOptions) error {
	dir := filepath.Dir(configPath)
	catalogPath := filepath.Join(dir, catalogFileName)

	if !o.force {
		for _, p := range []string{configPath, catalogPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			} else if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", p, err)
			}
		}
	}

	secret, err := generateSecret()
	if err != nil {
		return err
	}

	dbPath := o.dbPath
	if dbPath == "" {
		dbPath = filepath.Join(dir, "portal.db")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(renderConfig(o, secret, dbPath)), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	f, err := os.OpenFile(catalogPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	if err := catalog.Default().Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Config:  %s\n", configPath)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Catalog: %s\n", catalogPath)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Run 'admin-portal serve --config %s' to start.\n", configPath)
	return nil
}

func renderConfig(o *initOptions, secret, dbPath string) string {
	var cfg strings.Builder
	cfg.WriteString("# admin-portal configuration\n")
	cfg.WriteString("# Generated by admin-portal init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: %q\n", o.httpAddr))
	cfg.WriteString("\n")

	cfg.WriteString("tailscale:\n")
	if o.tailscaleHostname != "" {
		cfg.WriteString("  enabled: true\n")
		cfg.WriteString(fmt.Sprintf("  hostname: %q\n", o.tailscaleHostname))
		cfg.WriteString("  auth_key: \"${TS_AUTHKEY}\"\n")
		cfg.WriteString(fmt.Sprintf("  funnel: %t\n", o.funnel))
	} else {
		cfg.WriteString("  enabled: false\n")
	}
	cfg.WriteString("\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: %q\n", dbPath))
	cfg.WriteString("\n")

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  username: %q\n", o.username))
	cfg.WriteString(fmt.Sprintf("  session_secret: %q\n", secret))
	cfg.WriteString("  session_ttl: \"24h\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("theming:\n")
	cfg.WriteString(fmt.Sprintf("  catalog_path: %q\n", catalogFileName))
	if o.defaultClient != "" {
		cfg.WriteString(fmt.Sprintf("  default_client: %q\n", o.defaultClient))
	}
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", o.logLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n", o.logFormat))

	return cfg.String()
}

// generateSecret returns 32 random bytes, hex encoded.
func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
