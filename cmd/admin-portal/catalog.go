// ABOUTME: Read-only commands over the theme registry and client directory
// ABOUTME: themes, clients, and export load the same catalog and store the server uses

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/admin-portal/internal/clients"
	"github.com/2389/admin-portal/internal/config"
	"github.com/2389/admin-portal/internal/resolver"
	"github.com/2389/admin-portal/internal/server"
	"github.com/2389/admin-portal/internal/store"
)

// errUnknownClient is returned by export for ids missing from the directory.
var errUnknownClient = errors.New("unknown client")

// loadResolver builds the resolver exactly as serve would, including clients
// saved at runtime when a database is configured.
func loadResolver(ctx context.Context, cfg *config.Config) (*resolver.Resolver, error) {
	logger := slog.New(slog.DiscardHandler)

	var st store.Store
	if cfg.Database.Path != "" {
		s, err := store.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		defer s.Close()
		st = s
	}

	return server.LoadResolver(ctx, cfg, st, logger)
}

func newThemesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List registered themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			res, err := loadResolver(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printThemes(cmd.OutOrStdout(), res)
		},
	}
}

// tableRow is one line of CLI table output; style colors the whole line.
type tableRow struct {
	cells []string
	style *color.Color
}

// writeTable aligns rows with tabwriter first and colors whole lines after,
// so escape codes never count toward column widths.
func writeTable(out io.Writer, header []string, rows []tableRow) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row.cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for i, line := range lines {
		var style *color.Color
		switch {
		case i == 0:
			style = color.New(color.Bold)
		case rows[i-1].style != nil:
			style = rows[i-1].style
		}
		if style != nil {
			line = style.Sprint(line)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func printThemes(out io.Writer, res *resolver.Resolver) error {
	reg := res.Themes()
	var rows []tableRow
	for _, t := range reg.List() {
		row := tableRow{cells: []string{t.Name, t.DisplayName, t.CSSFile, t.LogoText}}
		if t.Name == reg.DefaultName() {
			row.cells[0] += " (default)"
			row.style = color.New(color.FgCyan)
		}
		rows = append(rows, row)
	}
	return writeTable(out, []string{"NAME", "DISPLAY NAME", "CSS", "LOGO TEXT"}, rows)
}

func newClientsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List clients and their resolved themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			res, err := loadResolver(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printClients(cmd.OutOrStdout(), res)
		},
	}
}

func printClients(out io.Writer, res *resolver.Resolver) error {
	entries := res.Directory().Entries()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No clients registered.")
		return err
	}

	rows := make([]tableRow, 0, len(entries))
	for _, e := range entries {
		row := tableRow{}
		themeName := e.Client.Theme
		if _, ok := res.Themes().Get(themeName); !ok {
			themeName = fmt.Sprintf("%s -> %s", themeName, res.Themes().DefaultName())
			row.style = color.New(color.FgYellow)
		}
		css := clients.Value(e.Client.CustomCSS)
		if css == "" {
			css = "-"
		}
		row.cells = []string{e.ID, e.Client.Name, themeName, css}
		rows = append(rows, row)
	}
	return writeTable(out, []string{"ID", "NAME", "THEME", "CUSTOM CSS"}, rows)
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <client-id>",
		Short: "Print a client's configuration as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			res, err := loadResolver(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return exportClient(cmd.OutOrStdout(), res, args[0])
		},
	}
}

func exportClient(out io.Writer, res *resolver.Resolver, id string) error {
	data, ok := res.ExportClientConfig(id)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownClient, id)
	}
	_, err := fmt.Fprintf(out, "%s\n", data)
	return err
}
