package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/cli/config"
	"github.com/dbforge-labs/dbforge/internal/registry"
)

// ConnectionsOptions holds the flags for the connections command.
type ConnectionsOptions struct {
	Tab    string
	Format string
}

// NewConnectionsCommand lists the saved connections from the state store.
func NewConnectionsCommand() *cobra.Command {
	opts := &ConnectionsOptions{}

	cmd := &cobra.Command{
		Use:   "connections",
		Short: "List saved database connections",
		Long: `List the saved database connections.

Connections are read from the local state database, so the listing
works without starting the console server.`,
		Example: `  # List all connections
  dbforge connections

  # Only favorites, as JSON
  dbforge connections --tab favorites -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnections(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tab, "tab", registry.TabAll, "filter tab (all, recent, favorites)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format (table, json, csv, markdown); overrides -o")

	return cmd
}

func runConnections(cmd *cobra.Command, opts *ConnectionsOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	format := opts.Format
	if format == "" {
		format = cfg.OutputFormat
	}
	format = resolveFormat(format, cmd.OutOrStdout())

	backend, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	entries, err := backend.Registry.List(opts.Tab)
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}

	return renderConnections(cmd.OutOrStdout(), entries, format)
}

func renderConnections(w io.Writer, entries []registry.Entry, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)

	case "csv":
		_, _ = fmt.Fprintln(w, "id,name,type,host,port,database,status,favorite")
		for _, e := range entries {
			_, _ = fmt.Fprintf(w, "%s,%s,%s,%s,%d,%s,%s,%t\n",
				escapeCSV(e.ID), escapeCSV(e.Name), escapeCSV(string(e.Type)),
				escapeCSV(e.Host), e.Port, escapeCSV(e.Database),
				escapeCSV(string(e.Status)), e.Favorite)
		}
		return nil

	case "md", "markdown":
		_, _ = fmt.Fprintln(w, "| ID | Name | Type | Host | Database | Status | Favorite |")
		_, _ = fmt.Fprintln(w, "| --- | --- | --- | --- | --- | --- | --- |")
		for _, e := range entries {
			fav := ""
			if e.Favorite {
				fav = "★"
			}
			_, _ = fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
				e.ID, escapeMarkdown(e.Name), e.Type,
				fmt.Sprintf("%s:%d", e.Host, e.Port), e.Database, e.Status, fav)
		}
		return nil

	default:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Name", "Type", "Host", "Database", "Status", "Fav"})
		for _, e := range entries {
			fav := ""
			if e.Favorite {
				fav = "★"
			}
			t.AppendRow(table.Row{
				e.ID, e.Name, e.Type,
				fmt.Sprintf("%s:%d", e.Host, e.Port),
				e.Database, e.Status, fav,
			})
		}
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d connections)\n", len(entries))
		return nil
	}
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
