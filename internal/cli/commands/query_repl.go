package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/state"
)

func runQueryREPL(cmd *cobra.Command, backend *Backend, opts *QueryOptions) error {
	ctx := cmd.Context()
	cfg := getConfig()

	// History file lives next to the state database, or in the temp dir for
	// a purely in-memory session.
	historyDir := os.TempDir()
	if cfg.StatePath != "" && cfg.StatePath != state.MemoryDSN {
		historyDir = filepath.Dir(cfg.StatePath)
	}
	historyFile := filepath.Join(historyDir, "dbforge_query_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "dbforge> ",
		HistoryFile:     historyFile,
		AutoComplete:    newTableCompleter(backend),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dbforge query REPL (mocked backend)")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("dbforge> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") {
			if handleDotCommand(cmd, backend, line, opts.Format) {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("dbforge> ")

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		result, err := backend.Runner.Run(ctx, query)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		if err := renderResult(cmd.OutOrStdout(), result, opts.Format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// newTableCompleter completes table names from the catalog fixtures.
func newTableCompleter(backend *Backend) readline.AutoCompleter {
	var items []readline.PrefixCompleterInterface
	for _, schema := range backend.Catalog.Schemas(backend.Catalog.DefaultConnectionID()) {
		for _, t := range schema.Tables {
			items = append(items, readline.PcItem(t.Name))
		}
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".samples"),
		readline.PcItem(".quit"),
	)
	return readline.NewPrefixCompleter(items...)
}

func handleDotCommand(cmd *cobra.Command, backend *Backend, line, _ string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".tables":
		printTables(cmd.OutOrStdout(), backend)
		return true

	case ".samples":
		for i, sample := range backend.Runner.Samples() {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, sample)
		}
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func printTables(w io.Writer, backend *Backend) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"schema", "table", "rows"})
	for _, schema := range backend.Catalog.Schemas(backend.Catalog.DefaultConnectionID()) {
		for _, tbl := range schema.Tables {
			t.AppendRow(table.Row{schema.Name, tbl.Name, tbl.RowCount})
		}
	}
	t.Render()
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List the tables in the mock catalog
  .samples        Show the sample queries
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}
