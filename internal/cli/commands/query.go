package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbforge-labs/dbforge/internal/cli/config"
	"github.com/dbforge-labs/dbforge/internal/runner"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format      string
	Interactive bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a query against the mocked backend",
		Long: `Run a query against the mocked backend and print the result.

The backend is synthetic: queries mentioning the orders table return the
orders sample set, everything else returns the users sample set.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  dbforge query "SELECT * FROM users"

  # Output as JSON
  dbforge query "SELECT * FROM orders" --format json

  # Interactive mode
  dbforge query`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "auto", "Output format: table, json, csv, markdown")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Force interactive REPL mode")

	cmd.AddCommand(newQuerySamplesCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	backend, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	if opts.Interactive {
		return runQueryREPL(cmd, backend, opts)
	}

	// Determine SQL source
	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, backend, opts)
	}

	result, err := backend.Runner.Run(cmd.Context(), sqlQuery)
	if err != nil {
		if errors.Is(err, runner.ErrEmptyQuery) {
			return fmt.Errorf("no query to execute")
		}
		return err
	}
	return renderResult(cmd.OutOrStdout(), result, opts.Format)
}

// newQuerySamplesCommand creates the samples subcommand.
func newQuerySamplesCommand(_ *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the sample queries shipped with the fixtures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			backend, err := openBackend(cfg, config.GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			for i, sample := range backend.Runner.Samples() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, sample)
			}
			return nil
		},
	}
}
