package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/depwhy/internal/facts"
	"github.com/roach88/depwhy/internal/ir"
	"github.com/roach88/depwhy/internal/report"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Ecosystem string
	Context   string
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <package> <from> <to>",
		Short: "Explain one dependency upgrade",
		Long: `Explain what upgrading a package from one version to another involves.

Unknown packages and versions are not errors: every section falls back to
a "no data" line. Only a blank package or version, or an unknown
ecosystem, is rejected.

Examples:
  depwhy explain auth-lib 2.1.0 2.2.0
  depwhy explain payments-core 3.1.0 4.0.0 --context "Checkout Service"
  depwhy explain auth-lib 2.1.0 3.0.0 --format json`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Ecosystem, "ecosystem", "e", string(ir.DefaultEcosystem), "package ecosystem (pip|npm|maven|gradle|cargo|composer)")
	cmd.Flags().StringVarP(&opts.Context, "context", "c", "", "free-text context, e.g. the service being upgraded")

	return cmd
}

func runExplain(opts *ExplainOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	catalog, code, err := loadCatalog(opts.RootOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, code, err.Error(), nil)
	}

	asm := report.New(catalog, report.WithLogger(slog.Default()))
	r, err := asm.Assemble(ir.Query{
		Ecosystem:   ir.Ecosystem(opts.Ecosystem),
		Package:     args[0],
		FromVersion: args[1],
		ToVersion:   args[2],
		Context:     opts.Context,
	})
	if err != nil {
		var inputErr *report.InputError
		if errors.As(err, &inputErr) {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, inputErr.Message, map[string]string{"field": inputErr.Field})
		}
		return formatter.Fail(ExitCommandError, facts.ErrCodeGeneric, err.Error(), nil)
	}

	return formatter.Success(r, func(w io.Writer) {
		fmt.Fprint(w, r.RawText)
	})
}
