package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/depwhy/internal/ir"
	"github.com/roach88/depwhy/internal/report"
	"github.com/roach88/depwhy/internal/shell"
	"github.com/roach88/depwhy/internal/store"
)

// ChatOptions holds flags for the chat command.
type ChatOptions struct {
	*RootOptions
	Ecosystem string
}

// NewChatCommand creates the chat command.
func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask about upgrades interactively",
		Long: `Start a conversation on stdin/stdout. Each question is answered with a
report and the whole conversation is shown again. History lives in memory
and is gone when the session ends.

Type 'help' inside the session for the question syntax. Only text output
is supported; --format json is rejected.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Ecosystem, "ecosystem", "e", string(ir.DefaultEcosystem), "default ecosystem for questions")

	return cmd
}

func runChat(opts *ChatOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	// The session is a text conversation; there is no JSON rendition of it.
	if opts.Format == "json" {
		return formatter.Fail(ExitCommandError, ErrCodeUnsupportedFormat, "chat does not support --format json", nil)
	}

	eco, err := ir.ParseEcosystem(opts.Ecosystem)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, err.Error(), nil)
	}

	catalog, code, err := loadCatalog(opts.RootOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, code, err.Error(), nil)
	}

	history, err := store.Open(store.MemoryPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open history", err)
	}
	defer history.Close()

	logger := slog.Default()
	sh := shell.New(
		report.New(catalog, report.WithLogger(logger)),
		history,
		cmd.InOrStdin(),
		cmd.OutOrStdout(),
		shell.WithEcosystem(eco),
		shell.WithNoColor(opts.NoColor),
		shell.WithLogger(logger),
	)
	return sh.Run(cmd.Context())
}
