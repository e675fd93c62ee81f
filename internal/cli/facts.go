package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/depwhy/internal/facts"
)

// PackageSummary describes one package of the loaded catalog.
type PackageSummary struct {
	Name      string   `json:"name"`
	Ecosystem string   `json:"ecosystem,omitempty"`
	Versions  []string `json:"versions"`
	Services  int      `json:"services"`
}

// FactError is one problem found by facts validate.
type FactError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds facts validate results.
type ValidationResult struct {
	Valid    bool        `json:"valid"`
	Files    int         `json:"files"`
	Packages int         `json:"packages"`
	Errors   []FactError `json:"errors,omitempty"`
}

// NewFactsCommand creates the facts command group.
func NewFactsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Inspect and validate fact tables",
	}

	cmd.AddCommand(newFactsListCommand(rootOpts))
	cmd.AddCommand(newFactsValidateCommand(rootOpts))

	return cmd
}

func newFactsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List packages and versions known to the fact tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFactsList(rootOpts, cmd)
		},
	}
}

func runFactsList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	catalog, code, err := loadCatalog(opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, code, err.Error(), nil)
	}

	summaries := []PackageSummary{}
	for _, name := range catalog.Packages() {
		eco, _ := catalog.Ecosystem(name)
		row, _ := catalog.Compatibility(name)
		summaries = append(summaries, PackageSummary{
			Name:      name,
			Ecosystem: string(eco),
			Versions:  catalog.Versions(name),
			Services:  len(row),
		})
	}

	return formatter.Success(summaries, func(w io.Writer) {
		for _, s := range summaries {
			eco := s.Ecosystem
			if eco == "" {
				eco = "any"
			}
			fmt.Fprintf(w, "%s (%s): %s\n", s.Name, eco, strings.Join(s.Versions, ", "))
		}
	})
}

func newFactsValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check fact files against the schema",
		Long: `Compile every .cue file under dir against the fact schema and report
all problems with their positions. Without dir, the --facts directory is
checked, or the built-in tables when neither is given.

Exit codes:
  0 - All fact files valid
  1 - Schema or version key errors
  2 - Command error (missing directory, no .cue files)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootOpts.Facts
			if len(args) == 1 {
				dir = args[0]
			}
			return runFactsValidate(rootOpts, dir, cmd)
		},
	}
}

func runFactsValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if dir == "" {
		catalog, err := facts.LoadDefault()
		if err != nil {
			return outputFactErrors(formatter, 1, []error{err})
		}
		return outputFactsValid(formatter, ValidationResult{Valid: true, Files: 1, Packages: len(catalog.Packages())})
	}

	result, errs := facts.LoadDir(dir, facts.LoadModeCollectAll)
	if result == nil && len(errs) == 1 {
		// Path problems: nothing was compiled.
		switch code := codeOf(errs[0]); code {
		case facts.ErrCodeNotFound, facts.ErrCodeScanError, facts.ErrCodeNoFiles:
			return formatter.Fail(ExitCommandError, code, loadErrorMessage(errs[0]), nil)
		}
	}
	if len(errs) > 0 {
		files, _ := facts.FindCUEFiles(dir)
		return outputFactErrors(formatter, len(files), errs)
	}

	return outputFactsValid(formatter, ValidationResult{
		Valid:    true,
		Files:    result.FileCount,
		Packages: len(result.Catalog.Packages()),
	})
}

func outputFactsValid(formatter *OutputFormatter, result ValidationResult) error {
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Fact tables valid (%d file(s), %d package(s))\n", result.Files, result.Packages)
	})
}

func outputFactErrors(formatter *OutputFormatter, files int, errs []error) error {
	result := ValidationResult{Valid: false, Files: files}
	for _, err := range errs {
		fe := FactError{Code: codeOf(err), Message: loadErrorMessage(err)}
		var le *facts.LoadError
		if errors.As(err, &le) && le.Pos.IsValid() {
			fe.File = le.Pos.Filename()
			fe.Line = le.Line()
		}
		result.Errors = append(result.Errors, fe)
	}

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: result.Errors[0].Code, Message: result.Errors[0].Message},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	for _, fe := range result.Errors {
		if fe.Line > 0 {
			fmt.Fprintf(w, "%s:%d\n", fe.File, fe.Line)
		}
		fmt.Fprintf(w, "  %s: %s\n\n", fe.Code, fe.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

func loadErrorMessage(err error) string {
	var le *facts.LoadError
	if errors.As(err, &le) {
		return le.Message
	}
	return err.Error()
}
