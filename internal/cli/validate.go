package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/selva/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	SheetHash string `json:"sheet_hash,omitempty"`
	RuleCount int    `json:"rule_count,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <sheet>",
		Short: "Validate a selector sheet",
		Long: `Validate a selector sheet without producing output files.

Compiles every selector and checks the structural invariants of the
resulting rule table: interned classes strictly ascending, no reserved
zero symbols, known combinators only.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, sheetPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	sheet, err := LoadSheet(sheetPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeNotFound {
			// Unreadable input is a command error, not a validation verdict.
			return outputLoadError(formatter, err)
		}
		return outputValidateFailure(formatter, err)
	}

	formatter.VerboseLog("Compiled %d rule(s) from %s", len(sheet.Rules), sheetPath)

	if err := ir.Validate(sheet.Rules); err != nil {
		return outputValidateFailure(formatter, err)
	}

	return outputValidateSuccess(formatter, sheet)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, sheet *Sheet) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:     true,
			SheetHash: sheet.Hash,
			RuleCount: len(sheet.Rules),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ %d rule(s) valid\n", len(sheet.Rules))
	return nil
}

// outputValidateFailure reports a failed validation verdict (exit code 1).
func outputValidateFailure(formatter *OutputFormatter, err error) error {
	if formatter.Format == "json" {
		enc := json.NewEncoder(formatter.Writer)
		enc.SetIndent("", "  ")
		_ = enc.Encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Error: err.Error()},
			Error:  &CLIError{Code: ErrCodeParseFailed, Message: err.Error()},
		})
		return NewExitError(ExitFailure, err.Error())
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	return NewExitError(ExitFailure, err.Error())
}
