package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledRule is the external form of one rule table entry.
type CompiledRule struct {
	Ix        int    `json:"ix"`
	Source    string `json:"source"`
	Compounds int    `json:"compounds"`
	Note      string `json:"note,omitempty"`
}

// CompilationResult holds the compiled rule table and its content hash.
type CompilationResult struct {
	SheetHash string         `json:"sheet_hash"`
	Rules     []CompiledRule `json:"rules"`
	Symbols   int            `json:"symbols"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <sheet>",
		Short: "Compile a selector sheet to a rule table",
		Long: `Compile a selector sheet to a rule table.

The sheet is either a plain text file with one selector per line, or a
CUE stylesheet (.cue) with a top-level rules list. Rule order in the
sheet is the rule identity reported by match and trace.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, sheetPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	sheet, err := LoadSheet(sheetPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	formatter.VerboseLog("Compiled %d rule(s) from %s", len(sheet.Rules), sheetPath)

	result := buildCompilationResult(sheet)

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func buildCompilationResult(sheet *Sheet) *CompilationResult {
	result := &CompilationResult{
		SheetHash: sheet.Hash,
		Symbols:   sheet.Syms.Len(),
		Rules:     make([]CompiledRule, len(sheet.Rules)),
	}
	for i, rule := range sheet.Rules {
		result.Rules[i] = CompiledRule{
			Ix:        i,
			Source:    rule.Source,
			Compounds: rule.Compounds(),
			Note:      sheet.Notes[i],
		}
	}
	return result
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d rule(s), %d symbol(s)\n\n", len(result.Rules), result.Symbols)
	for _, rule := range result.Rules {
		fmt.Fprintf(formatter.Writer, "  [%d] %s (%d compound(s))", rule.Ix, rule.Source, rule.Compounds)
		if rule.Note != "" {
			fmt.Fprintf(formatter.Writer, "  // %s", rule.Note)
		}
		fmt.Fprintln(formatter.Writer)
	}
	fmt.Fprintf(formatter.Writer, "\nSheet hash: %s\n", result.SheetHash)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote rule table to %s\n", outputFile)
	}

	return nil
}

// outputLoadError reports a sheet load failure and maps it to an exit code.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "loading sheet", err)
}

// writeResultToFile writes the rule table to a file as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling rule table: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
