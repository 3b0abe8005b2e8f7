package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/selva/internal/walk"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Path string // optional - restrict output to one node path
}

// TraceNode is the per-node cursor dump.
type TraceNode struct {
	Path    string   `json:"path"`
	Seq     int64    `json:"seq"`
	Cursors []string `json:"cursors"`
	Matched []int    `json:"matched,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	SheetHash string      `json:"sheet_hash"`
	Nodes     []TraceNode `json:"nodes"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <sheet> <tree>",
		Short: "Dump live cursor sets per node",
		Long: `Walk a tree document and dump, for every node, the cursor set the
node was visited with - the (rule, chain position, state) triples still
alive at that point. Cursor sets shrink as the walk prunes candidates,
which makes trace the tool for answering "why did this rule not match
here".

Examples:
  selva trace rules.sel tree.yaml
  selva trace rules.sel tree.yaml --path /div/span[0]`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "restrict output to one node path")

	return cmd
}

func runTrace(opts *TraceOptions, sheetPath, treePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sheet, err := LoadSheet(sheetPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	root, err := walk.LoadTree(treePath)
	if err != nil {
		_ = formatter.Error(ErrCodeBadTree, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading tree", err)
	}

	result := &TraceResult{SheetHash: sheet.Hash}

	walker := walk.New(sheet.Rules, sheet.Syms)
	err = walker.Walk(root, func(v walk.Visit) error {
		if opts.Path != "" && v.Path != opts.Path {
			return nil
		}
		tn := TraceNode{Path: v.Path, Seq: v.Seq, Matched: v.Matched}
		for _, c := range v.State.Cursors() {
			tn.Cursors = append(tn.Cursors, c.String())
		}
		result.Nodes = append(result.Nodes, tn)
		return nil
	})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "walking tree", err)
	}

	if opts.Path != "" && len(result.Nodes) == 0 {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no node at path %s", opts.Path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("no node at path %s", opts.Path))
	}

	return outputTraceSuccess(formatter, result)
}

// outputTraceSuccess outputs the trace report.
func outputTraceSuccess(formatter *OutputFormatter, result *TraceResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, tn := range result.Nodes {
		fmt.Fprintf(formatter.Writer, "%s (seq %d)\n", tn.Path, tn.Seq)
		if len(tn.Cursors) == 0 {
			fmt.Fprintln(formatter.Writer, "  cursors: none")
		} else {
			fmt.Fprintf(formatter.Writer, "  cursors: %s\n", strings.Join(tn.Cursors, " "))
		}
		if len(tn.Matched) > 0 {
			matched := make([]string, len(tn.Matched))
			for i, ix := range tn.Matched {
				matched[i] = fmt.Sprintf("%d", ix)
			}
			fmt.Fprintf(formatter.Writer, "  matched: %s\n", strings.Join(matched, ", "))
		}
	}

	return nil
}
