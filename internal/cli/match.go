package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/selva/internal/store"
	"github.com/roach88/selva/internal/walk"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Record string // optional sqlite database path for session recording

	// idGen is a store.SessionIDGenerator so tests can substitute a
	// store.FixedGenerator for deterministic session IDs.
	idGen store.SessionIDGenerator
}


// NodeMatches is the per-node match report.
type NodeMatches struct {
	Path  string      `json:"path"`
	Seq   int64       `json:"seq"`
	Rules []RuleMatch `json:"rules"`
}

// RuleMatch identifies one matched rule at a node.
type RuleMatch struct {
	Ix     int    `json:"ix"`
	Source string `json:"source"`
}

// MatchResult holds the complete match output.
type MatchResult struct {
	SheetHash  string        `json:"sheet_hash"`
	SessionID  string        `json:"session_id,omitempty"`
	Nodes      []NodeMatches `json:"nodes"`
	NodesTotal int           `json:"nodes_total"`
	MatchTotal int           `json:"match_total"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts, idGen: store.UUIDv7Generator{}}

	cmd := &cobra.Command{
		Use:   "match <sheet> <tree>",
		Short: "Match a selector sheet against a tree document",
		Long: `Walk a YAML tree document in pre-order and report, per node, the
rules of the sheet whose whole selector chain matches there.

With --record, the walk is written to a SQLite database as a session:
one row per (node, matched rule), keyed by the pre-order visit number.

Examples:
  selva match rules.sel tree.yaml
  selva match sheet.cue tree.yaml --format json
  selva match rules.sel tree.yaml --record ./selva.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Record, "record", "", "path to SQLite database for session recording")

	return cmd
}

func runMatch(opts *MatchOptions, sheetPath, treePath string, cmd *cobra.Command) error {
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

	formatter.VerboseLog("Matching %d rule(s) against %s", len(sheet.Rules), treePath)

	result := &MatchResult{SheetHash: sheet.Hash}

	walker := walk.New(sheet.Rules, sheet.Syms)
	err = walker.Walk(root, func(v walk.Visit) error {
		result.NodesTotal++
		if len(v.Matched) == 0 {
			return nil
		}
		nm := NodeMatches{Path: v.Path, Seq: v.Seq}
		for _, ix := range v.Matched {
			nm.Rules = append(nm.Rules, RuleMatch{Ix: ix, Source: sheet.Rules[ix].Source})
		}
		result.Nodes = append(result.Nodes, nm)
		result.MatchTotal += len(v.Matched)
		return nil
	})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "walking tree", err)
	}

	if opts.Record != "" {
		sessionID, err := recordSession(opts, sheet, root, result)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreError, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording session", err)
		}
		result.SessionID = sessionID
		formatter.VerboseLog("Recorded session %s in %s", sessionID, opts.Record)
	}

	return outputMatchSuccess(formatter, result)
}

// recordSession writes the walk to the recording store as one session.
func recordSession(opts *MatchOptions, sheet *Sheet, root *walk.Node, result *MatchResult) (string, error) {
	ctx := context.Background()

	st, err := store.Open(opts.Record)
	if err != nil {
		return "", err
	}
	defer st.Close()

	sessionID := opts.idGen.Generate()
	if err := st.WriteSession(ctx, store.Session{
		ID:        sessionID,
		SheetHash: sheet.Hash,
		Root:      "/" + root.Tag,
		RuleCount: len(sheet.Rules),
	}); err != nil {
		return "", err
	}

	var matches []store.Match
	for _, nm := range result.Nodes {
		for _, rm := range nm.Rules {
			matches = append(matches, store.Match{
				SessionID: sessionID,
				Seq:       nm.Seq,
				NodePath:  nm.Path,
				RuleIx:    rm.Ix,
				Selector:  rm.Source,
			})
		}
	}
	if err := st.WriteMatches(ctx, matches); err != nil {
		return "", err
	}

	return sessionID, nil
}

// outputMatchSuccess outputs the match report.
func outputMatchSuccess(formatter *OutputFormatter, result *MatchResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.MatchTotal == 0 {
		fmt.Fprintf(formatter.Writer, "No matches in %d node(s)\n", result.NodesTotal)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ %d match(es) in %d node(s)\n\n", result.MatchTotal, result.NodesTotal)
	for _, nm := range result.Nodes {
		sources := make([]string, len(nm.Rules))
		for i, rm := range nm.Rules {
			sources[i] = fmt.Sprintf("[%d] %s", rm.Ix, rm.Source)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", nm.Path, strings.Join(sources, ", "))
	}

	if result.SessionID != "" {
		fmt.Fprintf(formatter.Writer, "\nSession: %s\n", result.SessionID)
	}

	return nil
}
