package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/selva/internal/compiler"
	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found or unreadable
	ErrCodeEmptySheet  = "E003" // Sheet has no rules
	ErrCodeParseFailed = "E004" // Selector or stylesheet parse failure
	ErrCodeBadTree     = "E005" // Tree document invalid
	ErrCodeWriteFailed = "E006" // File write error
	ErrCodeStoreError  = "E007" // Recording store error
)

// Sheet is a loaded and compiled selector sheet: the rule table, the
// symbol table it was compiled with, and the content hash binding the two
// to any recorded session.
type Sheet struct {
	Path  string
	Rules []ir.ComplexSelector
	Notes []string // parallel to Rules; empty entries for text sheets
	Syms  *symtab.Table
	Hash  string
}

// LoadError represents an error that occurred during sheet loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSheet reads and compiles a selector sheet. Two formats are
// supported, chosen by extension:
//
//   - .cue: a CUE stylesheet with a top-level rules list of
//     {selector: "...", note?: "..."} entries
//   - anything else: plain text, one selector per line; blank lines and
//     lines starting with // are ignored
//
// Rule order is declaration order; the slice index is the rule identity
// every other command reports.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading sheet: %v", err)}
	}

	syms := symtab.NewTable()
	sheet := &Sheet{Path: path, Syms: syms}

	if filepath.Ext(path) == ".cue" {
		ctx := cuecontext.New()
		v := ctx.CompileString(string(data), cue.Filename(path))
		if err := v.Err(); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("building stylesheet: %v", err)}
		}

		sheetRules, err := compiler.ParseSheetValue(v)
		if err != nil {
			return nil, convertLoadError(err)
		}
		srcs := make([]string, len(sheetRules))
		sheet.Notes = make([]string, len(sheetRules))
		for i, rule := range sheetRules {
			srcs[i] = rule.Selector
			sheet.Notes[i] = rule.Note
		}
		sheet.Rules, err = compiler.CompileList(srcs, syms)
		if err != nil {
			return nil, convertLoadError(err)
		}
	} else {
		srcs := sheetLines(string(data))
		if len(srcs) == 0 {
			return nil, &LoadError{Code: ErrCodeEmptySheet, Message: fmt.Sprintf("no selectors in %s", path)}
		}
		sheet.Notes = make([]string, len(srcs))
		sheet.Rules, err = compiler.CompileList(srcs, syms)
		if err != nil {
			return nil, convertLoadError(err)
		}
	}

	sheet.Hash = ir.SheetHash(sheet.Rules)
	return sheet, nil
}

// sheetLines extracts selector sources from a text sheet.
func sheetLines(data string) []string {
	var srcs []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		srcs = append(srcs, line)
	}
	return srcs
}

// convertLoadError maps compiler errors onto CLI error codes.
func convertLoadError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}
	var sheetErr *compiler.SheetError
	if errors.As(err, &sheetErr) {
		if sheetErr.Message == "stylesheet has no rules" {
			return &LoadError{Code: ErrCodeEmptySheet, Message: err.Error()}
		}
		return &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}
