package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
)

// SheetRule is one entry of a CUE stylesheet:
//
//	rules: [
//	  {selector: "div.foo", note: "card body"},
//	  {selector: "#sidebar > a"},
//	]
//
// Only the selector participates in matching; the note travels along for
// display.
type SheetRule struct {
	Selector string
	Note     string
}

// SheetError reports a structural defect in a CUE stylesheet with its
// source position when available.
type SheetError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *SheetError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseSheetValue extracts the rule list from a CUE stylesheet value in
// declaration order. Declaration order is rule identity, so it is
// preserved exactly.
func ParseSheetValue(v cue.Value) ([]SheetRule, error) {
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("invalid stylesheet value: %w", err)
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &SheetError{Field: "rules", Message: "rules list is required", Pos: v.Pos()}
	}

	iter, err := rulesVal.List()
	if err != nil {
		return nil, &SheetError{Field: "rules", Message: "rules must be a list", Pos: rulesVal.Pos()}
	}

	var rules []SheetRule
	for iter.Next() {
		entry := iter.Value()

		selVal := entry.LookupPath(cue.ParsePath("selector"))
		if !selVal.Exists() {
			return nil, &SheetError{Field: "rules.selector", Message: "selector is required", Pos: entry.Pos()}
		}
		selector, err := selVal.String()
		if err != nil {
			return nil, &SheetError{Field: "rules.selector", Message: "selector must be a string", Pos: selVal.Pos()}
		}

		rule := SheetRule{Selector: selector}

		noteVal := entry.LookupPath(cue.ParsePath("note"))
		if noteVal.Exists() {
			note, err := noteVal.String()
			if err != nil {
				return nil, &SheetError{Field: "rules.note", Message: "note must be a string", Pos: noteVal.Pos()}
			}
			rule.Note = note
		}

		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return nil, &SheetError{Field: "rules", Message: "stylesheet has no rules", Pos: rulesVal.Pos()}
	}

	return rules, nil
}

// CompileSheet parses a CUE stylesheet value and compiles each selector,
// producing a rule table in declaration order.
func CompileSheet(v cue.Value, syms *symtab.Table) ([]ir.ComplexSelector, error) {
	sheetRules, err := ParseSheetValue(v)
	if err != nil {
		return nil, err
	}
	srcs := make([]string, len(sheetRules))
	for i, rule := range sheetRules {
		srcs[i] = rule.Selector
	}
	return CompileList(srcs, syms)
}
