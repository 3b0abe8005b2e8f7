// Package compiler turns selector text into the compiled ir form the
// matching engine consumes.
//
// The grammar is deliberately small: compound selectors made of an
// optional type (or '*'), an optional '#id', and '.class' repetitions,
// chained by whitespace (descendant) or '>' (child). Attribute selectors,
// pseudo-classes, and sibling combinators are out of scope.
//
// Class requirements are interned and sorted into ascending symbol order
// at compile time, which is the form the engine's merge-intersection test
// requires.
package compiler

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/selva/internal/ir"
	"github.com/roach88/selva/internal/symtab"
)

// CompileError reports a selector parse failure with its byte offset.
type CompileError struct {
	Src     string
	Pos     int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("selector %q: offset %d: %s", e.Src, e.Pos, e.Message)
}

// CompileSelector parses one selector chain, interning identifiers into
// syms. The returned selector carries the original text as Source.
func CompileSelector(src string, syms *symtab.Table) (ir.ComplexSelector, error) {
	p := &parser{src: src, syms: syms}

	p.skipSpace()
	if p.done() {
		return ir.ComplexSelector{}, p.errorf("empty selector")
	}

	first, err := p.parseCompound()
	if err != nil {
		return ir.ComplexSelector{}, err
	}

	sel := ir.ComplexSelector{Source: src, First: first}
	for {
		sawSpace := p.skipSpace()
		if p.done() {
			return sel, nil
		}

		comb := ir.Descendant
		if p.peek() == '>' {
			p.next()
			comb = ir.Child
			p.skipSpace()
		} else if !sawSpace {
			return ir.ComplexSelector{}, p.errorf("unexpected character %q", p.peek())
		}

		compound, err := p.parseCompound()
		if err != nil {
			return ir.ComplexSelector{}, err
		}
		sel.Tail = append(sel.Tail, ir.SelectorStep{Combinator: comb, Selector: compound})
	}
}

// CompileList compiles a selector list into a rule table. The slice
// index of the result is the rule identity the engine reports.
func CompileList(srcs []string, syms *symtab.Table) ([]ir.ComplexSelector, error) {
	rules := make([]ir.ComplexSelector, 0, len(srcs))
	for i, src := range srcs {
		sel, err := CompileSelector(src, syms)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, sel)
	}
	return rules, nil
}

type parser struct {
	src  string
	pos  int
	syms *symtab.Table
}

func (p *parser) done() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *parser) next() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return r
}

func (p *parser) skipSpace() bool {
	start := p.pos
	for !p.done() && (p.peek() == ' ' || p.peek() == '\t') {
		p.next()
	}
	return p.pos > start
}

func (p *parser) errorf(format string, args ...any) error {
	return &CompileError{Src: p.src, Pos: p.pos, Message: fmt.Sprintf(format, args...)}
}

// parseCompound parses [type|'*'] ('#'id)? ('.'class)* with id and class
// parts accepted in any order after the type.
func (p *parser) parseCompound() (ir.CompoundSelector, error) {
	sel := ir.CompoundSelector{}
	var classes []string
	parsedAny := false

	if !p.done() && p.peek() == '*' {
		p.next()
		parsedAny = true // universal type: no constraint recorded
	} else if !p.done() && isIdentStart(p.peek()) {
		name, err := p.parseIdent("type")
		if err != nil {
			return ir.CompoundSelector{}, err
		}
		sel.Type = ir.TypeSelector{Name: p.syms.Intern(name)}
		parsedAny = true
	}

	for !p.done() {
		switch p.peek() {
		case '#':
			p.next()
			name, err := p.parseIdent("id")
			if err != nil {
				return ir.CompoundSelector{}, err
			}
			if sel.ID != symtab.None {
				return ir.CompoundSelector{}, p.errorf("multiple id selectors in one compound")
			}
			sel.ID = p.syms.Intern(name)
			parsedAny = true
		case '.':
			p.next()
			name, err := p.parseIdent("class")
			if err != nil {
				return ir.CompoundSelector{}, err
			}
			classes = append(classes, name)
			parsedAny = true
		default:
			if !parsedAny {
				return ir.CompoundSelector{}, p.errorf("expected compound selector, found %q", p.peek())
			}
			sel.Classes = p.syms.InternClasses(classes)
			return sel, nil
		}
	}

	if !parsedAny {
		return ir.CompoundSelector{}, p.errorf("expected compound selector")
	}
	sel.Classes = p.syms.InternClasses(classes)
	return sel, nil
}

func (p *parser) parseIdent(what string) (string, error) {
	start := p.pos
	if p.done() || !isIdentStart(p.peek()) {
		return "", p.errorf("expected %s identifier", what)
	}
	p.next()
	for !p.done() && isIdentPart(p.peek()) {
		p.next()
	}
	return p.src[start:p.pos], nil
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || r >= utf8.RuneSelf
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
