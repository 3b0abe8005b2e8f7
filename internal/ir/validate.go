package ir

import (
	"fmt"

	"github.com/roach88/selva/internal/symtab"
)

// ValidationError describes a structural defect in a compiled rule table.
type ValidationError struct {
	RuleIx  int    // index of the offending rule
	SelIx   int    // chain position of the offending compound, -1 if rule-level
	Message string
}

func (e *ValidationError) Error() string {
	if e.SelIx >= 0 {
		return fmt.Sprintf("rule %d, compound %d: %s", e.RuleIx, e.SelIx, e.Message)
	}
	return fmt.Sprintf("rule %d: %s", e.RuleIx, e.Message)
}

// Validate checks the structural invariants the matching engine relies on.
//
// The compiler produces tables satisfying these by construction; Validate
// exists for tables assembled by hand (tests, future loaders) and for the
// CLI validate command.
func Validate(rules []ComplexSelector) error {
	for ri, rule := range rules {
		for si := 0; si < rule.Compounds(); si++ {
			if err := validateCompound(ri, si, rule.CompoundAt(si)); err != nil {
				return err
			}
		}
		for _, step := range rule.Tail {
			if !ValidCombinators[step.Combinator] {
				return &ValidationError{
					RuleIx:  ri,
					SelIx:   -1,
					Message: fmt.Sprintf("unknown combinator %q", step.Combinator),
				}
			}
		}
	}
	return nil
}

func validateCompound(ruleIx, selIx int, sel CompoundSelector) error {
	var prev symtab.Symbol
	for i, class := range sel.Classes {
		if class == symtab.None {
			return &ValidationError{
				RuleIx:  ruleIx,
				SelIx:   selIx,
				Message: fmt.Sprintf("class %d is the reserved zero symbol", i),
			}
		}
		if i > 0 && class <= prev {
			return &ValidationError{
				RuleIx:  ruleIx,
				SelIx:   selIx,
				Message: "class list not strictly ascending",
			}
		}
		prev = class
	}
	return nil
}
