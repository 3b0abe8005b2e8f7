package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainSheet is the domain prefix for sheet content hashing.
// Version suffix enables future algorithm migration.
const DomainSheet = "selva/sheet/v1"

// SheetHash computes a content hash for a compiled rule table.
//
// Symbols are session-local, so the hash is computed over the rules'
// NFC-normalized source text in declaration order rather than over the
// compiled form. Two tables compiled from the same selector list in the
// same order hash identically; any reordering, addition, or removal
// changes the hash.
//
// The match recording store uses this to refuse reads that pair recorded
// rule indices with a rule table other than the one that produced them.
func SheetHash(rules []ComplexSelector) string {
	h := sha256.New()
	h.Write([]byte(DomainSheet))
	h.Write([]byte{0x00}) // null separator prevents domain/data ambiguity
	for _, rule := range rules {
		h.Write([]byte(norm.NFC.String(rule.Source)))
		h.Write([]byte{0x0A})
	}
	return hex.EncodeToString(h.Sum(nil))
}
