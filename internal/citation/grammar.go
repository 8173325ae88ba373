// Package citation validates generated citation keys against the closed
// grammar the analysis prompt demands. Anything outside the grammar is
// dropped rather than surfaced as an error: the backend is expected to
// occasionally produce junk keys.
package citation

import (
	"regexp"
	"strings"
)

// Accepted key forms:
//
//	S 21 PDPA
//	S 21(1) PDPA
//	S 21(1) and (2) PDPA
//	Ss 21(5) and (7) PDPA
//	Ss 13 and 14 PDPA
//	Reg 4 PDPR
//	Regs 4 and 5 PDPR
//	para 1(a) of Fifth Schedule PDPA
var (
	sub = `\([0-9a-z]+\)`
	sec = `[0-9]+[A-Z]?(?:` + sub + `)*`

	sectionRe = regexp.MustCompile(`^S ` + sec + `(?: and (?:` + sub + `)+)* PDPA$`)
	multiRe   = regexp.MustCompile(`^Ss ` + sec + `(?: and (?:` + sec + `|(?:` + sub + `)+))+ PDPA$`)
	regRe     = regexp.MustCompile(`^Regs? [0-9]+[A-Z]?(?: and [0-9]+[A-Z]?)* PDPR$`)
	paraRe    = regexp.MustCompile(`^para [0-9]+[A-Z]?(?:\([0-9a-z]+\))* of [A-Z][a-z]+ Schedule PDPA$`)
)

// Valid reports whether key matches one of the accepted citation forms.
// Keys containing "Definition" never validate: definitional entries are
// context, not citable holdings.
func Valid(key string) bool {
	if strings.Contains(key, "Definition") {
		return false
	}
	return sectionRe.MatchString(key) ||
		multiRe.MatchString(key) ||
		regRe.MatchString(key) ||
		paraRe.MatchString(key)
}

// Filter returns the keys that validate, preserving order, and the keys
// that were dropped.
func Filter(keys []string) (kept, dropped []string) {
	for _, k := range keys {
		if Valid(k) {
			kept = append(kept, k)
		} else {
			dropped = append(dropped, k)
		}
	}
	return kept, dropped
}
