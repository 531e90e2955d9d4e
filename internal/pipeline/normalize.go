package pipeline

import "strings"

// NormalizeCountry maps a raw country-name string to its canonical form:
// whitespace trim, then exact-match lookup in the synonym table. The
// function is pure and deterministic. It is also idempotent as long as no
// mapping target is itself a mapping key; the shipped table keeps that
// invariant and any caller-supplied mapping must too.
func NormalizeCountry(name string, synonyms map[string]string) string {
	name = strings.TrimSpace(name)
	if mapped, ok := synonyms[name]; ok {
		name = strings.TrimSpace(mapped)
	}
	return name
}
