package domain

import "strings"

// NormalizeCode converts a raw code cell into the canonical join key used to
// match sales rows against the client and product directories: trim
// whitespace, then strip leading zeros if the value is purely numeric
// ("007" -> "7", "0" -> "0"). Non-numeric codes pass through unchanged.
//
// The same function must be applied on both sides of a join; the reference
// index normalizes directory codes at build time for exactly that reason.
// NormalizeCode is idempotent.
func NormalizeCode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !isDigits(s) {
		return s
	}
	stripped := strings.TrimLeft(s, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
