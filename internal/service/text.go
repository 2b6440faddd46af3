package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeText trims whitespace and applies NFC normalization so that
// visually identical input always stores and compares as the same bytes.
// Category filters and search depend on this being applied at every write.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
