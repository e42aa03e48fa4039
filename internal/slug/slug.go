// Package slug derives URL-safe identifiers from human-readable names.
package slug

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases s, collapses every run of non-alphanumeric characters to a
// single "-", and strips leading/trailing dashes. The same input always
// yields the same slug. An input with no alphanumeric characters yields "".
func Make(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
