// Package normalize cleans up raw form and query values before validation.
package normalize

import (
	"strings"
)

// Name trims and collapses inner whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// QueryParam trims surrounding whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// InviteCode trims and upper-cases an invite code.
func InviteCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Lower trims and lower-cases a keyword such as a transport mode or category.
func Lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Keywords lower-cases, trims and de-duplicates a multi-value field, dropping
// blanks and keeping first-seen order.
func Keywords(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = Lower(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
