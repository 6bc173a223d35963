// Package normalize canonicalizes user-supplied identifiers before they are
// stored or matched against stored records.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are normalized once at
// the write path so lookups never need case-insensitive queries.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
