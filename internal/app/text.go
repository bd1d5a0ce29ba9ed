package app

import (
	"strings"
	"unicode/utf8"
)

// truncateRunes drops invalid UTF-8 from s and cuts it to at most n characters.
// Postgres rejects invalid byte sequences in text columns.
func truncateRunes(s string, n int) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
