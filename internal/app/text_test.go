//go:build unit
// +build unit

package app

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "Mozilla", 10, "Mozilla"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"multi-byte cut", "ééééé", 3, "ééé"},
		{"invalid bytes dropped", "ab\xffcd", 10, "abcd"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateRunes(tc.in, tc.n)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestClassifyLineTruncatesMultiByteExcerpt(t *testing.T) {
	finding, ok := classifyLine("access denied " + strings.Repeat("ü", 500))
	assert.True(t, ok)
	assert.True(t, utf8.ValidString(finding.Excerpt))
	assert.Equal(t, maxExcerptLength, utf8.RuneCountInString(finding.Excerpt))
}
