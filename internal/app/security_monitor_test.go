//go:build unit
// +build unit

package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
)

func TestClassifyLine(t *testing.T) {
	cases := []struct {
		line  string
		class security.PatternClass
		ip    string
	}{
		{"10.0.0.1 POST /login 401 Unauthorized", security.ClassFailedLogin, "10.0.0.1"},
		{"10.0.0.2 GET /?q=<script>alert(1)</script>", security.ClassInjection, "10.0.0.2"},
		{"GET /static/../../etc/passwd", security.ClassPathTraversal, ""},
		{"10.0.0.3 GET / \"sqlmap/1.7\"", security.ClassScannerProbe, "10.0.0.3"},
		{"10.0.0.4 GET /admin 403 forbidden union select 1", security.ClassInjection, "10.0.0.4"},
	}
	for _, tc := range cases {
		finding, ok := classifyLine(tc.line)
		assert.True(t, ok, tc.line)
		assert.Equal(t, tc.class, finding.Class, tc.line)
		assert.Equal(t, tc.ip, finding.IPAddress, tc.line)
	}

	_, ok := classifyLine("10.0.0.5 GET /health 200")
	assert.False(t, ok)
}

func TestClassifyLineTruncatesExcerpt(t *testing.T) {
	finding, ok := classifyLine("access denied " + strings.Repeat("x", 500))
	assert.True(t, ok)
	assert.Len(t, finding.Excerpt, maxExcerptLength)
}

func TestExtractIPSkipsInvalidAddresses(t *testing.T) {
	assert.Equal(t, "", extractIP("from 300.1.1.1"))
	assert.Equal(t, "192.0.2.8", extractIP("from 300.1.1.1 via 192.0.2.8"))
}

func TestIsLogFile(t *testing.T) {
	assert.True(t, isLogFile("app.log"))
	assert.True(t, isLogFile("nginx-access.1"))
	assert.True(t, isLogFile("error_report"))
	assert.True(t, isLogFile("auth"))
	assert.False(t, isLogFile("README.md"))
}
