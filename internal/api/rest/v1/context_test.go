//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
)

var (
	memberPrincipal = &auth.Principal{UserID: "user_1", SessionID: "sess_current", Permissions: []string{auth.PermissionUser}}
	adminPrincipal  = &auth.Principal{UserID: "admin_1", SessionID: "sess_admin", Permissions: []string{auth.PermissionUser, auth.PermissionAdmin}}
)

// newTestContext builds a gin context for method and url with an optional JSON body and principal
func newTestContext(t *testing.T, method, url string, body interface{}, principal *auth.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if principal != nil {
		c.Set(principalContextKey, principal)
	}
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
