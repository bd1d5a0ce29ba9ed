//go:build unit
// +build unit

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_IsAdmin(t *testing.T) {
	assert.True(t, (&Principal{UserID: "user_1", Permissions: []string{PermissionUser, PermissionAdmin}}).IsAdmin())
	assert.False(t, (&Principal{UserID: "user_1", Permissions: []string{PermissionUser}}).IsAdmin())

	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.IsAdmin())
}

func TestPrincipal_CanActFor(t *testing.T) {
	member := &Principal{UserID: "user_1", Permissions: []string{PermissionUser}}
	admin := &Principal{UserID: "admin_1", Permissions: []string{PermissionAdmin}}

	assert.True(t, member.CanActFor(""))
	assert.True(t, member.CanActFor("user_1"))
	assert.False(t, member.CanActFor("user_2"))
	assert.True(t, admin.CanActFor("user_2"))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	p := &Principal{UserID: "user_1"}
	got, ok := FromContext(WithPrincipal(context.Background(), p))
	require.True(t, ok)
	assert.Same(t, p, got)
}
