// api/middleware/auth_test.go
package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredScope(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{http.MethodGet, "TrashMob.Read"},
		{http.MethodHead, "TrashMob.Read"},
		{http.MethodOptions, "TrashMob.Read"},
		{http.MethodPost, "TrashMob.Writes"},
		{http.MethodPut, "TrashMob.Writes"},
		{http.MethodPatch, "TrashMob.Writes"},
		{http.MethodDelete, "TrashMob.Writes"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, requiredScope(tt.method, "TrashMob.Read", "TrashMob.Writes"))
		})
	}
}

func TestHasScope(t *testing.T) {
	tests := []struct {
		name  string
		claim string
		scope string
		want  bool
	}{
		{"present among others", "openid TrashMob.Read TrashMob.Writes", "TrashMob.Writes", true},
		{"read only cannot write", "openid TrashMob.Read", "TrashMob.Writes", false},
		{"empty claim", "", "TrashMob.Read", false},
		{"no substring match", "TrashMob.ReadAll", "TrashMob.Read", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasScope(tt.claim, tt.scope))
		})
	}
}

func TestIsUserInGroup(t *testing.T) {
	claims := &IdentityClaims{CognitoGroups: []string{"volunteers", "site-admin"}}
	assert.True(t, isUserInGroup(claims, "site-admin"))
	assert.False(t, isUserInGroup(claims, "moderators"))
	assert.False(t, isUserInGroup(&IdentityClaims{}, "site-admin"))
}
