package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)
	return v
}

func TestIssueAndParse(t *testing.T) {
	v := newTestVerifier(t)

	tok, err := v.Issue("asha", RoleSales, 7, time.Hour)
	require.NoError(t, err)

	c, err := v.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "asha", c.Username())
	assert.Equal(t, RoleSales, c.Role)
	assert.Equal(t, 7, c.UID)
}

func TestParseRejects(t *testing.T) {
	v := newTestVerifier(t)
	other, err := NewVerifier("other-secret")
	require.NoError(t, err)

	expired, err := v.Issue("asha", RoleSales, 1, -time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue("asha", RoleSales, 1, time.Hour)
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: RoleSales}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = v.Parse("")
	assert.ErrorIs(t, err, ErrMissingToken)

	for name, tok := range map[string]string{
		"garbage": "not.a.token",
		"expired": expired,
		"foreign": foreign,
		"no exp":  noExp,
	} {
		_, err := v.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestRequireRole(t *testing.T) {
	v := newTestVerifier(t)

	issue := func(role Role) string {
		tok, err := v.Issue("u", role, 1, time.Hour)
		require.NoError(t, err)
		return tok
	}

	cases := []struct {
		name     string
		token    string
		roles    []Role
		location string
		status   int
	}{
		{"no token", "", []Role{RoleManager}, LoginPath, http.StatusUnauthorized},
		{"bad token", "abc", []Role{RoleSales}, LoginPath, http.StatusUnauthorized},
		{"sales on manager page", issue(RoleSales), []Role{RoleManager}, HomePath, http.StatusForbidden},
		{"unknown role", issue(Role("intern")), nil, HomePath, http.StatusForbidden},
		{"manager", issue(RoleManager), []Role{RoleManager}, "", 0},
		{"admin counts as manager", issue(RoleAdmin), []Role{RoleManager}, "", 0},
		{"admin on sales-only", issue(RoleAdmin), []Role{RoleSales}, HomePath, http.StatusForbidden},
		{"any role", issue(RoleSales), nil, "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, redirect := v.RequireRole(tc.token, tc.roles...)
			if tc.location == "" {
				assert.Nil(t, redirect)
				require.NotNil(t, claims)
				return
			}
			assert.Nil(t, claims)
			require.NotNil(t, redirect)
			assert.Equal(t, tc.location, redirect.Location)
			assert.Equal(t, tc.status, redirect.Status)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	_, err := NewVerifier(" ")
	assert.Error(t, err)
}
