package testutil

import (
	"net/http"
	"testing"

	"github.com/uniquestorebd/unique-store-api/middleware"
	"github.com/uniquestorebd/unique-store-api/models"
)

// SignedTestToken issues a real session token for a user, signed with the
// given secret. Tests exercise the actual JWT middleware with it.
func SignedTestToken(t *testing.T, user *models.User, secret string) string {
	t.Helper()

	token, err := middleware.GenerateToken(user, secret)
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}

// AuthorizeBearer attaches the token as an Authorization: Bearer header
func AuthorizeBearer(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// AuthorizeCookie attaches the token as the session cookie, the way a
// browser client sends it after login
func AuthorizeCookie(req *http.Request, token string) {
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
}
