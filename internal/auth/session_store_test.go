package auth

import (
	"net/http"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSessionStoreCookieOptions(t *testing.T) {
	cfg := testAuthConfig()
	cfg.SessionSecret = "session-secret"

	InitializeSessionStore(cfg)

	store, ok := gothic.Store.(*sessions.CookieStore)
	require.True(t, ok)

	assert.Equal(t, "/", store.Options.Path)
	assert.Equal(t, 7*24*60*60, store.Options.MaxAge, "session cookie must not outlive a refresh token")
	assert.True(t, store.Options.HttpOnly)
	assert.True(t, store.Options.Secure)
	assert.Equal(t, http.SameSiteNoneMode, store.Options.SameSite)
}
