package auth

import (
	"net/http"

	"cinevault-backend/config"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth/gothic"
)

// InitializeSessionStore sets up the gothic session store used during the
// OAuth handshake. The cookie carries the same attributes as the refresh
// cookie and lives no longer than a refresh token would.
func InitializeSessionStore(cfg *config.AuthConfig) {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	gothic.Store = store
}
