package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"cinevault-backend/config"
	"cinevault-backend/internal/auth"
	"cinevault-backend/internal/models"
	"cinevault-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"
)

// responseWriter is a minimal adapter that implements http.ResponseWriter
// on top of a fiber context, for gothic's benefit.
type responseWriter struct {
	ctx     *fiber.Ctx
	headers http.Header
	status  int
}

func newResponseWriter(c *fiber.Ctx) *responseWriter {
	return &responseWriter{
		ctx:     c,
		headers: make(http.Header),
		status:  200,
	}
}

func (r *responseWriter) Header() http.Header {
	return r.headers
}

func (r *responseWriter) Write(b []byte) (int, error) {
	r.ctx.Response().SetBody(b)
	return len(b), nil
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ctx.Status(statusCode)
}

type OAuthHandler struct {
	authService *auth.Service
	userRepo    *repository.UserRepository
	config      *config.Config
}

func NewOAuthHandler(authService *auth.Service, userRepo *repository.UserRepository, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		userRepo:    userRepo,
		config:      cfg,
	}
}

// @Summary Begin OAuth authentication
// @Description Initiates the OAuth authentication process with the specified provider
// @Tags auth
// @Produce json
// @Param provider path string true "Authentication provider (google, github)"
// @Success 302 {string} string "Redirect to provider's auth page"
// @Failure 500 {object} ErrorResponse
// @Router /auth/{provider}/login [get]
func (h *OAuthHandler) Begin(c *fiber.Ctx) error {
	provider := c.Params("provider")
	log.Debug().Str("provider", provider).Msg("OAuth begin")

	req := &http.Request{
		Method: "GET",
		URL: &url.URL{
			Scheme:   c.Protocol(),
			Host:     c.Hostname(),
			Path:     c.Path(),
			RawQuery: fmt.Sprintf("provider=%s", provider),
		},
		Header:     make(http.Header),
		RemoteAddr: c.IP(),
	}

	c.Request().Header.VisitAll(func(key, value []byte) {
		req.Header.Add(string(key), string(value))
	})

	w := newResponseWriter(c)
	req = req.WithContext(c.Context())

	authURL, err := gothic.GetAuthURL(w, req)
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("Failed to get auth URL")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to begin authentication",
		})
	}

	return c.Redirect(authURL)
}

// @Summary OAuth callback
// @Description Completes the provider handshake and starts a session
// @Tags auth
// @Produce json
// @Param provider path string true "Authentication provider (google, github)"
// @Success 200 {object} SessionResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	log.Debug().Str("provider", provider).Msg("OAuth callback")

	w := newResponseWriter(c)

	req := &http.Request{
		Method: "GET",
		URL: &url.URL{
			Path:     fmt.Sprintf("/auth/%s/callback", provider),
			RawQuery: string(c.Request().URI().QueryString()),
		},
	}
	req = req.WithContext(c.Context())
	req.Header = make(http.Header)
	req.Header.Add("Accept", "application/json")

	gothUser, err := gothic.CompleteUserAuth(w, req)
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("Failed to complete auth")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to complete authentication",
		})
	}

	dbUser := &models.User{
		ID:        gothUser.UserID,
		Email:     gothUser.Email,
		Name:      gothUser.Name,
		Provider:  gothUser.Provider,
		AvatarURL: gothUser.AvatarURL,
		Accesses:  []string{string(models.AccessUser)},
		IsActive:  true,
	}

	if err := h.userRepo.CreateOrUpdateUser(dbUser); err != nil {
		log.Error().Err(err).Msg("Failed to create/update user")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to process user data",
		})
	}

	// Same issuance path as local login: access token + whitelisted refresh.
	session, err := h.authService.IssueSession(c.Context(), dbUser)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start session")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to generate authentication token",
		})
	}

	setRefreshCookie(c, session.Refresh.Token, h.authService.Issuer().RefreshTTL())

	// If frontend URL is provided in config, redirect there with the token
	if h.config.Auth.FrontendURL != "" {
		frontendURL, err := url.Parse(h.config.Auth.FrontendURL)
		if err != nil {
			log.Error().Err(err).Msg("Invalid frontend URL in config")
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "Invalid frontend configuration",
			})
		}

		frontendURL.Path = "/auth/callback"
		q := frontendURL.Query()
		q.Set("token", session.AccessToken)
		frontendURL.RawQuery = q.Encode()
		return c.Redirect(frontendURL.String())
	}

	return c.JSON(SessionResponse{
		User:        userResponse(dbUser),
		AccessToken: session.AccessToken,
	})
}
