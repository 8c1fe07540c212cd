package handlers

import (
	"errors"
	"time"

	"cinevault-backend/internal/auth"
	"cinevault-backend/internal/middleware"
	"cinevault-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RefreshCookieName carries the refresh token between browser and server.
const RefreshCookieName = "refreshToken"

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Provider:  u.Provider,
		AvatarURL: u.AvatarURL,
	}
}

// setRefreshCookie installs the rotating refresh token with a Max-Age that
// matches its whitelist TTL.
func setRefreshCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
}

// clearRefreshCookie expires the cookie immediately.
func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
	})
}

// @Summary Register new user
// @Description Create a new local account and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	user, err := h.authService.Register(input.Email, input.Password, input.Name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	session, err := h.authService.IssueSession(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate tokens",
		})
	}

	setRefreshCookie(c, session.Refresh.Token, h.authService.Issuer().RefreshTTL())
	return c.JSON(SessionResponse{
		User:        userResponse(session.User),
		AccessToken: session.AccessToken,
	})
}

// @Summary Login user
// @Description Authenticate with email/password; sets the refresh cookie
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	session, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountDisabled) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is deactivated",
			})
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}
		log.Error().Err(err).Msg("Login failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to login",
		})
	}

	setRefreshCookie(c, session.Refresh.Token, h.authService.Issuer().RefreshTTL())
	return c.JSON(SessionResponse{
		User:        userResponse(session.User),
		AccessToken: session.AccessToken,
	})
}

// @Summary Refresh access token
// @Description Silently rotate the refresh cookie and issue a new access token
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshCookieName)

	session, err := h.authService.SilentRefresh(c.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			clearRefreshCookie(c)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid refresh token",
			})
		}
		log.Error().Err(err).Msg("Silent refresh failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to refresh session",
		})
	}

	setRefreshCookie(c, session.Refresh.Token, h.authService.Issuer().RefreshTTL())
	return c.JSON(SessionResponse{
		User:        userResponse(session.User),
		AccessToken: session.AccessToken,
	})
}

// @Summary Logout user
// @Description Blacklist the access token, delist the refresh token and clear the cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	accessToken := middleware.BearerToken(c)
	refreshToken := c.Cookies(RefreshCookieName)

	if err := h.authService.Logout(c.Context(), accessToken, refreshToken); err != nil {
		// Revocation must stay idempotent; log and fall through.
		log.Error().Err(err).Msg("Logout cleanup failed")
	}

	clearRefreshCookie(c)
	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// @Summary Change password
// @Description Re-hash the password; all outstanding tokens become invalid
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	status := middleware.StatusFromCtx(c)
	env := auth.RunIfAuthenticated(status, func() (interface{}, error) {
		if err := h.authService.ChangePassword(status.UserID, input.CurrentPassword, input.NewPassword); err != nil {
			return nil, err
		}
		return fiber.Map{"message": "Password changed"}, nil
	})

	return c.Status(env.StatusCode).JSON(env)
}

// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	status := middleware.StatusFromCtx(c)

	env := auth.RunIfAuthenticated(status, func() (interface{}, error) {
		user, err := h.authService.CurrentUser(status.UserID)
		if err != nil {
			return nil, err
		}
		return userResponse(user), nil
	})

	return c.Status(env.StatusCode).JSON(env)
}
