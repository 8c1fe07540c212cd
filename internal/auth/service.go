package auth

import (
	"context"
	"errors"
	"time"

	"cinevault-backend/internal/models"
	"cinevault-backend/internal/tokenstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// UserSource is the slice of the user repository the auth flows need.
type UserSource interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
}

// Session is the result of a successful login or silent refresh: the user, a
// signed access token and the whitelisted refresh record the handler turns
// into a cookie.
type Session struct {
	User        *models.User
	AccessToken string
	Refresh     tokenstore.RefreshRecord
}

// Service orchestrates credential issuance, rotation and revocation on top
// of the token store.
type Service struct {
	users  UserSource
	issuer *Issuer
	store  tokenstore.Store
}

func NewService(users UserSource, issuer *Issuer, store tokenstore.Store) *Service {
	return &Service{
		users:  users,
		issuer: issuer,
		store:  store,
	}
}

// Issuer exposes the token issuer for handlers that need TTLs.
func (s *Service) Issuer() *Issuer { return s.issuer }

// Register creates a local account with a bcrypt-hashed password.
func (s *Service) Register(email, password, name string) (*models.User, error) {
	existingUser, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, errors.New("user already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  string(hashedPassword),
		Name:      name,
		Provider:  "local",
		Accesses:  models.StringArray{"user"},
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials, issues a token pair and whitelists the refresh
// record. Lookup and password failures both map to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// IssueSession creates and whitelists a token pair for an already-verified
// user. OAuth callbacks land here after the provider has vouched for the
// identity.
func (s *Service) IssueSession(ctx context.Context, user *models.User) (*Session, error) {
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user *models.User) (*Session, error) {
	fingerprint := user.PasswordFingerprint()

	accessToken, err := s.issuer.IssueAccessToken(user.ID, fingerprint)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign access token")
		return nil, err
	}

	refresh, err := s.issuer.IssueRefreshToken(user.ID, fingerprint)
	if err != nil {
		return nil, err
	}

	if err := s.store.WhitelistAdd(ctx, refresh); err != nil {
		log.Error().Err(err).Msg("Failed to whitelist refresh token")
		return nil, err
	}

	return &Session{User: user, AccessToken: accessToken, Refresh: refresh}, nil
}

// SilentRefresh rotates a refresh token: lookup, fingerprint re-check against
// the current user record, then an atomic whitelist replace. The replace is
// what makes rotation exactly-once: when two callers race on the same token,
// the store admits one and the loser gets ErrInvalidRefreshToken. Every
// rejection collapses into that same error.
func (s *Service) SilentRefresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	rec, err := s.store.WhitelistLookup(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetUserByID(rec.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || user.PasswordFingerprint() != rec.Fingerprint {
		// Stale lineage: the password changed (or the account went away)
		// after this token was issued.
		if err := s.store.WhitelistRemove(ctx, refreshToken); err != nil {
			log.Warn().Err(err).Msg("Failed to remove stale refresh token")
		}
		return nil, ErrInvalidRefreshToken
	}

	next, err := s.issuer.IssueRefreshToken(user.ID, rec.Fingerprint)
	if err != nil {
		return nil, err
	}

	replaced, err := s.store.WhitelistReplace(ctx, refreshToken, next)
	if err != nil {
		return nil, err
	}
	if !replaced {
		// A concurrent rotation consumed the token first.
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.issuer.IssueAccessToken(user.ID, rec.Fingerprint)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign access token")
		return nil, err
	}

	return &Session{User: user, AccessToken: accessToken, Refresh: next}, nil
}

// Logout blacklists the presented access token for its remaining lifetime
// and delists the refresh token. Both steps tolerate absent or malformed
// input, so repeated logouts never error.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		claims, err := s.issuer.VerifyAccessToken(accessToken)
		if err == nil && claims.ExpiresAt != nil {
			if err := s.store.BlacklistAdd(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
				return err
			}
		}
	}

	if refreshToken != "" {
		if err := s.store.WhitelistRemove(ctx, refreshToken); err != nil {
			return err
		}
	}

	return nil
}

// ChangePassword re-hashes the user's password. No revocation pass runs:
// the fingerprint embedded in outstanding tokens stops matching, which is
// what invalidates them.
func (s *Service) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	return s.users.UpdateUser(user)
}

// CurrentUser loads the profile for an already-authenticated user ID.
func (s *Service) CurrentUser(userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// StatusFromToken derives the request's AuthStatus from a presented access
// token: signature and expiry, blacklist membership, then the fingerprint
// against the user's current password hash. Any failure yields the same
// unauthenticated status.
func (s *Service) StatusFromToken(ctx context.Context, accessToken string) AuthStatus {
	if accessToken == "" {
		return AuthStatus{}
	}

	claims, err := s.issuer.VerifyAccessToken(accessToken)
	if err != nil {
		return AuthStatus{}
	}

	blacklisted, err := s.store.BlacklistContains(ctx, accessToken)
	if err != nil {
		log.Error().Err(err).Msg("Blacklist lookup failed")
		return AuthStatus{}
	}
	if blacklisted {
		return AuthStatus{}
	}

	user, err := s.users.GetUserByID(claims.UserID)
	if err != nil || user == nil || !user.IsActive {
		return AuthStatus{}
	}
	if user.PasswordFingerprint() != claims.Fingerprint {
		return AuthStatus{}
	}

	return AuthStatus{IsAuthenticated: true, UserID: user.ID}
}
