package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"cinevault-backend/config"
	"cinevault-backend/internal/tokenstore"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by every access token. The password fingerprint ties the
// token to the credentials it was issued under.
type Claims struct {
	UserID      string `json:"userId"`
	Fingerprint string `json:"pwdFp"`
	jwt.RegisteredClaims
}

// Issuer creates signed access tokens and opaque refresh-token records.
// It is stateless; blacklist membership is checked elsewhere.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(cfg *config.AuthConfig) *Issuer {
	return &Issuer{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
	}
}

// IssueAccessToken signs a short-lived HS256 token over the user identity and
// password fingerprint. A signing failure is a configuration problem, not a
// request-level one; callers surface it as an internal error.
func (i *Issuer) IssueAccessToken(userID, fingerprint string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      userID,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyAccessToken checks signature and expiry only.
func (i *Issuer) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// IssueRefreshToken generates an opaque random token with the configured
// long TTL. The record is not stored here; the caller whitelists it.
func (i *Issuer) IssueRefreshToken(userID, fingerprint string) (tokenstore.RefreshRecord, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return tokenstore.RefreshRecord{}, err
	}

	return tokenstore.RefreshRecord{
		Token:       base64.RawURLEncoding.EncodeToString(buf),
		UserID:      userID,
		Fingerprint: fingerprint,
		ExpiresAt:   time.Now().Add(i.refreshTTL),
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }
