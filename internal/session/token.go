package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nikolayk812/storefront/internal/domain"
)

// Claims is the shape of the token the auth provider signs: a role claim and
// the backend access token.
type Claims struct {
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
	jwt.RegisteredClaims
}

// ParseToken verifies the signature and decodes the role exactly once, so
// callers only ever see domain.Role and never the raw claim.
func ParseToken(tokenString string, secret []byte) (domain.Session, error) {
	if tokenString == "" {
		return domain.Session{}, fmt.Errorf("token is empty")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf("jwt.ParseWithClaims: %w", err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Session{}, fmt.Errorf("domain.ParseRole: %w", err)
	}

	if claims.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("accessToken claim is empty")
	}

	session := domain.Session{
		Subject:     claims.Subject,
		Role:        role,
		AccessToken: claims.AccessToken,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}
