package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/saran-softdev/component-library-sub001/pkg/config"
)

var (
	signingKey []byte
	expiration time.Duration
)

// Initialize configures the signing key used to validate tokens.
// Tokens are issued by the identity service; this service only
// validates them and reads the principal claims.
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expiration = time.Duration(cfg.ExpirationHours) * time.Hour
}

// PrincipalClaims carries the authenticated principal used by the
// access resolution engine.
type PrincipalClaims struct {
	Email          string `json:"email"`
	UserID         uint   `json:"user_id"`
	RoleID         uint   `json:"role_id"`
	OrganizationID uint   `json:"organization_id"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token for the given principal. Kept
// for tooling and tests; production tokens come from the identity
// service sharing the same signing key.
func GenerateToken(email string, userID, roleID, organizationID uint) (string, error) {
	claims := PrincipalClaims{
		Email:          email,
		UserID:         userID,
		RoleID:         roleID,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*PrincipalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PrincipalClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*PrincipalClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
