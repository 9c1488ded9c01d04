// Package auth verifies the HS256 access tokens minted by the identity
// service. This service never issues tokens itself.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// JWTVerifier validates JWT access tokens.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier creates a new JWT verifier.
// secret must be at least 32 characters for HS256 security.
func NewJWTVerifier(secret string, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// accessClaims extends standard JWT claims with the user's role.
type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// ValidateAccessToken parses and validates a JWT access token.
// Returns the authenticated actor if valid.
func (v *JWTVerifier) ValidateAccessToken(tokenString string) (domain.User, error) {
	if tokenString == "" {
		return domain.User{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return domain.User{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != v.issuer {
		return domain.User{}, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.User{}, fmt.Errorf("invalid subject UUID: %w", err)
	}

	role := domain.UserRole(claims.Role)
	if !role.IsValid() {
		role = domain.UserRolePublic
	}

	return domain.User{ID: userID, Role: role}, nil
}
