// Package jwt issues and validates the access/refresh token pair used
// for session auth.
package jwt

import (
	"errors"
	"time"

	"btohub/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "btohub"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims carries the identity embedded in an access token.
type Claims struct {
	UserID     uint        `json:"user_id"`
	NationalID string      `json:"national_id"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims carries the identity embedded in a refresh token. The
// TokenID ties the token to its hashed database record so it can be
// revoked and rotated.
type RefreshClaims struct {
	UserID  uint   `json:"user_id"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived access token for the user.
func GenerateAccessToken(userID uint, nationalID, name string, role domain.Role, secret string, expiryMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     userID,
		NationalID: nationalID,
		Name:       name,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   nationalID,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GenerateRefreshToken signs a long-lived refresh token bound to tokenID.
func GenerateRefreshToken(userID uint, tokenID, secret string, expiryDays int) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID:  userID,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parse validates signature, method and expiry, translating library
// errors into this package's sentinels.
func parse(tokenString, secret string, claims jwt.Claims) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return token, nil
}

// ValidateAccessToken parses and verifies an access token.
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	token, err := parse(tokenString, secret, &Claims{})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateRefreshToken parses and verifies a refresh token.
func ValidateRefreshToken(tokenString, secret string) (*RefreshClaims, error) {
	token, err := parse(tokenString, secret, &RefreshClaims{})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetExpiryTime returns the absolute expiry for a refresh token issued now.
func GetExpiryTime(days int) time.Time {
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}
