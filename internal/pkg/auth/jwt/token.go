package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// SessionExpiration is the fixed time-to-live of a session token.
	// There is no refresh or rotation; expiry forces a full re-login.
	SessionExpiration = 24 * time.Hour

	// TokenIssuer identifies the issuer of every session token.
	TokenIssuer = "ATVault-Server"
)

// IssueToken creates and signs a session token for the given user ID,
// valid for the supplied duration.
func IssueToken(userID string, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates a session token string.
// Every failure mode (malformed token, wrong signature, wrong algorithm,
// expiry in the past) comes back as an error; callers treat any error as
// an anonymous request, never as something to retry or surface raw.
func ParseToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}
