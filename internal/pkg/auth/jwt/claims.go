package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the JSON Web Token claims carried by a session token.
// The token is self-contained: there is no server-side session store, so
// these claims are the sole source of truth for the session.
type Claims struct {
	// StandardClaims embeds the JWT standard fields: Exp (expiration),
	// Iat (issued at), and Iss (issuer). Expiry validation happens here.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the identifier of the account this session belongs to.
	// It is the only custom claim; everything else about the user is
	// resolved from the store at request time.
	UserID string `json:"user_id"`
}
