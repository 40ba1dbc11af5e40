package local

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "swifttrack-local-identity"

// Claims carries the identity and custom claims of an id token.
// Generation ties the token to a session generation; RevokeSessions bumps it.
type Claims struct {
	Email      string         `json:"email"`
	Custom     map[string]any `json:"custom,omitempty"`
	Generation uint64         `json:"gen"`
	jwt.RegisteredClaims
}

// signIDToken creates a signed JWT for the identity.
func signIDToken(secret []byte, uid, email string, custom map[string]any, generation uint64, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email:      email,
		Custom:     custom,
		Generation: generation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// parseIDToken parses a token and validates signature, issuer and expiry.
func parseIDToken(secret []byte, tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
