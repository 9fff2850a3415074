package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single failure mode of DecodeSession. Forged,
// malformed, mis-signed and expired tokens are deliberately
// indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid session token")

// Payload carries the identity claims embedded in a session token. Role is
// captured at issuance and is not re-checked against the live user record
// until the next login, so a role change takes effect only after the token
// expires or the user re-authenticates.
type Payload struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// sessionClaims is the JWT claim set: the payload plus registered exp/iat.
type sessionClaims struct {
	Payload
	jwt.RegisteredClaims
}

// EncodeSession signs an HS256 token over the payload, stamping issued-at
// now and expiry now+ttl.
func EncodeSession(secret string, p Payload, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// DecodeSession verifies the signature and expiry of a token produced by
// EncodeSession and returns its payload. Any failure, including a token
// signed with a different algorithm, maps to ErrInvalidToken.
func DecodeSession(secret, token string) (Payload, error) {
	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Payload{}, ErrInvalidToken
	}
	return claims.Payload, nil
}
