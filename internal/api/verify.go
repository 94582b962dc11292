package api

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/gyaneshwarpardhi/signuprelay/internal/httperr"
)

// SecretHeader carries the inbound shared-secret token.
const SecretHeader = "x-webhook-secret"

// verifySecret checks the inbound webhook token. The identity provider signs
// the configured webhook secret as an HS256 JWT; we only care that the
// signature verifies, not about any claims.
func verifySecret(token, secret string) error {
	if token == "" {
		return httperr.Unauthorized("missing webhook token")
	}
	_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return httperr.Unauthorized("invalid webhook token")
	}
	return nil
}
