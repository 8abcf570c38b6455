package commerce

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestServiceAuthenticator(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	auth := NewServiceAuthenticator("secret", "vendor-1", time.Minute)
	auth.now = func() time.Time { return now }

	rq.Empty(auth.BearerToken())
	rq.NoError(auth.Authenticate(context.Background()))

	token := auth.BearerToken()
	rq.NotEmpty(token)

	claims := &vendorClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	rq.NoError(err)
	rq.Equal("vendor-1", claims.Subject)
	rq.Equal("vendor", claims.Role)

	now = now.Add(55 * time.Second)
	rq.Empty(auth.BearerToken(), "token close to expiry is not reused")
}
