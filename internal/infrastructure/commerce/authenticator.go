package commerce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

type vendorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ServiceAuthenticator issues short-lived HS256 tokens for vendor calls.
type ServiceAuthenticator struct {
	secret   []byte
	vendorID string
	ttl      time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	token string
}

func NewServiceAuthenticator(secret, vendorID string, ttl time.Duration) *ServiceAuthenticator {
	return &ServiceAuthenticator{
		secret:   []byte(secret),
		vendorID: vendorID,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (a *ServiceAuthenticator) Authenticate(context.Context) error {
	now := a.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, vendorClaims{
		Role: "vendor",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   a.vendorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return fmt.Errorf("token.SignedString: %w", err)
	}

	a.mu.Lock()
	a.token = signed
	a.mu.Unlock()

	return nil
}

// BearerToken returns the last issued token, or "" once it is about to expire.
func (a *ServiceAuthenticator) BearerToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.token == "" {
		return ""
	}

	claims := &vendorClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(a.token, claims)
	if err != nil || claims.ExpiresAt == nil || !a.now().Add(a.ttl/10).Before(claims.ExpiresAt.Time) {
		return ""
	}

	return a.token
}
