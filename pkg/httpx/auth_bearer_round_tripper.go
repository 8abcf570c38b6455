package httpx

import (
	"context"
	"fmt"
	"net/http"
)

type authenticator interface {
	Authenticate(context.Context) error
	BearerToken() string
}

// AuthBearerRoundTripper attaches a bearer token to every request and
// re-authenticates once when the upstream answers 401.
type AuthBearerRoundTripper struct {
	next          http.RoundTripper
	authenticator authenticator
}

func NewAuthBearerRoundTripper(
	next http.RoundTripper,
	authenticator authenticator,
) AuthBearerRoundTripper {
	return AuthBearerRoundTripper{
		next:          next,
		authenticator: authenticator,
	}
}

func (rt AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.authenticator.BearerToken() == "" {
		if err := rt.authenticator.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
		}
	}

	resp, err := rt.next.RoundTrip(rt.authorized(req))
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// The body of the first attempt is consumed, replay only rewindable requests.
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	resp.Body.Close()

	if err = rt.authenticator.Authenticate(req.Context()); err != nil {
		return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
	}

	retry := rt.authorized(req)

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("req.GetBody: %w", err)
		}

		retry.Body = body
	}

	return rt.next.RoundTrip(retry) //nolint:wrapcheck
}

// authorized returns a copy of req, RoundTrippers must not modify the original.
func (rt AuthBearerRoundTripper) authorized(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+rt.authenticator.BearerToken())

	return clone
}
