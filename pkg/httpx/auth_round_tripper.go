package httpx

import (
	"context"
	"fmt"
	"net/http"
)

type authenticator interface {
	Authenticate(context.Context) error
	Token() string
}

// AuthRoundTripper sets the Authorization header as "<scheme> <token>" and
// re-authenticates once when the upstream answers 401.
type AuthRoundTripper struct {
	next          http.RoundTripper
	authenticator authenticator
	scheme        string
}

func NewAuthRoundTripper(
	next http.RoundTripper,
	authenticator authenticator,
	scheme string,
) AuthRoundTripper {
	return AuthRoundTripper{
		next:          next,
		authenticator: authenticator,
		scheme:        scheme,
	}
}

func (rt AuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.authenticator.Token() == "" {
		if err := rt.authenticator.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
		}
	}

	req = rt.withAuthorizationHeader(req)

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		if err = rt.authenticator.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("authenticator.Authenticate: %w", err)
		}

		return rt.next.RoundTrip(rt.withAuthorizationHeader(req)) //nolint:wrapcheck
	}

	return resp, nil
}

// RoundTrippers must not modify the caller's request.
func (rt AuthRoundTripper) withAuthorizationHeader(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", rt.scheme+" "+rt.authenticator.Token())

	return clone
}

// StaticToken is an authenticator for long-lived API tokens.
type StaticToken string

func (StaticToken) Authenticate(context.Context) error {
	return nil
}

func (t StaticToken) Token() string {
	return string(t)
}
