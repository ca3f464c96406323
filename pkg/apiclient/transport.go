package apiclient

import (
	"context"
	"net/http"
	"strings"
)

// retriedKey marks a request that already went through one refresh-and-
// replay cycle. Its presence is the loop guard: a replayed request that
// fails again is returned as is.
type retriedKey struct{}

// authTransport attaches the bearer token to outgoing requests and, on a
// 401 for a request that has not been retried yet, performs exactly one
// silent refresh and replays the original request once.
type authTransport struct {
	client *Client
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.client.currentAccessToken()

	authed := req.Clone(req.Context())
	if token != "" {
		authed.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(authed)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if req.Context().Value(retriedKey{}) != nil {
		return resp, nil
	}
	if !refreshable(req.URL.Path) {
		return resp, nil
	}

	newToken, refreshErr := t.client.refreshAccessToken(req.Context(), token)
	if refreshErr != nil {
		// Refresh failed: the session is over. Local state is cleared
		// and the original 401 is surfaced to the caller.
		t.client.expireSession()
		return resp, nil
	}

	retry, retryErr := cloneForRetry(req)
	if retryErr != nil {
		return resp, nil
	}
	resp.Body.Close()

	retry.Header.Set("Authorization", "Bearer "+newToken)
	return t.base.RoundTrip(retry)
}

// refreshable reports whether a 401 on this path should trigger a token
// refresh. Failures of the auth endpoints themselves (bad login, expired
// refresh cookie) are terminal, not recoverable by another refresh.
func refreshable(path string) bool {
	for _, p := range []string{
		"/auth/login", "/auth/register", "/auth/refresh", "/auth/logout",
		"/auth/forgot-password", "/auth/reset-password",
	} {
		if strings.HasSuffix(path, p) {
			return false
		}
	}
	return true
}

// cloneForRetry rebuilds the request with a fresh body and the retried
// marker set. Requests without a replayable body cannot be retried.
func cloneForRetry(req *http.Request) (*http.Request, error) {
	retry := req.Clone(context.WithValue(req.Context(), retriedKey{}, true))
	if req.Body == nil || req.GetBody == nil {
		return retry, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}
