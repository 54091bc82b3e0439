package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/models"
)

type retriedCtxKey struct{}

// maxDrainBytes bounds how much of a rejected response body is read before it is closed
const maxDrainBytes int64 = 4096

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedCtxKey{}, true)
}

func isRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedCtxKey{}).(bool)
	return retried
}

// AuthTransport implements http.RoundTripper. It attaches the access token of the token store
// to every request and recovers a 401 response with a single refresh and a single retry.
type AuthTransport struct {
	Transport http.RoundTripper
	store     *TokenStore
}

// Transport wraps next so that requests are authenticated with the tokens of this store.
func (ts *TokenStore) Transport(next http.RoundTripper) *AuthTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &AuthTransport{Transport: next, store: ts}
}

// RoundTrip implements http.RoundTripper
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	session, err := t.store.GetFreshSession(ctx)
	if err != nil && !errors.Is(err, apierrors.ErrSessionNotFound) {
		closeRequestBody(req)
		return nil, err
	}

	resp, err := t.Transport.RoundTrip(authorize(req, session))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isRetried(ctx) || !replayable(req) {
		return resp, nil
	}

	slog.Debug("TOKEN STORE", "message", "request was rejected, refreshing", "method", req.Method, "path", req.URL.Path)
	newSession, err := t.store.refresh(ctx, session.AccessToken)
	drainAndClose(resp.Body)
	if err != nil {
		return nil, err
	}
	retryReq, err := rewind(req.Clone(withRetried(ctx)), req)
	if err != nil {
		return nil, err
	}
	return t.Transport.RoundTrip(authorize(retryReq, newSession))
}

// authorize returns a copy of the request carrying the access token. The original
// request is never modified.
func authorize(req *http.Request, session models.Session) *http.Request {
	authorized := req.Clone(req.Context())
	if session.AccessToken == "" {
		authorized.Header.Del("Authorization")
		return authorized
	}
	session.Token().SetAuthHeader(authorized)
	return authorized
}

// replayable checks that the body of the request can be sent a second time.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func rewind(clone *http.Request, original *http.Request) (*http.Request, error) {
	if original.Body == nil || original.Body == http.NoBody {
		return clone, nil
	}
	body, err := original.GetBody()
	if err != nil {
		return nil, fmt.Errorf("cannot rewind the request body: %w", err)
	}
	clone.Body = body
	return clone, nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainBytes))
	_ = body.Close()
}

func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
