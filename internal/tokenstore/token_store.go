package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/config"
	"github.com/premiumshare/paytracker/internal/models"
)

const defaultRefreshTimeout time.Duration = 10 * time.Second

// ReauthenticateFunc is called once for every refresh that could not recover the session,
// including a refresh that finds no stored session at all.
type ReauthenticateFunc func(err error)

type refreshResult struct {
	session models.Session
	err     error
}

// TokenStore owns the access and refresh token pair of one session. It makes sure that at
// most one refresh is running at any time, requests that need a new token while a refresh
// is running wait for its outcome.
type TokenStore struct {
	SessionID      string
	ExpiryMargin   time.Duration
	RefreshTimeout time.Duration

	sessionRepo      LimitedSessionRepository
	refresher        Refresher
	onReauthenticate ReauthenticateFunc

	lock     sync.Mutex
	inFlight bool
	settled  int
	waiters  []chan refreshResult
}

// StartSession stores the token pair received on login or registration.
func (ts *TokenStore) StartSession(ctx context.Context, session models.Session) error {
	if session.AccessToken == "" {
		return fmt.Errorf("cannot start a session without an access token")
	}
	return ts.sessionRepo.SetSession(ctx, ts.SessionID, session)
}

// EndSession removes the stored token pair.
func (ts *TokenStore) EndSession(ctx context.Context) error {
	return ts.sessionRepo.RemoveSession(ctx, ts.SessionID)
}

func (ts *TokenStore) Session(ctx context.Context) (models.Session, error) {
	return ts.sessionRepo.GetSession(ctx, ts.SessionID)
}

// Authenticated checks if an access token is stored.
func (ts *TokenStore) Authenticated(ctx context.Context) bool {
	session, err := ts.Session(ctx)
	return err == nil && session.AccessToken != ""
}

// GetFreshSession returns the stored session, refreshing it first when the access token
// expires within the expiry margin.
func (ts *TokenStore) GetFreshSession(ctx context.Context) (models.Session, error) {
	session, err := ts.Session(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if ts.ExpiryMargin > 0 && session.RefreshToken != "" && session.ExpiresSoon(ts.ExpiryMargin) {
		slog.Debug(
			"TOKEN STORE",
			"message",
			"access token expires soon",
			"sessionID",
			ts.SessionID,
			"expiresAt",
			session.ExpiresAt,
		)
		return ts.refresh(ctx, session.AccessToken)
	}
	return session, nil
}

// refresh returns a session with a new access token. usedToken is the access token that was
// rejected, when the stored token is different another refresh already replaced it and the
// stored session is returned without refreshing again. The stored session is read outside
// the lock, a refresh that settles meanwhile makes the read start over.
func (ts *TokenStore) refresh(ctx context.Context, usedToken string) (models.Session, error) {
	for {
		ts.lock.Lock()
		if ts.inFlight {
			return ts.wait(ctx)
		}
		settled := ts.settled
		ts.lock.Unlock()

		session, err := ts.sessionRepo.GetSession(ctx, ts.SessionID)
		if err != nil {
			if errors.Is(err, apierrors.ErrSessionNotFound) {
				err = fmt.Errorf("%w: %w", apierrors.ErrReauthenticate, err)
				ts.reauthenticate(err)
			}
			return models.Session{}, err
		}
		if session.AccessToken != "" && session.AccessToken != usedToken {
			slog.Debug("TOKEN STORE", "message", "the access token was already refreshed", "sessionID", ts.SessionID)
			return session, nil
		}

		ts.lock.Lock()
		if ts.inFlight {
			return ts.wait(ctx)
		}
		if ts.settled != settled {
			ts.lock.Unlock()
			continue
		}
		ts.inFlight = true
		ts.lock.Unlock()

		res := ts.runRefresh(session)
		if errors.Is(res.err, apierrors.ErrReauthenticate) {
			ts.reauthenticate(res.err)
		}
		return res.session, res.err
	}
}

// wait registers a waiter for the running refresh. It is called with the lock held and
// releases it.
func (ts *TokenStore) wait(ctx context.Context) (models.Session, error) {
	waiter := make(chan refreshResult, 1)
	ts.waiters = append(ts.waiters, waiter)
	ts.lock.Unlock()
	slog.Debug("TOKEN STORE", "message", "waiting for the running refresh", "sessionID", ts.SessionID)
	select {
	case res := <-waiter:
		return res.session, res.err
	case <-ctx.Done():
		return models.Session{}, ctx.Err()
	}
}

func (ts *TokenStore) reauthenticate(err error) {
	if ts.onReauthenticate != nil {
		ts.onReauthenticate(err)
	}
}

// runRefresh performs the refresh call and stores its outcome. It is not cancelled by the
// context of the request that started it, only by the refresh timeout.
func (ts *TokenStore) runRefresh(session models.Session) (result refreshResult) {
	defer func() {
		ts.settle(result)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), ts.RefreshTimeout)
	defer cancel()

	if session.RefreshToken == "" {
		slog.Info("TOKEN STORE", "message", "cannot refresh without a refresh token", "sessionID", ts.SessionID)
		ts.clear(ctx)
		return refreshResult{err: fmt.Errorf("%w: %w", apierrors.ErrReauthenticate, apierrors.ErrMissingRefreshToken)}
	}
	res, err := ts.refresher.Refresh(ctx, session.RefreshToken)
	if err == nil && res.AccessToken == "" {
		err = fmt.Errorf("the refresh response does not contain an access token")
	}
	if err != nil {
		slog.Error("TOKEN STORE", "message", "Refresh failed", "sessionID", ts.SessionID, "error", err)
		ts.clear(ctx)
		return refreshResult{err: fmt.Errorf("%w: %w", apierrors.ErrReauthenticate, err)}
	}
	newSession := session.Refreshed(res)
	err = ts.sessionRepo.SetSession(ctx, ts.SessionID, newSession)
	if err != nil {
		slog.Error("TOKEN STORE", "message", "SetSession failed", "sessionID", ts.SessionID, "error", err)
		return refreshResult{err: err}
	}
	slog.Debug(
		"TOKEN STORE",
		"message",
		"access token refreshed",
		"sessionID",
		ts.SessionID,
		"rotated",
		res.RefreshToken != "",
	)
	return refreshResult{session: newSession}
}

func (ts *TokenStore) clear(ctx context.Context) {
	err := ts.sessionRepo.RemoveSession(ctx, ts.SessionID)
	if err != nil {
		slog.Error("TOKEN STORE", "message", "RemoveSession failed", "sessionID", ts.SessionID, "error", err)
	}
}

// settle wakes up all waiters in the order they arrived and clears the in flight flag.
func (ts *TokenStore) settle(result refreshResult) {
	if result.err == nil && result.session.AccessToken == "" {
		// only reachable when the refresh panicked
		result.err = fmt.Errorf("%w: the refresh did not complete", apierrors.ErrReauthenticate)
	}
	ts.lock.Lock()
	waiters := ts.waiters
	ts.waiters = nil
	ts.inFlight = false
	ts.settled++
	ts.lock.Unlock()
	for _, waiter := range waiters {
		waiter <- result
	}
}

type TokenStoreOption func(*TokenStore) error

func WithSessionID(sessionID string) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.SessionID = sessionID
		return nil
	}
}

func WithExpiryMargin(margin time.Duration) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.ExpiryMargin = margin
		return nil
	}
}

func WithRefreshTimeout(timeout time.Duration) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.RefreshTimeout = timeout
		return nil
	}
}

func WithConfig(sessionConfig config.SessionConfig) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.SessionID = sessionConfig.ID
		ts.ExpiryMargin = sessionConfig.ExpiryMargin
		if sessionConfig.RefreshTimeout > 0 {
			ts.RefreshTimeout = sessionConfig.RefreshTimeout
		}
		return nil
	}
}

func WithSessionRepository(repo LimitedSessionRepository) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.sessionRepo = repo
		return nil
	}
}

func WithRefresher(refresher Refresher) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.refresher = refresher
		return nil
	}
}

// WithReauthenticateHandler sets the callback used to send the operator back to the login.
func WithReauthenticateHandler(handler ReauthenticateFunc) TokenStoreOption {
	return func(ts *TokenStore) error {
		ts.onReauthenticate = handler
		return nil
	}
}

// NewTokenStore creates a new TokenStore that attaches and refreshes the tokens of a single session.
func NewTokenStore(options ...TokenStoreOption) (*TokenStore, error) {
	ts := TokenStore{RefreshTimeout: defaultRefreshTimeout}
	for _, opt := range options {
		err := opt(&ts)
		if err != nil {
			return nil, err
		}
	}
	if ts.SessionID == "" {
		return nil, fmt.Errorf("the session ID is not set")
	}
	if ts.ExpiryMargin < 0 {
		return nil, fmt.Errorf("invalid value for ExpiryMargin (%s)", ts.ExpiryMargin)
	}
	if ts.RefreshTimeout <= 0 {
		return nil, fmt.Errorf("invalid value for RefreshTimeout (%s)", ts.RefreshTimeout)
	}
	if ts.sessionRepo == nil {
		return nil, fmt.Errorf("session repository not initialized")
	}
	if ts.refresher == nil {
		return nil, fmt.Errorf("refresher not initialized")
	}
	return &ts, nil
}
