package tokenstore

import (
	"context"

	"github.com/premiumshare/paytracker/internal/models"
)

type LimitedSessionRepository interface {
	models.SessionGetter
	models.SessionSetter
	models.SessionRemover
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error)
}

// RefresherFunc adapts a function to the Refresher interface.
type RefresherFunc func(ctx context.Context, refreshToken string) (models.RefreshResponse, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (models.RefreshResponse, error) {
	return f(ctx, refreshToken)
}
