// Package sessions keeps the server-side record of live logins, keyed by
// session state ID.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.LoginSession) error
	Find(ctx context.Context, id string) (*models.LoginSession, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes every session that expired at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
