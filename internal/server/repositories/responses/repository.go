// Package responses stores survey answers, at most one per user email.
package responses

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

type Repository interface {
	// InsertIfAbsent stores r unless a response for r.UserEmail exists.
	// It reports whether a row was written.
	InsertIfAbsent(ctx context.Context, r *models.Response) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.Response, error)
	List(ctx context.Context) ([]models.Response, error)
}
