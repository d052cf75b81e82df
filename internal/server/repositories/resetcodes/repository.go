// Package resetcodes keeps pending password reset codes, one per email.
package resetcodes

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

type Repository interface {
	// Upsert replaces any pending code for the same email.
	Upsert(ctx context.Context, code *models.ResetCode) error
	Find(ctx context.Context, email string) (*models.ResetCode, error)
	MarkVerified(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}
