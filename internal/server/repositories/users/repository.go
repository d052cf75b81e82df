// Package users stores the registered respondents (the credential store).
package users

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

type Repository interface {
	// Create inserts a new user; a taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) error
	// Upsert inserts the user or overwrites the profile and hash stored for its email.
	Upsert(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByDisplayName returns the earliest registered user with that name.
	GetByDisplayName(ctx context.Context, name string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}
