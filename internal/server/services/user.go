// Package services contains the survey business logic. This file implements
// UserService, the credential store: registration, authentication, password
// changes and bulk load/save of the user collection.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/cryptox"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

// Age bounds accepted at registration.
const (
	MinAge = 1
	MaxAge = 120
)

// Registration is the sign-up form.
type Registration struct {
	Name     string
	Email    string
	Age      int
	Sex      models.Sex
	Password string
}

// Validate checks the form the way the sign-up page does: name, email and
// password must be non-blank, age within [MinAge, MaxAge], sex one of models.Sexes.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}
	if r.Age < MinAge || r.Age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d", common.ErrorValidation, MinAge, MaxAge)
	}
	if !r.Sex.Valid() {
		return fmt.Errorf("%w: unknown sex %q", common.ErrorValidation, r.Sex)
	}
	return nil
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Register stores a new user. Emails are compared exactly, so a second
// registration with the same email fails with common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.TrimSpace(reg.Email),
		DisplayName:  strings.TrimSpace(reg.Name),
		Age:          reg.Age,
		Sex:          reg.Sex,
		PasswordHash: cryptox.HashPassword(reg.Password),
	}
	if err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user whose email and password both match.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !cryptox.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, email)
}

// FindByDisplayName returns the earliest registered user with that name.
func (s *UserService) FindByDisplayName(ctx context.Context, name string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByDisplayName(ctx, name)
}

// SetPassword replaces the stored hash for email.
func (s *UserService) SetPassword(ctx context.Context, email, newPassword string) error {
	return setPassword(ctx, s.repomanager, s.db, email, newPassword)
}

func setPassword(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, email, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if err := m.Users(db).UpdatePassword(ctx, email, cryptox.HashPassword(newPassword)); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// Load returns every user in registration order.
func (s *UserService) Load(ctx context.Context) ([]models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}
	return users, nil
}

// Save writes the whole collection in one transaction. Records are upserted
// by email; users missing from the slice are kept.
func (s *UserService) Save(ctx context.Context, users []models.User) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		for i := range users {
			if err := repo.Upsert(ctx, &users[i]); err != nil {
				return fmt.Errorf("error saving user %s: %w", users[i].Email, err)
			}
		}
		return nil
	})
}
