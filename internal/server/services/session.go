package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

// SessionValidity bounds a login. The web cookie uses the same lifetime.
const SessionValidity = 24 * time.Hour

// SessionService is the server-side registry of live logins. A state is
// logged in only while its ID is registered here.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validity    time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, validity time.Duration) *SessionService {
	return &SessionService{db: db, repomanager: m, validity: validity}
}

// Open registers id as a login of email and sweeps expired logins.
func (s *SessionService) Open(ctx context.Context, id, email string) error {
	if id == "" || email == "" {
		return fmt.Errorf("%w: session id and email are required", common.ErrorValidation)
	}
	repo := s.repomanager.Sessions(s.db)

	t := now()
	if _, err := repo.DeleteExpired(ctx, t); err != nil {
		return fmt.Errorf("error sweeping sessions: %w", err)
	}
	return repo.Create(ctx, &models.LoginSession{
		ID:        id,
		Email:     email,
		ExpiresAt: t.Add(s.validity),
		CreatedAt: t,
	})
}

// Active reports whether id is a live login of email. An expired login is
// removed.
func (s *SessionService) Active(ctx context.Context, id, email string) (bool, error) {
	repo := s.repomanager.Sessions(s.db)

	ls, err := repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	if ls.Expired(now()) {
		if err := repo.Delete(ctx, id); err != nil {
			return false, fmt.Errorf("error deleting session: %w", err)
		}
		return false, nil
	}
	return ls.Email == email, nil
}

// Close forgets id. Closing an unknown id is not an error.
func (s *SessionService) Close(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.repomanager.Sessions(s.db).Delete(ctx, id)
}
