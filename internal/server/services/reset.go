package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/cryptox"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
)

var now = func() time.Time { return time.Now().UTC() }

// ResetService drives password resets. Codes are kept hashed, expire after
// validity and can be used once.
type ResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validity    time.Duration
}

func NewResetService(db *sql.DB, m repomanager.RepositoryManager, validity time.Duration) *ResetService {
	return &ResetService{db: db, repomanager: m, validity: validity}
}

// Issue creates a fresh code for a registered email and returns it in clear.
// A pending code for the same email is replaced.
func (s *ResetService) Issue(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrorValidation)
	}

	if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, email); err != nil {
		return "", err
	}

	code, err := cryptox.GenerateResetCode()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	hash, err := cryptox.HashResetCode(code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	t := now()
	rc := &models.ResetCode{
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: t.Add(s.validity),
		CreatedAt: t,
	}
	if err := s.repomanager.ResetCodes(s.db).Upsert(ctx, rc); err != nil {
		return "", fmt.Errorf("error storing reset code: %w", err)
	}
	return code, nil
}

// Verify checks code against the pending one for email. The code must match
// exactly, surrounding spaces included. An expired code is removed and
// reported as common.ErrTokenExpired.
func (s *ResetService) Verify(ctx context.Context, email, code string) error {
	repo := s.repomanager.ResetCodes(s.db)

	rc, err := repo.Find(ctx, email)
	if err != nil {
		return err
	}
	if rc.Expired(now()) {
		if err := repo.Delete(ctx, email); err != nil {
			return fmt.Errorf("error deleting reset code: %w", err)
		}
		return common.ErrTokenExpired
	}
	if !cryptox.CheckResetCode(rc.CodeHash, code) {
		return common.ErrCodeMismatch
	}
	return repo.MarkVerified(ctx, email)
}

// Complete sets the new password and consumes the verified code in one
// transaction.
func (s *ResetService) Complete(ctx context.Context, email, password, confirm string) error {
	if password == "" || confirm == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		codes := s.repomanager.ResetCodes(tx)

		rc, err := codes.Find(ctx, email)
		if err != nil {
			return err
		}
		if !rc.Verified {
			return common.ErrCodeMismatch
		}
		if rc.Expired(now()) {
			return common.ErrTokenExpired
		}
		if err := setPassword(ctx, s.repomanager, tx, email, password); err != nil {
			return err
		}
		return codes.Delete(ctx, email)
	})
}

// Cancel drops any pending code for email.
func (s *ResetService) Cancel(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	return s.repomanager.ResetCodes(s.db).Delete(ctx, email)
}
