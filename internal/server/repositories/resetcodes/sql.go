package resetcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Upsert(ctx context.Context, code *models.ResetCode) error {
	query := `
		INSERT INTO reset_codes (email, code_hash, verified, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			code_hash = excluded.code_hash,
			verified = excluded.verified,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at
	`
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, query, code.Email, code.CodeHash, code.Verified, code.ExpiresAt, code.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the pending code for email, or common.ErrorNotFound.
func (r *SQLRepository) Find(ctx context.Context, email string) (*models.ResetCode, error) {
	query := `
		SELECT email, code_hash, verified, expires_at, created_at
		FROM reset_codes
		WHERE email = $1
	`
	code := &models.ResetCode{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&code.Email, &code.CodeHash, &code.Verified, &code.ExpiresAt, &code.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return code, nil
}

func (r *SQLRepository) MarkVerified(ctx context.Context, email string) error {
	query := `
		UPDATE reset_codes SET verified = $1
		WHERE email = $2
	`
	res, err := r.db.ExecContext(ctx, query, true, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, email string) error {
	query := `
		DELETE FROM reset_codes
		WHERE email = $1
	`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
