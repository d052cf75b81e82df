package responses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/google/uuid"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

var now = func() time.Time { return time.Now().UTC() }

func (r *SQLRepository) InsertIfAbsent(ctx context.Context, resp *models.Response) (bool, error) {
	query :=
		`INSERT INTO responses (id, user_email, name, age, sex, variant, answers, comment, seq, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, (SELECT COALESCE(MAX(seq), 0) + 1 FROM responses), $9)
		 ON CONFLICT (user_email) DO NOTHING`

	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return false, fmt.Errorf("error encoding answers: %w", err)
	}
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = now()
	}

	res, err := r.db.ExecContext(ctx, query,
		resp.ID, resp.UserEmail, resp.Name, resp.Age, string(resp.Sex), resp.Variant, string(answers), resp.Comment, resp.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM responses WHERE user_email = $1)`, email)
}

func (r *SQLRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM responses WHERE name = $1)`, name)
}

func (r *SQLRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}

const selectResponse = `SELECT id, user_email, name, age, sex, variant, answers, comment, created_at FROM responses`

type scanner interface {
	Scan(dest ...any) error
}

func scanResponse(s scanner) (*models.Response, error) {
	var (
		resp    models.Response
		sex     string
		answers string
	)
	if err := s.Scan(&resp.ID, &resp.UserEmail, &resp.Name, &resp.Age, &sex, &resp.Variant, &answers, &resp.Comment, &resp.CreatedAt); err != nil {
		return nil, err
	}
	resp.Sex = models.Sex(sex)
	if err := json.Unmarshal([]byte(answers), &resp.Answers); err != nil {
		return nil, fmt.Errorf("error decoding answers of %s: %w", resp.ID, err)
	}
	return &resp, nil
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.Response, error) {
	query := selectResponse + `
		 WHERE user_email = $1`

	resp, err := scanResponse(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return resp, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Response, error) {
	query := selectResponse + `
		 ORDER BY seq, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Response, 0)
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
