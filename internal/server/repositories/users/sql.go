package users

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

// SQLRepository works on both sqlite and postgres: the statements only use
// positional $N parameters and portable SQL.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

func (r *SQLRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (email, display_name, age, sex, password_hash, seq, created_at)
		 VALUES ($1, $2, $3, $4, $5, (SELECT COALESCE(MAX(seq), 0) + 1 FROM users), $6)`

	user.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.DisplayName, user.Age, string(user.Sex), user.PasswordHash, user.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Upsert(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (email, display_name, age, sex, password_hash, seq, created_at)
		 VALUES ($1, $2, $3, $4, $5, (SELECT COALESCE(MAX(seq), 0) + 1 FROM users), $6)
		 ON CONFLICT (email) DO UPDATE SET
		   display_name = excluded.display_name,
		   age = excluded.age,
		   sex = excluded.sex,
		   password_hash = excluded.password_hash`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.DisplayName, user.Age, string(user.Sex), user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectUser = `SELECT email, display_name, age, sex, password_hash, created_at FROM users`

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := selectUser + `
		 WHERE email = $1`

	return r.getOne(ctx, query, email)
}

func (r *SQLRepository) GetByDisplayName(ctx context.Context, name string) (*models.User, error) {
	query := selectUser + `
		 WHERE display_name = $1
		 ORDER BY seq
		 LIMIT 1`

	return r.getOne(ctx, query, name)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	var sex string
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.Email, &user.DisplayName, &user.Age, &sex, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Sex = models.Sex(sex)
	return user, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.User, error) {
	query := selectUser + `
		 ORDER BY seq, email`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		var sex string
		if err := rows.Scan(&u.Email, &u.DisplayName, &u.Age, &sex, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		u.Sex = models.Sex(sex)
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	query :=
		`UPDATE users SET password_hash = $1
		 WHERE email = $2`

	res, err := r.db.ExecContext(ctx, query, passwordHash, email)
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
