package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
)

// ResponseService is the response store and the submission gate for one
// survey variant.
type ResponseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	schema      *survey.Schema
}

func NewResponseService(db *sql.DB, m repomanager.RepositoryManager, schema *survey.Schema) *ResponseService {
	return &ResponseService{db: db, repomanager: m, schema: schema}
}

func (s *ResponseService) Schema() *survey.Schema {
	return s.schema
}

// HasResponded reports whether email already has a recorded response.
func (s *ResponseService) HasResponded(ctx context.Context, email string) (bool, error) {
	return s.repomanager.Responses(s.db).ExistsByEmail(ctx, email)
}

// HasRespondedByName matches the Nom column exactly, the way legacy rows
// are identified.
func (s *ResponseService) HasRespondedByName(ctx context.Context, name string) (bool, error) {
	return s.repomanager.Responses(s.db).ExistsByName(ctx, name)
}

// Submit validates raw form values against the schema, copies name, age and
// sex from the profile stored under email and records the response.
func (s *ResponseService) Submit(ctx context.Context, email string, raw map[string]string) (*models.Response, error) {
	answers, comment, err := s.schema.Validate(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	r := &models.Response{
		UserEmail: user.Email,
		Name:      user.DisplayName,
		Age:       user.Age,
		Sex:       user.Sex,
		Variant:   s.schema.Variant,
		Answers:   answers,
		Comment:   comment,
	}
	if err := s.Append(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Append stores r unless its user already responded, in which case it
// returns common.ErrAlreadyResponded.
func (s *ResponseService) Append(ctx context.Context, r *models.Response) error {
	if r.Variant == "" {
		r.Variant = s.schema.Variant
	}
	ok, err := s.repomanager.Responses(s.db).InsertIfAbsent(ctx, r)
	if err != nil {
		return fmt.Errorf("error storing response: %w", err)
	}
	if !ok {
		return common.ErrAlreadyResponded
	}
	return nil
}

func (s *ResponseService) List(ctx context.Context) ([]models.Response, error) {
	rows, err := s.repomanager.Responses(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading responses: %w", err)
	}
	return rows, nil
}

// Load returns the responses as a table with the canonical columns of the
// active variant. Rows of other variants are left out.
func (s *ResponseService) Load(ctx context.Context) (*survey.Table, error) {
	rows, err := s.variantRows(ctx)
	if err != nil {
		return nil, err
	}
	return s.schema.Table(rows), nil
}

// Summarize builds the chart data; email selects the caller's own row for
// radar charts and may be empty.
func (s *ResponseService) Summarize(ctx context.Context, email string) (*survey.Summary, error) {
	rows, err := s.variantRows(ctx)
	if err != nil {
		return nil, err
	}
	return survey.Summarize(s.schema, rows, email), nil
}

func (s *ResponseService) variantRows(ctx context.Context) ([]models.Response, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := all[:0]
	for _, r := range all {
		if r.Variant == s.schema.Variant {
			rows = append(rows, r)
		}
	}
	return rows, nil
}
