package legacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
)

type UserStore interface {
	Load(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, users []models.User) error
	FindByDisplayName(ctx context.Context, name string) (*models.User, error)
}

type ResponseStore interface {
	Schema() *survey.Schema
	Append(ctx context.Context, r *models.Response) error
	Load(ctx context.Context) (*survey.Table, error)
}

// Report counts what an import did.
type Report struct {
	Users    int
	Imported int
	Skipped  int
}

type Transfer struct {
	users     UserStore
	responses ResponseStore
	logger    logging.Logger
}

func NewTransfer(users UserStore, responses ResponseStore, logger logging.Logger) *Transfer {
	return &Transfer{users: users, responses: responses, logger: logger.With("module", "legacy")}
}

// Import loads users.json then resultats.xlsx into the stores. A file that
// cannot be read counts as empty. Rows already present are skipped.
func (t *Transfer) Import(ctx context.Context, usersPath, resultsPath string) (*Report, error) {
	rep := &Report{}

	users, err := ReadUsers(usersPath)
	if err != nil {
		t.logger.Warn(ctx, "users file unreadable, treated as empty", "path", usersPath, "error", err)
		users = nil
	}

	// the first record of an email wins, as it does when logging in
	seen := make(map[string]bool, len(users))
	valid := users[:0]
	for _, u := range users {
		switch {
		case u.Email == "":
			t.logger.Warn(ctx, "user without email skipped", "name", u.DisplayName)
			continue
		case seen[u.Email]:
			t.logger.Warn(ctx, "duplicate user skipped", "email", u.Email, "name", u.DisplayName)
			continue
		}
		seen[u.Email] = true
		valid = append(valid, u)
	}
	if len(valid) > 0 {
		if err := t.users.Save(ctx, valid); err != nil {
			return nil, fmt.Errorf("error importing users: %w", err)
		}
	}
	rep.Users = len(valid)

	rows, bad, err := ReadResponses(resultsPath, t.responses.Schema())
	if err != nil {
		t.logger.Warn(ctx, "results file unreadable, treated as empty", "path", resultsPath, "error", err)
		return rep, nil
	}
	for _, e := range bad {
		t.logger.Warn(ctx, "results row skipped", "error", e)
		rep.Skipped++
	}

	for _, r := range rows {
		email, err := t.resolveEmail(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		r.UserEmail = email

		err = t.responses.Append(ctx, r)
		switch {
		case errors.Is(err, common.ErrAlreadyResponded):
			rep.Skipped++
		case err != nil:
			return nil, fmt.Errorf("error importing responses: %w", err)
		default:
			rep.Imported++
		}
	}

	t.logger.Info(ctx, "legacy import done", "users", rep.Users, "imported", rep.Imported, "skipped", rep.Skipped)
	return rep, nil
}

// resolveEmail maps a display name to the first matching user, or to a
// synthetic identity when nobody matches.
func (t *Transfer) resolveEmail(ctx context.Context, name string) (string, error) {
	u, err := t.users.FindByDisplayName(ctx, name)
	if err == nil {
		return u.Email, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return common.LegacyEmailPrefix + name, nil
	}
	return "", fmt.Errorf("error resolving %s: %w", name, err)
}

// Export writes both legacy files from the stores.
func (t *Transfer) Export(ctx context.Context, usersPath, resultsPath string) error {
	users, err := t.users.Load(ctx)
	if err != nil {
		return err
	}
	if err := WriteUsers(usersPath, users); err != nil {
		return fmt.Errorf("error writing %s: %w", usersPath, err)
	}

	table, err := t.responses.Load(ctx)
	if err != nil {
		return err
	}
	if err := WriteResponses(resultsPath, table); err != nil {
		return fmt.Errorf("error writing %s: %w", resultsPath, err)
	}

	t.logger.Info(ctx, "legacy export done", "users", len(users), "responses", len(table.Rows))
	return nil
}
