package legacy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger        { return l }

var errBoom = errors.New("boom")

type fakeUsers struct {
	users   []models.User
	saveErr error
	findErr error
}

func (f *fakeUsers) Load(context.Context) ([]models.User, error) { return f.users, nil }

func (f *fakeUsers) Save(_ context.Context, users []models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.users = append(f.users, users...)
	return nil
}

func (f *fakeUsers) FindByDisplayName(_ context.Context, name string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.DisplayName == name {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeResponses struct {
	schema    *survey.Schema
	rows      []models.Response
	appendErr error
}

func (f *fakeResponses) Schema() *survey.Schema { return f.schema }

func (f *fakeResponses) Append(_ context.Context, r *models.Response) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, x := range f.rows {
		if x.UserEmail == r.UserEmail {
			return common.ErrAlreadyResponded
		}
	}
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeResponses) Load(context.Context) (*survey.Table, error) {
	return f.schema.Table(f.rows), nil
}

func writeLegacyFiles(t *testing.T, s *survey.Schema) (string, string) {
	t.Helper()
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.json")
	resultsPath := filepath.Join(dir, "resultats.xlsx")

	require.NoError(t, WriteUsers(usersPath, []models.User{
		{Email: "a@x", DisplayName: "Aya", Age: 30, Sex: models.SexFemale, PasswordHash: p1Digest},
		{Email: "", DisplayName: "Ghost", Age: 50, Sex: models.SexOther, PasswordHash: p1Digest},
	}))
	require.NoError(t, WriteResponses(resultsPath, s.Table([]models.Response{
		{Name: "Aya", Age: 30, Sex: models.SexFemale, Answers: map[string]string{"Avis": "Bon"}, Comment: "ok"},
		{Name: "Old Timer", Age: 70, Sex: models.SexMale, Answers: map[string]string{"Avis": "Moyen"}, Comment: "x"},
		{Name: "Aya", Age: 30, Sex: models.SexFemale, Answers: map[string]string{"Avis": "Mauvais"}, Comment: "again"},
	})))
	return usersPath, resultsPath
}

func TestTransfer_Import(t *testing.T) {
	s := loadSchema(t, "opinion")
	usersPath, resultsPath := writeLegacyFiles(t, s)

	users := &fakeUsers{}
	responses := &fakeResponses{schema: s}
	rep, err := NewTransfer(users, responses, nopLogger{}).Import(context.Background(), usersPath, resultsPath)
	require.NoError(t, err)

	assert.Equal(t, &Report{Users: 1, Imported: 2, Skipped: 1}, rep)
	require.Len(t, responses.rows, 2)
	assert.Equal(t, "a@x", responses.rows[0].UserEmail)
	assert.Equal(t, "Bon", responses.rows[0].Answers["Avis"])
	assert.Equal(t, common.LegacyEmailPrefix+"Old Timer", responses.rows[1].UserEmail)
}

func TestTransfer_Import_DuplicateEmailKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.json")
	require.NoError(t, WriteUsers(usersPath, []models.User{
		{Email: "a@x", DisplayName: "Aya", Age: 30, Sex: models.SexFemale, PasswordHash: p1Digest},
		{Email: "b@x", DisplayName: "Ben", Age: 41, Sex: models.SexMale, PasswordHash: p1Digest},
		{Email: "a@x", DisplayName: "Impostor", Age: 99, Sex: models.SexOther, PasswordHash: "other"},
	}))

	users := &fakeUsers{}
	responses := &fakeResponses{schema: loadSchema(t, "opinion")}
	rep, err := NewTransfer(users, responses, nopLogger{}).
		Import(context.Background(), usersPath, filepath.Join(dir, "resultats.xlsx"))
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Users)
	require.Len(t, users.users, 2)
	assert.Equal(t, "Aya", users.users[0].DisplayName)
	assert.Equal(t, p1Digest, users.users[0].PasswordHash)
	assert.Equal(t, "b@x", users.users[1].Email)
}

func TestTransfer_Import_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	responses := &fakeResponses{schema: loadSchema(t, "opinion")}

	rep, err := NewTransfer(&fakeUsers{}, responses, nopLogger{}).
		Import(context.Background(), filepath.Join(dir, "users.json"), filepath.Join(dir, "resultats.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, &Report{}, rep)
}

func TestTransfer_Import_StoreErrors(t *testing.T) {
	s := loadSchema(t, "opinion")
	usersPath, resultsPath := writeLegacyFiles(t, s)

	tests := []struct {
		name      string
		users     *fakeUsers
		responses *fakeResponses
	}{
		{"save users", &fakeUsers{saveErr: errBoom}, &fakeResponses{schema: s}},
		{"resolve name", &fakeUsers{findErr: errBoom}, &fakeResponses{schema: s}},
		{"append", &fakeUsers{}, &fakeResponses{schema: s, appendErr: errBoom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransfer(tt.users, tt.responses, nopLogger{}).Import(context.Background(), usersPath, resultsPath)
			assert.ErrorIs(t, err, errBoom)
		})
	}
}

func TestTransfer_Export(t *testing.T) {
	s := loadSchema(t, "opinion")
	users := &fakeUsers{users: []models.User{{Email: "a@x", DisplayName: "Aya", Age: 30, Sex: models.SexFemale, PasswordHash: p1Digest}}}
	responses := &fakeResponses{schema: s, rows: []models.Response{
		{UserEmail: "a@x", Name: "Aya", Age: 30, Sex: models.SexFemale, Variant: "opinion", Answers: map[string]string{"Avis": "Bon"}, Comment: "ok"},
	}}

	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.json")
	resultsPath := filepath.Join(dir, "resultats.xlsx")
	require.NoError(t, NewTransfer(users, responses, nopLogger{}).Export(context.Background(), usersPath, resultsPath))

	gotUsers, err := ReadUsers(usersPath)
	require.NoError(t, err)
	assert.Equal(t, users.users, gotUsers)

	rows, _, err := ReadResponses(resultsPath, s)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bon", rows[0].Answers["Avis"])

	err = NewTransfer(users, responses, nopLogger{}).Export(context.Background(), filepath.Join(dir, "no", "u.json"), resultsPath)
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "no"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
