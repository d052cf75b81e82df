package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/resetcodes"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/responses"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	mu    sync.Mutex
	order []string
	byKey map[string]models.User

	createErr error
	getErr    error
	listErr   error
	upsertErr error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byKey: map[string]models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byKey[u.Email]; ok {
		return common.ErrorAlreadyExists
	}
	f.byKey[u.Email] = *u
	f.order = append(f.order, u.Email)
	return nil
}

func (f *fakeUsersRepo) Upsert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if _, ok := f.byKey[u.Email]; !ok {
		f.order = append(f.order, u.Email)
	}
	f.byKey[u.Email] = *u
	return nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byKey[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (f *fakeUsersRepo) GetByDisplayName(_ context.Context, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.order {
		if u := f.byKey[e]; u.DisplayName == name {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.User, 0, len(f.order))
	for _, e := range f.order {
		out = append(out, f.byKey[e])
	}
	return out, nil
}

func (f *fakeUsersRepo) UpdatePassword(_ context.Context, email, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byKey[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	f.byKey[email] = u
	return nil
}

type fakeResponsesRepo struct {
	mu   sync.Mutex
	rows []models.Response

	insertErr error
	listErr   error
}

func (f *fakeResponsesRepo) InsertIfAbsent(_ context.Context, r *models.Response) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return false, f.insertErr
	}
	for _, x := range f.rows {
		if x.UserEmail == r.UserEmail {
			return false, nil
		}
	}
	f.rows = append(f.rows, *r)
	return true, nil
}

func (f *fakeResponsesRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.rows {
		if x.UserEmail == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResponsesRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.rows {
		if x.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResponsesRepo) GetByEmail(_ context.Context, email string) (*models.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.rows {
		if x.UserEmail == email {
			return &x, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeResponsesRepo) List(context.Context) ([]models.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Response(nil), f.rows...), nil
}

type fakeResetCodesRepo struct {
	mu    sync.Mutex
	codes map[string]models.ResetCode

	upsertErr error
}

func newFakeResetCodesRepo() *fakeResetCodesRepo {
	return &fakeResetCodesRepo{codes: map[string]models.ResetCode{}}
}

func (f *fakeResetCodesRepo) Upsert(_ context.Context, c *models.ResetCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.codes[c.Email] = *c
	return nil
}

func (f *fakeResetCodesRepo) Find(_ context.Context, email string) (*models.ResetCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (f *fakeResetCodesRepo) MarkVerified(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[email]
	if !ok {
		return common.ErrorNotFound
	}
	c.Verified = true
	f.codes[email] = c
	return nil
}

func (f *fakeResetCodesRepo) Delete(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.codes, email)
	return nil
}

type fakeSessionsRepo struct {
	mu   sync.Mutex
	byID map[string]models.LoginSession

	createErr error
	findErr   error
	sweepErr  error
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{byID: map[string]models.LoginSession{}}
}

func (f *fakeSessionsRepo) Create(_ context.Context, s *models.LoginSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byID[s.ID]; ok {
		return common.ErrorAlreadyExists
	}
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeSessionsRepo) Find(_ context.Context, id string) (*models.LoginSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (f *fakeSessionsRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sweepErr != nil {
		return 0, f.sweepErr
	}
	var n int64
	for id, s := range f.byID {
		if s.Expired(now) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	users     *fakeUsersRepo
	responses *fakeResponsesRepo
	codes     *fakeResetCodesRepo
	sessions  *fakeSessionsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     newFakeUsersRepo(),
		responses: &fakeResponsesRepo{},
		codes:     newFakeResetCodesRepo(),
		sessions:  newFakeSessionsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return m.users }
func (m *fakeRepoManager) Responses(dbx.DBTX) responses.Repository    { return m.responses }
func (m *fakeRepoManager) ResetCodes(dbx.DBTX) resetcodes.Repository  { return m.codes }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository      { return m.sessions }
