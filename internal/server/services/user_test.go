package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const p1Digest = "f64551fcd6f07823cb87971cfb91446425da18286b3ab1ef935e0cbd7a69f68a"

func aya() Registration {
	return Registration{Name: "Aya", Email: "a@x.com", Age: 30, Sex: models.SexFemale, Password: "p1"}
}

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Registration)
		ok     bool
	}{
		{"valid", func(*Registration) {}, true},
		{"blank name", func(r *Registration) { r.Name = "  " }, false},
		{"blank email", func(r *Registration) { r.Email = "" }, false},
		{"empty password", func(r *Registration) { r.Password = "" }, false},
		{"age zero", func(r *Registration) { r.Age = 0 }, false},
		{"age too high", func(r *Registration) { r.Age = 121 }, false},
		{"age upper bound", func(r *Registration) { r.Age = 120 }, true},
		{"unknown sex", func(r *Registration) { r.Sex = "x" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := aya()
			tt.mutate(&r)
			err := r.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrorValidation)
			}
		})
	}
}

func TestUserService_Register(t *testing.T) {
	m := newFakeRepoManager()
	s := NewUserService(nil, m)
	ctx := context.Background()

	u, err := s.Register(ctx, aya())
	require.NoError(t, err)
	assert.Equal(t, p1Digest, u.PasswordHash)
	assert.Equal(t, "Aya", u.DisplayName)

	_, err = s.Register(ctx, Registration{Name: "Other", Email: "a@x.com", Age: 40, Sex: models.SexMale, Password: "p2"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	all, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Aya", all[0].DisplayName)
	assert.Equal(t, p1Digest, all[0].PasswordHash)
}

func TestUserService_Register_ValidationDoesNotStore(t *testing.T) {
	m := newFakeRepoManager()
	s := NewUserService(nil, m)

	r := aya()
	r.Age = 0
	_, err := s.Register(context.Background(), r)
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Empty(t, m.users.byKey)
}

func TestUserService_Authenticate(t *testing.T) {
	m := newFakeRepoManager()
	s := NewUserService(nil, m)
	ctx := context.Background()
	_, err := s.Register(ctx, aya())
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "Aya", u.DisplayName)

	_, err = s.Authenticate(ctx, "a@x.com", "p2")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Authenticate(ctx, "nobody@x.com", "p1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	m.users.getErr = errBoom{}
	_, err = s.Authenticate(ctx, "a@x.com", "p1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestUserService_SetPassword(t *testing.T) {
	m := newFakeRepoManager()
	s := NewUserService(nil, m)
	ctx := context.Background()
	_, err := s.Register(ctx, aya())
	require.NoError(t, err)

	require.NoError(t, s.SetPassword(ctx, "a@x.com", "p2"))

	_, err = s.Authenticate(ctx, "a@x.com", "p1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.Authenticate(ctx, "a@x.com", "p2")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.SetPassword(ctx, "a@x.com", ""), common.ErrorValidation)
	assert.ErrorIs(t, s.SetPassword(ctx, "nobody@x.com", "p3"), common.ErrorNotFound)
}

func TestUserService_FindByDisplayName(t *testing.T) {
	m := newFakeRepoManager()
	s := NewUserService(nil, m)
	ctx := context.Background()
	_, err := s.Register(ctx, aya())
	require.NoError(t, err)
	second := aya()
	second.Email = "b@x.com"
	_, err = s.Register(ctx, second)
	require.NoError(t, err)

	u, err := s.FindByDisplayName(ctx, "Aya")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = s.FindByDisplayName(ctx, "Zoe")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := newFakeRepoManager()
	s := NewUserService(db, m)

	mock.ExpectBegin()
	mock.ExpectCommit()

	users := []models.User{
		{Email: "a@x.com", DisplayName: "Aya", Age: 30, Sex: models.SexFemale, PasswordHash: p1Digest},
		{Email: "b@x.com", DisplayName: "Ben", Age: 41, Sex: models.SexMale, PasswordHash: p1Digest},
	}
	require.NoError(t, s.Save(context.Background(), users))
	assert.Len(t, m.users.byKey, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Save_RollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := newFakeRepoManager()
	m.users.upsertErr = errBoom{}
	s := NewUserService(db, m)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = s.Save(context.Background(), []models.User{{Email: "a@x.com"}})
	require.Error(t, err)
	assert.Regexp(t, `error saving user a@x\.com: boom`, err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
