package session

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/cryptox"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	ctrl      *Controller
	users     *services.UserService
	responses *services.ResponseService
}

func newSQLiteStack(t *testing.T, variant string) stack {
	t.Helper()
	ctx := context.Background()

	db, m, err := repomanager.Open(ctx, repomanager.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := survey.Load(variant)
	require.NoError(t, err)

	us := services.NewUserService(db, m)
	rs := services.NewResponseService(db, m, schema)
	reset := services.NewResetService(db, m, 10*time.Minute)
	logins := services.NewSessionService(db, m, services.SessionValidity)
	ctrl := NewController(us, reset, rs, logins, TokenConfig{SecretKey: []byte("k"), Validity: time.Minute}, nopLogger{})
	return stack{ctrl: ctrl, users: us, responses: rs}
}

func ayaRegistration() services.Registration {
	return services.Registration{Name: "Aya", Email: "a@x.com", Age: 30, Sex: models.SexFemale, Password: "p1"}
}

func TestScenario_RegisterLoginSubmit(t *testing.T) {
	s := newSQLiteStack(t, "opinion")
	ctx := context.Background()
	st := NewState()

	out := s.ctrl.Register(ctx, st, ayaRegistration())
	require.False(t, out.Failed(), out.Message)
	assert.False(t, st.Logged)

	out = s.ctrl.Register(ctx, st, ayaRegistration())
	assert.Equal(t, msgEmailTaken, out.Message)

	all, err := s.users.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, cryptox.HashPassword("p1"), all[0].PasswordHash)

	out = s.ctrl.Login(ctx, st, "a@x.com", "p1")
	require.False(t, out.Failed(), out.Message)
	assert.True(t, st.Logged)
	assert.Equal(t, "Aya", st.User)
	assert.False(t, st.Voted)
	assert.Equal(t, ScreenSurvey, s.ctrl.Screen(st))

	responded, err := s.responses.HasRespondedByName(ctx, "Aya")
	require.NoError(t, err)
	assert.False(t, responded)

	out = s.ctrl.Submit(ctx, st, map[string]string{"Avis": "Bon", "Commentaire": "ok"})
	require.False(t, out.Failed(), out.Message)
	assert.True(t, st.Voted)
	assert.Equal(t, ScreenThanks, s.ctrl.Screen(st))

	responded, err = s.responses.HasRespondedByName(ctx, "Aya")
	require.NoError(t, err)
	assert.True(t, responded)

	tbl, err := s.responses.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Aya", 30, "Femme", "Bon", "ok"}}, tbl.Rows)

	sum, err := s.ctrl.Results(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Bon": 1}, sum.CountsMap())

	s.ctrl.Submit(ctx, st, map[string]string{"Avis": "Mauvais", "Commentaire": "again"})
	tbl, err = s.responses.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 1)
}

func TestScenario_ConcurrentStatesSubmitOnce(t *testing.T) {
	s := newSQLiteStack(t, "opinion")
	ctx := context.Background()
	require.False(t, s.ctrl.Register(ctx, NewState(), ayaRegistration()).Failed())

	first, second := NewState(), NewState()
	s.ctrl.Login(ctx, first, "a@x.com", "p1")
	s.ctrl.Login(ctx, second, "a@x.com", "p1")
	require.False(t, first.Voted)
	require.False(t, second.Voted)

	out := s.ctrl.Submit(ctx, first, map[string]string{"Avis": "Bon", "Commentaire": "ok"})
	require.Equal(t, LevelSuccess, out.Level)

	out = s.ctrl.Submit(ctx, second, map[string]string{"Avis": "Moyen", "Commentaire": "stale"})
	assert.Equal(t, msgAlreadyVoted, out.Message)
	assert.True(t, second.Voted)

	rows, err := s.responses.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bon", rows[0].Answers["Avis"])
}

func TestScenario_PasswordReset(t *testing.T) {
	s := newSQLiteStack(t, "material")
	ctx := context.Background()
	st := NewState()
	require.False(t, s.ctrl.Register(ctx, st, ayaRegistration()).Failed())

	s.ctrl.StartReset(ctx, st)
	out := s.ctrl.RequestResetCode(ctx, st, "nobody@x.com")
	assert.Equal(t, msgUnknownEmail, out.Message)
	assert.Equal(t, ResetEmail, st.ResetStep)

	out = s.ctrl.RequestResetCode(ctx, st, "a@x.com")
	require.Len(t, out.Code, cryptox.ResetCodeLength)
	code := out.Code
	assert.Equal(t, ResetCode, st.ResetStep)

	wrong := "000000"
	if code == wrong {
		wrong = "999999"
	}
	out = s.ctrl.VerifyResetCode(ctx, st, wrong)
	assert.Equal(t, msgCodeWrong, out.Message)
	assert.Equal(t, ResetCode, st.ResetStep)

	out = s.ctrl.VerifyResetCode(ctx, st, code)
	require.Equal(t, msgCodeOK, out.Message)
	assert.Equal(t, ResetNewPass, st.ResetStep)

	out = s.ctrl.ChangePassword(ctx, st, "p2", "p2")
	require.Equal(t, msgPasswordReset, out.Message)
	assert.Equal(t, ResetNone, st.ResetStep)

	assert.Equal(t, msgBadCredentials, s.ctrl.Login(ctx, NewState(), "a@x.com", "p1").Message)
	fresh := NewState()
	s.ctrl.Login(ctx, fresh, "a@x.com", "p2")
	assert.True(t, fresh.Logged)

	// the code was consumed
	st.ResetStep, st.ResetEmail = ResetCode, "a@x.com"
	out = s.ctrl.VerifyResetCode(ctx, st, code)
	assert.Equal(t, msgCodeExpired, out.Message)
	assert.Equal(t, ResetEmail, st.ResetStep)
}

func TestScenario_MaterialRadar(t *testing.T) {
	s := newSQLiteStack(t, "material")
	ctx := context.Background()
	st := NewState()
	require.False(t, s.ctrl.Register(ctx, st, ayaRegistration()).Failed())
	s.ctrl.Login(ctx, st, "a@x.com", "p1")

	raw := s.ctrl.Schema().Defaults()
	raw["pH"] = "70"
	raw["Commentaire"] = "acier"
	out := s.ctrl.Submit(ctx, st, raw)
	require.Equal(t, LevelSuccess, out.Level, out.Message)

	sum, err := s.ctrl.Results(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, survey.ChartRadar, sum.Chart)
	assert.Equal(t, 70.0, sum.AveragesMap()["pH"])
	assert.Equal(t, 50.0, sum.AveragesMap()["Durete"])
	for _, a := range sum.Axes {
		require.NotNil(t, a.Mine, a.Name)
	}
}
