package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/auth"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
	"github.com/google/uuid"
)

const (
	msgRequired         = "Veuillez remplir tous les champs obligatoires."
	msgBadCredentials   = "Email ou mot de passe incorrect."
	msgEmailTaken       = "Cet email est déjà utilisé."
	msgRegistered       = "Inscription réussie ! Vous pouvez maintenant vous connecter."
	msgUnknownEmail     = "Aucun compte trouvé avec cet email."
	msgCodeSent         = "Code de vérification (affiché localement) : %s"
	msgCodeOK           = "Code correct, définissez un nouveau mot de passe."
	msgCodeWrong        = "Code incorrect."
	msgCodeExpired      = "Code expiré, demandez un nouveau code."
	msgEmptyPassword    = "Le mot de passe ne peut pas être vide."
	msgPasswordMismatch = "Les mots de passe ne correspondent pas."
	msgPasswordReset    = "Mot de passe réinitialisé avec succès !"
	msgWrongStep        = "Cette étape de réinitialisation n'est pas active."
	msgLoginFirst       = "Veuillez vous connecter."
	msgAlreadyVoted     = "Vous avez déjà répondu au sondage. Merci !"
	msgFillAll          = "Veuillez remplir tous les champs."
	msgSaved            = "Réponse enregistrée ! Le formulaire n'est plus accessible."
	msgLoggedOut        = "Vous êtes déconnecté."
	msgInternal         = "Une erreur est survenue, veuillez réessayer."
)

type UserStore interface {
	Register(ctx context.Context, reg services.Registration) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type ResetFlow interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
	Complete(ctx context.Context, email, password, confirm string) error
	Cancel(ctx context.Context, email string) error
}

type ResponseStore interface {
	Schema() *survey.Schema
	HasResponded(ctx context.Context, email string) (bool, error)
	Submit(ctx context.Context, email string, raw map[string]string) (*models.Response, error)
	Summarize(ctx context.Context, email string) (*survey.Summary, error)
}

// LoginRegistry tracks which states are logged in on the server side.
type LoginRegistry interface {
	Open(ctx context.Context, id, email string) error
	Active(ctx context.Context, id, email string) (bool, error)
	Close(ctx context.Context, id string) error
}

// TokenConfig signs access tokens for the results API.
type TokenConfig struct {
	SecretKey []byte
	Validity  time.Duration
}

// Controller applies user actions to a State. It never returns store
// errors to the caller; they become Outcome messages and log records.
type Controller struct {
	users     UserStore
	resets    ResetFlow
	responses ResponseStore
	logins    LoginRegistry
	tokens    TokenConfig
	logger    logging.Logger
}

func NewController(users UserStore, resets ResetFlow, responses ResponseStore, logins LoginRegistry, tokens TokenConfig, logger logging.Logger) *Controller {
	return &Controller{
		users:     users,
		resets:    resets,
		responses: responses,
		logins:    logins,
		tokens:    tokens,
		logger:    logger.With("module", "session"),
	}
}

func (c *Controller) Schema() *survey.Schema {
	return c.responses.Schema()
}

// Screen picks the page for st: auth until logged in, then the survey form
// until a response is recorded, then the thanks page.
func (c *Controller) Screen(st *State) Screen {
	switch {
	case !st.Logged:
		return ScreenAuth
	case st.Voted:
		return ScreenThanks
	default:
		return ScreenSurvey
	}
}

func (c *Controller) Login(ctx context.Context, st *State, email, password string) Outcome {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return failure(msgRequired)
	}

	user, err := c.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.logger.Warn(ctx, "login rejected", "email", email)
			return failure(msgBadCredentials)
		}
		c.logger.Error(ctx, "login failed", "email", email, "error", err)
		return failure(msgInternal)
	}

	id := uuid.NewString()
	if err := c.logins.Open(ctx, id, user.Email); err != nil {
		c.logger.Error(ctx, "login session not stored", "email", user.Email, "error", err)
		return failure(msgInternal)
	}

	voted, err := c.responses.HasResponded(ctx, user.Email)
	if err != nil {
		// the store still refuses a second response
		c.logger.Error(ctx, "response lookup failed", "email", user.Email, "error", err)
	}

	if st.Logged {
		if err := c.logins.Close(ctx, st.ID); err != nil {
			c.logger.Error(ctx, "previous login session not removed", "email", st.UserEmail, "error", err)
		}
	}
	st.ID = id
	st.Logged = true
	st.User = user.DisplayName
	st.UserEmail = user.Email
	st.Voted = voted
	st.clearReset()

	c.logger.Info(ctx, "user logged in", "email", user.Email, "voted", voted)
	return success(fmt.Sprintf("Connexion réussie, bienvenue %s !", user.DisplayName))
}

// Logout discards st and replaces it with a fresh anonymous state.
func (c *Controller) Logout(ctx context.Context, st *State) Outcome {
	if st.ResetEmail != "" {
		if err := c.resets.Cancel(ctx, st.ResetEmail); err != nil {
			c.logger.Error(ctx, "reset cancel failed", "email", st.ResetEmail, "error", err)
		}
	}
	if st.Logged {
		if err := c.logins.Close(ctx, st.ID); err != nil {
			c.logger.Error(ctx, "login session not removed", "email", st.UserEmail, "error", err)
		}
		c.logger.Info(ctx, "user logged out", "email", st.UserEmail)
	}
	*st = *NewState()
	return Outcome{Level: LevelInfo, Message: msgLoggedOut}
}

// Resume checks a state brought back by a transport against the login
// registry. A state whose login was closed or expired is replaced by a fresh
// anonymous one.
func (c *Controller) Resume(ctx context.Context, st *State) {
	if !st.Logged {
		return
	}
	ok, err := c.logins.Active(ctx, st.ID, st.UserEmail)
	if err != nil {
		c.logger.Error(ctx, "login session lookup failed", "email", st.UserEmail, "error", err)
	}
	if ok {
		return
	}
	if err == nil {
		c.logger.Warn(ctx, "stale login session dropped", "email", st.UserEmail)
	}
	*st = *NewState()
}

// Register creates an account. It never logs the new user in.
func (c *Controller) Register(ctx context.Context, st *State, reg services.Registration) Outcome {
	_, err := c.users.Register(ctx, reg)
	switch {
	case err == nil:
		c.logger.Info(ctx, "user registered", "email", reg.Email)
		return success(msgRegistered)
	case errors.Is(err, common.ErrorValidation):
		c.logger.Warn(ctx, "registration rejected", "email", reg.Email, "error", err)
		return failure(msgRequired)
	case errors.Is(err, common.ErrorAlreadyExists):
		c.logger.Warn(ctx, "registration rejected", "email", reg.Email, "error", err)
		return failure(msgEmailTaken)
	default:
		c.logger.Error(ctx, "registration failed", "email", reg.Email, "error", err)
		return failure(msgInternal)
	}
}

// StartReset opens the reset flow at the email step.
func (c *Controller) StartReset(ctx context.Context, st *State) Outcome {
	if st.ResetEmail != "" {
		_ = c.CancelReset(ctx, st)
	}
	st.ResetStep = ResetEmail
	st.ResetEmail = ""
	return Outcome{Level: LevelInfo}
}

func (c *Controller) RequestResetCode(ctx context.Context, st *State, email string) Outcome {
	if st.ResetStep != ResetEmail {
		return failure(msgWrongStep)
	}
	email = strings.TrimSpace(email)

	code, err := c.resets.Issue(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorValidation):
		return failure(msgRequired)
	case errors.Is(err, common.ErrorNotFound):
		c.logger.Warn(ctx, "reset requested for unknown email", "email", email)
		return failure(msgUnknownEmail)
	default:
		c.logger.Error(ctx, "reset code issue failed", "email", email, "error", err)
		return failure(msgInternal)
	}

	st.ResetStep = ResetCode
	st.ResetEmail = email
	c.logger.Info(ctx, "reset code issued", "email", email)
	return Outcome{Level: LevelInfo, Message: fmt.Sprintf(msgCodeSent, code), Code: code}
}

func (c *Controller) VerifyResetCode(ctx context.Context, st *State, code string) Outcome {
	if st.ResetStep != ResetCode {
		return failure(msgWrongStep)
	}

	err := c.resets.Verify(ctx, st.ResetEmail, code)
	switch {
	case err == nil:
		st.ResetStep = ResetNewPass
		return success(msgCodeOK)
	case errors.Is(err, common.ErrCodeMismatch):
		c.logger.Warn(ctx, "reset code mismatch", "email", st.ResetEmail)
		return failure(msgCodeWrong)
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrorNotFound):
		c.logger.Warn(ctx, "reset code expired", "email", st.ResetEmail)
		st.ResetStep = ResetEmail
		st.ResetEmail = ""
		return failure(msgCodeExpired)
	default:
		c.logger.Error(ctx, "reset code check failed", "email", st.ResetEmail, "error", err)
		return failure(msgInternal)
	}
}

func (c *Controller) ChangePassword(ctx context.Context, st *State, password, confirm string) Outcome {
	if st.ResetStep != ResetNewPass {
		return failure(msgWrongStep)
	}
	if password == "" {
		return failure(msgEmptyPassword)
	}
	if password != confirm {
		return failure(msgPasswordMismatch)
	}

	err := c.resets.Complete(ctx, st.ResetEmail, password, confirm)
	switch {
	case err == nil:
		c.logger.Info(ctx, "password reset", "email", st.ResetEmail)
		st.clearReset()
		return success(msgPasswordReset)
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrCodeMismatch):
		c.logger.Warn(ctx, "reset no longer valid", "email", st.ResetEmail, "error", err)
		st.ResetStep = ResetEmail
		st.ResetEmail = ""
		return failure(msgCodeExpired)
	default:
		c.logger.Error(ctx, "password reset failed", "email", st.ResetEmail, "error", err)
		return failure(msgInternal)
	}
}

// CancelReset leaves the reset flow from any step.
func (c *Controller) CancelReset(ctx context.Context, st *State) Outcome {
	if st.ResetEmail != "" {
		if err := c.resets.Cancel(ctx, st.ResetEmail); err != nil {
			c.logger.Error(ctx, "reset cancel failed", "email", st.ResetEmail, "error", err)
		}
	}
	st.clearReset()
	return Outcome{Level: LevelInfo}
}

// Submit records the survey answers of the logged-in user. Once st.Voted is
// set the form is closed for this state; the store rejects duplicates from
// other states on its own.
func (c *Controller) Submit(ctx context.Context, st *State, raw map[string]string) Outcome {
	if !st.Logged {
		return failure(msgLoginFirst)
	}
	if st.Voted {
		return Outcome{Level: LevelWarning, Message: msgAlreadyVoted}
	}

	_, err := c.responses.Submit(ctx, st.UserEmail, raw)
	switch {
	case err == nil:
		st.Voted = true
		c.logger.Info(ctx, "response recorded", "email", st.UserEmail)
		return success(msgSaved)
	case errors.Is(err, common.ErrAlreadyResponded):
		st.Voted = true
		c.logger.Warn(ctx, "duplicate response refused", "email", st.UserEmail)
		return Outcome{Level: LevelWarning, Message: msgAlreadyVoted}
	case errors.Is(err, common.ErrorValidation):
		c.logger.Warn(ctx, "response rejected", "email", st.UserEmail, "error", err)
		return failure(msgFillAll)
	case errors.Is(err, common.ErrorUnauthorized):
		c.logger.Warn(ctx, "response from unknown profile", "email", st.UserEmail)
		return failure(msgLoginFirst)
	default:
		c.logger.Error(ctx, "response store failed", "email", st.UserEmail, "error", err)
		return failure(msgInternal)
	}
}

// Results returns the chart data for a logged-in state.
func (c *Controller) Results(ctx context.Context, st *State) (*survey.Summary, error) {
	if !st.Logged {
		return nil, common.ErrorUnauthorized
	}
	sum, err := c.responses.Summarize(ctx, st.UserEmail)
	if err != nil {
		c.logger.Error(ctx, "summary failed", "error", err)
		return nil, err
	}
	return sum, nil
}

// AccessToken mints a results API token for a logged-in state.
func (c *Controller) AccessToken(st *State) (string, error) {
	if !st.Logged {
		return "", common.ErrorUnauthorized
	}
	if len(c.tokens.SecretKey) == 0 {
		return "", fmt.Errorf("%w: no signing key configured", common.ErrorInternal)
	}
	return auth.GenerateToken(st.UserEmail, st.User, c.tokens.SecretKey, c.tokens.Validity)
}
