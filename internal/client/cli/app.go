package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
)

// Controller is the part of session.Controller the terminal uses.
type Controller interface {
	Schema() *survey.Schema
	Screen(st *session.State) session.Screen
	Login(ctx context.Context, st *session.State, email, password string) session.Outcome
	Logout(ctx context.Context, st *session.State) session.Outcome
	Register(ctx context.Context, st *session.State, reg services.Registration) session.Outcome
	StartReset(ctx context.Context, st *session.State) session.Outcome
	RequestResetCode(ctx context.Context, st *session.State, email string) session.Outcome
	VerifyResetCode(ctx context.Context, st *session.State, code string) session.Outcome
	ChangePassword(ctx context.Context, st *session.State, password, confirm string) session.Outcome
	CancelReset(ctx context.Context, st *session.State) session.Outcome
	Submit(ctx context.Context, st *session.State, raw map[string]string) session.Outcome
	Results(ctx context.Context, st *session.State) (*survey.Summary, error)
}

type App struct {
	controller Controller
	state      *session.State
	reader     *bufio.Reader
	out        io.Writer
}

func NewApp(controller Controller, in io.Reader, out io.Writer) *App {
	return &App{
		controller: controller,
		state:      session.NewState(),
		reader:     bufio.NewReader(in),
		out:        out,
	}
}

func (a *App) isLoggedIn() bool {
	return a.state.Logged
}

func (a *App) status() string {
	if !a.state.Logged {
		return ""
	}
	if a.state.Voted {
		return fmt.Sprintf("(%s, voted)", a.state.User)
	}
	return fmt.Sprintf("(%s)", a.state.User)
}

// Run blocks in the REPL until exit or end of input. A pending reset is
// cancelled on the way out.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, a.controller.Schema().Title)
	fmt.Fprintln(a.out, "Type 'help' for commands.")

	runREPL(ctx, a, a.status, a.reader, a.out)

	if a.state.ResetStep != session.ResetNone {
		a.controller.CancelReset(ctx, a.state)
	}
}

func (a *App) printOutcome(o session.Outcome) {
	if o.Message == "" {
		return
	}
	fmt.Fprintf(a.out, "[%s] %s\n", o.Level, o.Message)
}
