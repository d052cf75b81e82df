package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
)

// Indirections over the input helpers, swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) askPassword(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) Register(ctx context.Context) error {
	name, err := a.ask("Nom")
	if err != nil {
		return err
	}
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	ageText, err := a.ask(fmt.Sprintf("Âge (%d-%d)", services.MinAge, services.MaxAge))
	if err != nil {
		return err
	}

	labels := make([]string, len(models.Sexes))
	for i, s := range models.Sexes {
		labels[i] = string(s)
	}
	sex, err := a.choose("Sexe", labels)
	if err != nil {
		return err
	}

	password, err := a.askPassword("Mot de passe")
	if err != nil {
		return err
	}

	// A non-numeric age is left at zero so the controller reports it.
	age, _ := strconv.Atoi(ageText)

	a.printOutcome(a.controller.Register(ctx, a.state, services.Registration{
		Name:     name,
		Email:    email,
		Age:      age,
		Sex:      models.Sex(sex),
		Password: password,
	}))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	if a.state.Logged {
		fmt.Fprintln(a.out, "Already logged in as", a.state.User)
		return nil
	}

	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.askPassword("Mot de passe")
	if err != nil {
		return err
	}

	a.printOutcome(a.controller.Login(ctx, a.state, email, password))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.printOutcome(a.controller.Logout(ctx, a.state))
	return nil
}

// Reset walks the three reset steps. Any failed step, or an empty answer,
// cancels the flow.
func (a *App) Reset(ctx context.Context) (err error) {
	a.controller.StartReset(ctx, a.state)
	defer func() {
		if a.state.ResetStep != session.ResetNone {
			a.controller.CancelReset(ctx, a.state)
			fmt.Fprintln(a.out, "Reset cancelled.")
		}
	}()

	email, err := a.ask("Email du compte")
	if err != nil || email == "" {
		return err
	}
	out := a.controller.RequestResetCode(ctx, a.state, email)
	a.printOutcome(out)
	if out.Failed() {
		return nil
	}

	code, err := a.ask("Code de vérification")
	if err != nil || code == "" {
		return err
	}
	out = a.controller.VerifyResetCode(ctx, a.state, code)
	a.printOutcome(out)
	if out.Failed() {
		return nil
	}

	password, err := a.askPassword("Nouveau mot de passe")
	if err != nil {
		return err
	}
	confirm, err := a.askPassword("Confirmez le mot de passe")
	if err != nil {
		return err
	}
	a.printOutcome(a.controller.ChangePassword(ctx, a.state, password, confirm))
	return nil
}

// choose lists options numbered from 1 and accepts either the number or
// the option text. Anything else is returned as typed.
func (a *App) choose(prompt string, options []string) (string, error) {
	var b strings.Builder
	b.WriteString(prompt)
	for i, o := range options {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, o)
	}

	answer, err := a.ask(b.String())
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	return answer, nil
}
