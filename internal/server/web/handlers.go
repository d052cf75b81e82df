package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/models"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
)

const (
	pageAuth   = "auth.html"
	pageSurvey = "survey.html"
	pageThanks = "thanks.html"
)

var screenPages = map[session.Screen]string{
	session.ScreenAuth:   pageAuth,
	session.ScreenSurvey: pageSurvey,
	session.ScreenThanks: pageThanks,
}

type pageData struct {
	Title    string
	State    *session.State
	Outcomes []session.Outcome
	Schema   *survey.Schema
	Groups   []survey.Group
	Defaults map[string]string
	Summary  *survey.Summary
	Sexes    []models.Sex
	MinAge   int
	MaxAge   int
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	sess, st := s.loadState(r)
	schema := s.controller.Schema()
	screen := s.controller.Screen(st)

	data := pageData{
		Title:    schema.Title,
		State:    st,
		Outcomes: takeOutcomes(sess),
		Schema:   schema,
		Groups:   schema.Groups(),
		Defaults: schema.Defaults(),
		Sexes:    models.Sexes,
		MinAge:   services.MinAge,
		MaxAge:   services.MaxAge,
	}
	if screen != session.ScreenAuth {
		if sum, err := s.controller.Results(r.Context(), st); err == nil {
			data.Summary = sum
		}
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderTemplate(&buf, screenPages[screen], data); err != nil {
		s.logger.Error(r.Context(), "render failed", "screen", screen, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := s.saveState(w, r, sess, st); err != nil {
		s.logger.Error(r.Context(), "session save failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type actionFunc func(r *http.Request, st *session.State) session.Outcome

// action wraps a form post: it applies fn to the cookie state, stores the
// outcome as a flash and redirects back to the page.
func (s *Server) action(name string, fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		sess, st := s.loadState(r)
		out := fn(r, st)
		s.metrics.observeOutcome(name, out)
		addOutcome(sess, out)

		if err := s.saveState(w, r, sess, st); err != nil {
			s.logger.Error(r.Context(), "session save failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) login(r *http.Request, st *session.State) session.Outcome {
	return s.controller.Login(r.Context(), st, r.PostFormValue("email"), r.PostFormValue("password"))
}

func (s *Server) register(r *http.Request, st *session.State) session.Outcome {
	age, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	return s.controller.Register(r.Context(), st, services.Registration{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Age:      age,
		Sex:      models.Sex(r.PostFormValue("sex")),
		Password: r.PostFormValue("password"),
	})
}

func (s *Server) resetStart(r *http.Request, st *session.State) session.Outcome {
	return s.controller.StartReset(r.Context(), st)
}

func (s *Server) resetEmail(r *http.Request, st *session.State) session.Outcome {
	return s.controller.RequestResetCode(r.Context(), st, r.PostFormValue("email"))
}

func (s *Server) resetCode(r *http.Request, st *session.State) session.Outcome {
	return s.controller.VerifyResetCode(r.Context(), st, r.PostFormValue("code"))
}

func (s *Server) resetPassword(r *http.Request, st *session.State) session.Outcome {
	return s.controller.ChangePassword(r.Context(), st, r.PostFormValue("password"), r.PostFormValue("confirm"))
}

func (s *Server) resetCancel(r *http.Request, st *session.State) session.Outcome {
	return s.controller.CancelReset(r.Context(), st)
}

func (s *Server) submit(r *http.Request, st *session.State) session.Outcome {
	schema := s.controller.Schema()
	raw := make(map[string]string, len(schema.Fields)+1)
	for _, f := range schema.Fields {
		raw[f.Name] = r.PostFormValue(f.Name)
	}
	raw[schema.Comment.Name] = r.PostFormValue(schema.Comment.Name)
	return s.controller.Submit(r.Context(), st, raw)
}

// logout drops the state and expires the cookie.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess, st := s.loadState(r)
	out := s.controller.Logout(r.Context(), st)
	s.metrics.observeOutcome("logout", out)

	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		s.logger.Error(r.Context(), "session save failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) apiResults(w http.ResponseWriter, r *http.Request) {
	_, st := s.loadState(r)
	sum, err := s.controller.Results(r.Context(), st)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) apiToken(w http.ResponseWriter, r *http.Request) {
	_, st := s.loadState(r)
	tok, err := s.controller.AccessToken(st)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: tok, TokenType: "Bearer"})
}

func (s *Server) writeAPIError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, common.ErrorUnauthorized) {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
