package web

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
	"github.com/gorilla/sessions"
)

// loadState returns the cookie session and the survey state kept in it.
// A missing or tampered cookie yields a fresh state, and so does a login the
// server no longer knows about.
func (s *Server) loadState(r *http.Request) (*sessions.Session, *session.State) {
	sess, err := s.store.Get(r, cookieName)
	if err != nil {
		s.logger.Warn(r.Context(), "discarding unreadable session cookie", "error", err)
	}

	if raw, ok := sess.Values[stateKey].(string); ok {
		st := &session.State{}
		if err := json.Unmarshal([]byte(raw), st); err == nil && st.ID != "" {
			s.controller.Resume(r.Context(), st)
			return sess, st
		}
	}
	return sess, session.NewState()
}

func (s *Server) saveState(w http.ResponseWriter, r *http.Request, sess *sessions.Session, st *session.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	sess.Values[stateKey] = string(b)
	return sess.Save(r, w)
}

func addOutcome(sess *sessions.Session, out session.Outcome) {
	if out.Message == "" {
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		return
	}
	sess.AddFlash(string(b))
}

func takeOutcomes(sess *sessions.Session) []session.Outcome {
	var outs []session.Outcome
	for _, f := range sess.Flashes() {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		var out session.Outcome
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			outs = append(outs, out)
		}
	}
	return outs
}
