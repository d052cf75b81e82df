// Package web serves the survey form UI: one page that switches between the
// auth, survey and thanks screens, driven by session.Controller.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "survey-session"
	stateKey   = "state"
)

// Controller is the part of session.Controller the pages need.
type Controller interface {
	Schema() *survey.Schema
	Screen(st *session.State) session.Screen
	Resume(ctx context.Context, st *session.State)
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
	AccessToken(st *session.State) (string, error)
}

type Options struct {
	Addr              string
	SessionKey        string
	AuthRatePerMinute int
}

type Server struct {
	addr       string
	controller Controller
	store      *sessions.CookieStore
	renderer   *PageRenderer
	metrics    *Metrics
	limiter    *RateLimiter
	logger     logging.Logger
}

func NewServer(opts Options, controller Controller, logger logging.Logger) (*Server, error) {
	key := []byte(opts.SessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("error generating session key")
		}
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(services.SessionValidity.Seconds()),
	}

	renderer, err := NewPageRenderer(templateFS, pageAuth, pageSurvey, pageThanks)
	if err != nil {
		return nil, err
	}

	return &Server{
		addr:       opts.Addr,
		controller: controller,
		store:      store,
		renderer:   renderer,
		metrics:    NewMetrics(),
		limiter:    NewRateLimiter(opts.AuthRatePerMinute),
		logger:     logger.With("module", "web_server"),
	}, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/", s.index).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	authRoutes := r.NewRoute().Subrouter()
	authRoutes.Use(s.rateLimit)
	authRoutes.HandleFunc("/login", s.action("login", s.login)).Methods(http.MethodPost)
	authRoutes.HandleFunc("/register", s.action("register", s.register)).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset/email", s.action("reset_email", s.resetEmail)).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset/code", s.action("reset_code", s.resetCode)).Methods(http.MethodPost)
	authRoutes.HandleFunc("/reset/password", s.action("reset_password", s.resetPassword)).Methods(http.MethodPost)

	r.HandleFunc("/reset/start", s.action("reset_start", s.resetStart)).Methods(http.MethodPost)
	r.HandleFunc("/reset/cancel", s.action("reset_cancel", s.resetCancel)).Methods(http.MethodPost)
	r.HandleFunc("/submit", s.action("submit", s.submit)).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/results", s.apiResults).Methods(http.MethodGet)
	api.HandleFunc("/token", s.apiToken).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server started", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Received stop signal. Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server error: %w", err)
	}
}
