// Package server wires the survey server: storage, services, the HTTP form
// UI and the gRPC results API, and runs them until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/dmitrijs2005/surveykeeper/internal/server/session"
	"github.com/dmitrijs2005/surveykeeper/internal/server/web"
	"github.com/dmitrijs2005/surveykeeper/internal/survey"

	gs "github.com/dmitrijs2005/surveykeeper/internal/server/grpc"
)

// Stack is the storage and service layer shared by the server and the CLI.
type Stack struct {
	DB        *sql.DB
	Schema    *survey.Schema
	Users     *services.UserService
	Responses *services.ResponseService
	Resets    *services.ResetService
	Sessions  *services.SessionService
}

// OpenStack opens and migrates the database and builds the services for
// the given survey variant.
func OpenStack(ctx context.Context, driver, dsn, variant string, resetValidity time.Duration) (*Stack, error) {
	schema, err := survey.Load(variant)
	if err != nil {
		return nil, err
	}

	db, m, err := repomanager.Open(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &Stack{
		DB:        db,
		Schema:    schema,
		Users:     services.NewUserService(db, m),
		Responses: services.NewResponseService(db, m, schema),
		Resets:    services.NewResetService(db, m, resetValidity),
		Sessions:  services.NewSessionService(db, m, services.SessionValidity),
	}, nil
}

// Controller builds a session controller over the stack.
func (s *Stack) Controller(tokens session.TokenConfig, logger logging.Logger) *session.Controller {
	return session.NewController(s.Users, s.Resets, s.Responses, s.Sessions, tokens, logger)
}

func (s *Stack) Close() error {
	return s.DB.Close()
}

type App struct {
	config *config.Config
	logger logging.Logger
	stack  *Stack
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, err
		}
		c.SecretKey = key
		logger.Warn(ctx, "no secret key configured, access tokens will not survive a restart")
	}

	stack, err := OpenStack(ctx, c.DatabaseDriver, c.DatabaseDSN, c.SurveyVariant, c.ResetCodeValidityDuration)
	if err != nil {
		return nil, err
	}

	return &App{config: c, logger: logger, stack: stack}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startWebServer(ctx context.Context, cancelFunc context.CancelFunc, controller web.Controller) {
	s, err := web.NewServer(web.Options{
		Addr:              app.config.HTTPAddr,
		SessionKey:        app.config.SessionKey,
		AuthRatePerMinute: app.config.AuthRatePerMinute,
	}, controller, app.logger)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s, err := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.stack.Responses, app.config.SecretKey)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.stack.Close()

	app.logger.Info(ctx, "Starting app...", "variant", app.config.SurveyVariant, "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	controller := app.stack.Controller(session.TokenConfig{
		SecretKey: []byte(app.config.SecretKey),
		Validity:  app.config.AccessTokenValidityDuration,
	}, app.logger)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startWebServer(ctx, cancelFunc, controller)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "app stopped")
}
