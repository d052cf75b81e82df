package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/surveykeeper/internal/dbx"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/resetcodes"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/responses"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Responses(db dbx.DBTX) responses.Repository
	ResetCodes(db dbx.DBTX) resetcodes.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
