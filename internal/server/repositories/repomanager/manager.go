package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/profilehub/internal/dbx"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/comments"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/reactions"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/roles"
	"github.com/dmitrijs2005/profilehub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Reactions(db dbx.DBTX) reactions.Repository
	Comments(db dbx.DBTX) comments.Repository
}
