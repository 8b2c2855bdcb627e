package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tweeter/internal/dbx"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/tweets"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the pool or a
// transaction, and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tweets(db dbx.DBTX) tweets.Repository
}
