package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cinecollection/internal/dbx"
	"github.com/dmitrijs2005/cinecollection/internal/server/repositories/entries"
	"github.com/dmitrijs2005/cinecollection/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code can
// run against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
}
