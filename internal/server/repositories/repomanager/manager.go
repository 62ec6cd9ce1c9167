package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/anonsession/internal/dbx"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/bannedtokens"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/mailinglist"
	"github.com/dmitrijs2005/anonsession/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	BannedTokens(db dbx.DBTX) bannedtokens.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	MailingList(db dbx.DBTX) mailinglist.Repository
	Addresses(db dbx.DBTX) addresses.Repository
}
