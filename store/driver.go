package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the schema when it does not exist yet.
	Migrate(ctx context.Context) error

	// Contact model related methods.
	CreateContact(ctx context.Context, create *Contact) (*Contact, error)
	ListContacts(ctx context.Context, find *FindContact) ([]*Contact, error)

	// EmailEvent model related methods.
	CreateEmailEvent(ctx context.Context, create *EmailEvent) (*EmailEvent, error)
	ListEmailEvents(ctx context.Context, find *FindEmailEvent) ([]*EmailEvent, error)
	CountEmailEvents(ctx context.Context, find *FindEmailEvent) (int64, error)

	// CountBouncesByDomain groups bounced events by recipient domain,
	// ordered by count descending then domain ascending.
	CountBouncesByDomain(ctx context.Context, find *FindEmailEvent) ([]*DomainCount, error)

	// Reset clears all rows. Used by the seeder before regenerating data.
	Reset(ctx context.Context) error

	// QueryReadOnly executes an ad-hoc SELECT and renders every value as a
	// string. Validation of the statement is the caller's job.
	QueryReadOnly(ctx context.Context, query string) (columns []string, rows [][]string, err error)
}
