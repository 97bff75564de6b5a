package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/coralbricks/mailsight/internal/profile"
	"github.com/coralbricks/mailsight/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// busy_timeout avoids spurious SQLITE_BUSY under the CLI + server pair.
	db, err := sql.Open("sqlite", profile.DSN+"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// SQLite serializes writes anyway; keep the pool tiny.
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY,
	email_address TEXT UNIQUE NOT NULL,
	first_name TEXT,
	last_name TEXT,
	company TEXT,
	domain TEXT
);

CREATE TABLE IF NOT EXISTS email_events (
	id INTEGER PRIMARY KEY,
	email_address TEXT NOT NULL,
	first_name TEXT,
	last_name TEXT,
	company TEXT,
	subject TEXT,
	campaign_name TEXT NOT NULL,
	sent_at TEXT NOT NULL,
	delivered_at TEXT,
	opened_at TEXT,
	replied_at TEXT,
	bounced INTEGER NOT NULL DEFAULT 0,
	contact_id INTEGER
);

CREATE INDEX IF NOT EXISTS idx_email_address ON email_events (email_address);
CREATE INDEX IF NOT EXISTS idx_campaign_sent ON email_events (campaign_name, sent_at);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts (email_address);
`

// Migrate creates the schema when it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// Reset clears all rows.
func (d *DB) Reset(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM email_events"); err != nil {
		return errors.Wrap(err, "failed to clear email_events")
	}
	if _, err := d.db.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return errors.Wrap(err, "failed to clear contacts")
	}
	return nil
}
