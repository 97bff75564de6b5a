package store

import (
	"context"

	"github.com/coralbricks/mailsight/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) CreateContact(ctx context.Context, create *Contact) (*Contact, error) {
	return s.driver.CreateContact(ctx, create)
}

func (s *Store) ListContacts(ctx context.Context, find *FindContact) ([]*Contact, error) {
	return s.driver.ListContacts(ctx, find)
}

func (s *Store) CreateEmailEvent(ctx context.Context, create *EmailEvent) (*EmailEvent, error) {
	return s.driver.CreateEmailEvent(ctx, create)
}

func (s *Store) ListEmailEvents(ctx context.Context, find *FindEmailEvent) ([]*EmailEvent, error) {
	return s.driver.ListEmailEvents(ctx, find)
}

func (s *Store) CountEmailEvents(ctx context.Context, find *FindEmailEvent) (int64, error) {
	return s.driver.CountEmailEvents(ctx, find)
}

func (s *Store) CountBouncesByDomain(ctx context.Context, find *FindEmailEvent) ([]*DomainCount, error) {
	return s.driver.CountBouncesByDomain(ctx, find)
}

func (s *Store) Reset(ctx context.Context) error {
	return s.driver.Reset(ctx)
}

func (s *Store) QueryReadOnly(ctx context.Context, query string) ([]string, [][]string, error) {
	return s.driver.QueryReadOnly(ctx, query)
}
