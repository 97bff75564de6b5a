// Package seeder fills the store with a deterministic mock campaign dataset
// for demos and local development.
package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/coralbricks/mailsight/store"
)

var firstNames = []string{
	"Alice", "Benjamin", "Carla", "Diego", "Elena", "Farid", "Grace", "Hiro",
	"Ingrid", "Jamal", "Katya", "Liam", "Maria", "Noah", "Olivia", "Priya",
	"Quentin", "Rosa", "Samuel", "Tessa", "Umar", "Valeria", "Wei", "Yusuf",
}

var lastNames = []string{
	"Anderson", "Baptiste", "Chen", "Diaz", "Eriksen", "Fischer", "Gupta",
	"Hassan", "Ivanova", "Johnson", "Kim", "Lopez", "Mbeki", "Nguyen",
	"Okafor", "Park", "Quinn", "Rossi", "Silva", "Tanaka", "Ueda", "Weber",
}

var companies = []string{
	"Acme Logistics", "Brightline Media", "Cedar Analytics", "Dockside Foods",
	"Everpeak Outdoors", "Fulcrum Legal", "Glasswing Travel", "Harbor Health",
	"Ironwood Builders", "Juniper Retail", "Kestrel Finance", "Lumen Labs",
}

var domains = []string{"gmail.com", "outlook.com", "yahoo.com", "company.com", "proton.me"}

type campaign struct {
	name    string
	subject string
}

var campaigns = []campaign{
	{"Q3 Outreach", "Introducing our AI analytics"},
	{"Q3 Outreach", "Unlock insights with Coral Bricks"},
	{"Re-engagement", "We missed you—see what's new"},
	{"Re-engagement", "Quick question about your data stack"},
}

// Seeder generates and inserts mock email events. The same seed always
// produces the same dataset for a given clock.
type Seeder struct {
	store *store.Store
	rng   *rand.Rand
	clock func() time.Time
}

// New creates a seeder with the given random seed.
func New(s *store.Store, seed int64) *Seeder {
	return &Seeder{
		store: s,
		rng:   rand.New(rand.NewSource(seed)),
		clock: time.Now,
	}
}

// Seed resets the store and inserts rows mock events with their contacts.
func (s *Seeder) Seed(ctx context.Context, rows int) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}

	events := s.generate(rows)

	contactIDs := make(map[string]int32, len(events))
	for _, event := range events {
		if _, ok := contactIDs[event.EmailAddress]; ok {
			continue
		}
		contact, err := s.store.CreateContact(ctx, &store.Contact{
			EmailAddress: event.EmailAddress,
			FirstName:    event.FirstName,
			LastName:     event.LastName,
			Company:      event.Company,
			Domain:       domainOf(event.EmailAddress),
		})
		if err != nil {
			return fmt.Errorf("failed to create contact %s: %w", event.EmailAddress, err)
		}
		contactIDs[event.EmailAddress] = contact.ID
	}

	for _, event := range events {
		id := contactIDs[event.EmailAddress]
		event.ContactID = &id
		if _, err := s.store.CreateEmailEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to create email event: %w", err)
		}
	}
	return nil
}

// generate produces n events spread over the last 60 days. Outcome rates
// mirror a plausible cold-outreach campaign: 8% bounce, 52% of delivered
// mail opened, replies at 14% after an open and 4% otherwise.
func (s *Seeder) generate(n int) []*store.EmailEvent {
	now := s.clock()
	windowStart := now.AddDate(0, 0, -60)
	window := now.Sub(windowStart)

	events := make([]*store.EmailEvent, 0, n)
	for i := 0; i < n; i++ {
		firstName := firstNames[s.rng.Intn(len(firstNames))]
		lastName := lastNames[s.rng.Intn(len(lastNames))]
		company := companies[s.rng.Intn(len(companies))]
		domain := domains[s.rng.Intn(len(domains))]
		email := fmt.Sprintf("%s.%s@%s", strings.ToLower(firstName), strings.ToLower(lastName), domain)

		c := campaigns[s.rng.Intn(len(campaigns))]
		sentAt := windowStart.Add(time.Duration(s.rng.Int63n(int64(window))))

		event := &store.EmailEvent{
			EmailAddress: email,
			FirstName:    firstName,
			LastName:     lastName,
			Company:      company,
			Subject:      c.subject,
			CampaignName: c.name,
			SentAt:       sentAt,
		}

		bounced := s.rng.Float64() < 0.08
		event.Bounced = bounced
		if !bounced {
			deliveredAt := sentAt.Add(time.Duration(1+s.rng.Intn(120)) * time.Minute)
			event.DeliveredAt = &deliveredAt

			if s.rng.Float64() < 0.52 {
				openedAt := deliveredAt.Add(time.Duration(5+s.rng.Intn(1436)) * time.Minute)
				event.OpenedAt = &openedAt
			}

			replyProb := 0.04
			if event.OpenedAt != nil {
				replyProb = 0.14
			}
			if s.rng.Float64() < replyProb {
				base := deliveredAt
				if event.OpenedAt != nil {
					base = *event.OpenedAt
				}
				repliedAt := base.Add(time.Duration(1+s.rng.Intn(72)) * time.Hour)
				event.RepliedAt = &repliedAt
			}
		}

		events = append(events, event)
	}
	return events
}

func domainOf(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}
