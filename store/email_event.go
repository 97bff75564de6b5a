package store

import (
	"time"
)

// TimeLayout is the canonical timestamp encoding for event columns. Values
// are naive local timestamps, stored as TEXT so that lexicographic and
// chronological order agree.
const TimeLayout = "2006-01-02T15:04:05"

// Contact is one recipient, deduplicated by email address.
type Contact struct {
	ID           int32
	EmailAddress string
	FirstName    string
	LastName     string
	Company      string
	Domain       string
}

// FindContact filters contact listings. Nil fields are ignored.
type FindContact struct {
	ID           *int32
	EmailAddress *string
	Domain       *string
	Limit        *int
}

// EmailEvent is one send attempt and its delivery/open/reply outcomes.
// Lifecycle timestamps are nil when the corresponding event never happened.
type EmailEvent struct {
	ID           int32
	EmailAddress string
	FirstName    string
	LastName     string
	Company      string
	Subject      string
	CampaignName string
	SentAt       time.Time
	DeliveredAt  *time.Time
	OpenedAt     *time.Time
	RepliedAt    *time.Time
	Bounced      bool
	ContactID    *int32
}

// FindEmailEvent filters event listings and counts. Nil fields are ignored.
// SentAfter and SentBefore are both inclusive, matching the resolved-window
// contract of the time engine.
type FindEmailEvent struct {
	ContactID    *int32
	CampaignName *string
	SentAfter    *time.Time
	SentBefore   *time.Time
	Opened       *bool
	Replied      *bool
	Bounced      *bool
	Limit        *int
	Offset       *int
}

// DomainCount is one row of a per-domain bounce breakdown.
type DomainCount struct {
	Domain string
	Count  int64
}
