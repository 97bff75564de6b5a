// Package stats summarizes the campaign dataset: totals, rates, and recent
// activity. A lightweight alternative to external analytics dashboards.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/coralbricks/mailsight/store"
)

// Stats is a point-in-time summary of the campaign dataset.
type Stats struct {
	TotalEvents   int64 `json:"total_events"`
	EventsLast7d  int64 `json:"events_last_7d"`
	EventsLast30d int64 `json:"events_last_30d"`

	TotalOpened  int64 `json:"total_opened"`
	TotalReplied int64 `json:"total_replied"`
	TotalBounced int64 `json:"total_bounced"`

	// Rates are fractions of TotalEvents, 0 when the store is empty.
	OpenRate   float64 `json:"open_rate"`
	ReplyRate  float64 `json:"reply_rate"`
	BounceRate float64 `json:"bounce_rate"`

	BouncesByDomain []*store.DomainCount `json:"bounces_by_domain,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// EventCounter is the slice of the store the collector reads from.
type EventCounter interface {
	CountEmailEvents(ctx context.Context, find *store.FindEmailEvent) (int64, error)
	CountBouncesByDomain(ctx context.Context, find *store.FindEmailEvent) ([]*store.DomainCount, error)
}

// Collector computes and caches campaign statistics.
type Collector struct {
	events EventCounter
	clock  func() time.Time

	mu    sync.Mutex
	stats *Stats
	ttl   time.Duration
}

// NewCollector creates a collector with a 5 minute cache.
func NewCollector(events EventCounter) *Collector {
	return &Collector{
		events: events,
		clock:  time.Now,
		ttl:    5 * time.Minute,
	}
}

// Get returns the cached summary, refreshing it when stale.
func (c *Collector) Get(ctx context.Context) (*Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.stats != nil && now.Sub(c.stats.LastUpdated) < c.ttl {
		copied := *c.stats
		return &copied, nil
	}

	stats, err := c.collect(ctx, now)
	if err != nil {
		return nil, err
	}
	c.stats = stats
	copied := *stats
	return &copied, nil
}

func (c *Collector) collect(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{LastUpdated: now}

	total, err := c.events.CountEmailEvents(ctx, &store.FindEmailEvent{})
	if err != nil {
		return nil, err
	}
	stats.TotalEvents = total

	weekAgo := now.AddDate(0, 0, -7)
	if stats.EventsLast7d, err = c.events.CountEmailEvents(ctx, &store.FindEmailEvent{SentAfter: &weekAgo}); err != nil {
		return nil, err
	}
	monthAgo := now.AddDate(0, 0, -30)
	if stats.EventsLast30d, err = c.events.CountEmailEvents(ctx, &store.FindEmailEvent{SentAfter: &monthAgo}); err != nil {
		return nil, err
	}

	flag := true
	if stats.TotalOpened, err = c.events.CountEmailEvents(ctx, &store.FindEmailEvent{Opened: &flag}); err != nil {
		return nil, err
	}
	if stats.TotalReplied, err = c.events.CountEmailEvents(ctx, &store.FindEmailEvent{Replied: &flag}); err != nil {
		return nil, err
	}
	if stats.TotalBounced, err = c.events.CountEmailEvents(ctx, &store.FindEmailEvent{Bounced: &flag}); err != nil {
		return nil, err
	}

	if total > 0 {
		stats.OpenRate = float64(stats.TotalOpened) / float64(total)
		stats.ReplyRate = float64(stats.TotalReplied) / float64(total)
		stats.BounceRate = float64(stats.TotalBounced) / float64(total)
	}

	if stats.BouncesByDomain, err = c.events.CountBouncesByDomain(ctx, &store.FindEmailEvent{Bounced: &flag}); err != nil {
		return nil, err
	}

	return stats, nil
}

// Invalidate drops the cached summary so the next Get recomputes, e.g.
// after the dataset is reseeded.
func (c *Collector) Invalidate() {
	c.mu.Lock()
	c.stats = nil
	c.mu.Unlock()
}
