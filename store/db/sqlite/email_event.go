package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/coralbricks/mailsight/store"
)

func encodeTime(t time.Time) string {
	return t.Format(store.TimeLayout)
}

func encodeTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(store.TimeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.ParseInLocation(store.TimeLayout, s, time.Local)
}

func decodeTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := decodeTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *DB) CreateEmailEvent(ctx context.Context, create *store.EmailEvent) (*store.EmailEvent, error) {
	fields := []string{
		"email_address", "first_name", "last_name", "company", "subject",
		"campaign_name", "sent_at", "delivered_at", "opened_at", "replied_at",
		"bounced", "contact_id",
	}
	var contactID any
	if create.ContactID != nil {
		contactID = *create.ContactID
	}
	args := []any{
		create.EmailAddress, create.FirstName, create.LastName, create.Company, create.Subject,
		create.CampaignName, encodeTime(create.SentAt), encodeTimePtr(create.DeliveredAt),
		encodeTimePtr(create.OpenedAt), encodeTimePtr(create.RepliedAt),
		create.Bounced, contactID,
	}

	stmt := `INSERT INTO email_events (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create email event: %w", err)
	}
	return create, nil
}

func eventWhere(find *store.FindEmailEvent) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ContactID; v != nil {
		where, args = append(where, "email_events.contact_id = ?"), append(args, *v)
	}
	if v := find.CampaignName; v != nil {
		where, args = append(where, "email_events.campaign_name = ?"), append(args, *v)
	}
	if v := find.SentAfter; v != nil {
		where, args = append(where, "email_events.sent_at >= ?"), append(args, encodeTime(*v))
	}
	if v := find.SentBefore; v != nil {
		where, args = append(where, "email_events.sent_at <= ?"), append(args, encodeTime(*v))
	}
	if v := find.Opened; v != nil {
		if *v {
			where = append(where, "email_events.opened_at IS NOT NULL")
		} else {
			where = append(where, "email_events.opened_at IS NULL")
		}
	}
	if v := find.Replied; v != nil {
		if *v {
			where = append(where, "email_events.replied_at IS NOT NULL")
		} else {
			where = append(where, "email_events.replied_at IS NULL")
		}
	}
	if v := find.Bounced; v != nil {
		where, args = append(where, "email_events.bounced = ?"), append(args, boolToInt(*v))
	}

	return where, args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (d *DB) ListEmailEvents(ctx context.Context, find *store.FindEmailEvent) ([]*store.EmailEvent, error) {
	where, args := eventWhere(find)

	query := `
		SELECT
			id, email_address, first_name, last_name, company, subject,
			campaign_name, sent_at, delivered_at, opened_at, replied_at,
			bounced, contact_id
		FROM email_events
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY email_events.sent_at ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query email events: %w", err)
	}
	defer rows.Close()

	list := make([]*store.EmailEvent, 0)
	for rows.Next() {
		var event store.EmailEvent
		var sentAt string
		var deliveredAt, openedAt, repliedAt sql.NullString
		var contactID sql.NullInt32

		if err := rows.Scan(
			&event.ID,
			&event.EmailAddress,
			&event.FirstName,
			&event.LastName,
			&event.Company,
			&event.Subject,
			&event.CampaignName,
			&sentAt,
			&deliveredAt,
			&openedAt,
			&repliedAt,
			&event.Bounced,
			&contactID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan email event: %w", err)
		}

		if event.SentAt, err = decodeTime(sentAt); err != nil {
			return nil, fmt.Errorf("failed to decode sent_at: %w", err)
		}
		if event.DeliveredAt, err = decodeTimePtr(deliveredAt); err != nil {
			return nil, fmt.Errorf("failed to decode delivered_at: %w", err)
		}
		if event.OpenedAt, err = decodeTimePtr(openedAt); err != nil {
			return nil, fmt.Errorf("failed to decode opened_at: %w", err)
		}
		if event.RepliedAt, err = decodeTimePtr(repliedAt); err != nil {
			return nil, fmt.Errorf("failed to decode replied_at: %w", err)
		}
		if contactID.Valid {
			id := contactID.Int32
			event.ContactID = &id
		}

		list = append(list, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate email events: %w", err)
	}
	return list, nil
}

func (d *DB) CountEmailEvents(ctx context.Context, find *store.FindEmailEvent) (int64, error) {
	where, args := eventWhere(find)

	query := `SELECT COUNT(*) FROM email_events WHERE ` + strings.Join(where, " AND ")
	var count int64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count email events: %w", err)
	}
	return count, nil
}

func (d *DB) CountBouncesByDomain(ctx context.Context, find *store.FindEmailEvent) ([]*store.DomainCount, error) {
	where, args := eventWhere(find)
	where = append(where, "email_events.bounced = 1")

	// Prefer the contact's canonical domain; fall back to the address.
	query := `
		SELECT
			COALESCE(contacts.domain, substr(email_events.email_address, instr(email_events.email_address, '@') + 1)) AS domain,
			COUNT(*) AS bounce_count
		FROM email_events
		LEFT JOIN contacts ON contacts.id = email_events.contact_id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY domain
		ORDER BY bounce_count DESC, domain ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count bounces by domain: %w", err)
	}
	defer rows.Close()

	list := make([]*store.DomainCount, 0)
	for rows.Next() {
		var dc store.DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan domain count: %w", err)
		}
		list = append(list, &dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate domain counts: %w", err)
	}
	return list, nil
}
