package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/coralbricks/mailsight/store"
)

func (d *DB) CreateContact(ctx context.Context, create *store.Contact) (*store.Contact, error) {
	fields := []string{"email_address", "first_name", "last_name", "company", "domain"}
	args := []any{create.EmailAddress, create.FirstName, create.LastName, create.Company, create.Domain}

	stmt := `INSERT INTO contacts (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT (email_address) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			company = EXCLUDED.company,
			domain = EXCLUDED.domain
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return create, nil
}

func (d *DB) ListContacts(ctx context.Context, find *store.FindContact) ([]*store.Contact, error) {
	where, args := []string{"TRUE"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "contacts.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.EmailAddress; v != nil {
		where, args = append(where, "contacts.email_address = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Domain; v != nil {
		where, args = append(where, "contacts.domain = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, email_address, first_name, last_name, company, domain
		FROM contacts
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY contacts.id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Contact, 0)
	for rows.Next() {
		var contact store.Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.EmailAddress,
			&contact.FirstName,
			&contact.LastName,
			&contact.Company,
			&contact.Domain,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		list = append(list, &contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return list, nil
}
