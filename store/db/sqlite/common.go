package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// placeholders returns n comma-joined ? placeholders for SQLite.
func placeholders(n int) string {
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, "?")
	}
	return strings.Join(list, ", ")
}

// QueryReadOnly executes an ad-hoc SELECT and renders every value as text.
// The SQL generation layer validates the statement before it gets here.
func (d *DB) QueryReadOnly(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var result [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		for i := range values {
			var cell any
			values[i] = &cell
		}
		if err := rows.Scan(values...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			cell := *(v.(*any))
			switch typed := cell.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(typed)
			default:
				row[i] = fmt.Sprintf("%v", typed)
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return columns, result, nil
}
