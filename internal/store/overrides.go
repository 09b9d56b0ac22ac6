package store

import (
	"context"
	"fmt"
	"strings"

	"yogaseq/internal/overrides"
	"yogaseq/internal/plate"
)

var _ overrides.Source = (*Store)(nil)

// Fetch returns every override of kind.
func (s *Store) Fetch(ctx context.Context, kind overrides.Kind) (overrides.Map, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT asana_key, value, updated_at FROM overrides WHERE kind = ?`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query %s overrides: %w", kind, err)
	}
	defer rows.Close()

	out := overrides.Map{}
	for rows.Next() {
		var key, value, updated string
		if err := rows.Scan(&key, &value, &updated); err != nil {
			return nil, fmt.Errorf("scan %s override: %w", kind, err)
		}
		out[plate.ID(key)] = overrides.Override{Value: value, UpdatedAt: parseTime(updated)}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s overrides: %w", kind, err)
	}
	return out, nil
}

// Save upserts one override and returns it with its new timestamp.
func (s *Store) Save(ctx context.Context, kind overrides.Kind, key, value string) (overrides.Override, error) {
	id := plate.Normalize(key)
	if id.Empty() {
		return overrides.Override{}, fmt.Errorf("save %s override: empty key", kind)
	}
	if !kind.Accepts(value) {
		return overrides.Override{}, fmt.Errorf("save %s override: blank value", kind)
	}
	if kind == overrides.KindCategory {
		value = strings.TrimSpace(value)
	}
	now := s.now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO overrides (kind, asana_key, value, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(kind, asana_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(kind), string(id), value, formatTime(now))
	if err != nil {
		return overrides.Override{}, fmt.Errorf("save %s override: %w", kind, err)
	}
	return overrides.Override{Value: value, UpdatedAt: now}, nil
}

// Delete removes one override. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, kind overrides.Kind, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM overrides WHERE kind = ? AND asana_key = ?`,
		string(kind), string(plate.Normalize(key))); err != nil {
		return fmt.Errorf("delete %s override: %w", kind, err)
	}
	return nil
}
