package store

import (
	"context"
	"database/sql"
	"fmt"

	"yogaseq/internal/history"
)

var _ history.Log = (*Store)(nil)

// Append inserts a completion. Re-appending an ID is a no-op.
func (s *Store) Append(ctx context.Context, c history.Completion) error {
	if c.ID == "" {
		return fmt.Errorf("append completion: empty id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (id, title, sequence_id, completed_at, source) VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO NOTHING`,
		c.ID, c.Title, nullableString(c.SequenceID), formatTime(c.CompletedAt), string(history.SourceServer))
	if err != nil {
		return fmt.Errorf("append completion: %w", err)
	}
	return nil
}

// List returns completions newest first.
func (s *Store) List(ctx context.Context) ([]history.Completion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, sequence_id, completed_at, source FROM completions ORDER BY completed_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	out := []history.Completion{}
	for rows.Next() {
		var (
			c          history.Completion
			sequenceID sql.NullString
			completed  string
			source     string
		)
		if err := rows.Scan(&c.ID, &c.Title, &sequenceID, &completed, &source); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		c.SequenceID = sequenceID.String
		c.CompletedAt = parseTime(completed)
		c.Source = history.Source(source)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
