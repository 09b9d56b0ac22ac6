package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source tells where a completion was confirmed.
type Source string

const (
	// SourceServer marks a completion accepted by the primary log.
	SourceServer Source = "server"
	// SourceLocal marks a completion held only in the local cache.
	SourceLocal Source = "local"
)

// Completion is one finished sequence.
type Completion struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SequenceID  string    `json:"sequence_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
	Source      Source    `json:"source,omitempty"`
}

// New builds a completion with a fresh identifier. A zero time uses now.
func New(title, sequenceID string, at time.Time) Completion {
	if at.IsZero() {
		at = time.Now()
	}
	return Completion{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		SequenceID:  strings.TrimSpace(sequenceID),
		CompletedAt: at.UTC(),
	}
}

// Log is an append-only completion list.
type Log interface {
	Append(ctx context.Context, c Completion) error
	List(ctx context.Context) ([]Completion, error)
}
