package api

import (
	"time"

	"yogaseq/internal/audio"
	"yogaseq/internal/catalog"
	"yogaseq/internal/player"
	"yogaseq/internal/sequence"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// Asana is a catalogue record with its effective fields and images.
type Asana struct {
	AsanaNo            string   `json:"asana_no"`
	Name               string   `json:"name"`
	English            string   `json:"english,omitempty"`
	IAST               string   `json:"iast,omitempty"`
	Category           string   `json:"category,omitempty"`
	CategoryLabel      string   `json:"category_label,omitempty"`
	CategorySource     string   `json:"category_source,omitempty"`
	Description        string   `json:"description,omitempty"`
	DescriptionSource  string   `json:"description_source,omitempty"`
	FinalPlates        []string `json:"final_plates"`
	IntermediatePlates []string `json:"intermediate_plates"`
	Pages              string   `json:"pages,omitempty"`
	Intensity          string   `json:"intensity,omitempty"`
	Images             []string `json:"images"`
}

// AsanaListResponse wraps a browse result.
type AsanaListResponse struct {
	Items []Asana `json:"items"`
	Total int     `json:"total"`
}

// Category is one distinct effective category.
type Category struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// ImagesResponse is the resolver output for a plate query.
type ImagesResponse struct {
	Plates []string `json:"plates"`
	Images []string `json:"images"`
}

// OverrideEntry is one stored override.
type OverrideEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// OverrideListResponse lists one kind's overrides by asana key.
type OverrideListResponse struct {
	Kind  string          `json:"kind"`
	Items []OverrideEntry `json:"items"`
}

// SaveOverrideRequest is the body of an override save.
type SaveOverrideRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SaveOverrideResponse confirms a save.
type SaveOverrideResponse struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntry is one completion.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SequenceID  string    `json:"sequence_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
	Source      string    `json:"source,omitempty"`
}

// HistoryRequest is the body of a manual completion append.
type HistoryRequest struct {
	Title       string `json:"title"`
	SequenceID  string `json:"sequence_id,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// StatusResponse acknowledges a write. Status is "ok" or "stored_locally".
type StatusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

// SequenceListResponse lists sequence summaries.
type SequenceListResponse struct {
	Items []sequence.Summary `json:"items"`
}

// SelectRequest selects a sequence for the session.
type SelectRequest struct {
	SequenceID string `json:"sequence_id"`
}

// Session is the timer snapshot plus the images for the current pose.
type Session struct {
	player.Snapshot
	Images []string `json:"images"`
}

// CompleteResponse reports a completion attempt.
type CompleteResponse struct {
	Status  string  `json:"status"`
	Session Session `json:"session"`
}

// Message is one WebSocket frame.
type Message struct {
	Type    string     `json:"type"`
	Event   string     `json:"event,omitempty"`
	Session *Session   `json:"session,omitempty"`
	Cue     *audio.Cue `json:"cue,omitempty"`
}

// WebSocket message types.
const (
	MessageWelcome = "welcome"
	MessageSession = "session"
	MessageCue     = "cue"
)

// DaemonStatus summarizes a running daemon.
type DaemonStatus struct {
	Running       bool          `json:"running"`
	PID           int           `json:"pid"`
	StartedAt     time.Time     `json:"started_at,omitzero"`
	DatabasePath  string        `json:"database_path,omitempty"`
	SchemaVersion string        `json:"schema_version,omitempty"`
	LockFilePath  string        `json:"lock_file_path,omitempty"`
	Catalog       catalog.Stats `json:"catalog"`
	Sequences     int           `json:"sequences"`
	Session       string        `json:"session_state"`
	Clients       int           `json:"ws_clients"`
	Warnings      []string      `json:"warnings,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
