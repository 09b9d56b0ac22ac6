// Package api serves the yogaseq HTTP interface and defines its wire types.
//
// # Key Types
//
// Handler: gin handlers over the library (catalogue, sequences, overrides),
// the completion history and the playback session driver.
//
// Hub: WebSocket fan-out of session events and audio cues. Notify never
// blocks, so the timer can publish while holding its lock.
//
// Client: HTTP client used by the CLI to talk to a running daemon.
//
// Asana, Session, HistoryEntry, DaemonStatus: transport payloads.
//
// # Converters
//
// FromMatch and FromRecord: catalogue record plus resolved images -> Asana.
//
// FromSnapshot: player.Snapshot plus current-pose images -> Session.
//
// FromCompletion: history.Completion -> HistoryEntry.
//
// # Design Notes
//
// DTOs use snake_case JSON tags to match the override and history services
// the player already speaks to. Timestamps are RFC 3339. Every error body
// is {"error": "..."}; every response carries an X-Request-ID header.
package api
