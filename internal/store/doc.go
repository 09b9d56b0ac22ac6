// Package store persists overrides and completion history in SQLite.
//
// The schema lives in embedded migrations applied in one transaction on
// Open. Store satisfies overrides.Source and history.Log so the daemon can
// run without any remote endpoints.
package store
