// Package history records completed practice sessions.
//
// Completions are appended to a primary Log (the local database or a remote
// endpoint) and always mirrored to a JSON cache on disk, so a failed remote
// append is never lost. List merges both views.
package history
