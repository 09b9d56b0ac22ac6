// Package daemon coordinates the long-running yogaseq process.
//
// It wires configuration, the sqlite store, the override and history
// backends, the asset library, audio cues and the playback driver into a
// single lifecycle with flock-based locking to prevent multiple instances.
// The HTTP API and the session WebSocket are served from here, along with
// the configured image and audio directories.
//
// Keep orchestration logic here: catalogue building, timing and
// persistence live in their own packages while the daemon focuses on
// startup, shutdown and high level coordination.
package daemon
