// Package main hosts the yogaseq CLI entrypoint and command graph.
//
// The Cobra command tree runs the player daemon in the foreground (serve),
// starts and stops it in the background, and translates browse, resolve,
// override and history requests into HTTP calls against the running daemon.
// Configuration resolution and the daemon client live in commandContext so
// subcommands only format results.
package main
