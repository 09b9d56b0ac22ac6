// Package player implements the practice session timer.
//
// Timer is a plain state machine with no locking: Idle until a sequence is
// selected, then Stopped or Running. Every trigger (a tick, a user action)
// is a method call. Driver owns the only tick goroutine and serializes all
// calls into the Timer behind one mutex.
package player
