// Package daemon attaches autosubsync to a running player and serves the
// sync menu for it.
//
// One goroutine reads key events from the player connection while a second
// owns the menu machine and handles them in order. Sync runs block the
// handler, so entry presses queued during a run are dropped instead of
// replayed. A flock next to the player socket keeps a second daemon from
// attaching to the same player.
package daemon
