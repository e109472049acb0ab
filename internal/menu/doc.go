// Package menu implements the three-level selection flow (reference kind,
// engine, reference track) and turns a completed selection into extraction
// and sync runs.
//
// A Machine is driven one action at a time by a single owner goroutine. It
// holds at most one open menu; every change redraws the whole menu through
// the Presenter, and closing always releases the captured keys and clears
// the overlay before any result is reported.
package menu
