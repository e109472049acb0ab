// Package logging assembles structured slog loggers for autosubsync.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag every line of a sync attempt with its stage and
// correlation id. NewNop gives tests and optional wiring a logger that never
// fails.
package logging
