// Package services defines shared utilities consumed by the sync invokers,
// the selection state machine, and the player integration.
//
// Key responsibilities:
//   - Context helpers that stamp attempt correlation IDs and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the user-facing failure taxonomy (tool not found, sync failed,
//     extraction failed, ...).
//
// Use these helpers when wiring new invoker logic so error reporting and
// observability stay uniform across the attempt.
package services
