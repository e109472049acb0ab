// Package notifications tells the viewer what happened to a sync attempt.
//
// Notices go to the player's OSD with a duration chosen by severity and are
// mirrored to the structured log. Severity comes from the error taxonomy in
// internal/services: tools that are missing or cannot start are fatal,
// everything else that fails is an error, and success is info.
package notifications
