// Package tracks queries the player for audio and subtitle tracks and picks
// out the active ones a sync attempt starts from.
package tracks
