package host

import (
	"context"
	"fmt"
	"time"
)

// TrackKind distinguishes the stream categories autosubsync works with.
type TrackKind int

const (
	TrackAudio TrackKind = iota
	TrackSubtitle
)

func (k TrackKind) String() string {
	switch k {
	case TrackAudio:
		return "audio"
	case TrackSubtitle:
		return "subtitle"
	default:
		return fmt.Sprintf("TrackKind(%d)", int(k))
	}
}

// Track is one audio or subtitle stream as reported by the player.
type Track struct {
	Kind TrackKind
	// ID is the player's 1-based track id, used for display and removal.
	ID int
	// FFIndex is the container stream index, or -1 for external files.
	FFIndex      int
	External     bool
	ExternalPath string
	Label        string
	Active       bool
}

// Binding maps a key name to the input event delivered when it is pressed.
type Binding struct {
	Key   string
	Event string
}

// Input is a key event delivered by the player for a bound key.
type Input struct {
	Event      string
	ReceivedAt time.Time
}

// Session is the slice of the media player autosubsync drives.
type Session interface {
	MediaPath(ctx context.Context) (string, error)
	Tracks(ctx context.Context, kind TrackKind) ([]Track, error)
	AddSubtitle(ctx context.Context, path string) error
	RemoveSubtitle(ctx context.Context, id int) error
	// BindKeys installs a named group of bindings. Exclusive groups capture
	// input until unbound.
	BindKeys(ctx context.Context, section string, bindings []Binding, exclusive bool) error
	UnbindKeys(ctx context.Context, section string) error
	// Overlay paints ASS event data on a canvas of the given size. Empty data
	// clears the overlay.
	Overlay(ctx context.Context, data string, width, height int) error
	CanvasSize(ctx context.Context) (int, int, error)
	ShowText(ctx context.Context, text string, duration time.Duration) error
}
