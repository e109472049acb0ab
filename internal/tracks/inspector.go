package tracks

import (
	"context"
	"fmt"

	"autosubsync/internal/host"
	"autosubsync/internal/services"
)

// Inspector answers track queries against the live player. Nothing is cached:
// every call reflects the player's current state.
type Inspector struct {
	session host.Session
}

// NewInspector returns an inspector backed by session.
func NewInspector(session host.Session) *Inspector {
	return &Inspector{session: session}
}

// List returns every track of kind.
func (i *Inspector) List(ctx context.Context, kind host.TrackKind) ([]host.Track, error) {
	tracks, err := i.session.Tracks(ctx, kind)
	if err != nil {
		return nil, services.Wrap(services.ErrHost, "tracks", "list "+kind.String(), "Failed to read tracks from the player", err)
	}
	return tracks, nil
}

// Active returns the selected track of kind. ok is false when none is selected.
func (i *Inspector) Active(ctx context.Context, kind host.TrackKind) (host.Track, bool, error) {
	tracks, err := i.List(ctx, kind)
	if err != nil {
		return host.Track{}, false, err
	}
	for _, track := range tracks {
		if track.Active {
			return track, true, nil
		}
	}
	return host.Track{}, false, nil
}

// ActiveSubtitle returns the file path and id of the selected subtitle track.
// Only external tracks have a path the sync engines can read; an internal
// or missing selection yields ErrSubtitleNotFound.
func (i *Inspector) ActiveSubtitle(ctx context.Context) (string, int, error) {
	track, ok, err := i.Active(ctx, host.TrackSubtitle)
	if err != nil {
		return "", 0, err
	}
	if !ok {
		return "", 0, services.Wrap(services.ErrSubtitleNotFound, "tracks", "active subtitle", "No subtitle track is selected", nil)
	}
	if !track.External || track.ExternalPath == "" {
		return "", track.ID, services.Wrap(services.ErrSubtitleNotFound, "tracks", "active subtitle",
			fmt.Sprintf("Subtitle track #%d is embedded; load it as an external file to retime it", track.ID), nil)
	}
	return track.ExternalPath, track.ID, nil
}

// ActiveAudioStream returns the container stream index of the selected audio
// track, or -1 when there is none or it is external.
func (i *Inspector) ActiveAudioStream(ctx context.Context) (int, error) {
	track, ok, err := i.Active(ctx, host.TrackAudio)
	if err != nil {
		return -1, err
	}
	if !ok || track.External {
		return -1, nil
	}
	return track.FFIndex, nil
}
