package tracks_test

import (
	"context"
	"errors"
	"testing"

	"autosubsync/internal/host"
	"autosubsync/internal/services"
	"autosubsync/internal/testsupport"
	"autosubsync/internal/tracks"
)

func TestActiveSubtitleExternal(t *testing.T) {
	session := testsupport.NewFakeSession("/media/movie.mkv")
	session.SubTracks = []host.Track{
		{Kind: host.TrackSubtitle, ID: 1, FFIndex: 2},
		{Kind: host.TrackSubtitle, ID: 2, FFIndex: -1, External: true, ExternalPath: "/media/movie.srt", Active: true},
	}

	path, id, err := tracks.NewInspector(session).ActiveSubtitle(context.Background())
	if err != nil {
		t.Fatalf("ActiveSubtitle: %v", err)
	}
	if path != "/media/movie.srt" || id != 2 {
		t.Fatalf("ActiveSubtitle = %q, %d", path, id)
	}
}

func TestActiveSubtitleErrors(t *testing.T) {
	cases := []struct {
		name   string
		tracks []host.Track
	}{
		{"none selected", []host.Track{{Kind: host.TrackSubtitle, ID: 1, External: true, ExternalPath: "/x.srt"}}},
		{"embedded selected", []host.Track{{Kind: host.TrackSubtitle, ID: 1, FFIndex: 3, Active: true}}},
		{"no tracks", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session := testsupport.NewFakeSession("/media/movie.mkv")
			session.SubTracks = tc.tracks
			_, _, err := tracks.NewInspector(session).ActiveSubtitle(context.Background())
			if !errors.Is(err, services.ErrSubtitleNotFound) {
				t.Fatalf("expected ErrSubtitleNotFound, got %v", err)
			}
		})
	}
}

func TestActiveAudioStream(t *testing.T) {
	session := testsupport.NewFakeSession("/media/movie.mkv")
	inspector := tracks.NewInspector(session)

	if idx, err := inspector.ActiveAudioStream(context.Background()); err != nil || idx != -1 {
		t.Fatalf("no audio: got %d, %v", idx, err)
	}

	session.AudioTracks = []host.Track{
		{Kind: host.TrackAudio, ID: 1, FFIndex: 1},
		{Kind: host.TrackAudio, ID: 2, FFIndex: 4, Active: true},
	}
	if idx, err := inspector.ActiveAudioStream(context.Background()); err != nil || idx != 4 {
		t.Fatalf("active audio: got %d, %v", idx, err)
	}
}

func TestListWrapsHostErrors(t *testing.T) {
	session := testsupport.NewFakeSession("/media/movie.mkv")
	session.TracksErr = errors.New("socket closed")

	_, err := tracks.NewInspector(session).List(context.Background(), host.TrackAudio)
	if !errors.Is(err, services.ErrHost) {
		t.Fatalf("expected ErrHost, got %v", err)
	}
}
