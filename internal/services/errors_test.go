package services_test

import (
	"errors"
	"strings"
	"testing"

	"autosubsync/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSyncFailed, "subsync", "ffsubsync", "engine exited with status 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrSyncFailed) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"subsync", "ffsubsync", "status 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToInvocationFailed(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrInvocationFailed) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestMarker(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"plain", errors.New("x"), nil},
		{"tool", services.Wrap(services.ErrToolNotFound, "subsync", "locate", "missing", nil), services.ErrToolNotFound},
		{"extraction", services.Wrap(services.ErrExtractionFailed, "extract", "ffmpeg", "exit 1", errors.New("exit status 1")), services.ErrExtractionFailed},
		{"track add", services.Wrap(services.ErrTrackAddFailed, "subsync", "sub-add", "rejected", nil), services.ErrTrackAddFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Marker(tt.err); got != tt.want {
				t.Fatalf("Marker() = %v, want %v", got, tt.want)
			}
		})
	}
}
