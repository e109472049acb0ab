package testsupport

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"autosubsync/internal/host"
)

// OverlayCall records one Overlay invocation.
type OverlayCall struct {
	Data          string
	Width, Height int
}

// TextCall records one ShowText invocation.
type TextCall struct {
	Text     string
	Duration time.Duration
}

// FakeSession is an in-memory host.Session that records every call.
type FakeSession struct {
	mu sync.Mutex

	Media        string
	AudioTracks  []host.Track
	SubTracks    []host.Track
	Width        int
	Height       int
	TracksErr    error
	AddErr       error
	RemoveErr    error
	CanvasErr    error
	UnbindErr    error
	nextSubtitle int

	Added    []string
	Removed  []int
	Overlays []OverlayCall
	Texts    []TextCall
	Bound    map[string][]host.Binding
	Calls    []string
}

var _ host.Session = (*FakeSession)(nil)

// NewFakeSession returns a session playing media with a 1280x720 canvas.
func NewFakeSession(media string) *FakeSession {
	return &FakeSession{Media: media, Width: 1280, Height: 720, Bound: map[string][]host.Binding{}}
}

func (f *FakeSession) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *FakeSession) MediaPath(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Media == "" {
		return "", fmt.Errorf("no media loaded")
	}
	return f.Media, nil
}

func (f *FakeSession) Tracks(_ context.Context, kind host.TrackKind) ([]host.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("tracks:" + kind.String())
	if f.TracksErr != nil {
		return nil, f.TracksErr
	}
	switch kind {
	case host.TrackAudio:
		return slices.Clone(f.AudioTracks), nil
	case host.TrackSubtitle:
		return slices.Clone(f.SubTracks), nil
	default:
		return nil, nil
	}
}

func (f *FakeSession) AddSubtitle(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("sub-add")
	if f.AddErr != nil {
		return f.AddErr
	}
	f.Added = append(f.Added, path)
	f.nextSubtitle++
	f.SubTracks = append(f.SubTracks, host.Track{
		Kind:         host.TrackSubtitle,
		ID:           100 + f.nextSubtitle,
		FFIndex:      -1,
		External:     true,
		ExternalPath: path,
	})
	return nil
}

func (f *FakeSession) RemoveSubtitle(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("sub-remove")
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	f.Removed = append(f.Removed, id)
	return nil
}

func (f *FakeSession) BindKeys(_ context.Context, section string, bindings []host.Binding, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("bind:" + section)
	f.Bound[section] = slices.Clone(bindings)
	return nil
}

func (f *FakeSession) UnbindKeys(_ context.Context, section string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("unbind:" + section)
	if f.UnbindErr != nil {
		return f.UnbindErr
	}
	delete(f.Bound, section)
	return nil
}

func (f *FakeSession) Overlay(_ context.Context, data string, width, height int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data == "" {
		f.record("overlay:clear")
	} else {
		f.record("overlay:draw")
	}
	f.Overlays = append(f.Overlays, OverlayCall{Data: data, Width: width, Height: height})
	return nil
}

func (f *FakeSession) CanvasSize(context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CanvasErr != nil {
		return 0, 0, f.CanvasErr
	}
	return f.Width, f.Height, nil
}

func (f *FakeSession) ShowText(_ context.Context, text string, duration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("show-text")
	f.Texts = append(f.Texts, TextCall{Text: text, Duration: duration})
	return nil
}

// LastOverlay returns the most recent overlay call.
func (f *FakeSession) LastOverlay() (OverlayCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Overlays) == 0 {
		return OverlayCall{}, false
	}
	return f.Overlays[len(f.Overlays)-1], true
}

// IsBound reports whether section currently has bindings installed.
func (f *FakeSession) IsBound(section string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Bound[section]
	return ok
}

// CallLog returns a copy of the call sequence.
func (f *FakeSession) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Calls)
}
