package mpv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"autosubsync/internal/host"
	"autosubsync/internal/ipc"
	"autosubsync/internal/language"
	"autosubsync/internal/logging"
)

// ScriptName prefixes every script-message autosubsync binds, so input
// events can be told apart from other clients' messages.
const ScriptName = "autosubsync"

const overlayID = 1

// Session drives a running mpv instance through its IPC socket.
type Session struct {
	client *ipc.Client
	logger *slog.Logger

	mu           sync.Mutex
	lastW, lastH int
}

var _ host.Session = (*Session)(nil)

// NewSession wraps an IPC client.
func NewSession(client *ipc.Client, logger *slog.Logger) *Session {
	return &Session{client: client, logger: logging.NewComponentLogger(logger, "mpv")}
}

// Dial connects to the socket at path and returns a session for it.
func Dial(path string, timeout time.Duration, logger *slog.Logger) (*Session, error) {
	client, err := ipc.Dial(path, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to mpv at %s: %w", path, err)
	}
	return NewSession(client, logger), nil
}

// Close closes the IPC connection.
func (s *Session) Close() error {
	return s.client.Close()
}

// Done is closed when the player goes away.
func (s *Session) Done() <-chan struct{} {
	return s.client.Done()
}

// Inputs forwards key events bound through BindKeys until the connection
// ends or ctx is cancelled.
func (s *Session) Inputs(ctx context.Context) <-chan host.Input {
	out := make(chan host.Input)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.client.Events():
				if !ok {
					return
				}
				if ev.Name != "client-message" || len(ev.Args) < 2 || ev.Args[0] != ScriptName {
					continue
				}
				select {
				case out <- host.Input{Event: ev.Args[1], ReceivedAt: ev.ReceivedAt}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// MediaPath returns the path of the file being played.
func (s *Session) MediaPath(ctx context.Context) (string, error) {
	var path string
	if err := s.client.GetProperty(ctx, "path", &path); err != nil {
		return "", fmt.Errorf("read media path: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		return "", errors.New("no media loaded")
	}
	return path, nil
}

type trackEntry struct {
	ID               int    `json:"id"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	Lang             string `json:"lang"`
	External         bool   `json:"external"`
	ExternalFilename string `json:"external-filename"`
	Selected         bool   `json:"selected"`
	FFIndex          *int   `json:"ff-index"`
}

// Tracks returns the player's tracks of the given kind in player order.
func (s *Session) Tracks(ctx context.Context, kind host.TrackKind) ([]host.Track, error) {
	var entries []trackEntry
	if err := s.client.GetProperty(ctx, "track-list", &entries); err != nil {
		return nil, fmt.Errorf("read track list: %w", err)
	}
	want := mpvTrackType(kind)
	tracks := make([]host.Track, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != want {
			continue
		}
		tracks = append(tracks, toTrack(kind, entry))
	}
	return tracks, nil
}

func toTrack(kind host.TrackKind, entry trackEntry) host.Track {
	track := host.Track{
		Kind:     kind,
		ID:       entry.ID,
		FFIndex:  -1,
		External: entry.External,
		Label:    language.TrackLabel(entry.Title, entry.Lang),
		Active:   entry.Selected,
	}
	if entry.External {
		track.ExternalPath = entry.ExternalFilename
	} else if entry.FFIndex != nil {
		track.FFIndex = *entry.FFIndex
	}
	return track
}

func mpvTrackType(kind host.TrackKind) string {
	switch kind {
	case host.TrackAudio:
		return "audio"
	case host.TrackSubtitle:
		return "sub"
	default:
		return ""
	}
}

// AddSubtitle loads path as a new subtitle track and selects it.
func (s *Session) AddSubtitle(ctx context.Context, path string) error {
	_, err := s.client.Command(ctx, "sub-add", path, "select")
	return err
}

// RemoveSubtitle unloads the subtitle track with the given id.
func (s *Session) RemoveSubtitle(ctx context.Context, id int) error {
	_, err := s.client.Command(ctx, "sub-remove", id)
	return err
}

// BindKeys defines and enables an input section whose keys send
// script-message events back to this client.
func (s *Session) BindKeys(ctx context.Context, section string, bindings []host.Binding, exclusive bool) error {
	var contents strings.Builder
	for _, b := range bindings {
		fmt.Fprintf(&contents, "%s script-message %s %s\n", b.Key, ScriptName, b.Event)
	}
	if _, err := s.client.Command(ctx, "define-section", section, contents.String(), "force"); err != nil {
		return fmt.Errorf("define input section %s: %w", section, err)
	}
	args := []any{"enable-section", section}
	if exclusive {
		args = append(args, "exclusive")
	}
	if _, err := s.client.Command(ctx, args...); err != nil {
		return fmt.Errorf("enable input section %s: %w", section, err)
	}
	return nil
}

// UnbindKeys disables a section installed by BindKeys.
func (s *Session) UnbindKeys(ctx context.Context, section string) error {
	if _, err := s.client.Command(ctx, "disable-section", section); err != nil {
		return fmt.Errorf("disable input section %s: %w", section, err)
	}
	return nil
}

// Overlay paints ASS events through osd-overlay; empty data removes it.
func (s *Session) Overlay(ctx context.Context, data string, width, height int) error {
	cmd := ipc.OverlayCommand{Name: "osd-overlay", ID: overlayID, Format: "ass-events", Data: data, ResX: width, ResY: height}
	if data == "" {
		cmd.Format = "none"
	}
	_, err := s.client.CommandNamed(ctx, cmd)
	return err
}

type osdDimensions struct {
	W int `json:"w"`
	H int `json:"h"`
}

// CanvasSize reports the OSD size. When mpv cannot report it (no video
// output yet) the last known size is returned.
func (s *Session) CanvasSize(ctx context.Context) (int, int, error) {
	var dims osdDimensions
	err := s.client.GetProperty(ctx, "osd-dimensions", &dims)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && dims.W > 0 && dims.H > 0 {
		s.lastW, s.lastH = dims.W, dims.H
		return dims.W, dims.H, nil
	}
	if s.lastW > 0 && s.lastH > 0 {
		s.logger.Debug("osd dimensions unavailable, using cached size",
			logging.Int("width", s.lastW), logging.Int("height", s.lastH))
		return s.lastW, s.lastH, nil
	}
	if err == nil {
		err = errors.New("osd has no size")
	}
	return 0, 0, fmt.Errorf("read osd dimensions: %w", err)
}

// ShowText displays a transient OSD message.
func (s *Session) ShowText(ctx context.Context, text string, duration time.Duration) error {
	_, err := s.client.Command(ctx, "show-text", text, duration.Milliseconds())
	return err
}
