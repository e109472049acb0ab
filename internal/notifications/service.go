package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"autosubsync/internal/config"
	"autosubsync/internal/host"
	"autosubsync/internal/logging"
	"autosubsync/internal/services"
)

// Severity ranks a notice; it picks the display duration and log level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// progressDuration keeps a "running" notice up for the length of a typical
// sync; the result notice replaces it.
const progressDuration = 2 * time.Minute

// Service defines the notification surface exposed to the menu and commands.
type Service interface {
	NotifyProgress(ctx context.Context, message string) error
	NotifySuccess(ctx context.Context, message string) error
	NotifyError(ctx context.Context, err error) error
}

// NewService builds a notifier that writes to the player OSD and the log.
// A nil session yields a log-only notifier.
func NewService(cfg *config.Config, session host.Session, logger *slog.Logger) Service {
	return &osdService{
		session: session,
		logger:  logging.NewComponentLogger(logger, "notify"),
		durations: map[Severity]time.Duration{
			SeverityInfo:  time.Duration(cfg.Notifications.InfoSeconds) * time.Second,
			SeverityError: time.Duration(cfg.Notifications.ErrorSeconds) * time.Second,
			SeverityFatal: time.Duration(cfg.Notifications.FatalSeconds) * time.Second,
		},
	}
}

// NewNoop returns a notifier that discards everything.
func NewNoop() Service {
	return noopService{}
}

// SeverityFor classifies err: a missing or unstartable tool is fatal, any
// other failure is an error.
func SeverityFor(err error) Severity {
	switch {
	case err == nil:
		return SeverityInfo
	case errors.Is(err, services.ErrToolNotFound), errors.Is(err, services.ErrInvocationFailed):
		return SeverityFatal
	default:
		return SeverityError
	}
}

// Headline is the short on-screen text for err.
func Headline(err error) string {
	switch services.Marker(err) {
	case services.ErrToolNotFound:
		return "Sync tool not found"
	case services.ErrSubtitleNotFound:
		return "Subtitle file not found"
	case services.ErrInvocationFailed:
		return "Could not run sync tool"
	case services.ErrSyncFailed:
		return "Subtitle sync failed"
	case services.ErrExtractionFailed:
		return "Subtitle extraction failed"
	case services.ErrTrackAddFailed:
		return "Could not load retimed subtitle"
	case services.ErrHost:
		return "Player did not respond"
	case services.ErrConfiguration:
		return "Configuration error"
	default:
		return "Subtitle sync failed"
	}
}

type osdService struct {
	session   host.Session
	logger    *slog.Logger
	durations map[Severity]time.Duration
}

func (n *osdService) NotifyProgress(ctx context.Context, message string) error {
	logging.WithContext(ctx, n.logger).Info("progress", logging.String("message", message))
	return n.show(ctx, message, progressDuration)
}

func (n *osdService) NotifySuccess(ctx context.Context, message string) error {
	logging.WithContext(ctx, n.logger).Info("success", logging.String("message", message))
	return n.show(ctx, message, n.durations[SeverityInfo])
}

func (n *osdService) NotifyError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	severity := SeverityFor(err)
	headline := Headline(err)
	logger := logging.WithContext(ctx, n.logger)
	logging.ErrorWithContext(logger, headline, eventType(err),
		logging.String("severity", severity.String()),
		logging.Error(err),
	)

	text := headline
	if severity == SeverityFatal {
		text = "autosubsync: " + headline
	}
	return n.show(ctx, text, n.durations[severity])
}

func (n *osdService) show(ctx context.Context, text string, duration time.Duration) error {
	if n.session == nil {
		return nil
	}
	if err := n.session.ShowText(ctx, text, duration); err != nil {
		return fmt.Errorf("show notification: %w", err)
	}
	return nil
}

func eventType(err error) string {
	switch services.Marker(err) {
	case services.ErrToolNotFound:
		return "tool_not_found"
	case services.ErrSubtitleNotFound:
		return "subtitle_not_found"
	case services.ErrInvocationFailed:
		return "invocation_failed"
	case services.ErrSyncFailed:
		return "sync_failed"
	case services.ErrExtractionFailed:
		return "extraction_failed"
	case services.ErrTrackAddFailed:
		return "track_add_failed"
	default:
		return "sync_attempt_failed"
	}
}

type noopService struct{}

func (noopService) NotifyProgress(context.Context, string) error { return nil }
func (noopService) NotifySuccess(context.Context, string) error  { return nil }
func (noopService) NotifyError(context.Context, error) error     { return nil }
