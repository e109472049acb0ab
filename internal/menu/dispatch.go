package menu

import (
	"context"
	"fmt"
	"time"

	"autosubsync/internal/logging"
	"autosubsync/internal/services"
	"autosubsync/internal/subsync"
)

// dispatch turns a completed choice into one sync run. Any extracted
// reference is removed before returning.
func (m *Machine) dispatch(ctx context.Context, choice Choice) error {
	logger := logging.WithContext(ctx, m.logger)
	defer func() { m.lastRunEnded = time.Now() }()

	if err := m.syncer.Check(choice.Engine); err != nil {
		return m.fail(ctx, err)
	}
	media, err := m.host.MediaPath(ctx)
	if err != nil {
		return m.fail(ctx, services.Wrap(services.ErrHost, "menu", "media path", "No media is playing", err))
	}
	subtitle, subtitleID, err := m.inspector.ActiveSubtitle(ctx)
	if err != nil {
		return m.fail(ctx, err)
	}

	req := subsync.Request{
		MediaPath:          media,
		SubtitlePath:       subtitle,
		Engine:             choice.Engine,
		AudioStream:        -1,
		PreviousSubtitleID: subtitleID,
	}

	switch choice.Reference {
	case ReferenceAudio:
		stream, err := m.inspector.ActiveAudioStream(ctx)
		if err != nil {
			return m.fail(ctx, err)
		}
		req.AudioStream = stream
	case ReferenceSubtitle:
		track := choice.Track
		if track != nil && track.External && track.ExternalPath != "" {
			req.ReferencePath = track.ExternalPath
			break
		}
		stream := -1
		if track != nil {
			stream = track.FFIndex
		}
		extraction, err := m.extractor.Extract(ctx, media, stream)
		if err != nil {
			return m.fail(ctx, err)
		}
		defer extraction.Cleanup()
		req.ReferencePath = extraction.Path
	default:
		return fmt.Errorf("unknown reference %v", choice.Reference)
	}

	logger.Info("sync attempt dispatched",
		logging.String("reference", choice.Reference.String()),
		logging.String("engine", choice.Engine.String()),
		logging.String("subtitle", subtitle),
	)
	if err := m.notifier.NotifyProgress(ctx, fmt.Sprintf("Running %s…", choice.Engine)); err != nil {
		logger.Debug("progress notice failed", logging.Error(err))
	}

	result, err := m.syncer.Sync(ctx, req)
	if err != nil {
		return m.fail(ctx, err)
	}
	if err := m.notifier.NotifySuccess(ctx, fmt.Sprintf("Subtitle synced with %s", result.Engine)); err != nil {
		logger.Debug("success notice failed", logging.Error(err))
	}
	return nil
}

// fail reports err to the viewer and returns it.
func (m *Machine) fail(ctx context.Context, err error) error {
	if notifyErr := m.notifier.NotifyError(ctx, err); notifyErr != nil {
		logging.WithContext(ctx, m.logger).Debug("error notice failed", logging.Error(notifyErr))
	}
	return err
}
