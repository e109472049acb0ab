package subsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"autosubsync/internal/config"
	"autosubsync/internal/deps"
	"autosubsync/internal/host"
	"autosubsync/internal/logging"
	"autosubsync/internal/services"
)

const retimedSuffix = "_retimed"

type commandRunner func(ctx context.Context, name string, args ...string) error

// Request describes one synchronization run.
type Request struct {
	MediaPath string
	// ReferencePath is a subtitle file to align against. Empty means align
	// against the audio of MediaPath.
	ReferencePath string
	SubtitlePath  string
	Engine        Engine
	// AudioStream is the container index of the audio to align against, or
	// -1 to let the engine choose. Only used when ReferencePath is empty.
	AudioStream int
	// PreviousSubtitleID is the player track replaced by the result, 0 for none.
	PreviousSubtitleID int
}

// Result reports a successful run.
type Result struct {
	OutputPath      string
	Engine          Engine
	Elapsed         time.Duration
	RemovedPrevious bool
}

// Invoker runs a sync engine and loads its output into the player.
type Invoker struct {
	cfg     *config.Config
	session host.Session
	logger  *slog.Logger
	run     commandRunner
}

// InvokerOption customizes an Invoker.
type InvokerOption func(*Invoker)

// WithCommandRunner injects a custom command runner (primarily for tests).
func WithCommandRunner(r commandRunner) InvokerOption {
	return func(i *Invoker) {
		if r != nil {
			i.run = r
		}
	}
}

// NewInvoker constructs an invoker for the configured engines.
func NewInvoker(cfg *config.Config, session host.Session, logger *slog.Logger, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		cfg:     cfg,
		session: session,
		logger:  logging.NewComponentLogger(logger, "subsync"),
		run:     defaultCommandRunner,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Check returns ErrToolNotFound when the executable configured for engine
// does not exist.
func (i *Invoker) Check(engine Engine) error {
	binary := i.cfg.EnginePath(engine.String())
	if !deps.IsExecutable(binary) {
		return services.Wrap(services.ErrToolNotFound, "sync", engine.String(),
			fmt.Sprintf("Executable %q not found", binary), nil)
	}
	return nil
}

// Sync retimes req.SubtitlePath, loads the result as a new subtitle track and,
// when configured, unloads the track it replaces.
func (i *Invoker) Sync(ctx context.Context, req Request) (Result, error) {
	ctx = services.WithStage(ctx, "sync")
	logger := logging.WithContext(ctx, i.logger)
	binary := i.cfg.EnginePath(req.Engine.String())

	if err := i.Check(req.Engine); err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return Result{}, services.Wrap(services.ErrSubtitleNotFound, "sync", req.Engine.String(),
			fmt.Sprintf("Subtitle file %q not found", req.SubtitlePath), err)
	}

	output := RetimedPath(req.SubtitlePath)
	args := Args(req, output)
	logger.Info("sync started",
		logging.String("engine", req.Engine.String()),
		logging.String("subtitle", req.SubtitlePath),
		logging.String("reference", referenceLabel(req)),
		logging.String("output", output),
	)
	logger.Debug("sync command", logging.String("binary", binary), logging.String("args", strings.Join(args, " ")))

	started := time.Now()
	if err := i.run(ctx, binary, args...); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, services.Wrap(services.ErrSyncFailed, "sync", req.Engine.String(),
				fmt.Sprintf("%s exited with status %d", req.Engine, exitErr.ExitCode()), err)
		}
		return Result{}, services.Wrap(services.ErrInvocationFailed, "sync", req.Engine.String(),
			fmt.Sprintf("Could not start %s", req.Engine), err)
	}
	result := Result{OutputPath: output, Engine: req.Engine, Elapsed: time.Since(started)}

	if err := i.session.AddSubtitle(ctx, output); err != nil {
		return result, services.Wrap(services.ErrTrackAddFailed, "sync", "add track",
			fmt.Sprintf("Player refused %q", output), err)
	}

	if i.cfg.Sync.UnloadOldSubtitle && req.PreviousSubtitleID > 0 {
		if err := i.session.RemoveSubtitle(ctx, req.PreviousSubtitleID); err != nil {
			logging.WarnWithContext(logger, "old subtitle not removed", "subtitle_remove_failed",
				logging.Int("track_id", req.PreviousSubtitleID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "both subtitle tracks stay loaded"),
				logging.String(logging.FieldErrorHint, "remove the old track from the player menu"),
			)
		} else {
			result.RemovedPrevious = true
		}
	}

	logger.Info("sync completed",
		logging.String("engine", req.Engine.String()),
		logging.String("output", output),
		logging.Duration("elapsed", result.Elapsed),
		logging.Bool("removed_previous", result.RemovedPrevious),
	)
	return result, nil
}

// Args builds the engine command line for req writing to output.
func Args(req Request, output string) []string {
	reference := req.ReferencePath
	if reference == "" {
		reference = req.MediaPath
	}
	switch req.Engine {
	case Alass:
		return []string{reference, req.SubtitlePath, output}
	default:
		args := []string{reference, "-i", req.SubtitlePath, "-o", output}
		if req.ReferencePath == "" && req.AudioStream >= 0 {
			args = append(args, "--reference-stream", "0:"+strconv.Itoa(req.AudioStream))
		}
		return args
	}
}

// RetimedPath inserts "_retimed" before the last extension of path:
// movie.srt becomes movie_retimed.srt, a.b.ass becomes a.b_retimed.ass and a
// name without an extension gets the suffix appended.
func RetimedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + retimedSuffix + ext
}

func referenceLabel(req Request) string {
	if req.ReferencePath != "" {
		return req.ReferencePath
	}
	if req.AudioStream >= 0 {
		return "audio stream " + strconv.Itoa(req.AudioStream)
	}
	return "audio"
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
