package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"autosubsync/internal/config"
	"autosubsync/internal/deps"
	"autosubsync/internal/logging"
	"autosubsync/internal/services"
)

// TempFileName is the fixed name extracted subtitles are written under.
const TempFileName = "autosubsync_extracted.srt"

const lockRetryDelay = 100 * time.Millisecond

type commandRunner func(ctx context.Context, name string, args ...string) error

// Extraction is a subtitle stream written to a temporary file. The caller
// owns it and must call Cleanup on every path.
type Extraction struct {
	Path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Cleanup removes the temporary file and releases its lock. Failures are
// logged only.
func (e *Extraction) Cleanup() {
	if e == nil {
		return
	}
	logger := e.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	removeQuietly(logger, e.Path)
	if e.lock != nil {
		if err := e.lock.Unlock(); err != nil {
			logger.Debug("extraction lock release failed", logging.Error(err))
		}
	}
}

// Invoker pulls a subtitle stream out of a media container with ffmpeg.
type Invoker struct {
	cfg     *config.Config
	logger  *slog.Logger
	run     commandRunner
	tempDir string
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

// WithTempDir overrides where the extracted file is written.
func WithTempDir(dir string) InvokerOption {
	return func(i *Invoker) {
		if strings.TrimSpace(dir) != "" {
			i.tempDir = dir
		}
	}
}

// NewInvoker constructs an extraction invoker.
func NewInvoker(cfg *config.Config, logger *slog.Logger, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "extract"),
		run:     defaultCommandRunner,
		tempDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// LockPath is the lock file serializing writers of the extraction file at
// path. It is left in place after Cleanup.
func LockPath(path string) string {
	return path + ".lock"
}

// TempPath returns the file Extract writes to.
func (i *Invoker) TempPath() string {
	return filepath.Join(i.tempDir, TempFileName)
}

// Extract writes subtitle stream to the temporary file. A negative stream
// lets ffmpeg pick the default subtitle stream.
func (i *Invoker) Extract(ctx context.Context, mediaPath string, stream int) (*Extraction, error) {
	ctx = services.WithStage(ctx, "extract")
	logger := logging.WithContext(ctx, i.logger)
	binary := i.cfg.Tools.FFmpegPath

	if !deps.IsExecutable(binary) {
		return nil, services.Wrap(services.ErrExtractionFailed, "extract", "ffmpeg",
			fmt.Sprintf("Executable %q not found", binary), nil)
	}

	output := i.TempPath()
	// Never removed; see LockPath.
	lock := flock.New(LockPath(output))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return nil, services.Wrap(services.ErrExtractionFailed, "extract", "lock",
			"Another extraction is using the temporary file", err)
	}

	args := Args(mediaPath, stream, output)
	logger.Info("extraction started",
		logging.String("media", mediaPath),
		logging.Int("stream", stream),
		logging.String("output", output),
	)
	logger.Debug("extraction command", logging.String("binary", binary), logging.String("args", strings.Join(args, " ")))

	if err := i.run(ctx, binary, args...); err != nil {
		removeQuietly(logger, output)
		_ = lock.Unlock()
		detail := "ffmpeg could not be started"
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = fmt.Sprintf("ffmpeg exited with status %d", exitErr.ExitCode())
		}
		return nil, services.Wrap(services.ErrExtractionFailed, "extract", "ffmpeg", detail, err)
	}
	if _, err := os.Stat(output); err != nil {
		_ = lock.Unlock()
		return nil, services.Wrap(services.ErrExtractionFailed, "extract", "ffmpeg", "ffmpeg produced no subtitle file", err)
	}

	logger.Info("extraction completed", logging.String("output", output))
	return &Extraction{Path: output, lock: lock, logger: logger}, nil
}

// Args builds the ffmpeg command line: no audio, no video, optionally one
// mapped stream, overwriting output.
func Args(mediaPath string, stream int, output string) []string {
	kwargs := ffmpeg.KwArgs{
		"an":       "",
		"vn":       "",
		"loglevel": "error",
	}
	if stream >= 0 {
		kwargs["map"] = fmt.Sprintf("0:%d", stream)
	}
	return ffmpeg.Input(mediaPath).
		Output(output, kwargs).
		OverWriteOutput().
		GetArgs()
}

func removeQuietly(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Debug("temporary file not removed", logging.String("path", path), logging.Error(err))
	}
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
