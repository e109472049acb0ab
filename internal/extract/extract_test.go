package extract_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"autosubsync/internal/extract"
	"autosubsync/internal/logging"
	"autosubsync/internal/services"
	"autosubsync/internal/testsupport"
)

func indexOf(args []string, value string) int {
	return slices.Index(args, value)
}

func TestArgsMapsStream(t *testing.T) {
	args := extract.Args("/media/movie.mkv", 3, "/tmp/out.srt")

	i := indexOf(args, "-i")
	if i < 0 || args[i+1] != "/media/movie.mkv" {
		t.Fatalf("missing input in %v", args)
	}
	m := indexOf(args, "-map")
	if m < 0 || args[m+1] != "0:3" {
		t.Fatalf("missing stream map in %v", args)
	}
	for _, flag := range []string{"-an", "-vn", "-y", "/tmp/out.srt"} {
		if indexOf(args, flag) < 0 {
			t.Fatalf("missing %s in %v", flag, args)
		}
	}
	if indexOf(args, "/tmp/out.srt") < i {
		t.Fatalf("output must follow input in %v", args)
	}
}

func TestArgsWithoutStreamLetsFFmpegChoose(t *testing.T) {
	args := extract.Args("/media/movie.mkv", -1, "/tmp/out.srt")
	if indexOf(args, "-map") >= 0 {
		t.Fatalf("unexpected -map in %v", args)
	}
}

func TestExtractWritesTempFileAndCleanupRemovesIt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tmp := t.TempDir()
	var gotArgs []string
	runner := func(_ context.Context, name string, args ...string) error {
		gotArgs = args
		return os.WriteFile(filepath.Join(tmp, extract.TempFileName), []byte(testsupport.SampleSRT), 0o644)
	}

	inv := extract.NewInvoker(cfg, logging.NewNop(), extract.WithCommandRunner(runner), extract.WithTempDir(tmp))
	ex, err := inv.Extract(context.Background(), "/media/movie.mkv", 2)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ex.Path != filepath.Join(tmp, extract.TempFileName) {
		t.Fatalf("path = %q", ex.Path)
	}
	if m := indexOf(gotArgs, "-map"); m < 0 || gotArgs[m+1] != "0:2" {
		t.Fatalf("args = %v", gotArgs)
	}

	ex.Cleanup()
	if _, err := os.Stat(ex.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp file removed, stat err = %v", err)
	}
	if _, err := os.Stat(extract.LockPath(ex.Path)); err != nil {
		t.Fatalf("expected lock file kept: %v", err)
	}

	// The lock is released, so a second extraction succeeds.
	ex2, err := inv.Extract(context.Background(), "/media/movie.mkv", -1)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	ex2.Cleanup()
}

func TestExtractFailureRemovesPartialFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tmp := t.TempDir()
	exitErr := exec.Command("/bin/sh", "-c", "exit 1").Run()
	runner := func(context.Context, string, ...string) error {
		_ = os.WriteFile(filepath.Join(tmp, extract.TempFileName), []byte("partial"), 0o644)
		return exitErr
	}

	inv := extract.NewInvoker(cfg, logging.NewNop(), extract.WithCommandRunner(runner), extract.WithTempDir(tmp))
	_, err := inv.Extract(context.Background(), "/media/movie.mkv", 5)
	if !errors.Is(err, services.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(tmp, extract.TempFileName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("partial file left behind: %v", statErr)
	}
}

func TestExtractMissingFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMissingTool("ffmpeg"))
	calls := 0
	runner := func(context.Context, string, ...string) error {
		calls++
		return nil
	}

	inv := extract.NewInvoker(cfg, logging.NewNop(), extract.WithCommandRunner(runner), extract.WithTempDir(t.TempDir()))
	if _, err := inv.Extract(context.Background(), "/media/movie.mkv", 0); !errors.Is(err, services.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("runner called %d times", calls)
	}
}

func TestExtractNoOutputIsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := func(context.Context, string, ...string) error { return nil }

	inv := extract.NewInvoker(cfg, logging.NewNop(), extract.WithCommandRunner(runner), extract.WithTempDir(t.TempDir()))
	if _, err := inv.Extract(context.Background(), "/media/movie.mkv", 0); !errors.Is(err, services.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractWithStubFFmpeg(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// Stub writes to whichever argument names an .srt file.
	cfg.Tools.FFmpegPath = testsupport.WriteScript(t, t.TempDir(), "ffmpeg",
		`for a in "$@"; do case "$a" in *.srt) printf '1\n' > "$a";; esac; done`)
	tmp := t.TempDir()

	inv := extract.NewInvoker(cfg, logging.NewNop(), extract.WithTempDir(tmp))
	ex, err := inv.Extract(context.Background(), "/media/movie.mkv", 1)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer ex.Cleanup()
	if _, err := os.Stat(ex.Path); err != nil {
		t.Fatalf("expected extracted file: %v", err)
	}
}
