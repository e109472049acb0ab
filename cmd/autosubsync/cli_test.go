package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"autosubsync/internal/testsupport"
)

type cliEnv struct {
	dir        string
	configPath string
	socketPath string
	tools      map[string]string
}

type envOption func(*cliEnv)

func withPreferredEngine(engine string) envOption {
	return func(e *cliEnv) { e.tools["preferred_engine"] = engine }
}

func withTool(name, path string) envOption {
	return func(e *cliEnv) { e.tools[name] = path }
}

func withSocket(path string) envOption {
	return func(e *cliEnv) { e.socketPath = path }
}

// setupCLIEnv writes a config with stub tools under a temp HOME.
func setupCLIEnv(t *testing.T, opts ...envOption) *cliEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("TMPDIR", filepath.Join(base, "tmp"))
	if err := os.MkdirAll(filepath.Join(base, "tmp"), 0o755); err != nil {
		t.Fatalf("mkdir tmp: %v", err)
	}

	bin := filepath.Join(base, "bin")
	env := &cliEnv{
		dir:        base,
		configPath: filepath.Join(home, ".config", "autosubsync", "config.toml"),
		socketPath: filepath.Join(base, "missing.sock"),
		tools: map[string]string{
			"ffmpeg":           testsupport.WriteScript(t, bin, "ffmpeg", "exit 0"),
			"ffsubsync":        testsupport.WriteScript(t, bin, "ffsubsync", "exit 0"),
			"alass":            testsupport.WriteScript(t, bin, "alass", "exit 0"),
			"preferred_engine": "ask",
		},
	}
	for _, opt := range opts {
		opt(env)
	}

	content := fmt.Sprintf(`[tools]
ffmpeg_path = %q
ffsubsync_path = %q
alass_path = %q

[sync]
preferred_engine = %q

[mpv]
socket_path = %q

[logging]
dir = %q
level = "error"
`, env.tools["ffmpeg"], env.tools["ffsubsync"], env.tools["alass"], env.tools["preferred_engine"],
		env.socketPath, filepath.Join(base, "logs"))
	testsupport.WriteFile(t, env.configPath, content)
	return env
}

func runCLI(t *testing.T, env *cliEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.socketPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestConfigValidateRejectsBadEngine(t *testing.T) {
	env := setupCLIEnv(t, withPreferredEngine("subaligner"))
	if _, _, err := runCLI(t, env, "config", "validate"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDoctorOptionalEngineMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "alass")
	env := setupCLIEnv(t, withPreferredEngine("ffsubsync"), withTool("alass", missing))

	out, _, err := runCLI(t, env, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[WARN]")
	requireContains(t, out, "not reachable")
	if strings.Contains(out, "\x1b[") {
		t.Fatal("non-terminal output must not be colorized")
	}
}

func TestDoctorRequiredEngineMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "alass")
	env := setupCLIEnv(t, withPreferredEngine("alass"), withTool("alass", missing))

	out, _, err := runCLI(t, env, "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	requireContains(t, out, "[ERROR]")
}

func TestTracksListsPlayerTracks(t *testing.T) {
	server := testsupport.NewFakeMPV(t)
	server.SetProperty("track-list", []map[string]any{
		{"id": 1, "type": "audio", "ff-index": 1, "lang": "eng", "selected": true},
		{"id": 2, "type": "sub", "external": true, "external-filename": "/media/movie.srt", "title": "Forced"},
	})
	env := setupCLIEnv(t, withSocket(server.Path))

	out, _, err := runCLI(t, env, "tracks")
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	for _, want := range []string{"audio", "subtitle", "external", "/media/movie.srt", "Forced", "English"} {
		requireContains(t, out, want)
	}
}

func TestTracksWithoutPlayer(t *testing.T) {
	env := setupCLIEnv(t)
	_, _, err := runCLI(t, env, "tracks")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected socket not found error, got %v", err)
	}
}

func TestExtractWritesOutput(t *testing.T) {
	stub := testsupport.WriteScript(t, t.TempDir(), "ffmpeg",
		`for a in "$@"; do case "$a" in *.srt) printf '1\n00:00:01,000 --> 00:00:02,000\nhi\n' > "$a";; esac; done`)
	env := setupCLIEnv(t, withTool("ffmpeg", stub))
	target := filepath.Join(t.TempDir(), "out", "movie.en.srt")

	out, _, err := runCLI(t, env, "extract", "/media/movie.mkv", "--stream", "2", "-o", target)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "Wrote "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "hi")
}

func TestExtractRequiresOutput(t *testing.T) {
	env := setupCLIEnv(t)
	if _, _, err := runCLI(t, env, "extract", "/media/movie.mkv"); err == nil {
		t.Fatal("expected missing --output error")
	}
}

func TestSyncAgainstAudio(t *testing.T) {
	server := testsupport.NewFakeMPV(t)
	subtitle := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "movie.srt"), testsupport.SampleSRT)
	server.SetProperty("path", "/media/movie.mkv")
	server.SetProperty("track-list", []map[string]any{
		{"id": 1, "type": "audio", "ff-index": 1, "selected": true},
		{"id": 3, "type": "sub", "external": true, "external-filename": subtitle, "selected": true},
	})
	env := setupCLIEnv(t, withSocket(server.Path))

	out, _, err := runCLI(t, env, "sync", "--engine", "alass")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	requireContains(t, out, "Subtitle synced with alass")
	names := server.CommandNames()
	if !slices.Contains(names, "sub-add") || !slices.Contains(names, "sub-remove") {
		t.Fatalf("expected track swap, got %v", names)
	}
}

func TestSyncRejectsUnknownReference(t *testing.T) {
	env := setupCLIEnv(t)
	_, _, err := runCLI(t, env, "sync", "--reference", "video")
	if err == nil || !strings.Contains(err.Error(), "unknown reference") {
		t.Fatalf("expected reference error, got %v", err)
	}
}
