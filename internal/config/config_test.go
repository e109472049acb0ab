package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"autosubsync/internal/config"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "autosubsync", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "state", "autosubsync"); cfg.Logging.Dir != want {
		t.Fatalf("log dir = %q, want %q", cfg.Logging.Dir, want)
	}
	if cfg.Sync.PreferredEngine != config.EngineAsk {
		t.Fatalf("preferred engine = %q, want ask", cfg.Sync.PreferredEngine)
	}
	if !cfg.Sync.UnloadOldSubtitle {
		t.Fatal("expected unload_old_subtitle to default to true")
	}
	if !cfg.AskForEngine() {
		t.Fatal("expected engine menu to be shown by default")
	}
	for name, value := range map[string]string{
		"ffmpeg":    cfg.Tools.FFmpegPath,
		"ffsubsync": cfg.Tools.FFsubsyncPath,
		"alass":     cfg.Tools.AlassPath,
	} {
		if strings.TrimSpace(value) == "" {
			t.Fatalf("%s path left empty after load", name)
		}
	}
}

func TestLoadResolvesToolsFromSearchPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	binDir := t.TempDir()
	ffsubsync := writeStub(t, binDir, "ffsubsync")
	alass := writeStub(t, binDir, "alass")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	contents := "[tools]\nsearch_paths = [\"" + binDir + "\"]\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Tools.FFsubsyncPath != ffsubsync {
		t.Fatalf("ffsubsync = %q, want %q", cfg.Tools.FFsubsyncPath, ffsubsync)
	}
	if cfg.Tools.AlassPath != alass {
		t.Fatalf("alass = %q, want %q", cfg.Tools.AlassPath, alass)
	}
	if cfg.EnginePath(config.EngineAlass) != alass {
		t.Fatalf("EnginePath(alass) = %q", cfg.EnginePath(config.EngineAlass))
	}
}

func TestLoadKeepsExplicitToolPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	contents := "[tools]\nalass_path = \"/nonexistent/alass-cli\"\n[sync]\npreferred_engine = \"ALASS\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.AlassPath != "/nonexistent/alass-cli" {
		t.Fatalf("alass path = %q", cfg.Tools.AlassPath)
	}
	if cfg.Sync.PreferredEngine != config.EngineAlass {
		t.Fatalf("preferred engine = %q", cfg.Sync.PreferredEngine)
	}
	if cfg.AskForEngine() {
		t.Fatal("preferred engine should skip the engine menu")
	}
}

func TestLoadEmptyPreferredEngineMeansAsk(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[sync]\npreferred_engine = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sync.PreferredEngine != config.EngineAsk {
		t.Fatalf("preferred engine = %q, want ask", cfg.Sync.PreferredEngine)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{"engine", "[sync]\npreferred_engine = \"subaligner\"\n", "sync.preferred_engine"},
		{"color", "[overlay]\nactive_color = \"white\"\n", "overlay.active_color"},
		{"duplicate key", "[mpv]\nup_key = \"DOWN\"\n", "mpv.down_key"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"syntax", "[sync\n", "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte(tc.contents), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(configPath)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadAllowsEntryKeyAsMenuKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	contents := "[mpv]\nentry_key = \"n\"\ncancel_key = \"n\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MPV.EntryKey != cfg.MPV.CancelKey {
		t.Fatalf("entry key %q, cancel key %q", cfg.MPV.EntryKey, cfg.MPV.CancelKey)
	}
}

func TestOverlayColorsNormalized(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[overlay]\nactive_color = \"#ffcc00\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Overlay.ActiveColor != "FFCC00" {
		t.Fatalf("active color = %q", cfg.Overlay.ActiveColor)
	}
}

func TestCreateSampleRoundTripsThroughLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid toml: %v", err)
	}
	if decoded.MPV.SocketPath != config.Default().MPV.SocketPath {
		t.Fatalf("sample socket path = %q", decoded.MPV.SocketPath)
	}

	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load(sample) exists=%v err=%v", exists, err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/subs")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "subs") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
