package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools points at the external executables autosubsync drives. Empty values
// are resolved through the executable resolver during Load.
type Tools struct {
	FFmpegPath    string   `toml:"ffmpeg_path"`
	FFsubsyncPath string   `toml:"ffsubsync_path"`
	AlassPath     string   `toml:"alass_path"`
	SearchPaths   []string `toml:"search_paths"`
}

// Sync controls engine choice and what happens to the subtitle being replaced.
type Sync struct {
	// PreferredEngine is "ffsubsync", "alass" or "ask". Empty means ask.
	PreferredEngine   string `toml:"preferred_engine"`
	UnloadOldSubtitle bool   `toml:"unload_old_subtitle"`
}

// MPV describes how to reach the player and which keys drive the menu.
type MPV struct {
	SocketPath  string `toml:"socket_path"`
	EntryKey    string `toml:"entry_key"`
	UpKey       string `toml:"up_key"`
	DownKey     string `toml:"down_key"`
	ConfirmKey  string `toml:"confirm_key"`
	CancelKey   string `toml:"cancel_key"`
	DialTimeout int    `toml:"dial_timeout"`
}

// Overlay holds menu presentation. Colors are RRGGBB hex strings.
type Overlay struct {
	OriginX       int    `toml:"origin_x"`
	OriginY       int    `toml:"origin_y"`
	FontSize      int    `toml:"font_size"`
	ItemSpacing   int    `toml:"item_spacing"`
	Padding       int    `toml:"padding"`
	Width         int    `toml:"width"`
	ActiveColor   string `toml:"active_color"`
	InactiveColor string `toml:"inactive_color"`
	BorderColor   string `toml:"border_color"`
	Background    string `toml:"background_color"`
}

// Notifications sets how long on-screen messages stay visible, in seconds.
type Notifications struct {
	InfoSeconds  int `toml:"info_seconds"`
	ErrorSeconds int `toml:"error_seconds"`
	FatalSeconds int `toml:"fatal_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for autosubsync.
//
// Configuration sections:
//   - Tools: ffmpeg, ffsubsync and alass locations
//   - Sync: engine preference and old-track handling
//   - MPV: IPC socket and key bindings
//   - Overlay: menu position, size and colors
//   - Notifications: on-screen message durations
//   - Logging: log format, level and directory
type Config struct {
	Tools         Tools         `toml:"tools"`
	Sync          Sync          `toml:"sync"`
	MPV           MPV           `toml:"mpv"`
	Overlay       Overlay       `toml:"overlay"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and every tool path resolved.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("autosubsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// AskForEngine reports whether the engine menu must be shown.
func (c *Config) AskForEngine() bool {
	switch c.Sync.PreferredEngine {
	case EngineFFsubsync, EngineAlass:
		return false
	default:
		return true
	}
}

// EnginePath returns the resolved executable for the named engine.
func (c *Config) EnginePath(engine string) string {
	switch engine {
	case EngineAlass:
		return c.Tools.AlassPath
	default:
		return c.Tools.FFsubsyncPath
	}
}
