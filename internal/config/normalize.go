package config

import (
	"fmt"
	"strings"

	"autosubsync/internal/deps"
)

func (c *Config) normalize() error {
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeSync()
	if err := c.normalizeMPV(); err != nil {
		return err
	}
	c.normalizeOverlay()
	c.normalizeNotifications()
	return c.normalizeLogging()
}

func (c *Config) normalizeTools() error {
	searchPaths := make([]string, 0, len(c.Tools.SearchPaths))
	for _, dir := range c.Tools.SearchPaths {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(dir))
		if err != nil {
			return fmt.Errorf("tools.search_paths: %w", err)
		}
		searchPaths = append(searchPaths, expanded)
	}
	c.Tools.SearchPaths = searchPaths

	resolver := deps.NewResolver(searchPaths)
	for _, tool := range []struct {
		key   string
		name  string
		value *string
	}{
		{"tools.ffmpeg_path", "ffmpeg", &c.Tools.FFmpegPath},
		{"tools.ffsubsync_path", "ffsubsync", &c.Tools.FFsubsyncPath},
		{"tools.alass_path", "alass", &c.Tools.AlassPath},
	} {
		value := strings.TrimSpace(*tool.value)
		if strings.HasPrefix(value, "~") {
			expanded, err := expandPath(value)
			if err != nil {
				return fmt.Errorf("%s: %w", tool.key, err)
			}
			value = expanded
		}
		*tool.value = resolver.Resolve(tool.name, value)
	}
	return nil
}

func (c *Config) normalizeSync() {
	engine := strings.ToLower(strings.TrimSpace(c.Sync.PreferredEngine))
	if engine == "" {
		engine = EngineAsk
	}
	c.Sync.PreferredEngine = engine
}

func (c *Config) normalizeMPV() error {
	socket := strings.TrimSpace(c.MPV.SocketPath)
	if socket == "" {
		socket = defaultSocketPath
	}
	expanded, err := expandPath(socket)
	if err != nil {
		return fmt.Errorf("mpv.socket_path: %w", err)
	}
	c.MPV.SocketPath = expanded

	for _, key := range []struct {
		value    *string
		fallback string
	}{
		{&c.MPV.EntryKey, defaultEntryKey},
		{&c.MPV.UpKey, defaultUpKey},
		{&c.MPV.DownKey, defaultDownKey},
		{&c.MPV.ConfirmKey, defaultConfirmKey},
		{&c.MPV.CancelKey, defaultCancelKey},
	} {
		*key.value = strings.TrimSpace(*key.value)
		if *key.value == "" {
			*key.value = key.fallback
		}
	}
	if c.MPV.DialTimeout <= 0 {
		c.MPV.DialTimeout = defaultDialTimeout
	}
	return nil
}

func (c *Config) normalizeOverlay() {
	for _, color := range []struct {
		value    *string
		fallback string
	}{
		{&c.Overlay.ActiveColor, defaultActiveColor},
		{&c.Overlay.InactiveColor, defaultInactiveColor},
		{&c.Overlay.BorderColor, defaultBorderColor},
		{&c.Overlay.Background, defaultBackgroundColor},
	} {
		value := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(*color.value), "#"))
		if value == "" {
			value = color.fallback
		}
		*color.value = value
	}
	if c.Overlay.FontSize <= 0 {
		c.Overlay.FontSize = defaultFontSize
	}
	if c.Overlay.Width <= 0 {
		c.Overlay.Width = defaultWidth
	}
	if c.Overlay.ItemSpacing < 0 {
		c.Overlay.ItemSpacing = 0
	}
	if c.Overlay.Padding < 0 {
		c.Overlay.Padding = 0
	}
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.InfoSeconds <= 0 {
		c.Notifications.InfoSeconds = defaultInfoSeconds
	}
	if c.Notifications.ErrorSeconds <= 0 {
		c.Notifications.ErrorSeconds = defaultErrorSeconds
	}
	if c.Notifications.FatalSeconds <= 0 {
		c.Notifications.FatalSeconds = defaultFatalSeconds
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	dir, err := expandPath(strings.TrimSpace(c.Logging.Dir))
	if err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	c.Logging.Dir = dir
	return nil
}
