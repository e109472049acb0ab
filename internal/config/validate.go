package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateMPV(); err != nil {
		return err
	}
	if err := c.validateOverlay(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSync() error {
	switch c.Sync.PreferredEngine {
	case EngineFFsubsync, EngineAlass, EngineAsk:
		return nil
	default:
		return fmt.Errorf("sync.preferred_engine: unsupported value %q (want ffsubsync, alass or ask)", c.Sync.PreferredEngine)
	}
}

func (c *Config) validateMPV() error {
	if c.MPV.SocketPath == "" {
		return errors.New("mpv.socket_path must be set")
	}
	// The entry key may repeat a menu key; the menu section is exclusive.
	seen := map[string]string{}
	for _, key := range []struct{ name, value string }{
		{"mpv.up_key", c.MPV.UpKey},
		{"mpv.down_key", c.MPV.DownKey},
		{"mpv.confirm_key", c.MPV.ConfirmKey},
		{"mpv.cancel_key", c.MPV.CancelKey},
	} {
		if other, ok := seen[key.value]; ok {
			return fmt.Errorf("%s: key %q already bound by %s", key.name, key.value, other)
		}
		seen[key.value] = key.name
	}
	return nil
}

func (c *Config) validateOverlay() error {
	for _, color := range []struct{ name, value string }{
		{"overlay.active_color", c.Overlay.ActiveColor},
		{"overlay.inactive_color", c.Overlay.InactiveColor},
		{"overlay.border_color", c.Overlay.BorderColor},
		{"overlay.background_color", c.Overlay.Background},
	} {
		if !isHexColor(color.value) {
			return fmt.Errorf("%s: %q is not an RRGGBB color", color.name, color.value)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func isHexColor(value string) bool {
	if len(value) != 6 {
		return false
	}
	_, err := strconv.ParseUint(value, 16, 32)
	return err == nil
}
