package config

// Engine names accepted by sync.preferred_engine.
const (
	EngineFFsubsync = "ffsubsync"
	EngineAlass     = "alass"
	EngineAsk       = "ask"
)

const (
	defaultConfigPath      = "~/.config/autosubsync/config.toml"
	defaultSocketPath      = "/tmp/mpvsocket"
	defaultEntryKey        = "n"
	defaultUpKey           = "UP"
	defaultDownKey         = "DOWN"
	defaultConfirmKey      = "ENTER"
	defaultCancelKey       = "ESC"
	defaultDialTimeout     = 2
	defaultOriginX         = 40
	defaultOriginY         = 40
	defaultFontSize        = 28
	defaultItemSpacing     = 8
	defaultPadding         = 10
	defaultWidth           = 520
	defaultActiveColor     = "FFFFFF"
	defaultInactiveColor   = "A0A0A0"
	defaultBorderColor     = "202020"
	defaultBackgroundColor = "000000"
	defaultInfoSeconds     = 2
	defaultErrorSeconds    = 5
	defaultFatalSeconds    = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogDir          = "~/.local/state/autosubsync"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Sync: Sync{
			PreferredEngine:   EngineAsk,
			UnloadOldSubtitle: true,
		},
		MPV: MPV{
			SocketPath:  defaultSocketPath,
			EntryKey:    defaultEntryKey,
			UpKey:       defaultUpKey,
			DownKey:     defaultDownKey,
			ConfirmKey:  defaultConfirmKey,
			CancelKey:   defaultCancelKey,
			DialTimeout: defaultDialTimeout,
		},
		Overlay: Overlay{
			OriginX:       defaultOriginX,
			OriginY:       defaultOriginY,
			FontSize:      defaultFontSize,
			ItemSpacing:   defaultItemSpacing,
			Padding:       defaultPadding,
			Width:         defaultWidth,
			ActiveColor:   defaultActiveColor,
			InactiveColor: defaultInactiveColor,
			BorderColor:   defaultBorderColor,
			Background:    defaultBackgroundColor,
		},
		Notifications: Notifications{
			InfoSeconds:  defaultInfoSeconds,
			ErrorSeconds: defaultErrorSeconds,
			FatalSeconds: defaultFatalSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
