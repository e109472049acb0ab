package subsync

import (
	"fmt"
	"strings"
)

// Engine is a subtitle synchronization tool.
type Engine int

const (
	FFSubsync Engine = iota
	Alass
)

// Engines lists every engine in menu order.
func Engines() []Engine {
	return []Engine{FFSubsync, Alass}
}

func (e Engine) String() string {
	switch e {
	case FFSubsync:
		return "ffsubsync"
	case Alass:
		return "alass"
	default:
		return fmt.Sprintf("Engine(%d)", int(e))
	}
}

// ParseEngine maps a configuration or flag value to an Engine.
func ParseEngine(value string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ffsubsync":
		return FFSubsync, nil
	case "alass":
		return Alass, nil
	default:
		return 0, fmt.Errorf("unknown sync engine %q", value)
	}
}
