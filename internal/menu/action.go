package menu

import (
	"fmt"
	"strings"
)

// Action is a navigation input while a menu is open.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionConfirm
	ActionCancel
)

// Input event names bound to each action and to opening the menu.
const (
	EventOpen    = "open"
	EventUp      = "up"
	EventDown    = "down"
	EventConfirm = "confirm"
	EventCancel  = "cancel"
)

func (a Action) String() string {
	switch a {
	case ActionUp:
		return EventUp
	case ActionDown:
		return EventDown
	case ActionConfirm:
		return EventConfirm
	case ActionCancel:
		return EventCancel
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction maps an input event name to an Action.
func ParseAction(event string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(event)) {
	case EventUp:
		return ActionUp, true
	case EventDown:
		return ActionDown, true
	case EventConfirm:
		return ActionConfirm, true
	case EventCancel:
		return ActionCancel, true
	default:
		return 0, false
	}
}

// Level identifies which question a menu asks.
type Level int

const (
	LevelReference Level = iota + 1
	LevelEngine
	LevelTrack
)

func (l Level) String() string {
	switch l {
	case LevelReference:
		return "reference"
	case LevelEngine:
		return "engine"
	case LevelTrack:
		return "track"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Reference is what the subtitle gets aligned against.
type Reference int

const (
	ReferenceAudio Reference = iota
	ReferenceSubtitle
)

func (r Reference) String() string {
	switch r {
	case ReferenceAudio:
		return "audio"
	case ReferenceSubtitle:
		return "subtitle"
	default:
		return fmt.Sprintf("Reference(%d)", int(r))
	}
}

// ParseReference maps a flag value to a Reference.
func ParseReference(value string) (Reference, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "audio":
		return ReferenceAudio, nil
	case "subtitle", "sub":
		return ReferenceSubtitle, nil
	default:
		return 0, fmt.Errorf("unknown reference %q (want audio or subtitle)", value)
	}
}
