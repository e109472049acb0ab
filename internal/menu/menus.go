package menu

import (
	"fmt"
	"slices"

	"autosubsync/internal/host"
	"autosubsync/internal/subsync"
)

// CancelLabel is the last item of every menu.
const CancelLabel = "Cancel"

// Reference menu labels.
const (
	LabelSyncToAudio    = "Sync to audio"
	LabelSyncToSubtitle = "Sync to another subtitle"
)

// Menu is one level of the selection flow. Implementations are
// ReferenceMenu, EngineMenu and TrackMenu.
type Menu interface {
	Level() Level
	Items() []string
	// Selected is 1-based and always within [1, len(Items())].
	Selected() int
	Move(delta int)
	// CancelSelected reports whether the highlighted item is Cancel.
	CancelSelected() bool
}

type list struct {
	items    []string
	selected int
}

func newList(labels []string, selected int) list {
	items := append(slices.Clone(labels), CancelLabel)
	if selected < 1 || selected > len(items) {
		selected = 1
	}
	return list{items: items, selected: selected}
}

func (l *list) Items() []string { return slices.Clone(l.items) }

func (l *list) Selected() int { return l.selected }

// Move shifts the selection by delta, wrapping at both ends.
func (l *list) Move(delta int) {
	n := len(l.items)
	l.selected = ((l.selected-1+delta)%n+n)%n + 1
}

func (l *list) CancelSelected() bool { return l.selected == len(l.items) }

// ReferenceMenu asks what to sync against.
type ReferenceMenu struct {
	list
}

// NewReferenceMenu builds the first-level menu.
func NewReferenceMenu() *ReferenceMenu {
	return &ReferenceMenu{list: newList([]string{LabelSyncToAudio, LabelSyncToSubtitle}, 1)}
}

func (*ReferenceMenu) Level() Level { return LevelReference }

// Choice returns the highlighted reference kind.
func (m *ReferenceMenu) Choice() Reference {
	if m.selected == 2 {
		return ReferenceSubtitle
	}
	return ReferenceAudio
}

// EngineMenu asks which sync engine to run.
type EngineMenu struct {
	list
	engines []subsync.Engine
}

// NewEngineMenu builds the engine menu with last preselected.
func NewEngineMenu(last subsync.Engine) *EngineMenu {
	engines := subsync.Engines()
	labels := make([]string, 0, len(engines))
	selected := 1
	for i, engine := range engines {
		labels = append(labels, engine.String())
		if engine == last {
			selected = i + 1
		}
	}
	return &EngineMenu{list: newList(labels, selected), engines: engines}
}

func (*EngineMenu) Level() Level { return LevelEngine }

// Choice returns the highlighted engine. Only valid when CancelSelected is false.
func (m *EngineMenu) Choice() subsync.Engine {
	return m.engines[m.selected-1]
}

// TrackMenu asks which subtitle track serves as the reference.
type TrackMenu struct {
	list
	tracks []host.Track
}

// NewTrackMenu builds a track menu listing every track in player order.
func NewTrackMenu(tracks []host.Track) *TrackMenu {
	labels := make([]string, 0, len(tracks))
	for _, track := range tracks {
		labels = append(labels, TrackLabel(track))
	}
	return &TrackMenu{list: newList(labels, 1), tracks: slices.Clone(tracks)}
}

func (*TrackMenu) Level() Level { return LevelTrack }

// Choice returns the highlighted track. Only valid when CancelSelected is false.
func (m *TrackMenu) Choice() host.Track {
	return m.tracks[m.selected-1]
}

// TrackLabel renders "<External|Internal> #<id> - <label>[ (active)]".
func TrackLabel(track host.Track) string {
	origin := "Internal"
	if track.External {
		origin = "External"
	}
	label := fmt.Sprintf("%s #%d", origin, track.ID)
	if track.Label != "" {
		label += " - " + track.Label
	}
	if track.Active {
		label += " (active)"
	}
	return label
}
