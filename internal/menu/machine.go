package menu

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"autosubsync/internal/config"
	"autosubsync/internal/extract"
	"autosubsync/internal/host"
	"autosubsync/internal/logging"
	"autosubsync/internal/notifications"
	"autosubsync/internal/services"
	"autosubsync/internal/subsync"
	"autosubsync/internal/tracks"
)

// SectionName is the key binding group held while a menu is open.
const SectionName = "autosubsync-menu"

// Presenter draws and clears the open menu.
type Presenter interface {
	Show(ctx context.Context, items []string, selected int) error
	Clear(ctx context.Context) error
}

// Syncer runs one sync engine invocation. Check reports a missing engine
// without starting any process.
type Syncer interface {
	Check(engine subsync.Engine) error
	Sync(ctx context.Context, req subsync.Request) (subsync.Result, error)
}

// Extractor writes an embedded subtitle stream to a temp file.
type Extractor interface {
	Extract(ctx context.Context, mediaPath string, stream int) (*extract.Extraction, error)
}

// Dependencies wires a Machine to the player and the tool invokers.
type Dependencies struct {
	Host      host.Session
	Inspector *tracks.Inspector
	Presenter Presenter
	Syncer    Syncer
	Extractor Extractor
	Notifier  notifications.Service
	Session   *Session
	Logger    *slog.Logger
}

// Choice is a fully answered selection flow.
type Choice struct {
	Reference Reference
	Engine    subsync.Engine
	// Track is the reference subtitle track. Nil with ReferenceSubtitle
	// extracts the media's default subtitle stream.
	Track *host.Track
}

// Machine drives the three-level selection flow. It is not safe for
// concurrent use; one dispatcher goroutine owns it.
type Machine struct {
	cfg       *config.Config
	host      host.Session
	inspector *tracks.Inspector
	presenter Presenter
	syncer    Syncer
	extractor Extractor
	notifier  notifications.Service
	session   *Session
	logger    *slog.Logger

	current   Menu
	attemptID string
	reference Reference
	engine    subsync.Engine

	lastRunEnded time.Time
}

// NewMachine validates deps and returns a closed machine.
func NewMachine(cfg *config.Config, deps Dependencies) (*Machine, error) {
	if cfg == nil || deps.Host == nil || deps.Presenter == nil || deps.Syncer == nil || deps.Extractor == nil {
		return nil, fmt.Errorf("menu requires config, host, presenter, syncer, and extractor")
	}
	m := &Machine{
		cfg:       cfg,
		host:      deps.Host,
		inspector: deps.Inspector,
		presenter: deps.Presenter,
		syncer:    deps.Syncer,
		extractor: deps.Extractor,
		notifier:  deps.Notifier,
		session:   deps.Session,
		logger:    logging.NewComponentLogger(deps.Logger, "menu"),
	}
	if m.inspector == nil {
		m.inspector = tracks.NewInspector(deps.Host)
	}
	if m.notifier == nil {
		m.notifier = notifications.NewNoop()
	}
	if m.session == nil {
		m.session = NewSession()
	}
	return m, nil
}

// IsOpen reports whether a menu is on screen.
func (m *Machine) IsOpen() bool {
	return m.current != nil
}

// Current returns the open menu, or nil.
func (m *Machine) Current() Menu {
	return m.current
}

// LastRunEnded is when the most recent dispatched attempt returned, or the
// zero time if none has run.
func (m *Machine) LastRunEnded() time.Time {
	return m.lastRunEnded
}

// Open starts a new attempt at the reference menu. Opening while a menu is
// already shown discards it and starts over at item 1.
func (m *Machine) Open(ctx context.Context) error {
	wasOpen := m.IsOpen()
	m.attemptID = uuid.NewString()
	m.current = NewReferenceMenu()
	ctx = m.attemptContext(ctx)
	logger := logging.WithContext(ctx, m.logger)

	if !wasOpen {
		if err := m.host.BindKeys(ctx, SectionName, m.bindings(), true); err != nil {
			m.current = nil
			return services.Wrap(services.ErrHost, "menu", "bind keys", "Failed to capture menu keys", err)
		}
	}
	logger.Info("menu opened", logging.Bool("reset", wasOpen))
	return m.draw(ctx)
}

// Handle applies one navigation action to the open menu. Actions arriving
// with no menu open are ignored. Attempt failures are notified before being
// returned.
func (m *Machine) Handle(ctx context.Context, action Action) error {
	if m.current == nil {
		return nil
	}
	ctx = m.attemptContext(ctx)

	switch action {
	case ActionUp:
		m.current.Move(-1)
		return m.draw(ctx)
	case ActionDown:
		m.current.Move(1)
		return m.draw(ctx)
	case ActionCancel:
		return m.cancel(ctx)
	case ActionConfirm:
		return m.confirm(ctx)
	default:
		return fmt.Errorf("unknown menu action %v", action)
	}
}

// Run performs an attempt without showing any menu.
func (m *Machine) Run(ctx context.Context, choice Choice) error {
	m.attemptID = uuid.NewString()
	m.session.SetLastEngine(choice.Engine)
	return m.dispatch(m.attemptContext(ctx), choice)
}

func (m *Machine) confirm(ctx context.Context) error {
	if m.current.CancelSelected() {
		return m.cancel(ctx)
	}
	switch menu := m.current.(type) {
	case *ReferenceMenu:
		m.reference = menu.Choice()
		if m.cfg.AskForEngine() {
			m.current = NewEngineMenu(m.session.LastEngine())
			return m.draw(ctx)
		}
		engine, err := subsync.ParseEngine(m.cfg.Sync.PreferredEngine)
		if err != nil {
			m.closeAfterError(ctx)
			return m.fail(ctx, services.Wrap(services.ErrConfiguration, "menu", "engine", "Invalid preferred engine", err))
		}
		m.engine = engine
		return m.afterEngine(ctx)
	case *EngineMenu:
		m.engine = menu.Choice()
		m.session.SetLastEngine(m.engine)
		return m.afterEngine(ctx)
	case *TrackMenu:
		track := menu.Choice()
		if err := m.close(ctx); err != nil {
			return m.fail(ctx, err)
		}
		return m.dispatch(ctx, Choice{Reference: ReferenceSubtitle, Engine: m.engine, Track: &track})
	default:
		return fmt.Errorf("unsupported menu %T", m.current)
	}
}

func (m *Machine) afterEngine(ctx context.Context) error {
	if m.reference == ReferenceAudio {
		if err := m.close(ctx); err != nil {
			return m.fail(ctx, err)
		}
		return m.dispatch(ctx, Choice{Reference: ReferenceAudio, Engine: m.engine})
	}

	subs, err := m.inspector.List(ctx, host.TrackSubtitle)
	if err != nil {
		m.closeAfterError(ctx)
		return m.fail(ctx, err)
	}
	if len(subs) >= 2 {
		m.current = NewTrackMenu(subs)
		return m.draw(ctx)
	}

	if err := m.close(ctx); err != nil {
		return m.fail(ctx, err)
	}
	choice := Choice{Reference: ReferenceSubtitle, Engine: m.engine}
	if len(subs) == 1 {
		choice.Track = &subs[0]
	}
	return m.dispatch(ctx, choice)
}

func (m *Machine) cancel(ctx context.Context) error {
	level := m.current.Level()
	if err := m.close(ctx); err != nil {
		return m.fail(ctx, err)
	}
	logging.WithContext(ctx, m.logger).Info("menu cancelled", logging.String("level", level.String()))
	return nil
}

// close releases the menu keys and clears the overlay. Both are attempted
// even if the first fails.
func (m *Machine) close(ctx context.Context) error {
	m.current = nil
	unbindErr := m.host.UnbindKeys(ctx, SectionName)
	clearErr := m.presenter.Clear(ctx)
	if unbindErr != nil {
		return services.Wrap(services.ErrHost, "menu", "unbind keys", "Failed to release menu keys", unbindErr)
	}
	if clearErr != nil {
		return services.Wrap(services.ErrHost, "menu", "clear overlay", "Failed to clear menu", clearErr)
	}
	return nil
}

// closeAfterError closes the menu when another error is already being
// reported; a close failure is logged alongside it.
func (m *Machine) closeAfterError(ctx context.Context) {
	if err := m.close(ctx); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "menu not closed", "menu_close_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "menu keys or overlay may stay visible"),
			logging.String(logging.FieldErrorHint, "reopen and cancel the menu"),
		)
	}
}

func (m *Machine) draw(ctx context.Context) error {
	if err := m.presenter.Show(ctx, m.current.Items(), m.current.Selected()); err != nil {
		return services.Wrap(services.ErrHost, "menu", "draw", "Failed to draw menu", err)
	}
	return nil
}

func (m *Machine) bindings() []host.Binding {
	keys := m.cfg.MPV
	return []host.Binding{
		{Key: keys.UpKey, Event: EventUp},
		{Key: keys.DownKey, Event: EventDown},
		{Key: keys.ConfirmKey, Event: EventConfirm},
		{Key: keys.CancelKey, Event: EventCancel},
	}
}

func (m *Machine) attemptContext(ctx context.Context) context.Context {
	return services.WithAttemptID(services.WithStage(ctx, "menu"), m.attemptID)
}
