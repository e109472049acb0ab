package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"autosubsync/internal/config"
	"autosubsync/internal/extract"
	"autosubsync/internal/host"
	"autosubsync/internal/logging"
	"autosubsync/internal/menu"
	"autosubsync/internal/notifications"
	"autosubsync/internal/overlay"
	"autosubsync/internal/subsync"
	"autosubsync/internal/tracks"
)

// EntrySection is the always-on binding group holding the menu entry key.
const EntrySection = "autosubsync-entry"

// ErrAlreadyAttached is returned when another daemon serves the same player.
var ErrAlreadyAttached = errors.New("another autosubsync daemon is attached to this player")

const inputBuffer = 64

// Player is a host session that also delivers bound key events.
type Player interface {
	host.Session
	Inputs(ctx context.Context) <-chan host.Input
	Done() <-chan struct{}
}

// Option customizes the invokers behind the menu.
type Option func(*options)

type options struct {
	syncOpts    []subsync.InvokerOption
	extractOpts []extract.InvokerOption
}

// WithSyncOptions passes options to the sync invoker.
func WithSyncOptions(opts ...subsync.InvokerOption) Option {
	return func(o *options) { o.syncOpts = append(o.syncOpts, opts...) }
}

// WithExtractOptions passes options to the extraction invoker.
func WithExtractOptions(opts ...extract.InvokerOption) Option {
	return func(o *options) { o.extractOpts = append(o.extractOpts, opts...) }
}

// NewMachine wires a menu machine, its invokers and the OSD notifier to
// session.
func NewMachine(cfg *config.Config, session host.Session, logger *slog.Logger, opts ...Option) (*menu.Machine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return menu.NewMachine(cfg, menu.Dependencies{
		Host:      session,
		Inspector: tracks.NewInspector(session),
		Presenter: overlay.NewPresenter(session, overlay.StyleFromConfig(cfg.Overlay), logger),
		Syncer:    subsync.NewInvoker(cfg, session, logger, o.syncOpts...),
		Extractor: extract.NewInvoker(cfg, logger, o.extractOpts...),
		Notifier:  notifications.NewService(cfg, session, logger),
		Session:   menu.NewSession(),
		Logger:    logger,
	})
}

// Daemon serves the sync menu for one player and enforces single-attach
// per player socket.
type Daemon struct {
	cfg     *config.Config
	player  Player
	logger  *slog.Logger
	machine *menu.Machine

	lockPath string
	lock     *flock.Flock
	running  atomic.Bool
}

// New wires the menu machine and its invokers to player.
func New(cfg *config.Config, player Player, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || player == nil {
		return nil, errors.New("daemon requires config and player")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	machine, err := NewMachine(cfg, player, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("build menu: %w", err)
	}
	lockPath := LockPath(cfg.MPV.SocketPath)
	return &Daemon{
		cfg:      cfg,
		player:   player,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		machine:  machine,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath is the lock file guarding the player socket at socketPath. Run
// releases the lock but leaves the file in place.
func LockPath(socketPath string) string {
	return socketPath + ".autosubsync.lock"
}

// Running reports whether Run is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Run binds the entry key and serves menu input until ctx is cancelled or
// the player goes away.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyAttached, d.lockPath)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	entry := []host.Binding{{Key: d.cfg.MPV.EntryKey, Event: menu.EventOpen}}
	if err := d.player.BindKeys(ctx, EntrySection, entry, false); err != nil {
		return fmt.Errorf("bind entry key: %w", err)
	}
	d.logger.Info("autosubsync attached",
		logging.String("socket", d.cfg.MPV.SocketPath),
		logging.String("entry_key", d.cfg.MPV.EntryKey),
		logging.String("lock", d.lockPath),
	)

	g, gctx := errgroup.WithContext(ctx)
	inputs := make(chan host.Input, inputBuffer)
	g.Go(func() error {
		defer close(inputs)
		return d.read(gctx, inputs)
	})
	g.Go(func() error {
		return d.serve(gctx, inputs)
	})
	err = g.Wait()

	d.release()
	if errors.Is(err, errPlayerGone) {
		d.logger.Info("player closed, detaching")
		return nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	d.logger.Info("autosubsync detached")
	return nil
}

var errPlayerGone = errors.New("player connection closed")

// read forwards player input until the player or ctx ends.
func (d *Daemon) read(ctx context.Context, out chan<- host.Input) error {
	src := d.player.Inputs(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.player.Done():
			return errPlayerGone
		case in, ok := <-src:
			if !ok {
				select {
				case <-d.player.Done():
					return errPlayerGone
				default:
					return ctx.Err()
				}
			}
			select {
			case out <- in:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// serve owns the machine: inputs are handled one at a time, and sync runs
// block further handling until they return.
func (d *Daemon) serve(ctx context.Context, inputs <-chan host.Input) error {
	for in := range inputs {
		if err := d.handle(ctx, in); err != nil {
			d.logger.Debug("input handling ended with error", logging.String("event", in.Event), logging.Error(err))
		}
	}
	return nil
}

func (d *Daemon) handle(ctx context.Context, in host.Input) error {
	if in.Event == menu.EventOpen {
		if staleEntry(in, d.machine.LastRunEnded()) {
			d.logger.Info("entry key pressed during sync run, ignored",
				logging.String(logging.FieldEventType, "entry_dropped"),
				logging.Any("received_at", in.ReceivedAt),
			)
			return nil
		}
		return d.machine.Open(ctx)
	}
	action, ok := menu.ParseAction(in.Event)
	if !ok {
		d.logger.Debug("unknown input event", logging.String("event", in.Event))
		return nil
	}
	return d.machine.Handle(ctx, action)
}

// staleEntry reports whether an entry press arrived before the last run
// finished.
func staleEntry(in host.Input, lastRunEnded time.Time) bool {
	if lastRunEnded.IsZero() || in.ReceivedAt.IsZero() {
		return false
	}
	return in.ReceivedAt.Before(lastRunEnded)
}

// release drops the bindings and any open menu while the player is still
// reachable.
func (d *Daemon) release() {
	select {
	case <-d.player.Done():
		return
	default:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if d.machine.IsOpen() {
		_ = d.machine.Handle(ctx, menu.ActionCancel)
	}
	if err := d.player.UnbindKeys(ctx, EntrySection); err != nil {
		d.logger.Debug("entry key release failed", logging.Error(err))
	}
}
