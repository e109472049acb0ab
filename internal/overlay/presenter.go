package overlay

import (
	"context"
	"log/slog"
	"sync"

	"autosubsync/internal/host"
	"autosubsync/internal/logging"
)

const (
	fallbackWidth  = 1280
	fallbackHeight = 720
)

// Presenter draws menus on the player's OSD. It holds no menu state: every
// Show is a full redraw from the arguments.
type Presenter struct {
	session host.Session
	style   Style
	logger  *slog.Logger

	mu            sync.Mutex
	width, height int
}

// NewPresenter returns a presenter drawing with style.
func NewPresenter(session host.Session, style Style, logger *slog.Logger) *Presenter {
	return &Presenter{
		session: session,
		style:   style,
		logger:  logging.NewComponentLogger(logger, "overlay"),
	}
}

// Show draws items with the 1-based selected entry highlighted.
func (p *Presenter) Show(ctx context.Context, items []string, selected int) error {
	w, h := p.canvas(ctx)
	return p.session.Overlay(ctx, Render(Layout(items, selected, p.style), p.style), w, h)
}

// Clear removes the menu from the screen.
func (p *Presenter) Clear(ctx context.Context) error {
	w, h := p.canvas(ctx)
	return p.session.Overlay(ctx, "", w, h)
}

func (p *Presenter) canvas(ctx context.Context) (int, int) {
	w, h, err := p.session.CanvasSize(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil && w > 0 && h > 0 {
		p.width, p.height = w, h
		return w, h
	}
	if p.width > 0 && p.height > 0 {
		return p.width, p.height
	}
	p.logger.Debug("canvas size unavailable, using fallback",
		logging.Int("width", fallbackWidth), logging.Int("height", fallbackHeight))
	return fallbackWidth, fallbackHeight
}
