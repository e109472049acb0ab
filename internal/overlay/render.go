package overlay

import (
	"fmt"
	"strings"

	"autosubsync/internal/config"
)

// Style is the menu's presentation. Colors are RRGGBB.
type Style struct {
	OriginX       int
	OriginY       int
	FontSize      int
	ItemSpacing   int
	Padding       int
	Width         int
	ActiveColor   string
	InactiveColor string
	BorderColor   string
	Background    string
}

// StyleFromConfig copies the overlay section of cfg.
func StyleFromConfig(cfg config.Overlay) Style {
	return Style{
		OriginX:       cfg.OriginX,
		OriginY:       cfg.OriginY,
		FontSize:      cfg.FontSize,
		ItemSpacing:   cfg.ItemSpacing,
		Padding:       cfg.Padding,
		Width:         cfg.Width,
		ActiveColor:   cfg.ActiveColor,
		InactiveColor: cfg.InactiveColor,
		BorderColor:   cfg.BorderColor,
		Background:    cfg.Background,
	}
}

// Rect is one menu entry's box.
type Rect struct {
	X, Y, W, H int
	Label      string
	Active     bool
}

// ItemHeight is the height of one entry box.
func (s Style) ItemHeight() int {
	return s.FontSize + 2*s.Padding
}

// Layout stacks one box per item downward from the origin. selected is
// 1-based; the matching box is marked active.
func Layout(items []string, selected int, style Style) []Rect {
	rects := make([]Rect, 0, len(items))
	step := style.ItemHeight() + style.ItemSpacing
	for i, label := range items {
		rects = append(rects, Rect{
			X:      style.OriginX,
			Y:      style.OriginY + i*step,
			W:      style.Width,
			H:      style.ItemHeight(),
			Label:  label,
			Active: i+1 == selected,
		})
	}
	return rects
}

// Render turns boxes into ASS events: a filled drawing for each box followed
// by its label.
func Render(rects []Rect, style Style) string {
	if len(rects) == 0 {
		return ""
	}
	border := assColor(style.BorderColor)
	background := assColor(style.Background)

	var b strings.Builder
	for _, r := range rects {
		textColor := assColor(style.InactiveColor)
		if r.Active {
			textColor = assColor(style.ActiveColor)
		}
		fmt.Fprintf(&b, "{\\an7\\pos(0,0)\\bord2\\shad0\\1c&H%s&\\3c&H%s&\\1a&H40&\\p1}m %d %d l %d %d l %d %d l %d %d{\\p0}\n",
			background, border,
			r.X, r.Y, r.X+r.W, r.Y, r.X+r.W, r.Y+r.H, r.X, r.Y+r.H)
		fmt.Fprintf(&b, "{\\an7\\pos(%d,%d)\\fs%d\\bord1\\shad0\\1c&H%s&\\3c&H%s&}%s\n",
			r.X+style.Padding, r.Y+style.Padding, style.FontSize,
			textColor, border, escape(r.Label))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// assColor converts RRGGBB to the BBGGRR order ASS expects.
func assColor(rgb string) string {
	if len(rgb) != 6 {
		return "FFFFFF"
	}
	return strings.ToUpper(rgb[4:6] + rgb[2:4] + rgb[0:2])
}

var labelEscaper = strings.NewReplacer(
	"\\", "\\\u200b",
	"{", "\\{",
	"}", "\\}",
	"\n", " ",
)

func escape(label string) string {
	return labelEscaper.Replace(label)
}
