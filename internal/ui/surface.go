package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"vidplayer/internal/playerwidget"
)

// DoubleClickInterval is the longest gap between two taps that still
// counts them as one multi-click.
const DoubleClickInterval = 500 * time.Millisecond

// mediaSurface shows the picture and reports every tap at once with a
// click count, instead of implementing fyne.DoubleTappable.
type mediaSurface struct {
	widget.BaseWidget

	content fyne.CanvasObject
	natural func() float64
	now     func() time.Time

	lastTap time.Time
	count   int
	onClick func(playerwidget.ClickEvent)
}

var _ fyne.Tappable = (*mediaSurface)(nil)

func newMediaSurface(content fyne.CanvasObject, natural func() float64) *mediaSurface {
	s := &mediaSurface{content: content, natural: natural, now: time.Now}
	s.ExtendBaseWidget(s)
	return s
}

func (s *mediaSurface) OnClick(f func(playerwidget.ClickEvent)) { s.onClick = f }

func (s *mediaSurface) Tapped(e *fyne.PointEvent) {
	now := s.now()
	if s.count > 0 && now.Sub(s.lastTap) <= DoubleClickInterval {
		s.count++
	} else {
		s.count = 1
	}
	s.lastTap = now
	if s.onClick != nil {
		s.onClick(playerwidget.ClickEvent{Detail: s.count, X: s.naturalX(e.Position.X)})
	}
}

// naturalX maps a widget offset onto the picture's intrinsic width.
func (s *mediaSurface) naturalX(x float32) float64 {
	w := float64(s.Size().Width)
	nat := s.natural()
	if w <= 0 || nat <= 0 {
		return float64(x)
	}
	return float64(x) / w * nat
}

func (s *mediaSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.content)
}
