package ui

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"vidplayer/internal/playerwidget"
)

// Bar is a horizontal track with a proportional fill. It serves as the
// seek track with its progress fill and as the drag-surface shape of
// the volume and rate controls.
type Bar struct {
	widget.BaseWidget

	min, max float64
	value    float64
	pressed  bool

	onClick, onDown, onUp, onMove func(playerwidget.PointerEvent)
}

var (
	_ fyne.Widget            = (*Bar)(nil)
	_ fyne.Tappable          = (*Bar)(nil)
	_ fyne.Draggable         = (*Bar)(nil)
	_ desktop.Mouseable      = (*Bar)(nil)
	_ desktop.Hoverable      = (*Bar)(nil)
	_ playerwidget.DragLevel = (*Bar)(nil)
)

func NewBar(min, max, value float64) *Bar {
	b := &Bar{min: min, max: max, value: value}
	b.ExtendBaseWidget(b)
	return b
}

// NewProgressBar returns a bar measured in percent.
func NewProgressBar() *Bar {
	return NewBar(0, 100, 0)
}

func (b *Bar) Width() float64 { return float64(b.Size().Width) }

func (b *Bar) Bounds() (float64, float64) { return b.min, b.max }

func (b *Bar) Value() float64 { return b.value }

func (b *Bar) SetValue(v float64) {
	b.value = v
	b.Refresh()
}

func (b *Bar) SetPercent(percent float64) {
	b.SetValue(b.min + percent/100*(b.max-b.min))
}

// fraction is the filled share of the bar, clamped to [0,1] with NaN
// drawn as empty.
func (b *Bar) fraction() float64 {
	if b.max == b.min {
		return 0
	}
	f := (b.value - b.min) / (b.max - b.min)
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return math.Min(f, 1)
}

func (b *Bar) OnClick(f func(playerwidget.PointerEvent))       { b.onClick = f }
func (b *Bar) OnPointerDown(f func(playerwidget.PointerEvent)) { b.onDown = f }
func (b *Bar) OnPointerUp(f func(playerwidget.PointerEvent))   { b.onUp = f }
func (b *Bar) OnPointerMove(f func(playerwidget.PointerEvent)) { b.onMove = f }

func emit(f func(playerwidget.PointerEvent), pos fyne.Position) {
	if f != nil {
		f(playerwidget.PointerEvent{X: float64(pos.X)})
	}
}

func (b *Bar) Tapped(e *fyne.PointEvent) {
	emit(b.onClick, e.Position)
}

func (b *Bar) MouseDown(e *desktop.MouseEvent) {
	b.pressed = true
	emit(b.onDown, e.Position)
}

func (b *Bar) MouseUp(e *desktop.MouseEvent) {
	b.pressed = false
	emit(b.onUp, e.Position)
}

func (b *Bar) MouseIn(*desktop.MouseEvent) {}

func (b *Bar) MouseMoved(e *desktop.MouseEvent) {
	emit(b.onMove, e.Position)
}

func (b *Bar) MouseOut() {}

// Dragged is what touch input and captured mouse drags deliver. A drag
// implies a press, so one is reported if none was seen.
func (b *Bar) Dragged(e *fyne.DragEvent) {
	if !b.pressed {
		b.pressed = true
		emit(b.onDown, e.Position)
	}
	emit(b.onMove, e.Position)
}

func (b *Bar) DragEnd() {
	if b.pressed {
		b.pressed = false
		emit(b.onUp, fyne.Position{})
	}
}

func (b *Bar) CreateRenderer() fyne.WidgetRenderer {
	track := canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	fill := canvas.NewRectangle(theme.Color(theme.ColorNamePrimary))
	return &barRenderer{bar: b, track: track, fill: fill, objects: []fyne.CanvasObject{track, fill}}
}

type barRenderer struct {
	bar     *Bar
	track   *canvas.Rectangle
	fill    *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *barRenderer) Layout(size fyne.Size) {
	r.track.Move(fyne.NewPos(0, 0))
	r.track.Resize(size)
	r.fill.Move(fyne.NewPos(0, 0))
	r.fill.Resize(fyne.NewSize(size.Width*float32(r.bar.fraction()), size.Height))
}

func (r *barRenderer) MinSize() fyne.Size {
	return fyne.NewSize(theme.Padding()*8, theme.Padding()*2)
}

func (r *barRenderer) Refresh() {
	r.track.FillColor = theme.Color(theme.ColorNameInputBackground)
	r.fill.FillColor = theme.Color(theme.ColorNamePrimary)
	r.Layout(r.bar.Size())
	r.track.Refresh()
	r.fill.Refresh()
}

func (r *barRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *barRenderer) Destroy() {}
