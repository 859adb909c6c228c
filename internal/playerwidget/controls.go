package playerwidget

import "vidplayer/internal/config"

// Media is the playback primitive the widget drives. Times are in seconds.
type Media interface {
	Paused() bool
	Play() error
	Pause() error
	CurrentTime() float64
	SetCurrentTime(seconds float64) error
	Duration() float64
	SetVolume(v float64) error
	SetPlaybackRate(r float64) error
	// NaturalWidth is the intrinsic width of the picture.
	NaturalWidth() float64
	OnTimeUpdate(f func())
}

// ClickEvent is a click on the media surface. Detail is the number of
// consecutive clicks (1 single, 2 double). X is the horizontal offset in
// the media's natural coordinates.
type ClickEvent struct {
	Detail int
	X      float64
}

// PointerEvent carries the horizontal offset of a pointer relative to
// the control it happened on.
type PointerEvent struct {
	X float64
}

type Surface interface {
	OnClick(f func(ClickEvent))
}

type Button interface {
	OnTapped(f func())
}

type ToggleButton interface {
	Button
	SetText(text string)
}

// SkipButton is a button tagged with a signed skip direction.
type SkipButton interface {
	Button
	Offset() float64
}

type ProgressFill interface {
	SetPercent(percent float64)
}

// PointerTarget is a control reporting clicks and press/move/release
// gestures with offsets relative to its rendered width.
type PointerTarget interface {
	Width() float64
	OnClick(f func(PointerEvent))
	OnPointerDown(f func(PointerEvent))
	OnPointerUp(f func(PointerEvent))
	OnPointerMove(f func(PointerEvent))
}

// RangeInput is a native range control enforcing its own bounds.
type RangeInput interface {
	OnInput(f func(float64))
}

// DragLevel is a custom surface that maps pointer offsets into [Min,Max].
type DragLevel interface {
	PointerTarget
	Bounds() (min, max float64)
	SetValue(v float64)
}

// Level is a volume or playback-rate control in one of two shapes.
// Exactly one of Input and Drag is set.
type Level struct {
	Input RangeInput
	Drag  DragLevel
}

// Controls are the handles the widget binds to after mounting.
type Controls struct {
	Media    Media
	Surface  Surface
	Toggle   ToggleButton
	Fill     ProgressFill
	Track    PointerTarget
	Volume   Level
	Rate     Level
	SkipBtns []SkipButton
}

// Fragment is rendered player chrome that has not been bound yet.
type Fragment interface {
	Controls() Controls
}

// Releaser is implemented by fragments holding resources, such as an
// opened media backend. Initialize releases a fragment it cannot mount.
type Releaser interface {
	Release()
}

// Renderer builds the chrome for a configuration, populated with its
// literal values.
type Renderer interface {
	Render(cfg config.Settings) (Fragment, error)
}

// Host mounts a fragment as the first child of the container identified
// by selector. It returns ErrContainerNotFound if the selector does not
// resolve.
type Host interface {
	Prepend(selector string, f Fragment) error
}
