// Package playerwidget wires player chrome to a media primitive: the
// play/pause toggle, seek track, volume and rate controls, skip buttons
// and click handling on the media surface.
package playerwidget

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"vidplayer/internal/config"
)

const (
	// labels show the action that just started
	labelPlaying = "⏸"
	labelPaused  = "▶"
)

var (
	ErrNoVideoURL        = errors.New("video url is not set")
	ErrNoContainer       = errors.New("container selector is not set")
	ErrContainerNotFound = errors.New("container not found")
)

// dragGesture tracks whether a press started on a control and has not
// been released yet.
type dragGesture struct {
	active bool
}

type Widget struct {
	cfg      config.Settings
	renderer Renderer
	host     Host
	log      *slog.Logger
	sched    Scheduler

	media    Media
	surface  Surface
	toggle   ToggleButton
	fill     ProgressFill
	track    PointerTarget
	volume   Level
	rate     Level
	skipBtns []SkipButton

	trackDrag  dragGesture
	volumeDrag dragGesture
	rateDrag   dragGesture
	clicks     *clickTracker

	onPlaybackChanged func(playing bool)
}

// New creates an uninitialized widget. Nothing is rendered until
// Initialize is called.
func New(cfg config.Settings, r Renderer, h Host, log *slog.Logger) *Widget {
	if log == nil {
		log = slog.Default()
	}
	return &Widget{
		cfg:      cfg,
		renderer: r,
		host:     h,
		log:      log.With("component", "playerwidget"),
		sched:    RealTime,
	}
}

// SetScheduler replaces the scheduler used for click disambiguation.
// It must be called before Initialize.
func (w *Widget) SetScheduler(s Scheduler) {
	w.sched = s
}

// OnPlaybackChanged registers a callback run after every successful
// Toggle with the resulting playing state.
func (w *Widget) OnPlaybackChanged(f func(playing bool)) {
	w.onPlaybackChanged = f
}

// Initialize renders the chrome into the configured container, binds the
// controls and attaches event handlers. On failure it logs once and
// returns the error; the widget must not be used afterwards.
func (w *Widget) Initialize() error {
	if w.cfg.VideoURL == "" {
		w.log.Error("cannot initialize player", "error", ErrNoVideoURL)
		return ErrNoVideoURL
	}
	if w.cfg.Container == "" {
		w.log.Error("cannot initialize player", "error", ErrNoContainer)
		return ErrNoContainer
	}

	frag, err := w.renderer.Render(w.cfg)
	if err != nil {
		w.log.Error("cannot render player", "url", w.cfg.VideoURL, "error", err)
		return fmt.Errorf("render player: %w", err)
	}
	if err := w.host.Prepend(w.cfg.Container, frag); err != nil {
		w.log.Error("cannot mount player", "container", w.cfg.Container, "error", err)
		if r, ok := frag.(Releaser); ok {
			r.Release()
		}
		return fmt.Errorf("mount player into %q: %w", w.cfg.Container, err)
	}

	w.bind(frag.Controls())
	w.attach()

	w.logErr("set volume", w.media.SetVolume(w.cfg.Volume))
	w.logErr("set playback rate", w.media.SetPlaybackRate(w.cfg.PlaybackRate))
	w.log.Debug("player initialized", "url", w.cfg.VideoURL, "container", w.cfg.Container, "shape", w.cfg.Shape)
	return nil
}

func (w *Widget) bind(c Controls) {
	w.media = c.Media
	w.surface = c.Surface
	w.toggle = c.Toggle
	w.fill = c.Fill
	w.track = c.Track
	w.volume = c.Volume
	w.rate = c.Rate
	w.skipBtns = c.SkipBtns
	w.clicks = newClickTracker(w.cfg.Window(), w.sched)
}

func (w *Widget) attach() {
	w.surface.OnClick(w.handleSurfaceClick)
	w.media.OnTimeUpdate(w.updateProgress)

	w.toggle.OnTapped(w.Toggle)

	w.track.OnClick(w.scrub)
	w.track.OnPointerMove(func(e PointerEvent) {
		if w.trackDrag.active {
			w.scrub(e)
		}
	})
	w.track.OnPointerDown(func(PointerEvent) { w.trackDrag.active = true })
	w.track.OnPointerUp(func(PointerEvent) { w.trackDrag.active = false })

	w.attachLevel(w.volume, &w.volumeDrag, w.setVolume)
	w.attachLevel(w.rate, &w.rateDrag, w.setPlaybackRate)

	for _, b := range w.skipBtns {
		b := b
		b.OnTapped(func() { w.skip(b.Offset()) })
	}
}

// attachLevel binds a volume or rate control to apply, using the same
// press/move/release convention as the seek track for drag surfaces.
func (w *Widget) attachLevel(l Level, drag *dragGesture, apply func(float64)) {
	if l.Input != nil {
		l.Input.OnInput(apply)
		return
	}
	d := l.Drag
	set := func(e PointerEvent) {
		v := levelValue(d, e.X)
		d.SetValue(v)
		apply(v)
	}
	d.OnClick(set)
	d.OnPointerMove(func(e PointerEvent) {
		if drag.active {
			set(e)
		}
	})
	d.OnPointerDown(func(PointerEvent) { drag.active = true })
	d.OnPointerUp(func(PointerEvent) { drag.active = false })
}

func levelValue(d DragLevel, x float64) float64 {
	lo, hi := d.Bounds()
	v := lo + x/d.Width()*(hi-lo)
	return math.Max(lo, math.Min(hi, v))
}

// Toggle starts playback if the media is paused and pauses it otherwise.
func (w *Widget) Toggle() {
	paused := w.media.Paused()
	var err error
	if paused {
		w.toggle.SetText(labelPlaying)
		err = w.media.Play()
		w.logErr("play", err)
	} else {
		w.toggle.SetText(labelPaused)
		err = w.media.Pause()
		w.logErr("pause", err)
	}
	if err == nil && w.onPlaybackChanged != nil {
		w.onPlaybackChanged(paused)
	}
}

func (w *Widget) updateProgress() {
	percent := w.media.CurrentTime() / w.media.Duration() * 100
	w.fill.SetPercent(percent)
}

func (w *Widget) scrub(e PointerEvent) {
	fraction := e.X / w.track.Width()
	w.logErr("seek", w.media.SetCurrentTime(fraction*w.media.Duration()))
}

func (w *Widget) setVolume(v float64) {
	w.logErr("set volume", w.media.SetVolume(v))
}

func (w *Widget) setPlaybackRate(r float64) {
	w.logErr("set playback rate", w.media.SetPlaybackRate(r))
}

// skip moves forward by |SkipNext| for a positive direction and back
// by |SkipPrev| otherwise. The result is not clamped.
func (w *Widget) skip(direction float64) {
	cur := w.media.CurrentTime()
	var target float64
	if direction > 0 {
		target = cur + math.Abs(w.cfg.SkipNext)
	} else {
		target = cur - math.Abs(w.cfg.SkipPrev)
	}
	w.logErr("skip", w.media.SetCurrentTime(target))
}

func (w *Widget) handleSurfaceClick(e ClickEvent) {
	switch e.Detail {
	case 1:
		w.clicks.arm(w.Toggle)
	case 2:
		w.clicks.disarm()
		w.skipAt(e.X)
	}
}

// skipAt skips forward for clicks right of the picture's midpoint and
// backward otherwise.
func (w *Widget) skipAt(x float64) {
	if w.media.NaturalWidth()/2 < x {
		w.skip(1)
	} else {
		w.skip(-1)
	}
}

func (w *Widget) logErr(op string, err error) {
	if err != nil {
		w.log.Warn("media operation failed", "op", op, "error", err)
	}
}
