// Package ui renders the player chrome with Fyne and exposes it as the
// control handles the player widget binds to.
package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"vidplayer/internal/config"
	"vidplayer/internal/playerwidget"
)

// Media is a playback backend with something to show.
type Media interface {
	playerwidget.Media
	Visual() fyne.CanvasObject
	Release()
}

type withVisual struct {
	playerwidget.Media
	release func()
	visual  fyne.CanvasObject
}

func (m *withVisual) Visual() fyne.CanvasObject { return m.visual }

func (m *withVisual) Release() {
	if m.release != nil {
		m.release()
	}
}

// WithVisual pairs a backend that has no picture of its own (audio)
// with a canvas object to show instead.
func WithVisual(m playerwidget.Media, visual fyne.CanvasObject, release func()) Media {
	return &withVisual{Media: m, visual: visual, release: release}
}

// uiMedia hops time updates from the backend's goroutine onto the
// Fyne thread.
type uiMedia struct {
	playerwidget.Media
}

func (m uiMedia) OnTimeUpdate(f func()) {
	m.Media.OnTimeUpdate(func() { fyne.Do(f) })
}

// Opener opens the backend for a configured video URL.
type Opener func(videoURL string) (Media, error)

// Renderer builds Chrome for a configuration.
type Renderer struct {
	Open Opener
}

func (r *Renderer) Render(cfg config.Settings) (playerwidget.Fragment, error) {
	m, err := r.Open(cfg.VideoURL)
	if err != nil {
		return nil, err
	}
	return NewChrome(cfg, m), nil
}

type button struct {
	w      *widget.Button
	offset float64
}

func (b *button) OnTapped(f func()) { b.w.OnTapped = f }
func (b *button) SetText(s string)  { b.w.SetText(s) }
func (b *button) Offset() float64   { return b.offset }

type rangeSlider struct {
	w *widget.Slider
}

func (s *rangeSlider) OnInput(f func(float64)) { s.w.OnChanged = f }

// Chrome is the rendered player: surface, progress bar, toggle, volume
// and rate controls and the two skip buttons.
type Chrome struct {
	media   Media
	surface *mediaSurface
	toggle  *button
	track   *Bar
	back    *button
	fwd     *button

	volume, rate       playerwidget.Level
	volumeObj, rateObj fyne.CanvasObject

	root fyne.CanvasObject
}

var (
	_ playerwidget.Fragment = (*Chrome)(nil)
	_ playerwidget.Releaser = (*Chrome)(nil)
)

// NewChrome lays out the controls for m, populated with cfg's values.
func NewChrome(cfg config.Settings, m Media) *Chrome {
	c := &Chrome{media: m}

	c.surface = newMediaSurface(m.Visual(), m.NaturalWidth)
	c.track = NewProgressBar()
	c.toggle = &button{w: widget.NewButton("▶", nil)}
	c.toggle.w.Importance = widget.HighImportance
	c.back = &button{w: widget.NewButton("« "+formatSeconds(cfg.SkipPrev)+"s", nil), offset: -1}
	c.fwd = &button{w: widget.NewButton(formatSeconds(cfg.SkipNext)+"s »", nil), offset: 1}

	if cfg.Shape == config.ShapeDrag {
		vol := NewBar(0, 1, cfg.Volume)
		rate := NewBar(0.5, 2, cfg.PlaybackRate)
		c.volume, c.volumeObj = playerwidget.Level{Drag: vol}, vol
		c.rate, c.rateObj = playerwidget.Level{Drag: rate}, rate
	} else {
		vol := widget.NewSlider(0, 1)
		vol.Step = 0.05
		vol.Value = cfg.Volume
		rate := widget.NewSlider(0.5, 2)
		rate.Step = 0.1
		rate.Value = cfg.PlaybackRate
		c.volume, c.volumeObj = playerwidget.Level{Input: &rangeSlider{w: vol}}, vol
		c.rate, c.rateObj = playerwidget.Level{Input: &rangeSlider{w: rate}}, rate
	}

	levels := container.NewGridWithColumns(2,
		container.NewBorder(nil, nil, widget.NewLabel("🔊"), nil, c.volumeObj),
		container.NewBorder(nil, nil, widget.NewLabel("⏩"), nil, c.rateObj),
	)
	controls := container.NewBorder(
		c.track, nil,
		container.NewHBox(c.toggle.w, c.back.w, c.fwd.w),
		nil,
		levels,
	)
	c.root = container.NewBorder(nil, controls, nil, nil, c.surface)
	return c
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CanvasObject is the root object to place in a container.
func (c *Chrome) CanvasObject() fyne.CanvasObject { return c.root }

// Release frees the media backend.
func (c *Chrome) Release() { c.media.Release() }

func (c *Chrome) Controls() playerwidget.Controls {
	return playerwidget.Controls{
		Media:    uiMedia{c.media},
		Surface:  c.surface,
		Toggle:   c.toggle,
		Fill:     c.track,
		Track:    c.track,
		Volume:   c.volume,
		Rate:     c.rate,
		SkipBtns: []playerwidget.SkipButton{c.back, c.fwd},
	}
}
