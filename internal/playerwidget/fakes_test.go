package playerwidget

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"time"

	"vidplayer/internal/config"
)

type fakeMedia struct {
	paused       bool
	currentTime  float64
	duration     float64
	volume       float64
	rate         float64
	naturalWidth float64

	plays, pauses int
	seeks         []float64
	onTimeUpdate  func()
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{paused: true, duration: 100, volume: 1, rate: 1, naturalWidth: 640}
}

func (m *fakeMedia) Paused() bool { return m.paused }

func (m *fakeMedia) Play() error {
	m.plays++
	m.paused = false
	return nil
}

func (m *fakeMedia) Pause() error {
	m.pauses++
	m.paused = true
	return nil
}

func (m *fakeMedia) CurrentTime() float64 { return m.currentTime }

func (m *fakeMedia) SetCurrentTime(s float64) error {
	m.seeks = append(m.seeks, s)
	m.currentTime = s
	return nil
}

func (m *fakeMedia) Duration() float64               { return m.duration }
func (m *fakeMedia) SetVolume(v float64) error       { m.volume = v; return nil }
func (m *fakeMedia) SetPlaybackRate(r float64) error { m.rate = r; return nil }
func (m *fakeMedia) NaturalWidth() float64           { return m.naturalWidth }
func (m *fakeMedia) OnTimeUpdate(f func())           { m.onTimeUpdate = f }

// tick moves the playhead and delivers a time update.
func (m *fakeMedia) tick(cur float64) {
	m.currentTime = cur
	m.onTimeUpdate()
}

type fakeSurface struct{ onClick func(ClickEvent) }

func (s *fakeSurface) OnClick(f func(ClickEvent)) { s.onClick = f }

type fakeToggle struct {
	text     string
	onTapped func()
}

func (b *fakeToggle) OnTapped(f func())   { b.onTapped = f }
func (b *fakeToggle) SetText(text string) { b.text = text }

type fakeSkip struct {
	offset   float64
	onTapped func()
}

func (b *fakeSkip) OnTapped(f func()) { b.onTapped = f }
func (b *fakeSkip) Offset() float64   { return b.offset }

type fakeFill struct{ percents []float64 }

func (f *fakeFill) SetPercent(p float64) { f.percents = append(f.percents, p) }

type fakePointer struct {
	width                 float64
	click, down, up, move func(PointerEvent)
}

func (p *fakePointer) Width() float64                     { return p.width }
func (p *fakePointer) OnClick(f func(PointerEvent))       { p.click = f }
func (p *fakePointer) OnPointerDown(f func(PointerEvent)) { p.down = f }
func (p *fakePointer) OnPointerUp(f func(PointerEvent))   { p.up = f }
func (p *fakePointer) OnPointerMove(f func(PointerEvent)) { p.move = f }

type fakeRange struct{ onInput func(float64) }

func (r *fakeRange) OnInput(f func(float64)) { r.onInput = f }

type fakeDragLevel struct {
	fakePointer
	min, max float64
	value    float64
}

func (d *fakeDragLevel) Bounds() (float64, float64) { return d.min, d.max }
func (d *fakeDragLevel) SetValue(v float64)         { d.value = v }

type fakeFragment struct {
	controls Controls
	released int
}

func (f *fakeFragment) Controls() Controls { return f.controls }
func (f *fakeFragment) Release()           { f.released++ }

type fakeRenderer struct {
	frag    *fakeFragment
	renders int
	got     config.Settings
}

func (r *fakeRenderer) Render(cfg config.Settings) (Fragment, error) {
	r.renders++
	r.got = cfg
	return r.frag, nil
}

type fakeHost struct {
	containers map[string][]Fragment
}

func (h *fakeHost) Prepend(selector string, f Fragment) error {
	children, ok := h.containers[selector]
	if !ok {
		return ErrContainerNotFound
	}
	h.containers[selector] = append([]Fragment{f}, children...)
	return nil
}

func (h *fakeHost) mounted() int {
	n := 0
	for _, c := range h.containers {
		n += len(c)
	}
	return n
}

// manualScheduler fires timers only when fire is called.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs every timer that is neither stopped nor fired yet.
func (s *manualScheduler) fire() int {
	s.mu.Lock()
	pending := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			pending = append(pending, t)
		}
	}
	s.mu.Unlock()
	for _, t := range pending {
		t.f()
	}
	return len(pending)
}

func (s *manualScheduler) outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type rig struct {
	w       *Widget
	media   *fakeMedia
	surface *fakeSurface
	toggle  *fakeToggle
	fill    *fakeFill
	track   *fakePointer
	volume  *fakeRange
	rate    *fakeRange
	back    *fakeSkip
	fwd     *fakeSkip
	host    *fakeHost
	render  *fakeRenderer
	sched   *manualScheduler
	logs    *bytes.Buffer
}

func newRig(cfg config.Settings) *rig {
	r := &rig{
		media:   newFakeMedia(),
		surface: &fakeSurface{},
		toggle:  &fakeToggle{text: labelPaused},
		fill:    &fakeFill{},
		track:   &fakePointer{width: 200},
		volume:  &fakeRange{},
		rate:    &fakeRange{},
		back:    &fakeSkip{offset: -1},
		fwd:     &fakeSkip{offset: 1},
		host:    &fakeHost{containers: map[string][]Fragment{"body": nil, "myplayer": nil}},
		sched:   &manualScheduler{},
		logs:    &bytes.Buffer{},
	}
	r.render = &fakeRenderer{frag: &fakeFragment{controls: Controls{
		Media:    r.media,
		Surface:  r.surface,
		Toggle:   r.toggle,
		Fill:     r.fill,
		Track:    r.track,
		Volume:   Level{Input: r.volume},
		Rate:     Level{Input: r.rate},
		SkipBtns: []SkipButton{r.back, r.fwd},
	}}}
	log := slog.New(slog.NewTextHandler(r.logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	r.w = New(cfg, r.render, r.host, log)
	r.w.SetScheduler(r.sched)
	return r
}

func (r *rig) logRecords() int {
	return strings.Count(r.logs.String(), "\n")
}

func validConfig() config.Settings {
	cfg := config.Default()
	cfg.VideoURL = "video/mov_bbb.mp4"
	cfg.Container = "myplayer"
	return cfg
}
