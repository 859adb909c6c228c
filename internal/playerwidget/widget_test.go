package playerwidget

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidplayer/internal/config"
)

func TestInitializeRequiresVideoURLAndContainer(t *testing.T) {
	tests := []struct {
		name string
		url  string
		sel  string
		want error
	}{
		{"no video url", "", "myplayer", ErrNoVideoURL},
		{"no container", "video/mov_bbb.mp4", "", ErrNoContainer},
		{"neither", "", "", ErrNoVideoURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.VideoURL = tt.url
			cfg.Container = tt.sel
			r := newRig(cfg)

			err := r.w.Initialize()
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, r.render.renders, "nothing rendered")
			assert.Equal(t, 0, r.host.mounted(), "nothing mounted")
			assert.Equal(t, 1, r.logRecords(), "exactly one diagnostic")
		})
	}
}

func TestInitializeUnresolvableContainer(t *testing.T) {
	cfg := validConfig()
	cfg.Container = "missing"
	r := newRig(cfg)

	err := r.w.Initialize()
	assert.ErrorIs(t, err, ErrContainerNotFound)
	assert.Equal(t, 0, r.host.mounted())
	assert.Equal(t, 1, r.logRecords())
	assert.Nil(t, r.surface.onClick, "no handlers bound")
	assert.Equal(t, 1, r.render.frag.released, "unmounted fragment is released")
}

func TestInitializeMountsAndBinds(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	assert.Equal(t, "video/mov_bbb.mp4", r.render.got.VideoURL)
	require.Len(t, r.host.containers["myplayer"], 1)
	assert.Zero(t, r.logRecords())
	assert.Zero(t, r.render.frag.released)

	assert.NotNil(t, r.surface.onClick)
	assert.NotNil(t, r.media.onTimeUpdate)
	assert.NotNil(t, r.toggle.onTapped)
	assert.NotNil(t, r.track.click)
	assert.NotNil(t, r.track.move)
	assert.NotNil(t, r.volume.onInput)
	assert.NotNil(t, r.rate.onInput)
	assert.NotNil(t, r.back.onTapped)
	assert.NotNil(t, r.fwd.onTapped)

	// initial control values are pushed to the media
	assert.Equal(t, 0.5, r.media.volume)
	assert.Equal(t, 1.0, r.media.rate)
}

func TestInitializeTwiceMountsTwice(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())
	require.NoError(t, r.w.Initialize())
	assert.Len(t, r.host.containers["myplayer"], 2)
}

type failingRenderer struct{}

func (failingRenderer) Render(config.Settings) (Fragment, error) {
	return nil, errors.New("no such file")
}

func TestInitializeRenderFailure(t *testing.T) {
	r := newRig(validConfig())
	r.w.renderer = failingRenderer{}

	err := r.w.Initialize()
	assert.ErrorContains(t, err, "no such file")
	assert.Equal(t, 0, r.host.mounted())
	assert.Equal(t, 1, r.logRecords())
}

func TestToggle(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.w.Toggle()
	assert.False(t, r.media.paused)
	assert.Equal(t, labelPlaying, r.toggle.text)

	r.w.Toggle()
	assert.True(t, r.media.paused)
	assert.Equal(t, labelPaused, r.toggle.text)
	assert.Equal(t, 1, r.media.plays)
	assert.Equal(t, 1, r.media.pauses)
}

func TestToggleButton(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	var changes []bool
	r.w.OnPlaybackChanged(func(playing bool) { changes = append(changes, playing) })

	r.toggle.onTapped()
	r.toggle.onTapped()
	r.toggle.onTapped()
	assert.Equal(t, 2, r.media.plays)
	assert.Equal(t, 1, r.media.pauses)
	assert.Equal(t, []bool{true, false, true}, changes)
}

func TestProgress(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.media.tick(25)
	r.media.tick(50)
	assert.Equal(t, []float64{25, 50}, r.fill.percents)
}

func TestProgressZeroDurationIsNotFatal(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())
	r.media.duration = 0

	r.media.tick(0)
	require.Len(t, r.fill.percents, 1)
	assert.True(t, math.IsNaN(r.fill.percents[0]))
}

func TestSeekClick(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.track.click(PointerEvent{X: 100}) // half of 200
	assert.Equal(t, 50.0, r.media.currentTime)
}

func TestScrubOnlyWhileDragging(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.track.move(PointerEvent{X: 50})
	assert.Empty(t, r.media.seeks, "hover without press does not seek")

	r.track.down(PointerEvent{X: 50})
	r.track.move(PointerEvent{X: 50})
	r.track.move(PointerEvent{X: 150})
	r.track.up(PointerEvent{X: 150})
	r.track.move(PointerEvent{X: 20})

	assert.Equal(t, []float64{25, 75}, r.media.seeks)
}

func TestSkip(t *testing.T) {
	cfg := validConfig()
	cfg.SkipNext = 2
	cfg.SkipPrev = 1.5
	r := newRig(cfg)
	require.NoError(t, r.w.Initialize())

	r.media.currentTime = 10
	r.w.skip(1)
	assert.Equal(t, 12.0, r.media.currentTime)

	r.media.currentTime = 10
	r.w.skip(-1)
	assert.Equal(t, 8.5, r.media.currentTime)
}

func TestSkipNormalizesSign(t *testing.T) {
	cfg := validConfig()
	cfg.SkipNext = -2
	cfg.SkipPrev = -1.5
	r := newRig(cfg)
	require.NoError(t, r.w.Initialize())

	r.media.currentTime = 10
	r.fwd.onTapped()
	assert.Equal(t, 12.0, r.media.currentTime)

	r.back.onTapped()
	assert.Equal(t, 10.5, r.media.currentTime)

	// zero counts as backward
	r.w.skip(0)
	assert.Equal(t, 9.0, r.media.currentTime)
}

func TestSkipIsNotClamped(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.media.currentTime = 0.5
	r.back.onTapped()
	assert.Equal(t, -0.5, r.media.currentTime)
}

func TestRangeInputs(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.volume.onInput(0.8)
	r.rate.onInput(1.5)
	assert.Equal(t, 0.8, r.media.volume)
	assert.Equal(t, 1.5, r.media.rate)
}

func TestDragLevels(t *testing.T) {
	r := newRig(validConfig())
	vol := &fakeDragLevel{fakePointer: fakePointer{width: 100}, min: 0, max: 1}
	rate := &fakeDragLevel{fakePointer: fakePointer{width: 100}, min: 0.5, max: 2}
	r.render.frag.controls.Volume = Level{Drag: vol}
	r.render.frag.controls.Rate = Level{Drag: rate}
	require.NoError(t, r.w.Initialize())

	vol.click(PointerEvent{X: 80})
	assert.InDelta(t, 0.8, r.media.volume, 1e-9)
	assert.InDelta(t, 0.8, vol.value, 1e-9)

	rate.click(PointerEvent{X: 200})
	assert.Equal(t, 2.0, r.media.rate, "clamped to the surface bounds")

	// moves only apply while pressed, independently per control
	vol.move(PointerEvent{X: 10})
	assert.InDelta(t, 0.8, r.media.volume, 1e-9)

	vol.down(PointerEvent{X: 10})
	rate.move(PointerEvent{X: 0})
	assert.Equal(t, 2.0, r.media.rate, "rate surface was not pressed")
	vol.move(PointerEvent{X: 30})
	assert.InDelta(t, 0.3, r.media.volume, 1e-9)
	vol.up(PointerEvent{X: 30})
	vol.move(PointerEvent{X: 90})
	assert.InDelta(t, 0.3, r.media.volume, 1e-9)
}

func TestSingleClickToggles(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.surface.onClick(ClickEvent{Detail: 1, X: 10})
	assert.Equal(t, 0, r.media.plays, "toggle waits for the window")
	assert.Equal(t, 1, r.sched.outstanding())
	assert.Equal(t, config.DefaultClickWindow, r.sched.timers[0].d, "default window")

	assert.Equal(t, 1, r.sched.fire())
	assert.Equal(t, 1, r.media.plays)
	assert.Equal(t, 0, r.media.pauses)
	assert.Equal(t, clickIdle, r.w.clicks.current())
}

func TestDoubleClickSkipsInsteadOfToggling(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())
	r.media.currentTime = 10

	r.surface.onClick(ClickEvent{Detail: 1, X: 600})
	r.surface.onClick(ClickEvent{Detail: 2, X: 600})

	assert.Equal(t, 0, r.sched.fire())
	assert.Equal(t, 0, r.media.plays+r.media.pauses, "no toggle")
	assert.Equal(t, []float64{11}, r.media.seeks, "exactly one skip")
}

func TestDoubleClickDirection(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"left half", 100, 9},
		{"midpoint counts as left", 320, 9},
		{"right half", 500, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(validConfig())
			require.NoError(t, r.w.Initialize())
			r.media.currentTime = 10

			r.surface.onClick(ClickEvent{Detail: 2, X: tt.x})
			assert.Equal(t, tt.want, r.media.currentTime)
		})
	}
}

func TestOtherClickCountsIgnored(t *testing.T) {
	r := newRig(validConfig())
	require.NoError(t, r.w.Initialize())

	r.surface.onClick(ClickEvent{Detail: 3, X: 600})
	assert.Empty(t, r.media.seeks)
	assert.Zero(t, r.sched.outstanding())
}

func TestClickWindowFromConfig(t *testing.T) {
	cfg := validConfig()
	cfg.ClickWindow = 500 * time.Millisecond
	r := newRig(cfg)
	require.NoError(t, r.w.Initialize())

	r.surface.onClick(ClickEvent{Detail: 1})
	require.Len(t, r.sched.timers, 1)
	assert.Equal(t, 500*time.Millisecond, r.sched.timers[0].d)
}

func TestSeparateSingleClicksInLongWindowToggleOnce(t *testing.T) {
	// Two single clicks further apart than the double-click interval
	// but inside the click window: the second arm replaces the first.
	cfg := validConfig()
	cfg.ClickWindow = 800 * time.Millisecond
	r := newRig(cfg)
	require.NoError(t, r.w.Initialize())

	r.surface.onClick(ClickEvent{Detail: 1, X: 10})
	r.surface.onClick(ClickEvent{Detail: 1, X: 10})
	assert.Equal(t, 1, r.sched.outstanding())

	assert.Equal(t, 1, r.sched.fire())
	assert.Equal(t, 1, r.media.plays)
	assert.Zero(t, r.media.pauses)
	assert.Empty(t, r.media.seeks)
}

type errMedia struct {
	*fakeMedia
}

func (errMedia) Play() error { return errors.New("decoder gone") }

func TestMediaErrorsAreLogged(t *testing.T) {
	r := newRig(validConfig())
	r.render.frag.controls.Media = errMedia{r.media}
	require.NoError(t, r.w.Initialize())

	var changes []bool
	r.w.OnPlaybackChanged(func(playing bool) { changes = append(changes, playing) })

	r.w.Toggle()
	assert.Contains(t, r.logs.String(), "decoder gone")
	assert.Equal(t, labelPlaying, r.toggle.text)
	assert.Empty(t, changes, "failed play is not reported")
}
