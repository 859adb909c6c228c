//go:build !android && !ios

package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var (
	speakerOnce sync.Once
	// Use a fixed speaker sample rate and resample inputs to avoid reinitializing the audio device.
	speakerSR = beep.SampleRate(44100)

	errNoStream = errors.New("no stream loaded")
)

const tickInterval = 200 * time.Millisecond

// ArtWidth is the width reported for the audio surface, which shows
// cover art instead of a picture.
const ArtWidth = 320

type Player struct {
	mu      sync.Mutex
	stream  beep.StreamSeekCloser // original decoder stream (seekable)
	play    *beep.Resampler       // resampled wrapper used for actual playback
	vol     *effects.Volume       // volume wrapper
	volNorm float64               // [0..1]
	rate    float64
	ctrl    *beep.Ctrl
	sr      beep.SampleRate // original file's sample rate
	started bool

	onTime func()
	done   chan struct{}
}

func New() *Player { return &Player{volNorm: 1, rate: 1} }

func (p *Player) volDB() float64 {
	// Map normalized [0..1] to dB/10 range [-4..0] (i.e., -40dB to 0dB)
	v := p.volNorm
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return -4 + 4*v
}

// SetVolume sets volume with normalized value in [0,1]. 0 is near silent, 1 is 0dB.
func (p *Player) SetVolume(norm float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volNorm = norm
	if p.vol != nil {
		speaker.Lock()
		p.vol.Volume = p.volDB()
		p.vol.Silent = norm <= 0
		speaker.Unlock()
	}
	return nil
}

// SetPlaybackRate speeds up or slows down playback by scaling the
// resampling ratio.
func (p *Player) SetPlaybackRate(r float64) error {
	if r <= 0 {
		return fmt.Errorf("invalid playback rate %v", r)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = r
	if p.play != nil {
		speaker.Lock()
		p.play.SetRatio(p.baseRatio() * r)
		speaker.Unlock()
	}
	return nil
}

func (p *Player) baseRatio() float64 {
	return float64(p.sr) / float64(speakerSR)
}

func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	var (
		st     beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		st, format, err = mp3.Decode(f)
	case ".wav":
		st, format, err = wav.Decode(f)
	case ".flac":
		st, format, err = flac.Decode(f)
	case ".ogg":
		st, format, err = vorbis.Decode(f)
	default:
		err = fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, err
	}
	return st, format, nil
}

func ensureSpeaker() {
	speakerOnce.Do(func() {
		_ = speaker.Init(speakerSR, speakerSR.N(time.Second/10))
	})
}

// Load decodes path and leaves it paused at the start.
func (p *Player) Load(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Stop current playback and release previous stream
	if p.stream != nil {
		if p.ctrl != nil {
			speaker.Lock()
			p.ctrl.Paused = true
			speaker.Unlock()
		}
		_ = p.stream.Close()
		p.stream = nil
		p.play = nil
		p.ctrl = nil
	}

	st, format, err := decodeFile(path)
	if err != nil {
		return err
	}
	p.stream = st
	p.sr = format.SampleRate

	ensureSpeaker()

	p.rebuild()
	p.ctrl = &beep.Ctrl{Streamer: p.vol, Paused: true}

	// Ensure no stale streamers remain in the mixer (single-player app)
	speaker.Clear()

	p.started = false
	if p.done == nil {
		p.done = make(chan struct{})
		go p.tick(p.done)
	}
	return nil
}

// rebuild recreates the resampler and volume chain after the stream
// position changed. Callers hold p.mu.
func (p *Player) rebuild() {
	p.play = beep.ResampleRatio(4, p.baseRatio()*p.rate, p.stream)
	p.vol = &effects.Volume{Streamer: p.play, Base: 10, Volume: p.volDB(), Silent: p.volNorm <= 0}
	if p.ctrl != nil {
		p.ctrl.Streamer = p.vol
	}
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil || p.ctrl == nil {
		return errNoStream
	}
	if !p.started {
		p.started = true
		speaker.Play(p.ctrl)
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	return nil
}

// Paused reports whether playback is stopped or paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.playing()
}

func (p *Player) playing() bool {
	return p.started && p.ctrl != nil && !p.ctrl.Paused
}

// Duration returns the length of the loaded track in seconds, or 0 if
// it is unknown.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil || p.sr == 0 {
		return 0
	}
	return float64(p.stream.Len()) / float64(p.sr)
}

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil || p.sr == 0 {
		return 0
	}
	speaker.Lock()
	pos := p.stream.Position()
	speaker.Unlock()
	return float64(pos) / float64(p.sr)
}

// SetCurrentTime seeks to the given second, clamped to the track. A
// time update follows every successful seek, paused or not.
func (p *Player) SetCurrentTime(seconds float64) error {
	f, err := p.seek(seconds)
	if err != nil {
		return err
	}
	if f != nil {
		f()
	}
	return nil
}

// seek moves the stream and returns the time update callback to run
// once p.mu is released.
func (p *Player) seek(seconds float64) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil || p.sr == 0 {
		return nil, errNoStream
	}
	target := int(float64(p.sr) * seconds)
	if target < 0 {
		target = 0
	}
	// Some decoders (e.g., mp3) panic if seeking to exactly l; clamp to [0, l-1]
	if l := p.stream.Len(); l > 0 && target >= l {
		target = l - 1
	}
	speaker.Lock()
	defer speaker.Unlock()
	if err := p.stream.Seek(target); err != nil {
		return nil, err
	}
	p.rebuild()
	return p.onTime, nil
}

func (p *Player) NaturalWidth() float64 { return ArtWidth }

// OnTimeUpdate registers f to run on every playback tick. f is called
// from the ticker goroutine.
func (p *Player) OnTimeUpdate(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onTime = f
}

func (p *Player) tick(done <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.mu.Lock()
			f, playing := p.onTime, p.playing()
			p.mu.Unlock()
			if playing && f != nil {
				f()
			}
		}
	}
}

// Release stops playback and closes the stream.
func (p *Player) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	if p.stream != nil {
		_ = p.stream.Close()
		p.stream = nil
	}
}
