//go:build vlc && !android && !ios

package video

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os/exec"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	vlc "github.com/adrg/libvlc-go/v3"
)

const tickInterval = 200 * time.Millisecond // ~5 fps (lower to reduce CPU)

// Player with libVLC-backed audio and ffmpeg for video frames.
type Player struct {
	p       *vlc.Player
	current string

	mu       sync.RWMutex
	img      *canvas.Image
	frameW   int
	started  bool
	paused   bool
	onTime   func()
	frameCtx chan struct{}
}

func New() (*Player, error) {
	// Initialize VLC with options to disable video output window
	if err := vlc.Init("--no-video", "--quiet"); err != nil {
		return nil, err
	}
	p, err := vlc.NewPlayer()
	if err != nil {
		return nil, err
	}
	v := &Player{p: p, paused: true}
	v.img = canvas.NewImageFromImage(placeholderImage())
	v.img.FillMode = canvas.ImageFillContain
	v.img.SetMinSize(fyne.NewSize(320, 240))
	return v, nil
}

// Load sets the media source. Remote locations are opened as URLs,
// everything else as a local path.
func (v *Player) Load(location string, remote bool) error {
	var (
		m   *vlc.Media
		err error
	)
	if remote {
		m, err = vlc.NewMediaFromURL(location)
	} else {
		m, err = vlc.NewMediaFromPath(location)
	}
	if err != nil {
		return err
	}
	if err := v.p.SetMedia(m); err != nil {
		m.Release()
		return err
	}
	m.Release()

	v.mu.Lock()
	v.current = location
	v.started = false
	v.paused = true
	v.mu.Unlock()
	return nil
}

func (v *Player) Paused() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.paused
}

func (v *Player) Play() error {
	v.mu.Lock()
	started := v.started
	v.mu.Unlock()

	var err error
	if started {
		err = v.p.SetPause(false)
	} else {
		err = v.p.Play()
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.started = true
	v.paused = false
	if v.frameCtx == nil {
		v.frameCtx = make(chan struct{})
		go v.extractFrames(v.frameCtx)
	}
	v.mu.Unlock()
	return nil
}

func (v *Player) Pause() error {
	if err := v.p.SetPause(true); err != nil {
		return err
	}
	v.mu.Lock()
	v.paused = true
	v.mu.Unlock()
	return nil
}

func (v *Player) CurrentTime() float64 {
	ms, err := v.p.MediaTime()
	if err != nil || ms < 0 {
		return 0
	}
	return float64(ms) / 1000
}

// SetCurrentTime seeks to seconds, clamped to the media length. A time
// update follows every successful seek, paused or not.
func (v *Player) SetCurrentTime(seconds float64) error {
	ms := int(seconds * 1000)
	if ms < 0 {
		ms = 0
	}
	if length, err := v.p.MediaLength(); err == nil && length > 0 && ms > length {
		ms = length
	}
	if err := v.p.SetMediaTime(ms); err != nil {
		return err
	}
	v.mu.RLock()
	onTime := v.onTime
	v.mu.RUnlock()
	if onTime != nil {
		onTime()
	}
	return nil
}

func (v *Player) Duration() float64 {
	ms, err := v.p.MediaLength()
	if err != nil {
		return 0
	}
	return float64(ms) / 1000
}

func (v *Player) SetVolume(vol float64) error {
	// VLC volume is 0-100
	return v.p.SetVolume(int(vol * 100))
}

func (v *Player) SetPlaybackRate(r float64) error {
	return v.p.SetPlaybackRate(float32(r))
}

// NaturalWidth reports the decoded picture width, falling back to the
// width of the last captured frame.
func (v *Player) NaturalWidth() float64 {
	if w, _, err := v.p.VideoDimensions(); err == nil && w > 0 {
		return float64(w)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return float64(v.frameW)
}

// OnTimeUpdate registers f to run on every playback tick. f is called
// from the ticker goroutine.
func (v *Player) OnTimeUpdate(f func()) {
	v.mu.Lock()
	v.onTime = f
	v.mu.Unlock()
}

// Release stops playback and frees the player and the libVLC instance.
// It does not touch the UI, so it is safe after the app has quit.
func (v *Player) Release() {
	v.mu.Lock()
	if v.frameCtx != nil {
		close(v.frameCtx)
		v.frameCtx = nil
	}
	v.started = false
	v.paused = true
	v.mu.Unlock()

	_ = v.p.Stop()
	_ = v.p.Release()
	_ = vlc.Release()
}

func (v *Player) Visual() fyne.CanvasObject {
	return container.NewStack(v.img)
}

func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 320, 180))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{20, 20, 20, 255}}, image.Point{}, draw.Src)
	return img
}

// extractFrames ticks while playback runs: it delivers time updates and
// refreshes the picture from an ffmpeg frame capture.
func (v *Player) extractFrames(done <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			v.mu.RLock()
			paused, onTime := v.paused, v.onTime
			v.mu.RUnlock()
			if paused {
				continue
			}
			if onTime != nil {
				onTime()
			}
			pos, err := v.p.MediaTime()
			if err != nil || pos < 0 {
				continue
			}
			if frame := v.captureFrame(float64(pos) / 1000.0); frame != nil {
				v.mu.Lock()
				v.frameW = frame.Bounds().Dx()
				v.mu.Unlock()
				fyne.Do(func() {
					v.img.Image = frame
					v.img.Refresh()
				})
			}
		}
	}
}

// captureFrame extracts a single frame at given timestamp using ffmpeg
func (v *Player) captureFrame(seconds float64) image.Image {
	v.mu.RLock()
	src := v.current
	v.mu.RUnlock()
	if src == "" {
		return nil
	}

	// -ss before -i for faster seeking
	cmd := exec.Command("ffmpeg",
		"-loglevel", "quiet",
		"-ss", fmt.Sprintf("%.3f", seconds),
		"-i", src,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "8", // lower quality for faster processing
		"-")

	var buf bytes.Buffer
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return nil
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		return nil
	}
	return img
}
