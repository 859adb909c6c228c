//go:build !vlc

package video

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ErrUnavailable is returned when the binary was built without libVLC.
var ErrUnavailable = errors.New("video playback requires building with -tags vlc")

type Player struct{}

func New() (*Player, error) { return nil, ErrUnavailable }

func (v *Player) Load(location string, remote bool) error { return ErrUnavailable }
func (v *Player) Paused() bool                            { return true }
func (v *Player) Play() error                             { return ErrUnavailable }
func (v *Player) Pause() error                            { return nil }
func (v *Player) CurrentTime() float64                    { return 0 }
func (v *Player) SetCurrentTime(seconds float64) error    { return nil }
func (v *Player) Duration() float64                       { return 0 }
func (v *Player) SetVolume(vol float64) error             { return nil }
func (v *Player) SetPlaybackRate(r float64) error         { return nil }
func (v *Player) NaturalWidth() float64                   { return 0 }
func (v *Player) OnTimeUpdate(f func())                   {}
func (v *Player) Release()                                {}

// Visual returns a placeholder while the vlc tag is disabled.
func (v *Player) Visual() fyne.CanvasObject {
	return container.NewCenter(widget.NewLabel("Build with -tags vlc to play video"))
}
