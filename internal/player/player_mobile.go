//go:build android || ios

package player

import "errors"

const ArtWidth = 320

var errUnsupported = errors.New("audio playback is not available on mobile")

type Player struct{}

func New() *Player { return &Player{} }

func (p *Player) Load(path string) error               { return errUnsupported }
func (p *Player) Play() error                          { return errUnsupported }
func (p *Player) Pause() error                         { return nil }
func (p *Player) Paused() bool                         { return true }
func (p *Player) Duration() float64                    { return 0 }
func (p *Player) CurrentTime() float64                 { return 0 }
func (p *Player) SetCurrentTime(seconds float64) error { return nil }
func (p *Player) SetVolume(norm float64) error         { return nil }
func (p *Player) SetPlaybackRate(r float64) error      { return nil }
func (p *Player) NaturalWidth() float64                { return ArtWidth }
func (p *Player) OnTimeUpdate(f func())                {}
func (p *Player) Release()                             {}
