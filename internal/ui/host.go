package ui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"vidplayer/internal/playerwidget"
)

// Host resolves container names registered by the application.
type Host struct {
	mu         sync.Mutex
	containers map[string]*fyne.Container
}

var _ playerwidget.Host = (*Host)(nil)

func NewHost() *Host {
	return &Host{containers: map[string]*fyne.Container{}}
}

// Register makes c reachable under selector, replacing any previous one.
func (h *Host) Register(selector string, c *fyne.Container) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.containers[selector] = c
}

// Prepend inserts the fragment as the first child of the container.
func (h *Host) Prepend(selector string, f playerwidget.Fragment) error {
	h.mu.Lock()
	c, ok := h.containers[selector]
	h.mu.Unlock()
	if !ok {
		return playerwidget.ErrContainerNotFound
	}
	obj, ok := f.(interface{ CanvasObject() fyne.CanvasObject })
	if !ok {
		return fmt.Errorf("fragment %T has no canvas object", f)
	}
	c.Objects = append([]fyne.CanvasObject{obj.CanvasObject()}, c.Objects...)
	c.Refresh()
	return nil
}

// Scheduler runs timer callbacks on the Fyne thread.
var Scheduler playerwidget.Scheduler = playerwidget.SchedulerFunc(func(d time.Duration, f func()) playerwidget.Timer {
	return time.AfterFunc(d, func() { fyne.Do(f) })
})
