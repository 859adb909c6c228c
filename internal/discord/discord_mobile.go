//go:build android || ios

package discord

// Presence is a no-op on mobile, where there is no Discord IPC socket.
type Presence struct{}

var instance = &Presence{}

func Get() *Presence { return instance }

func (c *Presence) Connect() error                         { return nil }
func (c *Presence) Update(title string, paused bool) error { return nil }
func (c *Presence) Clear() error                           { return nil }
func (c *Presence) Disconnect()                            {}
