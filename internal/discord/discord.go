//go:build !android && !ios

package discord

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hugolgst/rich-go/client"
)

const clientID = "1433179062808875028"

const reconnectCooldown = 2 * time.Second

// seams for tests
var (
	login       = client.Login
	logout      = client.Logout
	setActivity = client.SetActivity
	ipcProbe    = ipcAvailable
)

// Presence publishes what the player is showing to Discord Rich Presence.
type Presence struct {
	mu                 sync.Mutex
	connected          bool
	title              string
	startTime          time.Time
	lastConnectAttempt time.Time
}

var (
	instance *Presence
	once     sync.Once
)

// Get returns the process-wide presence client.
func Get() *Presence {
	once.Do(func() {
		instance = &Presence{}
	})
	return instance
}

// Connect initializes the Discord RPC connection.
func (c *Presence) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}
	if err := login(clientID); err != nil {
		return fmt.Errorf("discord login: %w", err)
	}
	c.connected = true
	return nil
}

// Update shows title as playing or paused. Errors caused by Discord
// going away are swallowed and retried on a later update.
func (c *Presence) Update(title string, paused bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected && !c.reconnect() {
		return nil
	}

	if c.title != title {
		c.startTime = time.Now()
		c.title = title
	}

	activity := client.Activity{
		Details:    title,
		State:      "Watching",
		LargeImage: "vidplayer_logo",
		LargeText:  "vidplayer",
		Timestamps: &client.Timestamps{
			Start: &c.startTime,
		},
	}
	if paused {
		activity.SmallImage = "pause"
		activity.SmallText = "Paused"
	} else {
		activity.SmallImage = "play"
		activity.SmallText = "Playing"
	}

	if err := setActivity(activity); err != nil {
		if !isPipeError(err) {
			return err
		}
		// Discord restarted or closed: reconnect once and retry.
		logout()
		c.connected = false
		if c.reconnect() {
			_ = setActivity(activity)
		}
	}
	return nil
}

// reconnect tries to log in again, at most once per cooldown. Callers
// hold c.mu.
func (c *Presence) reconnect() bool {
	if time.Since(c.lastConnectAttempt) <= reconnectCooldown || !ipcProbe() {
		return false
	}
	c.lastConnectAttempt = time.Now()
	if err := login(clientID); err != nil {
		return false
	}
	c.connected = true
	return true
}

// Clear removes the activity.
func (c *Presence) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.title = ""
	if !c.connected {
		return nil
	}
	if err := setActivity(client.Activity{}); err != nil {
		if isPipeError(err) {
			logout()
			c.connected = false
			return nil
		}
		return err
	}
	return nil
}

// Disconnect closes the Discord RPC connection.
func (c *Presence) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		logout()
		c.connected = false
	}
}

func isPipeError(err error) bool {
	s := strings.ToLower(err.Error())
	for _, sub := range []string{"broken pipe", "use of closed network connection", "connection reset", "eof"} {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ipcAvailable checks for the presence of a Discord IPC socket on this OS.
func ipcAvailable() bool {
	var pattern string
	switch runtime.GOOS {
	case "linux":
		pattern = filepath.Join(fmt.Sprintf("/run/user/%d", os.Getuid()), "discord-ipc-*")
	case "darwin":
		pattern = "/tmp/discord-ipc-*"
	default:
		// Best-effort: for unsupported OS checks, allow trying to connect.
		return true
	}
	matches, _ := filepath.Glob(pattern)
	for _, m := range matches {
		if c, err := net.DialTimeout("unix", m, 200*time.Millisecond); err == nil {
			_ = c.Close()
			return true
		}
	}
	return false
}
