// Package source turns the configured video URL into something a media
// backend can open.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
)

// Kind selects the media backend.
type Kind int

const (
	Video Kind = iota
	Audio
)

func (k Kind) String() string {
	if k == Audio {
		return "audio"
	}
	return "video"
}

// Source is a resolved, playable location.
type Source struct {
	Location string
	Remote   bool
	Kind     Kind
	Title    string
}

var ErrYTDLPMissing = errors.New("yt-dlp not installed")

var audioExts = map[string]bool{".mp3": true, ".wav": true, ".flac": true, ".ogg": true}

var mediaExts = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true,
	".mp4": true, ".m4v": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true,
}

// hosts whose pages need yt-dlp to find the actual stream
var pageHosts = []string{"youtube.com", "youtu.be", "vimeo.com", "dailymotion.com"}

// seams for tests
var (
	lookPath = exec.LookPath
	runYTDLP = func(ctx context.Context, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, "yt-dlp", args...).Output()
	}
)

// Resolve classifies raw as a local file, a direct media URL or a page
// URL. Page URLs are resolved to a direct stream with yt-dlp.
func Resolve(ctx context.Context, raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, errors.New("empty source")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 { // "C:\..." parses with a one-letter scheme
		return local(raw), nil
	}
	switch u.Scheme {
	case "file":
		return local(u.Path), nil
	case "http", "https", "rtsp", "rtmp":
	default:
		return Source{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if mediaExts[ext] || !isPageHost(u.Hostname()) {
		return Source{
			Location: raw,
			Remote:   true,
			Kind:     Video, // beep decodes local files only; libVLC handles remote audio
			Title:    titleFrom(path.Base(u.Path)),
		}, nil
	}
	return streamURL(ctx, raw)
}

func local(p string) Source {
	kind := Video
	if audioExts[strings.ToLower(filepath.Ext(p))] {
		kind = Audio
	}
	return Source{Location: p, Kind: kind, Title: titleFrom(filepath.Base(p))}
}

func isPageHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range pageHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// streamURL asks yt-dlp for a direct URL of the best single-file format.
func streamURL(ctx context.Context, page string) (Source, error) {
	if _, err := lookPath("yt-dlp"); err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrYTDLPMissing, err)
	}
	out, err := runYTDLP(ctx,
		"--no-playlist",
		"--format", "best[ext=mp4]/best",
		"--print", "title",
		"--print", "urls",
		page,
	)
	if err != nil {
		return Source{}, fmt.Errorf("resolve stream url: %w", err)
	}
	lines := nonEmptyLines(string(out))
	if len(lines) < 2 {
		return Source{}, fmt.Errorf("resolve stream url: unexpected yt-dlp output %q", strings.TrimSpace(string(out)))
	}
	return Source{
		Location: lines[1],
		Remote:   true,
		Kind:     Video,
		Title:    lines[0],
	}, nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// titleFrom strips the extension from a file name.
func titleFrom(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
