package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/pflag"

	"vidplayer/internal/config"
	"vidplayer/internal/discord"
	"vidplayer/internal/meta"
	"vidplayer/internal/player"
	"vidplayer/internal/playerwidget"
	"vidplayer/internal/source"
	"vidplayer/internal/ui"
	"vidplayer/internal/video"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred cleanup runs before the
// process exits.
func run() int {
	fs := pflag.NewFlagSet("vidplayer", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vidplayer: %v\n", err)
		return 2
	}

	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	a := app.NewWithID("vidplayer")
	w := a.NewWindow("vidplayer")
	w.Resize(fyne.NewSize(960, 640))

	// "body" is always present; a named container is registered too so
	// the player can be mounted above other content.
	host := ui.NewHost()
	body := container.NewVBox()
	host.Register("body", body)
	if cfg.Container != "body" {
		named := container.NewVBox()
		host.Register(cfg.Container, named)
		body.Add(named)
	}
	w.SetContent(container.NewVScroll(body))

	var (
		title  string
		opened ui.Media
	)
	open := func(videoURL string) (ui.Media, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		src, err := source.Resolve(ctx, videoURL)
		if err != nil {
			return nil, err
		}
		title = src.Title
		logger.Info("opening media", "location", src.Location, "kind", src.Kind, "remote", src.Remote)
		if src.Kind == source.Audio && !src.Remote {
			opened, err = openAudio(src, logger)
			return opened, err
		}
		v, err := video.New()
		if err != nil {
			return nil, err
		}
		if err := v.Load(src.Location, src.Remote); err != nil {
			v.Release()
			return nil, err
		}
		opened = v
		return v, nil
	}

	pw := playerwidget.New(cfg, &ui.Renderer{Open: open}, host, logger)
	pw.SetScheduler(ui.Scheduler)

	if cfg.Discord {
		dc := discord.Get()
		if err := dc.Connect(); err != nil {
			// Non-fatal: continue without presence
			logger.Warn("discord unavailable", "error", err)
		}
		defer func() {
			if err := dc.Clear(); err != nil {
				logger.Warn("discord clear failed", "error", err)
			}
			dc.Disconnect()
		}()
		pw.OnPlaybackChanged(func(playing bool) {
			if err := dc.Update(title, !playing); err != nil {
				logger.Warn("discord update failed", "error", err)
			}
		})
	}

	// Initialize releases the media itself when mounting fails.
	if err := pw.Initialize(); err != nil {
		return 1
	}
	defer opened.Release()

	w.ShowAndRun()
	return 0
}

// openAudio plays a local audio file with cover art in place of a picture.
func openAudio(src source.Source, logger *slog.Logger) (ui.Media, error) {
	p := player.New()
	if err := p.Load(src.Location); err != nil {
		return nil, err
	}
	cover := canvas.NewImageFromResource(theme.FileAudioIcon())
	cover.FillMode = canvas.ImageFillContain
	cover.SetMinSize(fyne.NewSize(player.ArtWidth, player.ArtWidth))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 7*time.Second)
		defer cancel()
		img, err := lookupCover(ctx, src.Title)
		if err != nil {
			logger.Debug("no cover art", "title", src.Title, "error", err)
			return
		}
		fyne.Do(func() {
			cover.Resource = nil
			cover.Image = img
			cover.Refresh()
		})
	}()
	return ui.WithVisual(p, cover, p.Release), nil
}

func lookupCover(ctx context.Context, title string) (image.Image, error) {
	c := meta.NewClient()
	info, err := c.Lookup(ctx, title)
	if err != nil {
		return nil, err
	}
	b, err := c.Fetch(ctx, info.Artwork)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	return img, err
}
