package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ShapeRange = "range"
	ShapeDrag  = "drag"

	// DefaultClickWindow is used when ClickWindow is left at zero.
	DefaultClickWindow = 300 * time.Millisecond
)

// Settings is the player configuration. Callers start from Default()
// and overwrite the fields they care about.
type Settings struct {
	VideoURL     string        `mapstructure:"video_url"`
	Container    string        `mapstructure:"container"`
	SkipPrev     float64       `mapstructure:"skip_prev"`
	SkipNext     float64       `mapstructure:"skip_next"`
	Volume       float64       `mapstructure:"volume" validate:"gte=0,lte=1"`
	PlaybackRate float64       `mapstructure:"playback_rate" validate:"gte=0.5,lte=2"`
	ClickWindow  time.Duration `mapstructure:"click_window" validate:"gte=0"`
	Shape        string        `mapstructure:"shape" validate:"oneof=range drag"`
	Discord      bool          `mapstructure:"discord"`
	LogLevel     string        `mapstructure:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
}

func Default() Settings {
	return Settings{
		VideoURL:     "",
		Container:    "body",
		SkipPrev:     -1,
		SkipNext:     1,
		Volume:       0.5,
		PlaybackRate: 1,
		ClickWindow:  DefaultClickWindow,
		Shape:        ShapeRange,
		LogLevel:     "INFO",
	}
}

// Window returns the click disambiguation window, falling back to
// DefaultClickWindow when unset.
func (s Settings) Window() time.Duration {
	if s.ClickWindow <= 0 {
		return DefaultClickWindow
	}
	return s.ClickWindow
}

// flag name -> settings key
var flagKeys = map[string]string{
	"video-url":     "video_url",
	"container":     "container",
	"skip-prev":     "skip_prev",
	"skip-next":     "skip_next",
	"volume":        "volume",
	"playback-rate": "playback_rate",
	"click-window":  "click_window",
	"shape":         "shape",
	"discord":       "discord",
	"log-level":     "log_level",
}

// RegisterFlags adds the player flags to fs, defaulting to Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "Config file (yaml, toml or json)")
	fs.String("video-url", d.VideoURL, "Video source (path, URL or page URL)")
	fs.String("container", d.Container, "Container the player is mounted into")
	fs.Float64("skip-prev", d.SkipPrev, "Backward skip in seconds")
	fs.Float64("skip-next", d.SkipNext, "Forward skip in seconds")
	fs.Float64("volume", d.Volume, "Initial volume [0,1]")
	fs.Float64("playback-rate", d.PlaybackRate, "Initial playback rate [0.5,2]")
	fs.Duration("click-window", d.ClickWindow, "Single/double click window")
	fs.String("shape", d.Shape, "Volume/rate control shape: range or drag")
	fs.Bool("discord", d.Discord, "Publish Discord Rich Presence")
	fs.String("log-level", d.LogLevel, "Logging level")
}

// Load overlays the config file, VIDPLAYER_* environment variables and
// explicitly set flags (in increasing precedence) onto Default().
func Load(fs *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("video_url", d.VideoURL)
	v.SetDefault("container", d.Container)
	v.SetDefault("skip_prev", d.SkipPrev)
	v.SetDefault("skip_next", d.SkipNext)
	v.SetDefault("volume", d.Volume)
	v.SetDefault("playback_rate", d.PlaybackRate)
	v.SetDefault("click_window", d.ClickWindow)
	v.SetDefault("shape", d.Shape)
	v.SetDefault("discord", d.Discord)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix("VIDPLAYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Settings{}, fmt.Errorf("read config: %w", err)
			}
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}
	s.LogLevel = strings.ToUpper(s.LogLevel)
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges. VideoURL and Container are not checked
// here: an empty value is reported when the player is initialized.
func Validate(s Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return err
}
