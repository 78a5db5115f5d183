// Package config loads the bot settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultEnvFile is read when present
const DefaultEnvFile = ".env"

// Audio holds the clip production settings (AUDIO_*)
type Audio struct {
	Format          string        `envconfig:"FORMAT" default:"ogg"`
	Bitrate         string        `envconfig:"BITRATE" default:"64k"`
	SampleRate      int           `envconfig:"SAMPLE_RATE" default:"32000"`
	FadeDuration    int           `envconfig:"FADE_DURATION" default:"1000"`
	MaxLoudness     float64       `envconfig:"MAX_LOUDNESS" default:"-16"`
	MaxDownloadSize int64         `envconfig:"MAX_DOWNLOAD_SIZE" default:"20971520"`
	MaxFilesize     int64         `envconfig:"MAX_FILESIZE" default:"5242880"`
	ButtonTimeout   time.Duration `envconfig:"BUTTON_TIMEOUT" default:"30s"`
	FormTimeout     time.Duration `envconfig:"FORM_TIMEOUT" default:"5m"`
	SelectTimeout   time.Duration `envconfig:"SELECT_TIMEOUT" default:"3m"`
	DownloadTimeout time.Duration `envconfig:"DOWNLOAD_TIMEOUT" default:"10m"`
	ConvertTimeout  time.Duration `envconfig:"CONVERT_TIMEOUT" default:"5m"`
	DownloadPoll    time.Duration `envconfig:"DOWNLOAD_POLL" default:"1s"`
	ConvertPoll     time.Duration `envconfig:"CONVERT_POLL" default:"250ms"`
}

// Bot holds the client identity (BOT_*)
type Bot struct {
	Name  string `envconfig:"NAME" default:"Bot"`
	Token string `envconfig:"TOKEN"`
}

// Channels holds channel IDs (CHANNEL_*)
type Channels struct {
	Devlog     string `envconfig:"DEVLOG"`
	ManagePack string `envconfig:"MANAGE_PACK"`
	Pack       string `envconfig:"PACK"`
}

// Roles holds role settings (ROLE_*)
type Roles struct {
	Admin    string `envconfig:"ADMIN"`
	Everyone string `envconfig:"EVERYONE" default:"@everyone"`
}

// Settings is the complete bot configuration
type Settings struct {
	Audio    Audio    `ignored:"true"`
	Bot      Bot      `ignored:"true"`
	Channels Channels `ignored:"true"`
	Roles    Roles    `ignored:"true"`

	GuildIDs      []string `envconfig:"GUILD_IDS"`
	DevGuildIDs   []string `envconfig:"DEV_GUILD_IDS"`
	PackMessageID string   `envconfig:"PACK_MESSAGE_ID"`
	Debug         bool     `envconfig:"DEBUG"`
	DownloadDir   string   `envconfig:"DOWNLOAD_DIR" default:"resources/downloads"`
	Workers       int      `envconfig:"WORKERS" default:"4"`
	StatusAddr    string   `envconfig:"STATUS_ADDR"`
	YtdlpInstall  bool     `envconfig:"YTDLP_INSTALL"`
}

var (
	snowflakePattern = regexp.MustCompile(`^\d{17,20}$`)
	tokenPattern     = regexp.MustCompile(`^[\w-]{24,}\.[\w-]{6}\.[\w-]{27,}$`)
)

// ValidationError lists every invalid setting
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid settings: " + strings.Join(e.Fields, "; ")
}

// Load reads envFile when it exists, without overriding variables already
// set, then processes the environment. An empty envFile means DefaultEnvFile.
func Load(envFile string) (*Settings, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	s := &Settings{}
	groups := []struct {
		prefix string
		target interface{}
	}{
		{"AUDIO", &s.Audio},
		{"BOT", &s.Bot},
		{"CHANNEL", &s.Channels},
		{"ROLE", &s.Roles},
		{"", s},
	}
	for _, g := range groups {
		if err := envconfig.Process(g.prefix, g.target); err != nil {
			return nil, fmt.Errorf("failed to process settings: %w", err)
		}
	}

	return s, nil
}

// Validate checks required settings and ID shapes
func (s *Settings) Validate() error {
	var fields []string
	invalid := func(format string, args ...interface{}) {
		fields = append(fields, fmt.Sprintf(format, args...))
	}

	if !tokenPattern.MatchString(s.Bot.Token) {
		invalid("BOT_TOKEN must follow the %s pattern", tokenPattern)
	}

	required := []struct{ name, value string }{
		{"CHANNEL_MANAGE_PACK", s.Channels.ManagePack},
		{"CHANNEL_PACK", s.Channels.Pack},
	}
	for _, r := range required {
		if !snowflakePattern.MatchString(r.value) {
			invalid("%s must be a discord id, got %q", r.name, r.value)
		}
	}

	optional := []struct{ name, value string }{
		{"CHANNEL_DEVLOG", s.Channels.Devlog},
		{"ROLE_ADMIN", s.Roles.Admin},
		{"PACK_MESSAGE_ID", s.PackMessageID},
	}
	for _, o := range optional {
		if o.value != "" && !snowflakePattern.MatchString(o.value) {
			invalid("%s must be a discord id, got %q", o.name, o.value)
		}
	}

	if len(s.GuildIDs) == 0 {
		invalid("GUILD_IDS is required")
	}
	for _, id := range append(append([]string{}, s.GuildIDs...), s.DevGuildIDs...) {
		if !snowflakePattern.MatchString(id) {
			invalid("guild ids must be discord ids, got %q", id)
		}
	}

	if s.Workers < 1 {
		invalid("WORKERS must be at least 1, got %d", s.Workers)
	}
	if s.Audio.MaxFilesize <= 0 || s.Audio.MaxDownloadSize <= 0 {
		invalid("AUDIO_MAX_FILESIZE and AUDIO_MAX_DOWNLOAD_SIZE must be positive")
	}
	if s.Audio.SampleRate <= 0 {
		invalid("AUDIO_SAMPLE_RATE must be positive, got %d", s.Audio.SampleRate)
	}
	if s.Audio.FadeDuration < 0 {
		invalid("AUDIO_FADE_DURATION must not be negative, got %d", s.Audio.FadeDuration)
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"AUDIO_BUTTON_TIMEOUT", s.Audio.ButtonTimeout},
		{"AUDIO_FORM_TIMEOUT", s.Audio.FormTimeout},
		{"AUDIO_SELECT_TIMEOUT", s.Audio.SelectTimeout},
		{"AUDIO_DOWNLOAD_TIMEOUT", s.Audio.DownloadTimeout},
		{"AUDIO_CONVERT_TIMEOUT", s.Audio.ConvertTimeout},
		{"AUDIO_DOWNLOAD_POLL", s.Audio.DownloadPoll},
		{"AUDIO_CONVERT_POLL", s.Audio.ConvertPoll},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			invalid("%s must be positive, got %s", t.name, t.value)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// AllGuildIDs returns the guilds the commands are registered in, without
// duplicates
func (s *Settings) AllGuildIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range append(append([]string{}, s.GuildIDs...), s.DevGuildIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
