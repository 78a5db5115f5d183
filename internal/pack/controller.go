package pack

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/audio"
	"github.com/ytget/soundpack/internal/download"
	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/prompt"
	"github.com/ytget/soundpack/internal/ui"
	"github.com/ytget/soundpack/internal/worker"
)

// Job kinds submitted to the pool
const (
	KindDownload  = "download"
	KindNormalize = "normalize"
)

// Clip publishing settings
const (
	HistoryLimit    = 100
	ClipContentType = "audio/ogg"
	ClipPrefix      = "custom."
)

// ErrNotFound is returned by a Platform when the target message is gone
var ErrNotFound = errors.New("message not found")

// MessageRef identifies a sent message
type MessageRef struct {
	ChannelID string
	MessageID string
	URL       string // jump URL
}

// Platform is the chat platform as seen by the controller
type Platform interface {
	SendDM(ctx context.Context, userID string, msg ui.Message) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, msg ui.Message) error
	Publish(ctx context.Context, channelID, path, filename string) (MessageRef, error)
	RecentClips(ctx context.Context, channelID string, limit int) ([]model.ClipEntry, error)
	Delete(ctx context.Context, channelID, messageID string) error
	EditContent(ctx context.Context, channelID, messageID, content string) (MessageRef, error)
	FetchAttachment(ctx context.Context, url string, w io.Writer) error
}

// LinkChecker reports whether a link can be downloaded
type LinkChecker interface {
	Supported(link string) bool
}

// Submitter runs background jobs
type Submitter interface {
	Submit(kind string, fn worker.Func) (*worker.Job, error)
}

// Timeouts bound every wait of a session. Poll intervals set how often job
// handles are checked and the status message refreshed.
type Timeouts struct {
	Confirm      time.Duration
	Form         time.Duration
	Select       time.Duration
	Download     time.Duration
	Convert      time.Duration
	DownloadPoll time.Duration
	ConvertPoll  time.Duration
}

// DefaultTimeouts returns the timeouts used when nothing is configured
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Confirm:      60 * time.Second,
		Form:         5 * time.Minute,
		Select:       3 * time.Minute,
		Download:     10 * time.Minute,
		Convert:      5 * time.Minute,
		DownloadPoll: time.Second,
		ConvertPoll:  250 * time.Millisecond,
	}
}

// Config holds the pack limits and targets
type Config struct {
	PackChannelID string
	PackMessageID string
	WorkDir       string

	Format      string
	Bitrate     string
	SampleRate  int
	FadeMs      int
	MaxLoudness float64

	MaxFilesize     int64 // largest clip that can be published
	MaxDownloadSize int64 // largest source that will be downloaded

	Timeouts Timeouts
}

// Deps are the collaborators of a Controller
type Deps struct {
	Platform   Platform
	Extractor  download.Extractor
	Normalizer audio.Processor
	Pool       Submitter
	Broker     *prompt.Broker
	Links      LinkChecker
	Text       *ui.Localization
}

// Outcome is how a session ended
type Outcome struct {
	State   model.SessionState
	Message string // shown to the user, empty when nothing could be sent
	URL     string // jump URL of the published clip
	Err     error
}

// Controller runs pack-managing sessions
type Controller struct {
	platform   Platform
	extractor  download.Extractor
	normalizer audio.Processor
	pool       Submitter
	broker     *prompt.Broker
	links      LinkChecker
	text       *ui.Localization
	cfg        Config
	log        logrus.FieldLogger
	active     atomic.Int64
}

// NewController creates a controller
func NewController(deps Deps, cfg Config, log logrus.FieldLogger) *Controller {
	if deps.Text == nil {
		deps.Text = ui.NewLocalization()
	}
	if cfg.Format == "" {
		cfg.Format = audio.DefaultFormat
	}
	if cfg.Timeouts == (Timeouts{}) {
		cfg.Timeouts = DefaultTimeouts()
	}
	return &Controller{
		platform:   deps.Platform,
		extractor:  deps.Extractor,
		normalizer: deps.Normalizer,
		pool:       deps.Pool,
		broker:     deps.Broker,
		links:      deps.Links,
		text:       deps.Text,
		cfg:        cfg,
		log:        log,
	}
}

// Active returns the number of sessions in progress
func (c *Controller) Active() int {
	return int(c.active.Load())
}

// Manage runs the add flow for link, or the remove flow when link is empty,
// and reports the outcome to the user. It blocks until the session ends.
func (c *Controller) Manage(ctx context.Context, userID, link string) Outcome {
	c.active.Add(1)
	defer c.active.Add(-1)

	s := model.NewSession(userID, link)
	log := c.log.WithFields(logrus.Fields{"user": userID, "session": s.ID})
	log.WithField("mode", s.Mode).Info("Starting the pack managing process")

	var out Outcome
	if s.Mode == model.SessionModeAdd {
		out = c.add(ctx, s, log)
	} else {
		out = c.remove(ctx, s, log)
	}
	s.Transition(out.State)

	if out.Message != "" {
		embed := ui.ErrorEmbed(out.Message)
		if out.State == model.SessionStatePublished || out.State == model.SessionStateRemoved {
			embed = ui.SuccessEmbed(out.Message)
		}
		if _, err := c.platform.SendDM(ctx, userID, ui.Message{Embed: embed}); err != nil {
			log.WithError(err).Warn("Failed to send the final response")
		}
	}

	entry := log.WithField("state", out.State)
	if out.Err != nil {
		entry = entry.WithError(out.Err)
	}
	entry.Debug("Pack managing process ended")
	return out
}

func (c *Controller) end(state model.SessionState, key string, args ...any) Outcome {
	return Outcome{State: state, Message: c.text.Textf(key, args...)}
}

func (c *Controller) fail(err error, key string, args ...any) Outcome {
	out := c.end(model.SessionStateFailed, key, args...)
	out.Err = err
	return out
}

// waitFailed maps a failed prompt wait to an outcome
func (c *Controller) waitFailed(err error, timeoutKey string) Outcome {
	if errors.Is(err, prompt.ErrTimeout) {
		return c.end(model.SessionStateTimedOut, timeoutKey)
	}
	return Outcome{State: model.SessionStateCancelled, Err: err}
}
