// Package bot wires the Discord session to the pack controller and owns the
// resources shared by every session.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/audio"
	"github.com/ytget/soundpack/internal/config"
	"github.com/ytget/soundpack/internal/discord"
	"github.com/ytget/soundpack/internal/download"
	"github.com/ytget/soundpack/internal/linkcheck"
	"github.com/ytget/soundpack/internal/pack"
	"github.com/ytget/soundpack/internal/prompt"
	"github.com/ytget/soundpack/internal/ui"
	"github.com/ytget/soundpack/internal/worker"
)

// Intents are the gateway intents the bot needs
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

// Bot is a running bot and its shared resources
type Bot struct {
	settings   *config.Settings
	session    *discordgo.Session
	client     *http.Client
	pool       *worker.Pool
	controller *pack.Controller
	router     *discord.Router
	text       *ui.Localization
	log        logrus.FieldLogger

	mu     sync.Mutex
	devlog *discordgo.Channel
}

// New builds the bot. Sessions started by the bot run under ctx.
func New(ctx context.Context, settings *config.Settings, log logrus.FieldLogger) (*Bot, error) {
	session, err := discordgo.New("Bot " + settings.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create the discord session: %w", err)
	}

	client := NewHTTPClient()
	session.Client = client
	session.Dialer = NewWebsocketDialer()
	session.Identify.Intents = Intents

	if settings.YtdlpInstall {
		log.Info("Installing yt-dlp")
		if err := download.Install(ctx); err != nil {
			return nil, fmt.Errorf("failed to install yt-dlp: %w", err)
		}
	}

	b := &Bot{
		settings: settings,
		session:  session,
		client:   client,
		pool:     worker.NewPool(settings.Workers, log.WithField("component", "pool")),
		text:     ui.NewLocalization(),
		log:      log,
	}

	broker := prompt.NewBroker()
	b.controller = pack.NewController(pack.Deps{
		Platform:   discord.NewPlatform(session, client, log.WithField("component", "discord")),
		Extractor:  download.NewService(settings.DownloadDir, log.WithField("component", "download")),
		Normalizer: audio.NewNormalizer(log.WithField("component", "audio")),
		Pool:       b.pool,
		Broker:     broker,
		Links:      linkcheck.NewDefaultChecker(),
		Text:       b.text,
	}, PackConfig(settings), log.WithField("component", "pack"))

	b.router = discord.NewRouter(ctx, session, b.controller, broker, settings.Roles.Admin,
		session.HeartbeatLatency, log.WithField("component", "router"))

	session.AddHandler(b.onReady)
	session.AddHandler(b.router.Handle)

	return b, nil
}

// PackConfig maps the settings to the controller configuration. The
// confirmation buttons stay open for twice the button timeout.
func PackConfig(s *config.Settings) pack.Config {
	a := s.Audio
	return pack.Config{
		PackChannelID:   s.Channels.Pack,
		PackMessageID:   s.PackMessageID,
		WorkDir:         s.DownloadDir,
		Format:          a.Format,
		Bitrate:         a.Bitrate,
		SampleRate:      a.SampleRate,
		FadeMs:          a.FadeDuration,
		MaxLoudness:     a.MaxLoudness,
		MaxFilesize:     a.MaxFilesize,
		MaxDownloadSize: a.MaxDownloadSize,
		Timeouts: pack.Timeouts{
			Confirm:      2 * a.ButtonTimeout,
			Form:         a.FormTimeout,
			Select:       a.SelectTimeout,
			Download:     a.DownloadTimeout,
			Convert:      a.ConvertTimeout,
			DownloadPoll: a.DownloadPoll,
			ConvertPoll:  a.ConvertPoll,
		},
	}
}

// Pool returns the worker pool
func (b *Bot) Pool() *worker.Pool {
	return b.pool
}

// Controller returns the pack controller
func (b *Bot) Controller() *pack.Controller {
	return b.controller
}

// Run connects to the gateway and blocks until ctx is done, then cancels the
// running sessions
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open the gateway connection: %w", err)
	}

	<-ctx.Done()
	b.log.Info("Shutting down")
	b.router.Stop()
	return nil
}

// Close stops the pool, then the session
func (b *Bot) Close() error {
	if b == nil {
		return nil
	}
	if b.pool != nil {
		b.pool.Close()
	}
	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Infof("Started bot as %s", r.User.String())

	b.registerCommands(s, r.User.ID)
	b.sendDevlog(s, ui.SuccessEmbed(b.text.GetText(ui.KeyConnected)))
}

// registerCommands overwrites the commands of every configured guild
func (b *Bot) registerCommands(s *discordgo.Session, appID string) {
	commands := discord.Commands()
	for _, guildID := range b.settings.AllGuildIDs() {
		log := b.log.WithField("guild", guildID)
		if _, err := s.ApplicationCommandBulkOverwrite(appID, guildID, commands); err != nil {
			log.WithError(err).Warn("Failed to register the commands")
			continue
		}
		log.Debugf("Registered %d commands", len(commands))
	}
}

// sendDevlog posts embed in the devlog channel when one is configured
func (b *Bot) sendDevlog(s *discordgo.Session, embed *ui.Embed) {
	channel := b.devlogChannel(s)
	if channel == nil {
		return
	}

	if _, err := s.ChannelMessageSendEmbed(channel.ID, discord.ToEmbed(embed)); err != nil {
		b.log.WithError(err).Debug("Failed to send a devlog message")
	}
}

func (b *Bot) devlogChannel(s *discordgo.Session) *discordgo.Channel {
	id := b.settings.Channels.Devlog
	if id == "" {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.devlog != nil {
		return b.devlog
	}

	channel, err := s.State.Channel(id)
	if err != nil {
		channel, err = s.Channel(id)
	}
	if err != nil {
		b.log.WithError(err).WithField("channel", id).Debug("Devlog channel not found")
		return nil
	}

	b.devlog = channel
	return channel
}
