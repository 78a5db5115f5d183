package discord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/pack"
	"github.com/ytget/soundpack/internal/ui"
)

// Platform implements pack.Platform over a discordgo session
type Platform struct {
	session *discordgo.Session
	client  *http.Client
	log     logrus.FieldLogger

	mu     sync.Mutex
	dms    map[string]string // user ID -> DM channel ID
	guilds map[string]string // channel ID -> guild ID
}

var _ pack.Platform = (*Platform)(nil)

// NewPlatform creates the adapter. client is used to fetch attachments.
func NewPlatform(session *discordgo.Session, client *http.Client, log logrus.FieldLogger) *Platform {
	if client == nil {
		client = http.DefaultClient
	}
	return &Platform{
		session: session,
		client:  client,
		log:     log,
		dms:     make(map[string]string),
		guilds:  make(map[string]string),
	}
}

// SendDM sends msg in the direct message channel of userID
func (p *Platform) SendDM(ctx context.Context, userID string, msg ui.Message) (pack.MessageRef, error) {
	channelID, err := p.dmChannel(ctx, userID)
	if err != nil {
		return pack.MessageRef{}, err
	}

	m, err := p.session.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return pack.MessageRef{}, fmt.Errorf("failed to send a DM to %s: %w", userID, err)
	}
	return pack.MessageRef{ChannelID: channelID, MessageID: m.ID, URL: jumpURL("", channelID, m.ID)}, nil
}

// Edit replaces the content, embed and components of a message
func (p *Platform) Edit(ctx context.Context, ref pack.MessageRef, msg ui.Message) error {
	_, err := p.session.ChannelMessageEditComplex(toMessageEdit(ref.ChannelID, ref.MessageID, msg), discordgo.WithContext(ctx))
	return mapError(err)
}

// Publish uploads the file at path to channelID as filename
func (p *Platform) Publish(ctx context.Context, channelID, path, filename string) (pack.MessageRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return pack.MessageRef{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: contentType(filename),
			Reader:      f,
		}},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return pack.MessageRef{}, fmt.Errorf("failed to publish %s: %w", filename, err)
	}

	return pack.MessageRef{ChannelID: channelID, MessageID: m.ID, URL: p.jumpURL(ctx, m)}, nil
}

// RecentClips lists the attachments of the last limit messages of channelID
func (p *Platform) RecentClips(ctx context.Context, channelID string, limit int) ([]model.ClipEntry, error) {
	messages, err := p.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return clipsFromMessages(messages), nil
}

// Delete deletes a message
func (p *Platform) Delete(ctx context.Context, channelID, messageID string) error {
	return mapError(p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

// EditContent replaces the text content of a message
func (p *Platform) EditContent(ctx context.Context, channelID, messageID, content string) (pack.MessageRef, error) {
	m, err := p.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	if err != nil {
		return pack.MessageRef{}, mapError(err)
	}
	return pack.MessageRef{ChannelID: channelID, MessageID: m.ID, URL: p.jumpURL(ctx, m)}, nil
}

// FetchAttachment downloads an attachment into w
func (p *Platform) FetchAttachment(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (p *Platform) dmChannel(ctx context.Context, userID string) (string, error) {
	p.mu.Lock()
	channelID, ok := p.dms[userID]
	p.mu.Unlock()
	if ok {
		return channelID, nil
	}

	ch, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to open a DM channel with %s: %w", userID, err)
	}

	p.mu.Lock()
	p.dms[userID] = ch.ID
	p.mu.Unlock()
	return ch.ID, nil
}

// jumpURL links to m, looking up the guild of its channel when the message
// does not carry it
func (p *Platform) jumpURL(ctx context.Context, m *discordgo.Message) string {
	if m.GuildID != "" {
		return jumpURL(m.GuildID, m.ChannelID, m.ID)
	}

	p.mu.Lock()
	guildID, ok := p.guilds[m.ChannelID]
	p.mu.Unlock()

	if !ok {
		guildID = p.guildOf(ctx, m.ChannelID)
		p.mu.Lock()
		p.guilds[m.ChannelID] = guildID
		p.mu.Unlock()
	}

	return jumpURL(guildID, m.ChannelID, m.ID)
}

func (p *Platform) guildOf(ctx context.Context, channelID string) string {
	if p.session.State != nil {
		if ch, err := p.session.State.Channel(channelID); err == nil {
			return ch.GuildID
		}
	}
	ch, err := p.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		p.log.WithError(err).WithField("channel", channelID).Debug("Could not resolve the guild of a channel")
		return ""
	}
	return ch.GuildID
}

// mapError turns a 404 from the API into pack.ErrNotFound
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", pack.ErrNotFound, err)
	}
	return err
}

// audioTypes covers extensions missing from minimal mime tables
var audioTypes = map[string]string{
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".wav":  "audio/wav",
}

func contentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
