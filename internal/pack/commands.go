package pack

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ytget/soundpack/internal/format"
	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/platform"
	"github.com/ytget/soundpack/internal/prompt"
	"github.com/ytget/soundpack/internal/ui"
)

// Ticks per second of the game clock
const TicksPerSecond = 20

// Post returns the management panel message
func (c *Controller) Post() ui.Message {
	return c.text.PanelMessage()
}

// HandlePanel answers an interaction with the management panel. It returns
// false when r does not belong to the panel. Sessions started from the panel
// run until they end.
func (c *Controller) HandlePanel(ctx context.Context, r prompt.Response) bool {
	switch r.CustomID {
	case ui.PanelUploadID:
		if err := r.Reply.OpenForm(ctx, c.text.URLForm()); err != nil {
			c.log.WithError(err).WithField("user", r.UserID).Warn("Failed to open the upload form")
		}
	case ui.PanelFormID:
		if err := r.Reply.Notify(ctx, c.text.GetText(ui.KeyModalClosed)); err != nil {
			c.log.WithError(err).WithField("user", r.UserID).Debug("Failed to acknowledge the upload form")
		}
		if link := strings.TrimSpace(r.Fields[ui.PanelURLField]); link != "" {
			c.Manage(ctx, r.UserID, link)
		}
	case ui.PanelRemoveID:
		c.acknowledge(ctx, r)
		c.Manage(ctx, r.UserID, "")
	default:
		return false
	}
	return true
}

// SetPackLink updates the pack message with the pack download link. An empty
// sha1 is taken from the link's file name.
func (c *Controller) SetPackLink(ctx context.Context, link, sha1 string) (*ui.Embed, error) {
	if c.cfg.PackMessageID == "" {
		return ui.ErrorEmbed(c.text.GetText(ui.KeyPackMessageUnset)), nil
	}
	if sha1 == "" {
		sha1 = SHA1FromLink(link)
		c.log.WithField("sha1", sha1).Debug("Extracted sha1 hash")
	}

	content := c.text.Textf(ui.KeyPackLinkContent, link, sha1)
	ref, err := c.platform.EditContent(ctx, c.cfg.PackChannelID, c.cfg.PackMessageID, content)
	if err != nil {
		return ui.ErrorEmbed(c.text.GetText(ui.KeyInternalError)), fmt.Errorf("failed to edit the pack message: %w", err)
	}
	c.log.WithField("link", link).Debug("Edited ressource pack link")

	return ui.SuccessEmbed(c.text.Textf(ui.KeyPackLinkUpdated, ref.URL)), nil
}

// SHA1FromLink returns the last path segment of link up to its first dot
func SHA1FromLink(link string) string {
	name := link[strings.LastIndex(link, "/")+1:]
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// ShowCommand sends the user the in-game commands playing clip. channelID is
// the channel the clip was posted in; a nil clip means the message had no
// attachment.
func (c *Controller) ShowCommand(ctx context.Context, userID, channelID string, clip *model.ClipEntry) (*ui.Embed, error) {
	if clip == nil {
		return ui.ErrorEmbed(c.text.GetText(ui.KeyNotSoundFile)), nil
	}
	if channelID != c.cfg.PackChannelID || !strings.HasPrefix(clip.Filename, ClipPrefix) || clip.ContentType != ClipContentType {
		return ui.ErrorEmbed(c.text.GetText(ui.KeyNotPackChannel)), nil
	}

	length, err := c.clipLength(ctx, clip)
	if err != nil {
		return ui.ErrorEmbed(c.text.GetText(ui.KeyInternalError)), err
	}

	playsound, region := Commands(clip.Name(), length)
	ref, err := c.platform.SendDM(ctx, userID, ui.Message{
		Content: c.text.Textf(ui.KeyCommandsContent, playsound, region),
	})
	if err != nil {
		return ui.ErrorEmbed(c.text.GetText(ui.KeyInternalError)), err
	}

	return ui.SuccessEmbed(c.text.Textf(ui.KeyCommandsSent, ref.URL)), nil
}

// Commands returns the playsound and region flag commands for a sound
func Commands(name string, length float64) (string, string) {
	ticks := int(length * TicksPerSecond)
	playsound := fmt.Sprintf("/playsound `minecraft:%s` ambient @p", name)
	region := fmt.Sprintf("/rg flag -w \"world\" -h 7 **{region}** play-sounds `minecraft:%s` `%d`", name, ticks)
	return playsound, region
}

// clipLength downloads the attachment to a temporary file and probes it
func (c *Controller) clipLength(ctx context.Context, clip *model.ClipEntry) (float64, error) {
	if c.cfg.WorkDir != "" {
		if err := platform.CreateDirectoryIfNotExists(c.cfg.WorkDir); err != nil {
			return 0, err
		}
	}
	f, err := os.CreateTemp(c.cfg.WorkDir, "show-*."+c.cfg.Format)
	if err != nil {
		return 0, fmt.Errorf("failed to create a temporary file: %w", err)
	}
	defer os.Remove(f.Name())

	err = c.platform.FetchAttachment(ctx, clip.URL, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", clip.Filename, err)
	}

	return c.normalizer.Duration(ctx, f.Name())
}

// Ping renders the gateway latency
func (c *Controller) Ping(latency time.Duration) *ui.Embed {
	ms := latency.Milliseconds()
	return &ui.Embed{
		Colour:      format.LatencyColor(float64(ms)),
		Description: c.text.Textf(ui.KeyPong, ms),
	}
}
