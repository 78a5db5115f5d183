package pack

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/ui"
)

func (c *Controller) remove(ctx context.Context, s *model.Session, log logrus.FieldLogger) Outcome {
	clips, err := c.SoundFiles(ctx)
	if err != nil {
		return c.fail(err, ui.KeyInternalError)
	}
	log.WithField("count", len(clips)).Debug("Fetched sound files")

	if len(clips) == 0 {
		return c.end(model.SessionStateFailed, ui.KeyNoSoundFiles)
	}

	selectID := s.ID + selectSuffix
	msg := ui.Message{
		Content: c.text.Textf(ui.KeySelectSoundFile, s.UserID),
		Select:  c.text.SoundSelect(selectID, clips),
	}

	pending := c.broker.Expect(s.UserID, selectID)
	ref, err := c.platform.SendDM(ctx, s.UserID, msg)
	if err != nil {
		pending.Cancel()
		return Outcome{State: model.SessionStateFailed, Err: err}
	}
	s.StatusMessageID = ref.MessageID
	s.Transition(model.SessionStateAwaitingSelection)

	r, err := pending.Wait(ctx, c.cfg.Timeouts.Select)
	if err != nil {
		return c.waitFailed(err, ui.KeySelectTimeout)
	}
	c.acknowledge(ctx, r)

	filename := r.Value()
	log.WithField("filename", filename).Debug("Sound file was selected")

	clip, ok := findClip(clips, filename)
	if !ok {
		return c.end(model.SessionStateRemoved, ui.KeyAlreadyRemoved, filename)
	}

	channelID := clip.ChannelID
	if channelID == "" {
		channelID = c.cfg.PackChannelID
	}
	if err := c.platform.Delete(ctx, channelID, clip.MessageID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.end(model.SessionStateRemoved, ui.KeyAlreadyRemoved, filename)
		}
		return c.fail(err, ui.KeyInternalError)
	}

	log.WithField("filename", filename).Debug("Sound file was successfully removed")
	return c.end(model.SessionStateRemoved, ui.KeyRemoved, filename)
}
