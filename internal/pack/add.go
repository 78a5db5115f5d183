package pack

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/audio"
	"github.com/ytget/soundpack/internal/format"
	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/platform"
	"github.com/ytget/soundpack/internal/prompt"
	"github.com/ytget/soundpack/internal/ui"
)

// Component ID suffixes, appended to the session ID
const (
	acceptSuffix = ":accept"
	cancelSuffix = ":cancel"
	formSuffix   = ":form"
	selectSuffix = ":select"
)

func (c *Controller) add(ctx context.Context, s *model.Session, log logrus.FieldLogger) Outcome {
	s.Transition(model.SessionStateAwaitingLinkDecision)
	if !c.links.Supported(s.Link) {
		log.Debug("The link is not supported")
		return c.end(model.SessionStateFailed, ui.KeyLinkNotSupported, s.Link)
	}
	log.WithField("link", s.Link).Debug("Supported link received")

	meta, err := c.extractor.Extract(ctx, s.Link)
	if err != nil {
		return c.fail(err, ui.KeySomethingWrong, s.Link)
	}
	if meta.Duration <= 0 {
		return c.fail(fmt.Errorf("no duration for %s", s.Link), ui.KeySomethingWrong, s.Link)
	}
	s.Meta = meta
	s.MaxDuration = MaxTrimDuration(meta.Duration, meta.Size, c.cfg.MaxFilesize)
	log.WithFields(logrus.Fields{"duration": meta.Duration, "max_duration": s.MaxDuration}).Debug("Extracted info from the link")

	r, out, ok := c.confirm(ctx, s)
	if !ok {
		return out
	}

	settings, out, ok := c.askSettings(ctx, s, r)
	if !ok {
		return out
	}
	s.Label = settings.Label
	s.Window = settings.Window
	s.Volume = settings.Volume
	s.FadeMs = settings.FadeMs

	if meta.Size > c.cfg.MaxDownloadSize {
		log.WithField("size", meta.Size).Debug("File size is too big")
		return c.end(model.SessionStateFailed, ui.KeyFileTooBig, format.Bytes(c.cfg.MaxDownloadSize))
	}

	return c.produce(ctx, s, log)
}

// confirm shows the video info and waits for the add or cancel button
func (c *Controller) confirm(ctx context.Context, s *model.Session) (prompt.Response, Outcome, bool) {
	acceptID, cancelID := s.ID+acceptSuffix, s.ID+cancelSuffix
	msg := ui.Message{
		Embed: c.text.InfoEmbed(s.Meta, s.Link),
		Buttons: []ui.Button{
			{ID: acceptID, Label: c.text.GetText(ui.KeyAddSoundFile), Style: ui.StyleSuccess},
			{ID: cancelID, Label: c.text.GetText(ui.KeyCancel), Style: ui.StyleDanger},
		},
	}

	pending := c.broker.Expect(s.UserID, acceptID, cancelID)
	ref, err := c.platform.SendDM(ctx, s.UserID, msg)
	if err != nil {
		pending.Cancel()
		return prompt.Response{}, Outcome{State: model.SessionStateFailed, Err: err}, false
	}
	s.StatusMessageID = ref.MessageID
	s.Transition(model.SessionStateAwaitingConfirmation)

	r, err := pending.Wait(ctx, c.cfg.Timeouts.Confirm)
	if err != nil {
		return r, c.waitFailed(err, ui.KeyButtonTimeout), false
	}

	if r.CustomID == cancelID {
		c.acknowledge(ctx, r)
		return r, c.end(model.SessionStateCancelled, ui.KeyCancelled), false
	}
	return r, Outcome{}, true
}

// askSettings answers the accept button with the settings form
func (c *Controller) askSettings(ctx context.Context, s *model.Session, r prompt.Response) (Settings, Outcome, bool) {
	formID := s.ID + formSuffix
	form := c.text.SettingsForm(formID, s.MaxDuration, s.Meta.Size > c.cfg.MaxFilesize, c.cfg.FadeMs)

	if r.Reply == nil {
		return Settings{}, c.fail(errors.New("interaction cannot open a form"), ui.KeyInternalError), false
	}

	pending := c.broker.Expect(s.UserID, formID)
	if err := r.Reply.OpenForm(ctx, form); err != nil {
		pending.Cancel()
		return Settings{}, Outcome{State: model.SessionStateFailed, Err: err}, false
	}
	s.Transition(model.SessionStateAwaitingForm)

	fr, err := pending.Wait(ctx, c.cfg.Timeouts.Form)
	if err != nil {
		return Settings{}, c.waitFailed(err, ui.KeyFormTimeout), false
	}
	if fr.Reply != nil {
		if err := fr.Reply.Notify(ctx, c.text.GetText(ui.KeyModalClosed)); err != nil {
			c.log.WithError(err).Debug("Failed to acknowledge the form")
		}
	}

	settings, err := ParseSettings(fr.Fields, s.Meta.Duration, s.MaxDuration, c.cfg.FadeMs)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return settings, c.fail(err, inputErr.Key), false
		}
		return settings, c.fail(err, ui.KeySomethingWrong, s.Link), false
	}
	return settings, Outcome{}, true
}

// produce downloads, normalizes and publishes the clip
func (c *Controller) produce(ctx context.Context, s *model.Session, log logrus.FieldLogger) Outcome {
	s.Transition(model.SessionStateAwaitingDownload)
	log.Debug("Downloading the sound file")

	status, err := c.platform.SendDM(ctx, s.UserID, ui.Message{Embed: c.text.ProgressEmbed(model.Progress{})})
	if err != nil {
		return Outcome{State: model.SessionStateFailed, Err: err}
	}
	s.StatusMessageID = status.MessageID

	link := s.Link
	dlJob, err := c.pool.Submit(KindDownload, func(ctx context.Context, report func(model.Progress)) (string, error) {
		return c.extractor.Download(ctx, link, report)
	})
	if err != nil {
		return c.fail(err, ui.KeySomethingWrong, s.Link)
	}
	log = log.WithField("job", dlJob.ID)

	source, err := await(ctx, dlJob, c.cfg.Timeouts.Download, c.cfg.Timeouts.DownloadPoll, func(int) error {
		p := dlJob.Progress()
		switch p.Phase {
		case model.PhaseError:
			return errors.New("download reported an error")
		case model.PhaseDownloading:
			c.edit(ctx, status, ui.Message{Embed: c.text.ProgressEmbed(p)})
		}
		return nil
	})
	defer func() {
		if err := platform.RemoveFiles(source); err != nil {
			log.WithError(err).Warn("Failed to remove the downloaded file")
		}
	}()
	switch {
	case errors.Is(err, errJobTimeout):
		return c.end(model.SessionStateTimedOut, ui.KeyDownloadTimeout)
	case err != nil && ctx.Err() != nil:
		return Outcome{State: model.SessionStateCancelled, Err: err}
	case err != nil:
		return c.fail(err, ui.KeyDownloadFailed)
	}
	downloaded := dlJob.Progress()
	downloaded.Elapsed = dlJob.Elapsed()

	s.Transition(model.SessionStateAwaitingConversion)
	opts := audio.Options{
		Input:      source,
		Start:      s.Window.Start,
		End:        s.Window.End,
		Format:     c.cfg.Format,
		Bitrate:    c.cfg.Bitrate,
		SampleRate: c.cfg.SampleRate,
		FadeMs:     s.FadeMs,
		TargetDB:   c.cfg.MaxLoudness / s.Volume,
	}
	convJob, err := c.pool.Submit(KindNormalize, func(ctx context.Context, _ func(model.Progress)) (string, error) {
		return c.normalizer.Normalize(ctx, opts)
	})
	if err != nil {
		return c.fail(err, ui.KeySomethingWrong, s.Link)
	}

	output, err := await(ctx, convJob, c.cfg.Timeouts.Convert, c.cfg.Timeouts.ConvertPoll, func(tick int) error {
		c.edit(ctx, status, ui.Message{Embed: c.text.ConvertingEmbed(tick)})
		return nil
	})
	defer func() {
		if output == source {
			return
		}
		if err := platform.RemoveFiles(output); err != nil {
			log.WithError(err).Warn("Failed to remove the normalized file")
		}
	}()
	switch {
	case errors.Is(err, errJobTimeout):
		return c.end(model.SessionStateTimedOut, ui.KeyConvertTimeout)
	case err != nil && ctx.Err() != nil:
		return Outcome{State: model.SessionStateCancelled, Err: err}
	case err != nil:
		return c.fail(err, ui.KeyConvertFailed)
	}

	size := downloaded.TotalBytes
	if info, statErr := os.Stat(source); statErr == nil && size <= 0 {
		size = info.Size()
	}
	c.edit(ctx, status, ui.Message{Embed: c.text.FinishedEmbed(downloaded, size)})
	log.WithFields(logrus.Fields{"size": size, "elapsed": downloaded.Elapsed}).Debug("Downloaded and converted the sound file")

	filename := ClipFilename(s.Label, c.cfg.Format)
	ref, err := c.platform.Publish(ctx, c.cfg.PackChannelID, output, filename)
	if err != nil {
		return c.fail(err, ui.KeySomethingWrong, s.Link)
	}
	log.WithField("filename", filename).Debug("Sent the file to the pack channel")

	out := c.end(model.SessionStatePublished, ui.KeyAdded, ref.URL)
	out.URL = ref.URL
	return out
}

func (c *Controller) edit(ctx context.Context, ref MessageRef, msg ui.Message) {
	if err := c.platform.Edit(ctx, ref, msg); err != nil {
		c.log.WithError(err).WithField("message", ref.MessageID).Debug("Failed to edit the status message")
	}
}

func (c *Controller) acknowledge(ctx context.Context, r prompt.Response) {
	if r.Reply == nil {
		return
	}
	if err := r.Reply.Acknowledge(ctx); err != nil {
		c.log.WithError(err).Debug("Failed to acknowledge the interaction")
	}
}
