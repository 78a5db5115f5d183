package pack

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/audio"
	"github.com/ytget/soundpack/internal/linkcheck"
	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/platform"
	"github.com/ytget/soundpack/internal/prompt"
	"github.com/ytget/soundpack/internal/ui"
	"github.com/ytget/soundpack/internal/worker"
)

const (
	mib        = 1024 * 1024
	testUser   = "111111111111111111"
	testLink   = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	packID     = "222222222222222222"
	packMsgID  = "333333333333333333"
	publishURL = "https://discord.com/channels/1/222222222222222222/444"
)

type sentDM struct {
	userID string
	ref    MessageRef
	msg    ui.Message
}

type fakePlatform struct {
	mu        sync.Mutex
	dms       chan sentDM
	nextID    int
	edits     []ui.Message
	published []string
	clips     []model.ClipEntry
	deleted   []string
	deleteErr error
	contents  []string
	fetched   []byte
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{dms: make(chan sentDM, 64)}
}

func (p *fakePlatform) SendDM(_ context.Context, userID string, msg ui.Message) (MessageRef, error) {
	p.mu.Lock()
	p.nextID++
	ref := MessageRef{
		ChannelID: "dm-" + userID,
		MessageID: fmt.Sprintf("m%d", p.nextID),
		URL:       fmt.Sprintf("https://discord.com/channels/@me/dm-%s/m%d", userID, p.nextID),
	}
	p.mu.Unlock()
	p.dms <- sentDM{userID: userID, ref: ref, msg: msg}
	return ref, nil
}

func (p *fakePlatform) Edit(_ context.Context, _ MessageRef, msg ui.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edits = append(p.edits, msg)
	return nil
}

func (p *fakePlatform) Publish(_ context.Context, channelID, path, filename string) (MessageRef, error) {
	if _, err := os.Stat(path); err != nil {
		return MessageRef{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, filename)
	return MessageRef{ChannelID: channelID, MessageID: "444", URL: publishURL}, nil
}

func (p *fakePlatform) RecentClips(_ context.Context, _ string, limit int) ([]model.ClipEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clips := append([]model.ClipEntry(nil), p.clips...)
	if len(clips) > limit {
		clips = clips[:limit]
	}
	return clips, nil
}

func (p *fakePlatform) Delete(_ context.Context, _ string, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, messageID)
	return nil
}

func (p *fakePlatform) EditContent(_ context.Context, channelID, messageID, content string) (MessageRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contents = append(p.contents, content)
	return MessageRef{ChannelID: channelID, MessageID: messageID, URL: "https://discord.com/channels/1/" + channelID + "/" + messageID}, nil
}

func (p *fakePlatform) FetchAttachment(_ context.Context, _ string, w io.Writer) error {
	_, err := w.Write(p.fetched)
	return err
}

func (p *fakePlatform) editCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.edits)
}

type fakeReplier struct {
	forms chan ui.Form
	acks  atomic.Int32
	mu    sync.Mutex
	notes []string
}

func newFakeReplier() *fakeReplier {
	return &fakeReplier{forms: make(chan ui.Form, 4)}
}

func (r *fakeReplier) OpenForm(_ context.Context, form ui.Form) error {
	r.forms <- form
	return nil
}

func (r *fakeReplier) Acknowledge(context.Context) error {
	r.acks.Add(1)
	return nil
}

func (r *fakeReplier) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, text)
	return nil
}

type fakeExtractor struct {
	dir         string
	meta        model.Metadata
	extractErr  error
	downloadErr error
	phase       string // reported while downloading, defaults to downloading
	block       bool
	extracts    atomic.Int32
	downloads   atomic.Int32
	stopped     chan struct{}
}

func (e *fakeExtractor) Extract(context.Context, string) (*model.Metadata, error) {
	e.extracts.Add(1)
	if e.extractErr != nil {
		return nil, e.extractErr
	}
	meta := e.meta
	return &meta, nil
}

func (e *fakeExtractor) Download(ctx context.Context, _ string, report func(model.Progress)) (string, error) {
	e.downloads.Add(1)
	phase := e.phase
	if phase == "" {
		phase = model.PhaseDownloading
	}
	report(model.Progress{Phase: phase, DownloadedBytes: 10, TotalBytes: 20, Percent: 50})

	if e.block {
		<-ctx.Done()
		close(e.stopped)
		return "", ctx.Err()
	}
	if e.downloadErr != nil {
		return "", e.downloadErr
	}

	time.Sleep(20 * time.Millisecond)
	path := filepath.Join(e.dir, "dl-test.webm")
	if err := os.WriteFile(path, []byte("webm"), 0o644); err != nil {
		return "", err
	}
	report(model.Progress{Phase: model.PhaseFinished, Percent: 100})
	return path, nil
}

type fakeNormalizer struct {
	mu       sync.Mutex
	opts     []audio.Options
	duration float64
}

func (n *fakeNormalizer) Normalize(_ context.Context, opts audio.Options) (string, error) {
	n.mu.Lock()
	n.opts = append(n.opts, opts)
	n.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	out := platform.ReplaceExtension(opts.Input, opts.Format)
	return out, os.WriteFile(out, []byte("ogg"), 0o644)
}

func (n *fakeNormalizer) Duration(context.Context, string) (float64, error) {
	return n.duration, nil
}

type harness struct {
	c        *Controller
	platform *fakePlatform
	ext      *fakeExtractor
	norm     *fakeNormalizer
	broker   *prompt.Broker
	dir      string
}

func testTimeouts() Timeouts {
	return Timeouts{
		Confirm:      2 * time.Second,
		Form:         2 * time.Second,
		Select:       2 * time.Second,
		Download:     2 * time.Second,
		Convert:      2 * time.Second,
		DownloadPoll: 5 * time.Millisecond,
		ConvertPoll:  5 * time.Millisecond,
	}
}

func newHarness(t *testing.T, timeouts Timeouts) *harness {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	dir := t.TempDir()
	pool := worker.NewPool(2, log)
	t.Cleanup(pool.Close)

	h := &harness{
		platform: newFakePlatform(),
		ext: &fakeExtractor{
			dir: dir,
			meta: model.Metadata{
				ID:       "dQw4w9WgXcQ",
				Title:    "Never Gonna Give You Up",
				Duration: 300,
				Size:     10 * mib,
				Format:   "251 - audio only",
			},
			stopped: make(chan struct{}),
		},
		norm:   &fakeNormalizer{duration: 2.5},
		broker: prompt.NewBroker(),
		dir:    dir,
	}

	h.c = NewController(Deps{
		Platform:   h.platform,
		Extractor:  h.ext,
		Normalizer: h.norm,
		Pool:       pool,
		Broker:     h.broker,
		Links:      linkcheck.NewDefaultChecker(),
	}, Config{
		PackChannelID:   packID,
		PackMessageID:   packMsgID,
		WorkDir:         dir,
		Format:          "ogg",
		Bitrate:         "64k",
		SampleRate:      32000,
		FadeMs:          1000,
		MaxLoudness:     -16,
		MaxFilesize:     5 * mib,
		MaxDownloadSize: 20 * mib,
		Timeouts:        timeouts,
	}, log)
	return h
}

func (h *harness) manage(link string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		out <- h.c.Manage(context.Background(), testUser, link)
	}()
	return out
}

func (h *harness) nextDM(t *testing.T) sentDM {
	t.Helper()
	select {
	case dm := <-h.platform.dms:
		return dm
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a DM")
		return sentDM{}
	}
}

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the session to end")
		return Outcome{}
	}
}

func waitForm(t *testing.T, r *fakeReplier) ui.Form {
	t.Helper()
	select {
	case form := <-r.forms:
		return form
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the form")
		return ui.Form{}
	}
}
