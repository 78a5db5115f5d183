package pack

import (
	"context"
	"fmt"
	"sort"

	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/ui"
)

// SoundFiles lists the clips of the pack channel as offered for removal
func (c *Controller) SoundFiles(ctx context.Context) ([]model.ClipEntry, error) {
	entries, err := c.platform.RecentClips(ctx, c.cfg.PackChannelID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the pack channel history: %w", err)
	}
	return SelectClips(entries), nil
}

// SelectClips keeps the audio/ogg entries, one per filename with the most
// recent message winning, sorted by filename and capped to what a dropdown
// can show.
func SelectClips(entries []model.ClipEntry) []model.ClipEntry {
	latest := make(map[string]model.ClipEntry)
	for _, e := range entries {
		if e.ContentType != ClipContentType {
			continue
		}
		if prev, ok := latest[e.Filename]; ok && !newer(e, prev) {
			continue
		}
		latest[e.Filename] = e
	}

	clips := make([]model.ClipEntry, 0, len(latest))
	for _, e := range latest {
		clips = append(clips, e)
	}
	sort.Slice(clips, func(i, j int) bool {
		return clips[i].Filename < clips[j].Filename
	})

	if len(clips) > ui.MaxSelectOptions {
		clips = clips[:ui.MaxSelectOptions]
	}
	return clips
}

// newer reports whether a was posted after b. Snowflake IDs order messages
// with equal timestamps.
func newer(a, b model.ClipEntry) bool {
	if !a.PostedAt.Equal(b.PostedAt) {
		return a.PostedAt.After(b.PostedAt)
	}
	if len(a.MessageID) != len(b.MessageID) {
		return len(a.MessageID) > len(b.MessageID)
	}
	return a.MessageID > b.MessageID
}

func findClip(clips []model.ClipEntry, filename string) (model.ClipEntry, bool) {
	for _, clip := range clips {
		if clip.Filename == filename {
			return clip, true
		}
	}
	return model.ClipEntry{}, false
}
