package model

import (
	"fmt"
	"strings"
	"time"
)

// Progress is a snapshot of a single job's progress. Each job owns its own
// snapshot; nothing here is shared between sessions.
type Progress struct {
	Phase           string        // backend phase (see Phase* constants)
	Filename        string        // file currently being written
	DownloadedBytes int64         // bytes transferred so far
	TotalBytes      int64         // expected size, 0 if unknown
	Percent         float64       // 0 to 100
	Speed           float64       // bytes per second, 0 if unknown
	ETA             time.Duration // remaining time, 0 if unknown
	Elapsed         time.Duration // time since the transfer started
}

// PercentString returns the percentage with one decimal, or "..." if unknown
func (p Progress) PercentString() string {
	if p.Percent <= 0 && p.DownloadedBytes == 0 {
		return "..."
	}
	return fmt.Sprintf("%.1f%%", p.Percent)
}

// ETAString returns ETA formatted as hh:mm:ss or mm:ss, or "..." if unknown
func (p Progress) ETAString() string {
	return clockString(int(p.ETA.Seconds()))
}

// ElapsedString returns elapsed time formatted like ETAString
func (p Progress) ElapsedString() string {
	if p.Elapsed <= 0 {
		return "00:00"
	}
	return clockString(int(p.Elapsed.Seconds()))
}

func clockString(total int) string {
	if total <= 0 {
		return "..."
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var b strings.Builder
	if hours > 0 {
		b.WriteString(fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%02d:%02d", minutes, seconds))
	return b.String()
}

// Metadata is the information extracted from a link without downloading it
type Metadata struct {
	ID         string
	Title      string
	Duration   int   // seconds
	Size       int64 // bytes, 0 if unknown
	Thumbnail  string
	UploadDate time.Time
	Format     string
	ViewCount  int64
	WebpageURL string
	Extractor  string
}

// DisplayTitle returns the title, or the webpage URL when the title is empty
func (m *Metadata) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.WebpageURL
}

// ClipEntry is a published clip: one channel message and its audio attachment.
type ClipEntry struct {
	ChannelID   string
	MessageID   string
	Filename    string
	ContentType string
	Size        int64
	URL         string
	PostedAt    time.Time
}

// Name returns the filename without its extension
func (c ClipEntry) Name() string {
	if idx := strings.LastIndex(c.Filename, "."); idx > 0 {
		return c.Filename[:idx]
	}
	return c.Filename
}
