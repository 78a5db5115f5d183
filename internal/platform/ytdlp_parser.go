package platform

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ytget/soundpack/internal/model"
)

// UploadDateLayout is the layout of yt-dlp's upload_date field
const UploadDateLayout = "20060102"

// ytdlpFormat is the subset of a yt-dlp format entry used for size estimation
type ytdlpFormat struct {
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
}

// ytdlpInfo is the subset of yt-dlp's --dump-single-json output the bot reads
type ytdlpInfo struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Duration         *float64      `json:"duration"`
	Filesize         *float64      `json:"filesize"`
	FilesizeApprox   *float64      `json:"filesize_approx"`
	Thumbnail        string        `json:"thumbnail"`
	UploadDate       string        `json:"upload_date"`
	Format           string        `json:"format"`
	ViewCount        *float64      `json:"view_count"`
	WebpageURL       string        `json:"webpage_url"`
	OriginalURL      string        `json:"original_url"`
	Extractor        string        `json:"extractor"`
	RequestedFormats []ytdlpFormat `json:"requested_formats"`
	Type             string        `json:"_type"`
}

// ParseMetadata parses a single yt-dlp JSON document into metadata
func ParseMetadata(data []byte) (*model.Metadata, error) {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty yt-dlp output")
	}

	// With progress or warnings enabled the document is the last JSON line.
	if idx := strings.LastIndex(string(data), "\n{"); idx >= 0 {
		data = data[idx+1:]
	}

	var info ytdlpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp output: %w", err)
	}
	if info.Type == "playlist" {
		return nil, fmt.Errorf("playlists are not supported")
	}
	if info.ID == "" && info.Title == "" {
		return nil, fmt.Errorf("yt-dlp output has no id or title")
	}

	meta := &model.Metadata{
		ID:         info.ID,
		Title:      info.Title,
		Thumbnail:  info.Thumbnail,
		Format:     info.Format,
		WebpageURL: info.WebpageURL,
		Extractor:  info.Extractor,
	}
	if meta.WebpageURL == "" {
		meta.WebpageURL = info.OriginalURL
	}
	if info.Duration != nil {
		meta.Duration = int(*info.Duration)
	}
	if info.ViewCount != nil {
		meta.ViewCount = int64(*info.ViewCount)
	}
	meta.Size = estimateSize(&info)

	if info.UploadDate != "" {
		if date, err := time.Parse(UploadDateLayout, info.UploadDate); err == nil {
			meta.UploadDate = date
		}
	}

	return meta, nil
}

// estimateSize returns the exact size if known, else the approximate size, else
// the sum of the requested formats
func estimateSize(info *ytdlpInfo) int64 {
	if size := firstPositive(info.Filesize, info.FilesizeApprox); size > 0 {
		return size
	}

	var total int64
	for _, f := range info.RequestedFormats {
		total += firstPositive(f.Filesize, f.FilesizeApprox)
	}
	return total
}

func firstPositive(values ...*float64) int64 {
	for _, v := range values {
		if v != nil && *v > 0 && !math.IsInf(*v, 0) {
			return int64(*v)
		}
	}
	return 0
}
