package download

import (
	"context"

	"github.com/ytget/soundpack/internal/model"
)

// Extractor defines the interface for the extraction client.
type Extractor interface {
	// Extract fetches the metadata of a single video without downloading it
	Extract(ctx context.Context, link string) (*model.Metadata, error)

	// Download fetches the media and returns the path of the downloaded file
	Download(ctx context.Context, link string, report func(model.Progress)) (string, error)
}
