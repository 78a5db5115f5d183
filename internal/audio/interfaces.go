package audio

import "context"

// Processor defines the interface for the audio normalizer.
type Processor interface {
	Normalize(ctx context.Context, opts Options) (string, error)
	Duration(ctx context.Context, path string) (float64, error)
}
