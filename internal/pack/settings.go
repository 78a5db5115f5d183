package pack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ytget/soundpack/internal/format"
	"github.com/ytget/soundpack/internal/model"
	"github.com/ytget/soundpack/internal/platform"
	"github.com/ytget/soundpack/internal/ui"
)

// Volume bounds, in percent
const (
	MinVolume = 1
	MaxVolume = 1000
)

// InputError is a user input rejected by validation. Key is the text shown
// to the user.
type InputError struct {
	Key   string
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// Settings are the clip settings submitted through the form
type Settings struct {
	Label  string
	Window model.TrimWindow
	Volume float64 // multiplier, 1.0 == 100%
	FadeMs int
}

// MaxTrimDuration returns the longest clip, in whole seconds, that stays under
// maxFilesize assuming a constant bitrate. An unknown size keeps the full
// duration; a limit of zero or less leaves nothing publishable.
func MaxTrimDuration(duration int, size, maxFilesize int64) int {
	if size <= 0 || duration <= 0 {
		return max(duration, 0)
	}
	if maxFilesize <= 0 {
		return 0
	}
	ceiling := maxFilesize * int64(duration) / size
	if ceiling > int64(duration) {
		return duration
	}
	return int(ceiling)
}

// ParseSettings parses and validates the form fields. Empty start means the
// beginning, empty end means the full duration, empty fade means defaultFade.
func ParseSettings(fields map[string]string, duration, maxDuration, defaultFade int) (Settings, error) {
	field := func(id string) string {
		return strings.TrimSpace(fields[id])
	}

	s := Settings{Label: platform.SanitizeLabel(field(ui.FieldLabel))}
	if s.Label == "" {
		return s, &InputError{Key: ui.KeyInvalidLabel, Field: "label", Value: field(ui.FieldLabel)}
	}

	var start, end float64 = 0, float64(duration)
	startText, endText := field(ui.FieldStart), field(ui.FieldEnd)
	if startText != "" {
		v, err := format.ParseClock(startText)
		if err != nil {
			return s, &InputError{Key: ui.KeyInvalidTimes, Field: "start time", Value: startText}
		}
		start = v
	}
	if endText != "" {
		v, err := format.ParseClock(endText)
		if err != nil {
			return s, &InputError{Key: ui.KeyInvalidTimes, Field: "end time", Value: endText}
		}
		end = v
	}

	volume, err := parseVolume(field(ui.FieldVolume))
	if err != nil {
		return s, &InputError{Key: ui.KeyInvalidVolumeFade, Field: "volume", Value: field(ui.FieldVolume)}
	}
	fade, err := parseFade(field(ui.FieldFade), defaultFade)
	if err != nil {
		return s, &InputError{Key: ui.KeyInvalidVolumeFade, Field: "fade", Value: field(ui.FieldFade)}
	}

	switch {
	case start > float64(duration):
		return s, &InputError{Key: ui.KeyInvalidStart, Field: "start time", Value: startText}
	case end > float64(maxDuration):
		return s, &InputError{Key: ui.KeyInvalidEnd, Field: "end time", Value: endText}
	case start >= end:
		return s, &InputError{Key: ui.KeyStartAfterEnd, Field: "start time", Value: startText}
	}

	s.Window = model.TrimWindow{Start: start, End: end}
	s.Volume = volume
	s.FadeMs = fade
	return s, nil
}

// parseVolume parses "N%" or "N" into a multiplier
func parseVolume(text string) (float64, error) {
	if text == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(text, "%")))
	if err != nil {
		return 0, err
	}
	if n < MinVolume || n > MaxVolume {
		return 0, fmt.Errorf("volume %d%% out of range", n)
	}
	return float64(n) / 100, nil
}

// parseFade parses a fade duration in milliseconds. Zero selects the default.
func parseFade(text string, defaultFade int) (int, error) {
	if text == "" {
		return defaultFade, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative fade %d", n)
	}
	if n == 0 {
		return defaultFade, nil
	}
	return n, nil
}

// ClipFilename is the attachment name of a published clip
func ClipFilename(label, ext string) string {
	return ClipPrefix + label + "." + strings.TrimPrefix(ext, ".")
}
