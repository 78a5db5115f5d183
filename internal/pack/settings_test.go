package pack

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/ytget/soundpack/internal/ui"
)

func TestMaxTrimDuration(t *testing.T) {
	const mib = 1024 * 1024

	tests := []struct {
		name        string
		duration    int
		size        int64
		maxFilesize int64
		want        int
	}{
		{"half of the size", 300, 10 * mib, 5 * mib, 150},
		{"already small", 300, 2 * mib, 5 * mib, 300},
		{"unknown size", 300, 0, 5 * mib, 300},
		{"floors", 100, 3 * mib, 1 * mib, 33},
		{"no duration", 0, 10 * mib, 5 * mib, 0},
		{"no publish limit", 300, 10 * mib, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxTrimDuration(tt.duration, tt.size, tt.maxFilesize); got != tt.want {
				t.Errorf("MaxTrimDuration(%d, %d, %d) = %d, want %d", tt.duration, tt.size, tt.maxFilesize, got, tt.want)
			}
		})
	}
}

func TestMaxTrimDuration_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		duration := rapid.IntRange(0, 24*3600).Draw(t, "duration")
		size := rapid.Int64Range(0, 1<<34).Draw(t, "size")
		a := rapid.Int64Range(0, 1<<30).Draw(t, "a")
		b := rapid.Int64Range(0, 1<<30).Draw(t, "b")
		if a > b {
			a, b = b, a
		}

		low := MaxTrimDuration(duration, size, a)
		high := MaxTrimDuration(duration, size, b)

		if high > duration || low > duration {
			t.Fatalf("ceiling exceeds duration %d: %d, %d", duration, low, high)
		}
		if low > high {
			t.Fatalf("ceiling decreased with a larger limit: %d (limit %d) > %d (limit %d)", low, a, high, b)
		}
		if low < 0 {
			t.Fatalf("negative ceiling %d", low)
		}
	})
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantKey string
		check   func(t *testing.T, s Settings)
	}{
		{
			name:   "defaults",
			fields: map[string]string{ui.FieldLabel: "music.rickroll", ui.FieldEnd: "02:30"},
			check: func(t *testing.T, s Settings) {
				if s.Window.Start != 0 || s.Window.End != 150 {
					t.Errorf("Window = %+v, want 0..150", s.Window)
				}
				if s.Volume != 1 || s.FadeMs != 1000 {
					t.Errorf("Volume = %v FadeMs = %d", s.Volume, s.FadeMs)
				}
				if s.Label != "music.rickroll" {
					t.Errorf("Label = %q", s.Label)
				}
			},
		},
		{
			name: "custom values",
			fields: map[string]string{
				ui.FieldLabel:  " ambient sea ",
				ui.FieldStart:  "00:10.5",
				ui.FieldEnd:    "01:00",
				ui.FieldVolume: "150%",
				ui.FieldFade:   "250",
			},
			check: func(t *testing.T, s Settings) {
				if s.Window.Start != 10.5 || s.Window.End != 60 {
					t.Errorf("Window = %+v", s.Window)
				}
				if s.Volume != 1.5 || s.FadeMs != 250 {
					t.Errorf("Volume = %v FadeMs = %d", s.Volume, s.FadeMs)
				}
				if s.Label != "ambient_sea" {
					t.Errorf("Label = %q", s.Label)
				}
			},
		},
		{
			name:   "zero fade uses default",
			fields: map[string]string{ui.FieldLabel: "a", ui.FieldEnd: "01:00", ui.FieldFade: "0"},
			check: func(t *testing.T, s Settings) {
				if s.FadeMs != 1000 {
					t.Errorf("FadeMs = %d, want default", s.FadeMs)
				}
			},
		},
		{"malformed start", map[string]string{ui.FieldLabel: "a", ui.FieldStart: "1:2"}, ui.KeyInvalidTimes, nil},
		{"malformed end", map[string]string{ui.FieldLabel: "a", ui.FieldEnd: "ab:cd"}, ui.KeyInvalidTimes, nil},
		{"seconds over 59", map[string]string{ui.FieldLabel: "a", ui.FieldStart: "00:75"}, ui.KeyInvalidTimes, nil},
		{"malformed volume", map[string]string{ui.FieldLabel: "a", ui.FieldVolume: "loud"}, ui.KeyInvalidVolumeFade, nil},
		{"volume out of range", map[string]string{ui.FieldLabel: "a", ui.FieldVolume: "0%"}, ui.KeyInvalidVolumeFade, nil},
		{"malformed fade", map[string]string{ui.FieldLabel: "a", ui.FieldFade: "1s"}, ui.KeyInvalidVolumeFade, nil},
		{"start after duration", map[string]string{ui.FieldLabel: "a", ui.FieldStart: "05:01", ui.FieldEnd: "02:00"}, ui.KeyInvalidStart, nil},
		{"end after ceiling", map[string]string{ui.FieldLabel: "a", ui.FieldEnd: "02:31"}, ui.KeyInvalidEnd, nil},
		{"start after end", map[string]string{ui.FieldLabel: "a", ui.FieldStart: "02:00", ui.FieldEnd: "01:00"}, ui.KeyStartAfterEnd, nil},
		{"zero end", map[string]string{ui.FieldLabel: "a", ui.FieldEnd: "00:00"}, ui.KeyStartAfterEnd, nil},
		{"start equals end", map[string]string{ui.FieldLabel: "a", ui.FieldStart: "01:00", ui.FieldEnd: "01:00"}, ui.KeyStartAfterEnd, nil},
		{"empty label", map[string]string{ui.FieldLabel: " ... "}, ui.KeyInvalidLabel, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSettings(tt.fields, 300, 150, 1000)

			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("ParseSettings() error = %v", err)
				}
				tt.check(t, s)
				return
			}

			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("ParseSettings() error = %v, want *InputError", err)
			}
			if inputErr.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", inputErr.Key, tt.wantKey)
			}
		})
	}
}

func TestParseSettings_EndDefaultsToFullDuration(t *testing.T) {
	s, err := ParseSettings(map[string]string{ui.FieldLabel: "a"}, 213, 213, 0)
	if err != nil {
		t.Fatalf("ParseSettings() error = %v", err)
	}
	if s.Window.End != 213 {
		t.Errorf("End = %v, want 213", s.Window.End)
	}
}

func TestParseSettings_LongSourceDefaultEnd(t *testing.T) {
	const duration = 1000*60 + 5

	s, err := ParseSettings(map[string]string{ui.FieldLabel: "a"}, duration, duration, 0)
	if err != nil {
		t.Fatalf("ParseSettings() error = %v", err)
	}
	if s.Window.Start != 0 || s.Window.End != duration {
		t.Errorf("Window = %+v, want 0..%d", s.Window, duration)
	}
}

func TestClipFilename(t *testing.T) {
	if got := ClipFilename("music.rickroll", "ogg"); got != "custom.music.rickroll.ogg" {
		t.Errorf("ClipFilename() = %q", got)
	}
	if got := ClipFilename("a", ".mp3"); got != "custom.a.mp3" {
		t.Errorf("ClipFilename() = %q", got)
	}
}
