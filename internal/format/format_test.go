package format

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		num       float64
		metric    bool
		precision int
		expected  string
	}{
		{0, false, 1, "0.0 B"},
		{1023, false, 1, "1023.0 B"},
		{1024, false, 1, "1.0 KiB"},
		{1023.96, false, 1, "1.0 KiB"},
		{5242880, false, 1, "5.0 MiB"},
		{20971520, false, 1, "20.0 MiB"},
		{1536, false, 2, "1.50 KiB"},
		{999, true, 0, "999 B"},
		{1000, true, 0, "1 kB"},
		{1500000, true, 1, "1.5 MB"},
		{-1024, false, 1, "-1.0 KiB"},
		{-5, false, 0, "-5 B"},
		{1 << 40, false, 3, "1.000 TiB"},
		{1024, false, 9, "1.000 KiB"},
	}

	for _, test := range tests {
		result := FormatBytes(test.num, test.metric, test.precision)
		if result != test.expected {
			t.Errorf("FormatBytes(%v, %v, %d) = %q, expected %q", test.num, test.metric, test.precision, result, test.expected)
		}
	}
}

func TestFormatBytes_LastUnitAbsorbsOverflow(t *testing.T) {
	result := FormatBytes(1e30, true, 0)
	if !strings.HasSuffix(result, " YB") {
		t.Errorf("Expected YB suffix for huge values, got %q", result)
	}
}

// The printed unit is the first unit whose value stays below the threshold.
func TestFormatBytes_UnitChoiceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		num := rapid.Float64Range(0, 1e20).Draw(t, "num")
		metric := rapid.Bool().Draw(t, "metric")
		precision := rapid.IntRange(0, 3).Draw(t, "precision")

		labels, step := binaryLabels, 1024.0
		if metric {
			labels, step = metricLabels, 1000.0
		}
		threshold := step - precisionOffsets[precision]

		out := FormatBytes(num, metric, precision)
		parts := strings.SplitN(out, " ", 2)
		if len(parts) != 2 {
			t.Fatalf("unexpected output %q", out)
		}

		idx := -1
		for i, l := range labels {
			if l == parts[1] {
				idx = i
			}
		}
		if idx < 0 {
			t.Fatalf("unknown unit in %q", out)
		}

		scaled := num
		for i := 0; i < idx; i++ {
			scaled /= step
		}
		if scaled >= threshold && idx != len(labels)-1 {
			t.Fatalf("%q: value %v is not below threshold %v", out, scaled, threshold)
		}
		if idx > 0 && scaled*step < threshold*(1-1e-12) {
			t.Fatalf("%q: a smaller unit would have fit", out)
		}

		printed, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			t.Fatalf("unparsable number in %q: %v", out, err)
		}
		if printed < 0 {
			t.Fatalf("non-negative input printed negative: %q", out)
		}
	})
}

func TestFormatBytes_NegativeSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		num := rapid.Float64Range(1e-3, 1e18).Draw(t, "num")
		metric := rapid.Bool().Draw(t, "metric")
		precision := rapid.IntRange(0, 3).Draw(t, "precision")

		pos := FormatBytes(num, metric, precision)
		neg := FormatBytes(-num, metric, precision)
		if neg != "-"+pos {
			t.Fatalf("FormatBytes(-%v) = %q, expected %q", num, neg, "-"+pos)
		}
	})
}

func TestColorLevel(t *testing.T) {
	tests := []struct {
		value    float64
		expected int
	}{
		{0, ColourBrightGreen},
		{199, ColourBrightGreen},
		{200, ColourOrange},
		{399, ColourOrange},
		{400, ColourRed},
		{1200, ColourRed},
	}

	for _, test := range tests {
		result := LatencyColor(test.value)
		if result != test.expected {
			t.Errorf("LatencyColor(%v) = %#x, expected %#x", test.value, result, test.expected)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"00:00", 0, false},
		{"01:30", 90, false},
		{"02:00", 120, false},
		{"1:05", 65, false},
		{"10:00.5", 600.5, false},
		{"100:00", 6000, false},
		{"1000:05", 60005, false},
		{"10000:00", 0, true},
		{"00:60", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1:2", 0, true},
		{"01:30:00", 0, true},
	}

	for _, test := range tests {
		result, err := ParseClock(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %v", test.input, result)
			} else if !errors.Is(err, ErrInvalidClock) {
				t.Errorf("ParseClock(%q) error should wrap ErrInvalidClock, got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", test.input, err)
			continue
		}
		if result != test.expected {
			t.Errorf("ParseClock(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{150, "02:30"},
		{6000, "100:00"},
		{-3, "00:00"},
	}

	for _, test := range tests {
		if got := FormatClock(test.seconds); got != test.expected {
			t.Errorf("FormatClock(%d) = %q, expected %q", test.seconds, got, test.expected)
		}
	}
}

func TestClockRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seconds := rapid.IntRange(0, 9999*60+59).Draw(t, "seconds")
		parsed, err := ParseClock(FormatClock(seconds))
		if err != nil {
			t.Fatalf("ParseClock(FormatClock(%d)) failed: %v", seconds, err)
		}
		if int(parsed) != seconds {
			t.Fatalf("round trip of %d gave %v", seconds, parsed)
		}
	})
}
