// Package format holds the pure formatting helpers used in user-facing
// messages: byte counts, latency colours and MM:SS clock values.
package format

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Latency thresholds in milliseconds
const (
	LowLatency  = 200
	HighLatency = 400
)

// Colours returned by ColorLevel
const (
	ColourBrightGreen = 0x01D277
	ColourOrange      = 0xE67E22
	ColourRed         = 0xFF0000
)

var (
	metricLabels = []string{"B", "kB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}
	binaryLabels = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}

	// precisionOffsets lowers the unit threshold so that rounding never prints
	// "1024.0 KiB" instead of "1.0 MiB".
	precisionOffsets = []float64{0.5, 0.05, 0.005, 0.0005}
)

// ErrInvalidClock is returned by ParseClock for malformed input
var ErrInvalidClock = errors.New("invalid clock value")

var clockPattern = regexp.MustCompile(`^(\d{1,4}):([0-5]\d)(?:\.(\d{1,6}))?$`)

// ColorLevel returns the colour intensity of a value
func ColorLevel(value, low, high float64) int {
	switch {
	case value < low:
		return ColourBrightGreen
	case value < high:
		return ColourOrange
	default:
		return ColourRed
	}
}

// LatencyColor returns ColorLevel with the default latency thresholds
func LatencyColor(ms float64) int {
	return ColorLevel(ms, LowLatency, HighLatency)
}

// FormatBytes formats a byte count using binary (powers of 1024) or metric
// (powers of 1000) units. Precision is the number of decimals (0-3).
func FormatBytes(num float64, metric bool, precision int) string {
	precision = max(0, min(precision, len(precisionOffsets)-1))

	labels := binaryLabels
	step := 1024.0
	if metric {
		labels = metricLabels
		step = 1000.0
	}
	last := labels[len(labels)-1]
	threshold := step - precisionOffsets[precision]

	sign := ""
	if num < 0 {
		sign = "-"
		num = math.Abs(num)
	}

	unit := ""
	for _, unit = range labels {
		if num < threshold {
			break
		}
		if unit != last {
			num /= step
		}
	}

	return fmt.Sprintf("%s%.*f %s", sign, precision, num, unit)
}

// Bytes formats n with binary units and one decimal
func Bytes(n int64) string {
	return FormatBytes(float64(n), false, 1)
}

// ParseClock parses "MM:SS" or "MM:SS.fff" into seconds
func ParseClock(s string) (float64, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	total := float64(minutes*60 + seconds)

	if m[3] != "" {
		frac, err := strconv.ParseFloat("0."+m[3], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		total += frac
	}

	return total, nil
}

// FormatClock formats whole seconds as MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
