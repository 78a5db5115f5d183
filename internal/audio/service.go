// Package audio turns a downloaded media file into a pack clip: it trims,
// fades, peak-normalizes and transcodes the audio with ffmpeg.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/platform"
)

// FFmpeg constants
const (
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	NullMuxer           = "null"
	NullOutput          = "-"
	TempSuffix          = ".normalizing"
)

// Defaults mirror the pack settings
const (
	DefaultFormat     = "ogg"
	DefaultBitrate    = "64k"
	DefaultSampleRate = 32000
)

// codecs maps output formats to ffmpeg encoders. Unknown formats let ffmpeg
// pick the muxer default.
var codecs = map[string]string{
	"ogg":  "libvorbis",
	"oga":  "libvorbis",
	"opus": "libopus",
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"aac":  "aac",
	"flac": "flac",
	"wav":  "pcm_s16le",
}

var lossless = map[string]bool{"flac": true, "wav": true}

var maxVolumePattern = regexp.MustCompile(`max_volume:\s*(-?(?:inf|[\d.]+))\s*dB`)

// Options describe one normalization
type Options struct {
	Input      string
	Start      float64 // seconds, used only when End is set
	End        float64 // seconds, 0 keeps the whole file
	Format     string  // output container, e.g. "ogg"
	Bitrate    string  // e.g. "64k"
	SampleRate int     // Hz
	FadeMs     int     // fade-in and fade-out length, 0 disables
	TargetDB   float64 // target peak level in dBFS, 0 disables
}

// Normalizer runs ffmpeg and ffprobe
type Normalizer struct {
	ffmpeg  string
	ffprobe string
	log     logrus.FieldLogger
}

// NewNormalizer creates a normalizer using the binaries found in PATH
func NewNormalizer(log logrus.FieldLogger) *Normalizer {
	return &Normalizer{
		ffmpeg:  FFmpegCommand,
		ffprobe: FFprobeCommand,
		log:     log,
	}
}

// SetExecutables overrides the ffmpeg and ffprobe binaries
func (n *Normalizer) SetExecutables(ffmpeg, ffprobe string) {
	n.ffmpeg = ffmpeg
	n.ffprobe = ffprobe
}

// Normalize processes opts.Input and returns the output path: the input path
// with its extension replaced by the output format.
func (n *Normalizer) Normalize(ctx context.Context, opts Options) (string, error) {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "", fmt.Errorf("input file does not exist: %s", opts.Input)
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.End > 0 && opts.Start > opts.End {
		return "", fmt.Errorf("start %.3fs is after end %.3fs", opts.Start, opts.End)
	}

	length := 0.0
	if opts.End > 0 {
		length = opts.End - opts.Start
	} else if opts.FadeMs > 0 {
		d, err := n.Duration(ctx, opts.Input)
		if err != nil {
			return "", err
		}
		length = d
	}

	filters := BuildFilters(opts, length)

	if opts.TargetDB != 0 {
		peak, err := n.PeakLevel(ctx, opts.Input, filters)
		if err != nil {
			return "", err
		}
		if !math.IsInf(peak, 0) {
			gain := opts.TargetDB - peak
			filters = append(filters, fmt.Sprintf("volume=%.2fdB", gain))
			n.log.WithFields(logrus.Fields{"peak": peak, "gain": gain}).Debug("Applying gain")
		}
	}

	output := OutputPath(opts.Input, opts.Format)
	target := output
	if target == opts.Input {
		target = platform.ReplaceExtension(opts.Input, TempSuffix+"."+opts.Format)
	}

	args := BuildFFmpegArgs(opts.Input, target, filters, opts)
	if _, err := n.run(ctx, n.ffmpeg, args...); err != nil {
		os.Remove(target)
		return "", err
	}

	if target != output {
		if err := os.Rename(target, output); err != nil {
			os.Remove(target)
			return "", fmt.Errorf("failed to replace %s: %w", output, err)
		}
	}

	n.log.WithField("output", output).Debug("Normalized sound file")
	return output, nil
}

// Duration returns the duration of a media file in seconds using ffprobe
func (n *Normalizer) Duration(ctx context.Context, path string) (float64, error) {
	out, err := n.run(ctx, n.ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, path)
	if err != nil {
		return 0, err
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// PeakLevel measures the peak level in dBFS of the input after filters
func (n *Normalizer) PeakLevel(ctx context.Context, input string, filters []string) (float64, error) {
	chain := append(append([]string{}, filters...), "volumedetect")
	args := []string{
		"-hide_banner", "-nostats",
		"-i", input,
		"-vn",
		"-af", strings.Join(chain, ","),
		"-f", NullMuxer, NullOutput,
	}

	out, err := n.run(ctx, n.ffmpeg, args...)
	if err != nil {
		return 0, err
	}

	peak, ok := ParseMaxVolume(out)
	if !ok {
		return 0, fmt.Errorf("failed to measure peak level of %s", input)
	}
	return peak, nil
}

// run executes a binary and returns its combined stdout and stderr
func (n *Normalizer) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%s failed: %w: %s", name, err, lastLines(out.String(), 5))
	}
	return out.String(), nil
}

// BuildFilters builds the trim and fade part of the filter chain. length is the
// clip length in seconds, needed to place the fade-out.
func BuildFilters(opts Options, length float64) []string {
	var filters []string

	if opts.End > 0 {
		filters = append(filters,
			fmt.Sprintf("atrim=start=%s:end=%s", seconds(opts.Start), seconds(opts.End)),
			"asetpts=PTS-STARTPTS",
		)
	}

	if opts.FadeMs > 0 {
		fade := float64(opts.FadeMs) / 1000
		outStart := math.Max(0, length-fade)
		filters = append(filters,
			fmt.Sprintf("afade=t=in:st=0:d=%s", seconds(fade)),
			fmt.Sprintf("afade=t=out:st=%s:d=%s", seconds(outStart), seconds(fade)),
		)
	}

	return filters
}

// BuildFFmpegArgs builds the ffmpeg command arguments for the final encode
func BuildFFmpegArgs(input, output string, filters []string, opts Options) []string {
	args := []string{
		"-y",           // Overwrite output file
		"-hide_banner", // Quieter logs
		"-i", input,    // Input file
		"-vn", // Drop video and cover art
	}

	if len(filters) > 0 {
		args = append(args, "-af", strings.Join(filters, ","))
	}

	format := strings.ToLower(opts.Format)
	if codec, ok := codecs[format]; ok {
		args = append(args, "-c:a", codec)
	}
	if opts.Bitrate != "" && !lossless[format] {
		args = append(args, "-b:a", opts.Bitrate)
	}
	if opts.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRate))
	}

	return append(args, output)
}

// OutputPath returns the path of the normalized file for an input
func OutputPath(input, format string) string {
	return platform.ReplaceExtension(input, format)
}

// ParseMaxVolume extracts max_volume from volumedetect output
func ParseMaxVolume(output string) (float64, bool) {
	m := maxVolumePattern.FindAllStringSubmatch(output, -1)
	if len(m) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[len(m)-1][1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
