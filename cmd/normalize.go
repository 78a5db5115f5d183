package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ytget/soundpack/internal/audio"
	"github.com/ytget/soundpack/internal/format"
)

var normalizeOpts struct {
	start      string
	end        string
	format     string
	bitrate    string
	sampleRate int
	fadeMs     int
	loudness   float64
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE",
	Short: "Trim, fade and level an audio file the way published clips are",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := normalizeOptions(args[0])
		if err != nil {
			return err
		}

		out, err := audio.NewNormalizer(log).Normalize(cmd.Context(), opts)
		if err != nil {
			return errors.Wrapf(err, "failed to normalize %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func normalizeOptions(input string) (audio.Options, error) {
	opts := audio.Options{
		Input:      input,
		Format:     normalizeOpts.format,
		Bitrate:    normalizeOpts.bitrate,
		SampleRate: normalizeOpts.sampleRate,
		FadeMs:     normalizeOpts.fadeMs,
		TargetDB:   normalizeOpts.loudness,
	}

	if normalizeOpts.start != "" {
		start, err := format.ParseClock(normalizeOpts.start)
		if err != nil {
			return opts, errors.Wrap(err, "invalid --start")
		}
		opts.Start = start
	}
	if normalizeOpts.end != "" {
		end, err := format.ParseClock(normalizeOpts.end)
		if err != nil {
			return opts, errors.Wrap(err, "invalid --end")
		}
		opts.End = end
	}
	if opts.End > 0 && opts.Start > opts.End {
		return opts, errors.New("--start must not be after --end")
	}
	return opts, nil
}

func init() {
	f := normalizeCmd.Flags()
	f.StringVar(&normalizeOpts.start, "start", "", "Trim start, MM:SS or MM:SS.fff")
	f.StringVar(&normalizeOpts.end, "end", "", "Trim end, MM:SS or MM:SS.fff")
	f.StringVar(&normalizeOpts.format, "format", audio.DefaultFormat, "Output format")
	f.StringVar(&normalizeOpts.bitrate, "bitrate", audio.DefaultBitrate, "Output bitrate")
	f.IntVar(&normalizeOpts.sampleRate, "sample-rate", audio.DefaultSampleRate, "Output sample rate in Hz")
	f.IntVar(&normalizeOpts.fadeMs, "fade", 1000, "Fade in and out length in milliseconds")
	f.Float64Var(&normalizeOpts.loudness, "loudness", -16, "Target peak level in dBFS, 0 disables")
	rootCmd.AddCommand(normalizeCmd)
}
