package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

func TestCheck(t *testing.T) {
	out, err := executeCommand(rootCmd, "check", "https://youtu.be/dQw4w9WgXcQ", "https://cdn.example.com/clip.mp3")
	if err != nil {
		t.Fatalf("check error = %v, output %q", err, out)
	}
	if strings.Count(out, "supported\t") != 2 || strings.Contains(out, "unsupported") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCheck_Unsupported(t *testing.T) {
	out, err := executeCommand(rootCmd, "check", "https://example.invalid/x", "https://youtu.be/dQw4w9WgXcQ")
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("check error = %v, want 1 of 2 unsupported", err)
	}
	if !strings.Contains(out, "unsupported\thttps://example.invalid/x") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCheck_NeedsAnArgument(t *testing.T) {
	if _, err := executeCommand(rootCmd, "check"); err == nil {
		t.Fatal("check without links should fail")
	}
}

func TestNormalizeOptions(t *testing.T) {
	saved := normalizeOpts
	t.Cleanup(func() { normalizeOpts = saved })

	tests := []struct {
		name       string
		start, end string
		wantStart  float64
		wantEnd    float64
		wantErr    bool
	}{
		{name: "whole file"},
		{name: "window", start: "00:10", end: "01:30.5", wantStart: 10, wantEnd: 90.5},
		{name: "bad start", start: "ten", wantErr: true},
		{name: "bad end", end: "1:2:3", wantErr: true},
		{name: "start after end", start: "02:00", end: "01:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalizeOpts.start, normalizeOpts.end = tt.start, tt.end
			opts, err := normalizeOptions("in.webm")
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.Input != "in.webm" || opts.Start != tt.wantStart || opts.End != tt.wantEnd {
				t.Errorf("unexpected options %+v", opts)
			}
		})
	}
}

func TestNormalize_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.webm")
	if _, err := executeCommand(rootCmd, "normalize", missing); err == nil {
		t.Fatal("normalize of a missing file should fail")
	}
}

func TestServe_InvalidSettings(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CHANNEL_PACK", "")
	t.Setenv("CHANNEL_MANAGE_PACK", "")
	t.Setenv("GUILD_IDS", "")

	_, err := executeCommand(rootCmd, "serve", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "failed to validate settings") {
		t.Fatalf("serve error = %v, want a validation failure", err)
	}
}
