package model

import (
	"testing"
	"time"
)

func TestProgress_ETAString(t *testing.T) {
	tests := []struct {
		eta      time.Duration
		expected string
	}{
		{-time.Second, "..."},
		{0, "..."},
		{30 * time.Second, "00:30"},
		{90 * time.Second, "01:30"},
		{time.Hour, "01:00:00"},
		{3661 * time.Second, "01:01:01"},
	}

	for _, test := range tests {
		p := Progress{ETA: test.eta}
		result := p.ETAString()
		if result != test.expected {
			t.Errorf("ETAString() with ETA=%v = %s, expected %s", test.eta, result, test.expected)
		}
	}
}

func TestProgress_PercentString(t *testing.T) {
	tests := []struct {
		progress Progress
		expected string
	}{
		{Progress{}, "..."},
		{Progress{Percent: 42.25, DownloadedBytes: 10}, "42.2%"},
		{Progress{Percent: 100}, "100.0%"},
		{Progress{DownloadedBytes: 1}, "0.0%"},
	}

	for _, test := range tests {
		result := test.progress.PercentString()
		if result != test.expected {
			t.Errorf("PercentString() for %+v = %s, expected %s", test.progress, result, test.expected)
		}
	}
}

func TestProgress_ElapsedString(t *testing.T) {
	p := Progress{Elapsed: 75 * time.Second}
	if got := p.ElapsedString(); got != "01:15" {
		t.Errorf("ElapsedString() = %s, expected 01:15", got)
	}

	if got := (Progress{}).ElapsedString(); got != "00:00" {
		t.Errorf("ElapsedString() for zero progress = %s, expected 00:00", got)
	}
}

func TestMetadata_DisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		url      string
		expected string
	}{
		{"Video Title", "https://youtube.com/watch?v=123", "Video Title"},
		{"", "https://youtube.com/watch?v=123", "https://youtube.com/watch?v=123"},
	}

	for _, test := range tests {
		m := &Metadata{Title: test.title, WebpageURL: test.url}
		result := m.DisplayTitle()
		if result != test.expected {
			t.Errorf("DisplayTitle() with title=%q, url=%q = %q, expected %q", test.title, test.url, result, test.expected)
		}
	}
}

func TestClipEntry_Name(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"custom.music.rickroll.ogg", "custom.music.rickroll"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
	}

	for _, test := range tests {
		result := ClipEntry{Filename: test.filename}.Name()
		if result != test.expected {
			t.Errorf("Name() for %q = %q, expected %q", test.filename, result, test.expected)
		}
	}
}
