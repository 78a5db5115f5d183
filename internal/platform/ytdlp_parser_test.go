package platform

import (
	"strings"
	"testing"
	"time"
)

const sampleInfo = `{"id":"dQw4w9WgXcQ","title":"Rick Astley - Never Gonna Give You Up","duration":212.0,` +
	`"filesize":3449421,"thumbnail":"https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",` +
	`"upload_date":"20091025","format":"249 - audio only (ultralow)","view_count":1500000000,` +
	`"webpage_url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","extractor":"youtube","_type":"video"}`

func TestParseMetadata(t *testing.T) {
	meta, err := ParseMetadata([]byte(sampleInfo))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if meta.ID != "dQw4w9WgXcQ" {
		t.Errorf("Expected ID 'dQw4w9WgXcQ', got '%s'", meta.ID)
	}
	if meta.Title != "Rick Astley - Never Gonna Give You Up" {
		t.Errorf("Unexpected title: %s", meta.Title)
	}
	if meta.Duration != 212 {
		t.Errorf("Expected duration 212, got %d", meta.Duration)
	}
	if meta.Size != 3449421 {
		t.Errorf("Expected size 3449421, got %d", meta.Size)
	}
	if meta.ViewCount != 1500000000 {
		t.Errorf("Expected view count 1500000000, got %d", meta.ViewCount)
	}
	expectedDate := time.Date(2009, time.October, 25, 0, 0, 0, 0, time.UTC)
	if !meta.UploadDate.Equal(expectedDate) {
		t.Errorf("Expected upload date %v, got %v", expectedDate, meta.UploadDate)
	}
	if meta.Extractor != "youtube" {
		t.Errorf("Expected extractor 'youtube', got '%s'", meta.Extractor)
	}
}

func TestParseMetadata_SizeFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{
			name:     "approximate size",
			input:    `{"id":"a","filesize":null,"filesize_approx":1000.7}`,
			expected: 1000,
		},
		{
			name:     "requested formats",
			input:    `{"id":"a","requested_formats":[{"filesize":100},{"filesize_approx":50}]}`,
			expected: 150,
		},
		{
			name:     "unknown size",
			input:    `{"id":"a"}`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseMetadata([]byte(tt.input))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if meta.Size != tt.expected {
				t.Errorf("Expected size %d, got %d", tt.expected, meta.Size)
			}
		})
	}
}

func TestParseMetadata_LastLine(t *testing.T) {
	input := "WARNING: something odd\n" + sampleInfo + "\n"
	meta, err := ParseMetadata([]byte(input))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if meta.ID != "dQw4w9WgXcQ" {
		t.Errorf("Expected ID 'dQw4w9WgXcQ', got '%s'", meta.ID)
	}
}

func TestParseMetadata_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errPart string
	}{
		{"empty", "   ", "empty"},
		{"not json", "nope", "decode"},
		{"playlist", `{"id":"PL1","title":"list","_type":"playlist"}`, "playlists"},
		{"no identity", `{"duration":3}`, "no id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMetadata([]byte(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestParseMetadata_BadUploadDateIgnored(t *testing.T) {
	meta, err := ParseMetadata([]byte(`{"id":"a","upload_date":"yesterday"}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !meta.UploadDate.IsZero() {
		t.Errorf("Expected zero upload date, got %v", meta.UploadDate)
	}
}
