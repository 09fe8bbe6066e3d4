package metadata

import (
	"testing"
	"time"
)

func TestFormatShutterSpeed(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0.004, "1/250s"},
		{0.5, "1/2s"},
		{1, "1s"},
		{1.5, "1.5s"},
		{30, "30s"},
	}

	for _, tt := range tests {
		got := FormatShutterSpeed(tt.seconds)
		if got != tt.expected {
			t.Errorf("FormatShutterSpeed(%v) = %s, want %s", tt.seconds, got, tt.expected)
		}
	}
}

func TestFormatExposureComp(t *testing.T) {
	tests := []struct {
		ev       float64
		expected string
	}{
		{0, "±0 EV"},
		{0.7, "+0.7 EV"},
		{2, "+2.0 EV"},
		{-1.3, "-1.3 EV"},
	}

	for _, tt := range tests {
		got := FormatExposureComp(tt.ev)
		if got != tt.expected {
			t.Errorf("FormatExposureComp(%v) = %s, want %s", tt.ev, got, tt.expected)
		}
	}
}

func TestFormatMegapixels(t *testing.T) {
	tests := []struct {
		width    int
		height   int
		expected string
	}{
		{6000, 4000, "24.0 MP"},
		{1920, 1080, "2.1 MP"},
		{800, 600, "480 KP"},
	}

	for _, tt := range tests {
		got := FormatMegapixels(tt.width, tt.height)
		if got != tt.expected {
			t.Errorf("FormatMegapixels(%d, %d) = %s, want %s", tt.width, tt.height, got, tt.expected)
		}
	}
}

func TestFormatCamera(t *testing.T) {
	tests := []struct {
		name     string
		make     string
		model    string
		expected string
	}{
		{"distinct make and model", "Fujifilm", "X-T5", "Fujifilm X-T5"},
		{"model repeats make", "Canon", "Canon EOS R5", "Canon EOS R5"},
		{"model only", "", "X100V", "X100V"},
		{"make only", "Sony", "", "Sony"},
		{"padded values", " NIKON ", " Z 6 ", "NIKON Z 6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCamera(tt.make, tt.model)
			if got != tt.expected {
				t.Errorf("FormatCamera(%q, %q) = %q, want %q", tt.make, tt.model, got, tt.expected)
			}
		})
	}
}

func TestFormatDateTaken(t *testing.T) {
	// the canonical timestamp is camera wall-clock time read as UTC,
	// so formatting must not apply any local offset
	takenAt := time.Date(2025, time.January, 15, 15, 30, 0, 0, time.UTC).Unix()
	got := FormatDateTaken(takenAt)
	want := "Jan 15, 2025 at 3:30 PM"
	if got != want {
		t.Errorf("FormatDateTaken(%d) = %q, want %q", takenAt, got, want)
	}
}
