package metadata

import "testing"

func TestFormatAspectRatio(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		expected string
	}{
		{"full hd", 1920, 1080, "16:9"},
		{"classic 35mm", 3000, 2000, "3:2"},
		{"portrait 35mm", 2000, 3000, "2:3"},
		{"four thirds", 4000, 3000, "4:3"},
		{"square", 100, 100, "1:1"},
		{"vertical video collapses to 16:9", 1080, 1920, "16:9"},
		{"near 9:16 portrait", 1100, 1920, "9:16"},
		{"near 3:2 crop", 2994, 2000, "3:2"},
		{"near 4:3 crop", 2660, 2000, "4:3"},
		{"panorama stays exact", 3000, 1000, "3:1"},
		{"odd ratio falls through", 2100, 1000, "21:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAspectRatio(tt.width, tt.height)
			if got != tt.expected {
				t.Errorf("FormatAspectRatio(%d, %d) = %s, want %s", tt.width, tt.height, got, tt.expected)
			}
		})
	}
}
