package media

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func newTestStore(t *testing.T) *ThumbnailStore {
	t.Helper()
	return &ThumbnailStore{
		Root:     filepath.Join(t.TempDir(), ".thumbnails"),
		MaxWidth: 600,
		Quality:  80,
	}
}

func writeTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create image directory: %v", err)
	}
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
}

func TestThumbnailPathMirrorsTreeWithJpegExtension(t *testing.T) {
	ts := newTestStore(t)

	tests := []struct {
		rel      string
		expected string
	}{
		{"portfolio/sunset.jpg", filepath.Join(ts.Root, "portfolio", "sunset.jpg")},
		{"albums/trip/peak.png", filepath.Join(ts.Root, "albums", "trip", "peak.jpg")},
		{"albums/trip/clip.mp4", filepath.Join(ts.Root, "albums", "trip", "clip.jpg")},
	}

	for _, tt := range tests {
		if got := ts.Path(tt.rel); got != tt.expected {
			t.Errorf("Path(%s) = %s, want %s", tt.rel, got, tt.expected)
		}
	}
}

func TestEnsureResizesWideImages(t *testing.T) {
	ts := newTestStore(t)
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "wide.jpg")
	writeTestImage(t, src, 1800, 1200)

	thumbPath, err := ts.Ensure(src, "portfolio/wide.jpg")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	thumb, err := imaging.Open(thumbPath)
	if err != nil {
		t.Fatalf("failed to open generated thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() != ts.MaxWidth {
		t.Errorf("thumbnail width = %d, want %d", thumb.Bounds().Dx(), ts.MaxWidth)
	}
	if thumb.Bounds().Dy() != 400 {
		t.Errorf("thumbnail height = %d, want 400", thumb.Bounds().Dy())
	}
}

func TestEnsureNeverUpscales(t *testing.T) {
	ts := newTestStore(t)
	src := filepath.Join(t.TempDir(), "small.jpg")
	writeTestImage(t, src, 300, 200)

	thumbPath, err := ts.Ensure(src, "portfolio/small.jpg")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	thumb, err := imaging.Open(thumbPath)
	if err != nil {
		t.Fatalf("failed to open generated thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() != 300 {
		t.Errorf("thumbnail width = %d, want 300 (no upscaling)", thumb.Bounds().Dx())
	}
}

func TestEnsureRegeneratesOnlyWhenSourceNewer(t *testing.T) {
	ts := newTestStore(t)
	src := filepath.Join(t.TempDir(), "photo.jpg")
	writeTestImage(t, src, 800, 600)

	thumbPath, err := ts.Ensure(src, "portfolio/photo.jpg")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if !ts.IsFresh(src, "portfolio/photo.jpg") {
		t.Fatal("expected thumbnail to be fresh after generation")
	}

	firstStat, err := os.Stat(thumbPath)
	if err != nil {
		t.Fatalf("failed to stat thumbnail: %v", err)
	}

	// an untouched source must not trigger regeneration
	if _, err := ts.Ensure(src, "portfolio/photo.jpg"); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	secondStat, err := os.Stat(thumbPath)
	if err != nil {
		t.Fatalf("failed to stat thumbnail: %v", err)
	}
	if !secondStat.ModTime().Equal(firstStat.ModTime()) {
		t.Error("thumbnail was regenerated for an unchanged source")
	}

	// touching the source past the thumbnail mtime invalidates it
	future := firstStat.ModTime().Add(2 * time.Second)
	if err := os.Chtimes(src, future, future); err != nil {
		t.Fatalf("failed to touch source: %v", err)
	}
	if ts.IsFresh(src, "portfolio/photo.jpg") {
		t.Error("expected thumbnail to be stale after source changed")
	}
}
