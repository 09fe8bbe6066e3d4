package workers

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"gallery-backend/config"
	"gallery-backend/media"
	"gallery-backend/metadata"
)

func newTestSweeper(t *testing.T) (*Sweeper, config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Config{
		PhotosDir:         root,
		PortfolioDir:      filepath.Join(root, "portfolio"),
		AlbumsDir:         filepath.Join(root, "albums"),
		ThumbnailsDir:     filepath.Join(root, ".thumbnails"),
		CacheFile:         filepath.Join(root, ".metadata-cache.json"),
		ThumbnailMaxWidth: 600,
		ThumbnailQuality:  80,
		NumSweepWorkers:   2,
		SweepQueueSize:    16,
	}
	for _, dir := range []string{cfg.PortfolioDir, cfg.AlbumsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	meta := &metadata.Service{
		Cache:     metadata.NewCache(cfg.CacheFile),
		Extractor: &metadata.Extractor{},
	}
	thumbs := &media.ThumbnailStore{Root: cfg.ThumbnailsDir, MaxWidth: cfg.ThumbnailMaxWidth, Quality: cfg.ThumbnailQuality}
	sw := NewSweeper(cfg, meta, thumbs)
	t.Cleanup(sw.Stop)
	return sw, cfg
}

func writeSweepImage(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create image directory: %v", err)
	}
	img := imaging.New(40, 30, color.NRGBA{R: 60, G: 60, B: 60, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
}

func TestSweepGeneratesThumbnailsAndSnapshot(t *testing.T) {
	sw, cfg := newTestSweeper(t)

	writeSweepImage(t, filepath.Join(cfg.PortfolioDir, "a.jpg"))
	writeSweepImage(t, filepath.Join(cfg.AlbumsDir, "trip", "b.jpg"))
	writeSweepImage(t, filepath.Join(cfg.AlbumsDir, ".hidden", "c.jpg"))

	sw.Sweep("test")

	for _, rel := range []string{
		filepath.Join("portfolio", "a.jpg"),
		filepath.Join("albums", "trip", "b.jpg"),
	} {
		if _, err := os.Stat(filepath.Join(cfg.ThumbnailsDir, rel)); err != nil {
			t.Errorf("expected thumbnail for %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.ThumbnailsDir, "albums", ".hidden", "c.jpg")); err == nil {
		t.Error("hidden directories must not be swept")
	}

	if _, err := os.Stat(cfg.CacheFile); err != nil {
		t.Errorf("expected metadata snapshot after sweep: %v", err)
	}
	if sw.Meta.Cache.Len() != 2 {
		t.Errorf("cache entries = %d, want 2", sw.Meta.Cache.Len())
	}
}

func TestSweepPrunesDeletedFiles(t *testing.T) {
	sw, cfg := newTestSweeper(t)

	keep := filepath.Join(cfg.PortfolioDir, "keep.jpg")
	gone := filepath.Join(cfg.PortfolioDir, "gone.jpg")
	writeSweepImage(t, keep)
	writeSweepImage(t, gone)

	sw.Sweep("test")
	if sw.Meta.Cache.Len() != 2 {
		t.Fatalf("cache entries = %d, want 2", sw.Meta.Cache.Len())
	}

	if err := os.Remove(gone); err != nil {
		t.Fatalf("failed to delete image: %v", err)
	}

	sw.Sweep("test")
	if sw.Meta.Cache.Len() != 1 {
		t.Errorf("cache entries = %d, want 1 after prune", sw.Meta.Cache.Len())
	}

	fi, err := os.Stat(keep)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sw.Meta.Cache.Lookup(keep, fi.ModTime().UnixNano()); !ok {
		t.Error("expected entry for surviving file to remain")
	}
}
