package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"gallery-backend/models"
)

func TestCacheLookupRequiresMatchingMtime(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "cache.json"))

	c.Store("/photos/a.jpg", Entry{Mtime: 100, Width: 6000, Height: 4000})

	if _, ok := c.Lookup("/photos/a.jpg", 100); !ok {
		t.Error("expected hit for matching mtime")
	}
	if _, ok := c.Lookup("/photos/a.jpg", 101); ok {
		t.Error("expected miss after mtime changed")
	}
	if _, ok := c.Lookup("/photos/missing.jpg", 100); ok {
		t.Error("expected miss for unknown path")
	}
}

func TestCacheSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	camera := "Fujifilm X-T5"
	c := NewCache(path)
	c.Store("/photos/a.jpg", Entry{
		Mtime:  100,
		Width:  6000,
		Height: 4000,
		Exif:   &models.ExifData{Camera: camera, Keywords: []string{"travel"}},
	})
	if err := c.SaveSnapshot(nil); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	reloaded := NewCache(path)
	reloaded.Load()

	entry, ok := reloaded.Lookup("/photos/a.jpg", 100)
	if !ok {
		t.Fatal("expected entry to survive the round trip")
	}
	if entry.Width != 6000 || entry.Height != 4000 {
		t.Errorf("got %dx%d, want 6000x4000", entry.Width, entry.Height)
	}
	if entry.Exif == nil || entry.Exif.Camera != camera {
		t.Errorf("exif did not survive the round trip: %+v", entry.Exif)
	}
}

func TestCacheSaveSnapshotPrunes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := NewCache(path)
	c.Store("/photos/kept.jpg", Entry{Mtime: 1})
	c.Store("/photos/deleted.jpg", Entry{Mtime: 2})

	keep := map[string]bool{"/photos/kept.jpg": true}
	if err := c.SaveSnapshot(keep); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if c.Len() != 1 {
		t.Errorf("expected pruning to apply in memory, got %d entries", c.Len())
	}
	if _, ok := c.Lookup("/photos/deleted.jpg", 2); ok {
		t.Error("expected pruned entry to be gone")
	}

	reloaded := NewCache(path)
	reloaded.Load()
	if reloaded.Len() != 1 {
		t.Errorf("expected pruned snapshot on disk, got %d entries", reloaded.Len())
	}
}

func TestCacheLoadIgnoresCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt snapshot: %v", err)
	}

	c := NewCache(path)
	c.Load()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after corrupt load, got %d entries", c.Len())
	}
}
