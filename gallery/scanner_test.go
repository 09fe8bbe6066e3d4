package gallery

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/disintegration/imaging"

	"gallery-backend/config"
	"gallery-backend/metadata"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	root := t.TempDir()
	cfg := config.Config{
		PhotosDir:     root,
		PortfolioDir:  filepath.Join(root, "portfolio"),
		AlbumsDir:     filepath.Join(root, "albums"),
		ThumbnailsDir: filepath.Join(root, ".thumbnails"),
		CacheFile:     filepath.Join(root, ".metadata-cache.json"),
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
	return NewScanner(cfg, meta)
}

func writeTestImage(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create image directory: %v", err)
	}
	img := imaging.New(40, 30, color.NRGBA{R: 200, G: 150, B: 90, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
}

func writeSidecar(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestFormatAlbumName(t *testing.T) {
	tests := []struct {
		dirname  string
		expected string
	}{
		{"summer-trip", "Summer Trip"},
		{"summer_trip", "Summer Trip"},
		{"2024_japan", "2024 Japan"},
		{"already Nice", "Already Nice"},
		{"a", "A"},
	}

	for _, tt := range tests {
		if got := FormatAlbumName(tt.dirname); got != tt.expected {
			t.Errorf("FormatAlbumName(%q) = %q, want %q", tt.dirname, got, tt.expected)
		}
	}
}

func TestAlbumNameOrdering(t *testing.T) {
	names := []string{"20240101_trip", "adventures", "20240301_trip"}
	sort.SliceStable(names, func(i, j int) bool { return AlbumNameLess(names[i], names[j]) })

	expected := []string{"20240301_trip", "20240101_trip", "adventures"}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("sorted order = %v, want %v", names, expected)
		}
	}
}

func TestIsHiddenDir(t *testing.T) {
	tests := []struct {
		name   string
		hidden bool
	}{
		{".thumbnails", true},
		{"@eaDir", true},
		{"@EADIR", true},
		{"vacation", false},
		{"eadir", false},
	}

	for _, tt := range tests {
		if got := IsHiddenDir(tt.name); got != tt.hidden {
			t.Errorf("IsHiddenDir(%q) = %v, want %v", tt.name, got, tt.hidden)
		}
	}
}

func TestAlbumsClassifiesAlbumsAndGroups(t *testing.T) {
	s := newTestScanner(t)

	// direct media makes an album, even with subdirectories present
	writeTestImage(t, filepath.Join(s.Cfg.AlbumsDir, "trip", "a.jpg"))
	if err := os.MkdirAll(filepath.Join(s.Cfg.AlbumsDir, "trip", "extras"), 0o755); err != nil {
		t.Fatal(err)
	}

	// no direct media but a qualifying child makes a group
	writeTestImage(t, filepath.Join(s.Cfg.AlbumsDir, "japan", "tokyo", "b.jpg"))

	// empty directories and hidden directories are omitted
	if err := os.MkdirAll(filepath.Join(s.Cfg.AlbumsDir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestImage(t, filepath.Join(s.Cfg.AlbumsDir, "@eaDir", "junk.jpg"))

	tree := s.Albums(context.Background())

	if len(tree.Albums) != 1 || tree.Albums[0].Slug != "trip" {
		t.Fatalf("expected exactly one album %q, got %+v", "trip", tree.Albums)
	}
	if tree.Albums[0].Path != "albums/trip" {
		t.Errorf("album path = %q, want albums/trip", tree.Albums[0].Path)
	}
	if len(tree.Groups) != 1 || tree.Groups[0].Slug != "japan" {
		t.Fatalf("expected exactly one group %q, got %+v", "japan", tree.Groups)
	}
	if len(tree.Groups[0].Albums) != 1 || tree.Groups[0].Albums[0].Path != "albums/japan/tokyo" {
		t.Errorf("group albums = %+v, want one at albums/japan/tokyo", tree.Groups[0].Albums)
	}
}

func TestCoverSelection(t *testing.T) {
	s := newTestScanner(t)
	ctx := context.Background()

	albumDir := filepath.Join(s.Cfg.AlbumsDir, "trip")
	writeTestImage(t, filepath.Join(albumDir, "b.jpg"))
	writeTestImage(t, filepath.Join(albumDir, "a.jpg"))

	// no cover.txt falls back to the first file alphabetically
	info := s.buildAlbumInfo(ctx, albumDir, "albums/trip")
	if info.CoverImage == nil || *info.CoverImage != "/api/images/thumbnail/albums/trip/a.jpg" {
		t.Errorf("default cover = %v, want a.jpg thumbnail URL", info.CoverImage)
	}

	// cover.txt naming an existing file wins
	writeSidecar(t, filepath.Join(albumDir, "cover.txt"), "b.jpg\n")
	info = s.buildAlbumInfo(ctx, albumDir, "albums/trip")
	if info.CoverImage == nil || *info.CoverImage != "/api/images/thumbnail/albums/trip/b.jpg" {
		t.Errorf("cover = %v, want b.jpg thumbnail URL", info.CoverImage)
	}
	if info.CoverWidth == nil || *info.CoverWidth != 40 {
		t.Errorf("cover width = %v, want 40", info.CoverWidth)
	}

	// a cover.txt naming a missing file falls back alphabetically
	writeSidecar(t, filepath.Join(albumDir, "cover.txt"), "gone.jpg")
	info = s.buildAlbumInfo(ctx, albumDir, "albums/trip")
	if info.CoverImage == nil || *info.CoverImage != "/api/images/thumbnail/albums/trip/a.jpg" {
		t.Errorf("cover fallback = %v, want a.jpg thumbnail URL", info.CoverImage)
	}
}

func TestProtectedAlbumWithholdsCover(t *testing.T) {
	s := newTestScanner(t)

	albumDir := filepath.Join(s.Cfg.AlbumsDir, "secret")
	writeTestImage(t, filepath.Join(albumDir, "a.jpg"))
	writeSidecar(t, filepath.Join(albumDir, "password.txt"), "hunter2\n")

	info := s.buildAlbumInfo(context.Background(), albumDir, "albums/secret")
	if !info.HasPassword {
		t.Error("expected HasPassword to be set")
	}
	if info.CoverImage != nil || info.CoverWidth != nil || info.CoverHeight != nil {
		t.Errorf("protected album leaked cover data: %+v", info)
	}
	if info.ImageCount != 1 {
		t.Errorf("image count = %d, want 1", info.ImageCount)
	}
}

func TestAlbumDetailLockedShortForm(t *testing.T) {
	s := newTestScanner(t)

	albumDir := filepath.Join(s.Cfg.AlbumsDir, "secret")
	writeTestImage(t, filepath.Join(albumDir, "a.jpg"))
	writeTestImage(t, filepath.Join(albumDir, "b.jpg"))
	writeSidecar(t, filepath.Join(albumDir, "password.txt"), "hunter2")

	detail, err := s.AlbumDetail(context.Background(), "albums/secret", false)
	if err != nil {
		t.Fatalf("AlbumDetail failed: %v", err)
	}
	if !detail.NeedsPassword {
		t.Error("expected NeedsPassword in locked response")
	}
	if detail.ImageCount != 2 {
		t.Errorf("image count = %d, want 2", detail.ImageCount)
	}
	if len(detail.Images) != 0 {
		t.Errorf("locked album leaked %d images", len(detail.Images))
	}

	// unlocking reveals the full listing
	detail, err = s.AlbumDetail(context.Background(), "albums/secret", true)
	if err != nil {
		t.Fatalf("AlbumDetail failed: %v", err)
	}
	if detail.NeedsPassword {
		t.Error("unlocked album must not demand a password")
	}
	if len(detail.Images) != 2 {
		t.Errorf("expected 2 images, got %d", len(detail.Images))
	}
}

func TestAlbumDetailEndToEnd(t *testing.T) {
	s := newTestScanner(t)

	albumDir := filepath.Join(s.Cfg.AlbumsDir, "trip")
	writeTestImage(t, filepath.Join(albumDir, "b.jpg"))
	writeTestImage(t, filepath.Join(albumDir, "a.jpg"))
	writeSidecar(t, filepath.Join(albumDir, "cover.txt"), "b.jpg")
	writeSidecar(t, filepath.Join(albumDir, "README.md"), "# Trip\n")

	detail, err := s.AlbumDetail(context.Background(), "albums/trip", false)
	if err != nil {
		t.Fatalf("AlbumDetail failed: %v", err)
	}
	if detail.Type != "album" {
		t.Errorf("type = %q, want album", detail.Type)
	}
	if detail.Name != "Trip" {
		t.Errorf("name = %q, want Trip", detail.Name)
	}
	if len(detail.Images) != 2 || detail.Images[0].Filename != "a.jpg" || detail.Images[1].Filename != "b.jpg" {
		t.Fatalf("images not in alphabetical order: %+v", detail.Images)
	}
	if detail.Images[0].Width != 40 || detail.Images[0].Height != 30 {
		t.Errorf("dimensions = %dx%d, want 40x30", detail.Images[0].Width, detail.Images[0].Height)
	}
	if detail.Readme == "" {
		t.Error("expected rendered README content")
	}

	// the tree view uses the cover override
	tree := s.Albums(context.Background())
	if len(tree.Albums) != 1 {
		t.Fatalf("expected one album, got %d", len(tree.Albums))
	}
	if cover := tree.Albums[0].CoverImage; cover == nil || *cover != "/api/images/thumbnail/albums/trip/b.jpg" {
		t.Errorf("cover = %v, want b.jpg thumbnail URL", cover)
	}
}

func TestAlbumDetailGroupAndMissing(t *testing.T) {
	s := newTestScanner(t)

	writeTestImage(t, filepath.Join(s.Cfg.AlbumsDir, "japan", "tokyo", "a.jpg"))

	detail, err := s.AlbumDetail(context.Background(), "albums/japan", false)
	if err != nil {
		t.Fatalf("AlbumDetail failed: %v", err)
	}
	if detail.Type != "group" {
		t.Errorf("type = %q, want group", detail.Type)
	}
	if len(detail.Albums) != 1 || detail.Albums[0].Path != "albums/japan/tokyo" {
		t.Errorf("group albums = %+v", detail.Albums)
	}

	if _, err := s.AlbumDetail(context.Background(), "albums/nope", false); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing album, got %v", err)
	}

	// a directory with neither media nor qualifying children is not found
	if err := os.MkdirAll(filepath.Join(s.Cfg.AlbumsDir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AlbumDetail(context.Background(), "albums/empty", false); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for empty directory, got %v", err)
	}
}

func TestPortfolioListing(t *testing.T) {
	s := newTestScanner(t)

	writeTestImage(t, filepath.Join(s.Cfg.PortfolioDir, "z.jpg"))
	writeTestImage(t, filepath.Join(s.Cfg.PortfolioDir, "a.jpg"))
	writeSidecar(t, filepath.Join(s.Cfg.PortfolioDir, "notes.txt"), "not media")

	images := s.Portfolio(context.Background())
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Filename != "a.jpg" || images[1].Filename != "z.jpg" {
		t.Errorf("unexpected order: %s, %s", images[0].Filename, images[1].Filename)
	}
	if images[0].Path != "portfolio/a.jpg" {
		t.Errorf("path = %q, want portfolio/a.jpg", images[0].Path)
	}
	if images[0].ThumbnailURL != "/api/images/thumbnail/portfolio/a.jpg" {
		t.Errorf("thumbnail URL = %q", images[0].ThumbnailURL)
	}
}
