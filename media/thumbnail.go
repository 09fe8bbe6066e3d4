package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ThumbnailStore generates and caches JPEG thumbnails mirroring the
// source tree under a dedicated root. A cached thumbnail is valid iff it
// exists and its mtime is at least the source's mtime.
type ThumbnailStore struct {
	Root     string // absolute thumbnails directory
	MaxWidth int
	Quality  int
}

// Path maps a photos-root-relative media path to its thumbnail location,
// with the extension forced to .jpg.
func (ts *ThumbnailStore) Path(relativePath string) string {
	rel := filepath.FromSlash(relativePath)
	ext := filepath.Ext(rel)
	return filepath.Join(ts.Root, strings.TrimSuffix(rel, ext)+".jpg")
}

// IsFresh reports whether the cached thumbnail for relativePath is still
// valid against the source file.
func (ts *ThumbnailStore) IsFresh(sourceAbsPath, relativePath string) bool {
	thumbStat, err := os.Stat(ts.Path(relativePath))
	if err != nil {
		return false
	}
	srcStat, err := os.Stat(sourceAbsPath)
	if err != nil {
		return false
	}
	return !thumbStat.ModTime().Before(srcStat.ModTime())
}

// Ensure returns the absolute path of the thumbnail for an image,
// generating it when missing or stale. Resizing is bounded by MaxWidth,
// preserves aspect ratio and never upscales.
func (ts *ThumbnailStore) Ensure(sourceAbsPath, relativePath string) (string, error) {
	thumbPath := ts.Path(relativePath)
	if ts.IsFresh(sourceAbsPath, relativePath) {
		return thumbPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(thumbPath), 0755); err != nil {
		return "", fmt.Errorf("thumbnail: failed to create directory for %s: %w", relativePath, err)
	}

	img, err := imaging.Open(sourceAbsPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("thumbnail: failed to open %s: %w", sourceAbsPath, err)
	}

	if img.Bounds().Dx() > ts.MaxWidth {
		img = imaging.Resize(img, ts.MaxWidth, 0, imaging.Lanczos)
	}

	if err := imaging.Save(img, thumbPath, imaging.JPEGQuality(ts.Quality)); err != nil {
		return "", fmt.Errorf("thumbnail: failed to save %s: %w", thumbPath, err)
	}

	return thumbPath, nil
}
