package metadata

import (
	"context"
	"fmt"
	"os"

	"gallery-backend/media"
	"gallery-backend/metrics"
)

// Service memoizes metadata extraction through the mtime-keyed cache.
// Image files go through the EXIF extractor; video files are probed with
// ffprobe and carry no EXIF block.
type Service struct {
	Cache     *Cache
	Extractor *Extractor
}

// Get returns the metadata entry for one media file, recomputing and
// overwriting the cache entry when the file's mtime has changed.
func (s *Service) Get(ctx context.Context, absPath string) (Entry, error) {
	fi, err := os.Stat(absPath)
	if err != nil {
		return Entry{}, fmt.Errorf("metadata: stat %s: %w", absPath, err)
	}
	mtime := fi.ModTime().UnixNano()

	if e, ok := s.Cache.Lookup(absPath, mtime); ok {
		metrics.MetadataCacheHits.Inc()
		return e, nil
	}
	metrics.MetadataCacheMisses.Inc()

	var entry Entry
	if media.IsVideoFile(absPath) {
		info, err := media.ProbeVideo(ctx, absPath)
		if err != nil {
			metrics.MetadataExtractErrors.Inc()
			return Entry{}, err
		}
		d := info.Duration
		entry = Entry{Mtime: mtime, Width: info.Width, Height: info.Height, Duration: &d}
	} else {
		m, err := s.Extractor.Extract(absPath)
		if err != nil {
			metrics.MetadataExtractErrors.Inc()
			return Entry{}, err
		}
		entry = Entry{Mtime: mtime, Width: m.Width, Height: m.Height, Exif: m.Exif}
	}

	s.Cache.Store(absPath, entry)
	return entry, nil
}
