package handlers

import (
	"context"
	"sync"
	"time"

	"gallery-backend/gallery"
	"gallery-backend/models"
)

// libraryImage is an ImageInfo annotated with the album it came from,
// used by the cross-album routes (map, search, timeline).
type libraryImage struct {
	models.ImageInfo
	AlbumName string `json:"albumName,omitempty"`
	AlbumPath string `json:"albumPath,omitempty"`
}

// LibraryHandler serves the routes that aggregate over the whole
// library: map, search, tags, stats and timeline. Albums flagged with
// ignorestats.txt (and the portfolio, if flagged) are excluded from
// every aggregate.
type LibraryHandler struct {
	Scanner *gallery.Scanner

	timelineMu      sync.Mutex
	timelineCache   []libraryImage
	timelineScanned time.Time
}

// collectAll walks portfolio plus every album (groups included) and
// returns their images with album annotations, skipping stats-ignored
// directories.
func (h *LibraryHandler) collectAll(ctx context.Context) []libraryImage {
	var out []libraryImage

	if !h.Scanner.IsPortfolioStatsIgnored() {
		for _, img := range h.Scanner.Portfolio(ctx) {
			out = append(out, libraryImage{ImageInfo: img, AlbumName: "Portfolio", AlbumPath: "portfolio"})
		}
	}

	tree := h.Scanner.Albums(ctx)
	appendAlbum := func(name, path string) {
		if h.Scanner.IsStatsIgnored(path) {
			return
		}
		for _, img := range h.Scanner.AlbumImages(ctx, path) {
			out = append(out, libraryImage{ImageInfo: img, AlbumName: name, AlbumPath: path})
		}
	}

	for _, album := range tree.Albums {
		appendAlbum(album.Name, album.Path)
	}
	for _, group := range tree.Groups {
		for _, album := range group.Albums {
			appendAlbum(group.Name+" / "+album.Name, album.Path)
		}
	}
	return out
}
