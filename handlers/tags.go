package handlers

import (
	"net/http"
	"sort"

	"github.com/facette/natsort"

	"gallery-backend/models"
)

// Tags returns every keyword with its frequency, most frequent first.
// Equal counts fall back to natural string order so numbered tags list
// sensibly.
func (h *LibraryHandler) Tags(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int)
	for _, img := range h.collectAll(r.Context()) {
		if img.Exif == nil {
			continue
		}
		for _, kw := range img.Exif.Keywords {
			counts[kw]++
		}
	}

	tags := make([]models.Tag, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, models.Tag{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return natsort.Compare(tags[i].Tag, tags[j].Tag)
	})

	writeJSON(w, http.StatusOK, struct {
		Tags []models.Tag `json:"tags"`
	}{Tags: tags})
}
