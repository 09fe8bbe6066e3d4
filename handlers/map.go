package handlers

import (
	"net/http"
)

// Map returns every geotagged image with its album annotation.
func (h *LibraryHandler) Map(w http.ResponseWriter, r *http.Request) {
	var images []libraryImage
	for _, img := range h.collectAll(r.Context()) {
		if img.Exif != nil && img.Exif.GPS != nil {
			images = append(images, img)
		}
	}
	if images == nil {
		images = []libraryImage{}
	}
	writeJSON(w, http.StatusOK, struct {
		Images []libraryImage `json:"images"`
	}{Images: images})
}
