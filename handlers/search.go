package handlers

import (
	"net/http"
	"strings"
)

// Search matches the query against image keywords, case-insensitive
// substring.
func (h *LibraryHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if query == "" {
		writeJSON(w, http.StatusOK, struct {
			Results []libraryImage `json:"results"`
		}{Results: []libraryImage{}})
		return
	}

	results := []libraryImage{}
	for _, img := range h.collectAll(r.Context()) {
		if img.Exif == nil {
			continue
		}
		for _, kw := range img.Exif.Keywords {
			if strings.Contains(strings.ToLower(kw), query) {
				results = append(results, img)
				break
			}
		}
	}

	writeJSON(w, http.StatusOK, struct {
		Results []libraryImage `json:"results"`
		Query   string         `json:"query"`
	}{Results: results, Query: query})
}
