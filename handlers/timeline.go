package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"
)

// timelineTTL bounds how stale the cached timeline may get; scrolling
// pages through the memo instead of rescanning the filesystem.
const timelineTTL = 5 * time.Minute

func (h *LibraryHandler) fullTimeline(r *http.Request) []libraryImage {
	h.timelineMu.Lock()
	defer h.timelineMu.Unlock()

	if h.timelineCache != nil && time.Since(h.timelineScanned) < timelineTTL {
		return h.timelineCache
	}

	images := h.collectAll(r.Context())
	sort.SliceStable(images, func(i, j int) bool {
		ti, iDated := takenTime(images[i])
		tj, jDated := takenTime(images[j])
		if iDated != jDated {
			return iDated
		}
		return ti.After(tj)
	})

	h.timelineCache = images
	h.timelineScanned = time.Now()
	return images
}

// Timeline pages through every image in the library, newest first with
// undated photos at the bottom.
func (h *LibraryHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 50
	}
	offset := (page - 1) * limit

	all := h.fullTimeline(r)
	slice := []libraryImage{}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		slice = all[offset:end]
	}

	writeJSON(w, http.StatusOK, struct {
		Images  []libraryImage `json:"images"`
		Total   int            `json:"total"`
		HasMore bool           `json:"hasMore"`
	}{Images: slice, Total: len(all), HasMore: offset+limit < len(all)})
}
