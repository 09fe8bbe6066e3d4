package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/facette/natsort"

	"gallery-backend/config"
)

type frequencyEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type yearEntry struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

type statsResponse struct {
	TotalPhotos    int              `json:"totalPhotos"`
	TotalAlbums    int              `json:"totalAlbums"`
	TotalGroups    int              `json:"totalGroups"`
	DiskUsageBytes int64            `json:"diskUsageBytes"`
	Cameras        []frequencyEntry `json:"cameras"`
	Lenses         []frequencyEntry `json:"lenses"`
	FocalLengths   []frequencyEntry `json:"focalLengths"`
	Apertures      []frequencyEntry `json:"apertures"`
	ISOs           []frequencyEntry `json:"isos"`
	ByYear         []yearEntry      `json:"byYear"`
	ByHour         [24]int          `json:"byHour"`
	GeotaggedCount int              `json:"geotaggedCount"`
	KeywordedCount int              `json:"keywordedCount"`
}

func sortedFrequencies(counts map[string]int) []frequencyEntry {
	entries := make([]frequencyEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, frequencyEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return natsort.Compare(entries[i].Name, entries[j].Name)
	})
	return entries
}

func addCount(counts map[string]int, key string) {
	if key != "" {
		counts[key]++
	}
}

// takenTime converts the canonical capture timestamp of img, reporting
// false when the image is undated.
func takenTime(img libraryImage) (time.Time, bool) {
	if img.Exif == nil || img.Exif.TakenAt == nil {
		return time.Time{}, false
	}
	return time.Unix(*img.Exif.TakenAt, 0).UTC(), true
}

func (h *LibraryHandler) Stats(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statsResponse{
			Cameras:      []frequencyEntry{},
			Lenses:       []frequencyEntry{},
			FocalLengths: []frequencyEntry{},
			Apertures:    []frequencyEntry{},
			ISOs:         []frequencyEntry{},
			ByYear:       []yearEntry{},
		}

		tree := h.Scanner.Albums(r.Context())
		resp.TotalGroups = len(tree.Groups)
		resp.TotalAlbums = len(tree.Albums)
		for _, group := range tree.Groups {
			resp.TotalAlbums += len(group.Albums)
		}

		cameras := make(map[string]int)
		lenses := make(map[string]int)
		focalLengths := make(map[string]int)
		apertures := make(map[string]int)
		isos := make(map[string]int)
		years := make(map[string]int)

		for _, img := range h.collectAll(r.Context()) {
			resp.TotalPhotos++

			if fi, err := os.Stat(filepath.Join(cfg.PhotosDir, filepath.FromSlash(img.Path))); err == nil {
				resp.DiskUsageBytes += fi.Size()
			}

			if img.Exif == nil {
				continue
			}
			addCount(cameras, img.Exif.Camera)
			addCount(lenses, img.Exif.Lens)
			addCount(focalLengths, img.Exif.FocalLength)
			addCount(apertures, img.Exif.Aperture)
			if img.Exif.ISO != nil {
				addCount(isos, strconv.Itoa(*img.Exif.ISO))
			}
			if img.Exif.GPS != nil {
				resp.GeotaggedCount++
			}
			if len(img.Exif.Keywords) > 0 {
				resp.KeywordedCount++
			}
			if t, ok := takenTime(img); ok {
				years[strconv.Itoa(t.Year())]++
				resp.ByHour[t.Hour()]++
			}
		}

		resp.Cameras = sortedFrequencies(cameras)
		resp.Lenses = sortedFrequencies(lenses)
		resp.FocalLengths = sortedFrequencies(focalLengths)
		resp.Apertures = sortedFrequencies(apertures)
		resp.ISOs = sortedFrequencies(isos)

		for year, count := range years {
			resp.ByYear = append(resp.ByYear, yearEntry{Year: year, Count: count})
		}
		sort.Slice(resp.ByYear, func(i, j int) bool { return resp.ByYear[i].Year < resp.ByYear[j].Year })

		writeJSON(w, http.StatusOK, resp)
	}
}

// StatsFilter returns the images behind one stats bucket, so the
// frequency tables can link through to their photos.
func (h *LibraryHandler) StatsFilter(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	value := r.URL.Query().Get("value")
	if field == "" || value == "" {
		writeError(w, http.StatusBadRequest, "field and value are required")
		return
	}

	matches := func(img libraryImage) bool {
		if img.Exif == nil {
			return false
		}
		switch field {
		case "camera":
			return img.Exif.Camera == value
		case "lens":
			return img.Exif.Lens == value
		case "focalLength":
			return img.Exif.FocalLength == value
		case "aperture":
			return img.Exif.Aperture == value
		case "iso":
			return img.Exif.ISO != nil && strconv.Itoa(*img.Exif.ISO) == value
		case "year":
			t, ok := takenTime(img)
			return ok && strconv.Itoa(t.Year()) == value
		}
		return false
	}

	switch field {
	case "camera", "lens", "focalLength", "aperture", "iso", "year":
	default:
		writeError(w, http.StatusBadRequest, "unknown stats field")
		return
	}

	images := []libraryImage{}
	for _, img := range h.collectAll(r.Context()) {
		if matches(img) {
			images = append(images, img)
		}
	}
	writeJSON(w, http.StatusOK, struct {
		Images []libraryImage `json:"images"`
	}{Images: images})
}
