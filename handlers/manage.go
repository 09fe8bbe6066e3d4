package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gallery-backend/config"
	"gallery-backend/gallery"
	"gallery-backend/media"
)

// ManageHandler implements the API-key-gated maintenance routes used
// by publishing tools. Paths in payloads are relative to the photos
// root ("portfolio", "albums/trip", "albums/trip/img.jpg").
type ManageHandler struct {
	Cfg    config.Config
	Thumbs *media.ThumbnailStore
}

// resolveDir validates an album path from a payload or query and maps
// it onto the photos root.
func (h *ManageHandler) resolveDir(w http.ResponseWriter, albumPath string) (string, bool) {
	if albumPath == "" {
		writeError(w, http.StatusBadRequest, "albumPath is required")
		return "", false
	}
	dir, ok := resolveUnder(h.Cfg.PhotosDir, albumPath)
	if !ok {
		writeError(w, http.StatusForbidden, "invalid path")
		return "", false
	}
	return dir, true
}

func removeDirIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(dir)
	}
}

type deletePayload struct {
	FilePath string `json:"filePath"`
}

// Delete removes a media file, its thumbnail and any directory either
// removal leaves empty.
func (h *ManageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var payload deletePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.FilePath == "" {
		writeError(w, http.StatusBadRequest, "filePath is required")
		return
	}

	absPath, ok := resolveUnder(h.Cfg.PhotosDir, payload.FilePath)
	if !ok {
		writeError(w, http.StatusForbidden, "invalid path")
		return
	}

	if err := os.Remove(absPath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("error deleting %s: %v", absPath, err)
			writeError(w, http.StatusInternalServerError, "failed to delete file")
			return
		}
		log.Printf("file to delete not found: %s", absPath)
	}

	thumbPath := h.Thumbs.Path(payload.FilePath)
	if err := os.Remove(thumbPath); err == nil {
		removeDirIfEmpty(filepath.Dir(thumbPath))
	}
	removeDirIfEmpty(filepath.Dir(absPath))

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type passwordPayload struct {
	AlbumPath string `json:"albumPath"`
	Password  string `json:"password"`
}

// SetPassword writes or clears an album's password.txt.
func (h *ManageHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var payload passwordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	dir, ok := h.resolveDir(w, payload.AlbumPath)
	if !ok {
		return
	}
	h.writeSidecar(w, filepath.Join(dir, gallery.PasswordFile), strings.TrimSpace(payload.Password))
}

type coverPayload struct {
	AlbumPath string `json:"albumPath"`
	Filename  string `json:"filename"`
}

// SetCover writes or clears an album's cover.txt.
func (h *ManageHandler) SetCover(w http.ResponseWriter, r *http.Request) {
	var payload coverPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	dir, ok := h.resolveDir(w, payload.AlbumPath)
	if !ok {
		return
	}
	h.writeSidecar(w, filepath.Join(dir, gallery.CoverFile), strings.TrimSpace(payload.Filename))
}

// writeSidecar creates the sidecar with content, or removes it when
// content is empty.
func (h *ManageHandler) writeSidecar(w http.ResponseWriter, path, content string) {
	var err error
	if content != "" {
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			err = os.WriteFile(path, []byte(content), 0o644)
		}
	} else if err = os.Remove(path); os.IsNotExist(err) {
		err = nil
	}
	if err != nil {
		log.Printf("error updating %s: %v", path, err)
		writeError(w, http.StatusInternalServerError, "failed to update sidecar file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type ignoreStatsPayload struct {
	AlbumPath string `json:"albumPath"`
	Ignored   bool   `json:"ignored"`
}

func (h *ManageHandler) GetIgnoreStats(w http.ResponseWriter, r *http.Request) {
	dir, ok := h.resolveDir(w, r.URL.Query().Get("albumPath"))
	if !ok {
		return
	}
	_, err := os.Stat(filepath.Join(dir, gallery.IgnoreStatsFile))
	writeJSON(w, http.StatusOK, map[string]bool{"ignored": err == nil})
}

func (h *ManageHandler) SetIgnoreStats(w http.ResponseWriter, r *http.Request) {
	var payload ignoreStatsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	dir, ok := h.resolveDir(w, payload.AlbumPath)
	if !ok {
		return
	}

	markerFile := filepath.Join(dir, gallery.IgnoreStatsFile)
	var err error
	if payload.Ignored {
		if err = os.MkdirAll(dir, 0o755); err == nil {
			err = os.WriteFile(markerFile, nil, 0o644)
		}
	} else if err = os.Remove(markerFile); os.IsNotExist(err) {
		err = nil
	}
	if err != nil {
		log.Printf("error updating ignore stats for %s: %v", payload.AlbumPath, err)
		writeError(w, http.StatusInternalServerError, "failed to update ignore stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// findReadmeFile picks the existing readme under dir regardless of
// casing, defaulting to README.md for new content.
func findReadmeFile(dir string) string {
	for _, name := range []string{"README.md", "readme.md", "Readme.md"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "README.md")
}

func (h *ManageHandler) GetReadme(w http.ResponseWriter, r *http.Request) {
	dir, ok := h.resolveDir(w, r.URL.Query().Get("albumPath"))
	if !ok {
		return
	}
	content, err := os.ReadFile(findReadmeFile(dir))
	if err != nil && !os.IsNotExist(err) {
		log.Printf("error reading readme in %s: %v", dir, err)
		writeError(w, http.StatusInternalServerError, "failed to read README")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": string(content)})
}

type readmePayload struct {
	AlbumPath string `json:"albumPath"`
	Content   string `json:"content"`
}

func (h *ManageHandler) SetReadme(w http.ResponseWriter, r *http.Request) {
	var payload readmePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	dir, ok := h.resolveDir(w, payload.AlbumPath)
	if !ok {
		return
	}

	readmeFile := findReadmeFile(dir)
	var err error
	if strings.TrimSpace(payload.Content) != "" {
		if err = os.MkdirAll(dir, 0o755); err == nil {
			err = os.WriteFile(readmeFile, []byte(payload.Content), 0o644)
		}
	} else if err = os.Remove(readmeFile); os.IsNotExist(err) {
		err = nil
	}
	if err != nil {
		log.Printf("error writing readme in %s: %v", dir, err)
		writeError(w, http.StatusInternalServerError, "failed to write README")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// captionFile maps a media path to its sidecar markdown file.
func captionFile(mediaAbsPath string) string {
	ext := filepath.Ext(mediaAbsPath)
	return strings.TrimSuffix(mediaAbsPath, ext) + ".md"
}

func (h *ManageHandler) GetCaption(w http.ResponseWriter, r *http.Request) {
	imagePath := r.URL.Query().Get("imagePath")
	if imagePath == "" {
		writeError(w, http.StatusBadRequest, "imagePath is required")
		return
	}
	absPath, ok := resolveUnder(h.Cfg.PhotosDir, imagePath)
	if !ok {
		writeError(w, http.StatusForbidden, "invalid path")
		return
	}
	content, err := os.ReadFile(captionFile(absPath))
	if err != nil && !os.IsNotExist(err) {
		log.Printf("error reading caption for %s: %v", imagePath, err)
		writeError(w, http.StatusInternalServerError, "failed to read caption")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": string(content)})
}

type captionPayload struct {
	ImagePath string `json:"imagePath"`
	Content   string `json:"content"`
}

func (h *ManageHandler) SetCaption(w http.ResponseWriter, r *http.Request) {
	var payload captionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ImagePath == "" {
		writeError(w, http.StatusBadRequest, "imagePath is required")
		return
	}
	absPath, ok := resolveUnder(h.Cfg.PhotosDir, payload.ImagePath)
	if !ok {
		writeError(w, http.StatusForbidden, "invalid path")
		return
	}
	h.writeSidecar(w, captionFile(absPath), strings.TrimSpace(payload.Content))
}

func (h *ManageHandler) GetTripDays(w http.ResponseWriter, r *http.Request) {
	dir, ok := h.resolveDir(w, r.URL.Query().Get("albumPath"))
	if !ok {
		return
	}
	_, err := os.Stat(filepath.Join(dir, gallery.TripDaysFile))
	writeJSON(w, http.StatusOK, map[string]bool{"tripDays": err == nil})
}

type tripDaysPayload struct {
	AlbumPath string `json:"albumPath"`
}

// ToggleTripDays flips the trip_days.txt marker that switches an album
// to day-by-day grouping.
func (h *ManageHandler) ToggleTripDays(w http.ResponseWriter, r *http.Request) {
	var payload tripDaysPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	dir, ok := h.resolveDir(w, payload.AlbumPath)
	if !ok {
		return
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		writeError(w, http.StatusNotFound, "album not found")
		return
	}

	markerFile := filepath.Join(dir, gallery.TripDaysFile)
	if _, err := os.Stat(markerFile); err == nil {
		if err := os.Remove(markerFile); err != nil {
			log.Printf("error disabling trip days for %s: %v", payload.AlbumPath, err)
			writeError(w, http.StatusInternalServerError, "failed to toggle trip days")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"tripDays": false})
		return
	}

	content := "# This file enables day-by-day grouping for this album.\n# Photos are grouped by their capture date.\n"
	if err := os.WriteFile(markerFile, []byte(content), 0o644); err != nil {
		log.Printf("error enabling trip days for %s: %v", payload.AlbumPath, err)
		writeError(w, http.StatusInternalServerError, "failed to toggle trip days")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"tripDays": true})
}
