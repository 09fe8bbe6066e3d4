package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"gallery-backend/config"
	"gallery-backend/media"
)

const imageCacheControl = "public, max-age=86400"

type ImageHandler struct {
	Cfg    config.Config
	Thumbs *media.ThumbnailStore
}

// resolveMedia validates the wildcard path of an image route against the
// photos root and requires the source file to exist.
func (h *ImageHandler) resolveMedia(w http.ResponseWriter, r *http.Request) (absPath, relPath string, ok bool) {
	relPath = strings.Trim(chi.URLParam(r, "*"), "/")
	if relPath == "" {
		writeError(w, http.StatusBadRequest, "image path is required")
		return "", "", false
	}

	absPath, valid := resolveUnder(h.Cfg.PhotosDir, relPath)
	if !valid {
		log.Printf("attempted image access outside photos directory: %q", relPath)
		writeError(w, http.StatusForbidden, "invalid image path")
		return "", "", false
	}

	if _, err := os.Stat(absPath); err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return "", "", false
	}
	return absPath, relPath, true
}

func (h *ImageHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	absPath, relPath, ok := h.resolveMedia(w, r)
	if !ok {
		return
	}

	var thumbPath string
	var err error
	if media.IsVideoFile(absPath) {
		thumbPath, err = h.Thumbs.EnsureVideo(r.Context(), absPath, relPath, h.Cfg.VideoThumbOffset)
	} else {
		thumbPath, err = h.Thumbs.Ensure(absPath, relPath)
	}
	if err != nil {
		log.Printf("error generating thumbnail for %s: %v", relPath, err)
		writeError(w, http.StatusInternalServerError, "failed to generate thumbnail")
		return
	}

	// video thumbnails are always encoded as JPEG
	contentType := "image/jpeg"
	if mime, known := media.ImageMIMETypes[strings.ToLower(filepath.Ext(relPath))]; known {
		contentType = mime
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", imageCacheControl)
	http.ServeFile(w, r, thumbPath)
}

func (h *ImageHandler) Full(w http.ResponseWriter, r *http.Request) {
	absPath, _, ok := h.resolveMedia(w, r)
	if !ok {
		return
	}
	if mime, known := media.ImageMIMETypes[strings.ToLower(filepath.Ext(absPath))]; known {
		w.Header().Set("Content-Type", mime)
	}
	w.Header().Set("Cache-Control", imageCacheControl)
	http.ServeFile(w, r, absPath)
}

func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	absPath, _, ok := h.resolveMedia(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(absPath)))
	http.ServeFile(w, r, absPath)
}

// Video streams the source file; http.ServeFile handles range requests
// so seeking works in browser players.
func (h *ImageHandler) Video(w http.ResponseWriter, r *http.Request) {
	absPath, _, ok := h.resolveMedia(w, r)
	if !ok {
		return
	}
	if !media.IsVideoFile(absPath) {
		writeError(w, http.StatusBadRequest, "not a video file")
		return
	}
	http.ServeFile(w, r, absPath)
}
