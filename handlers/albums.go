package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gallery-backend/config"
	"gallery-backend/gallery"
	"gallery-backend/session"
)

type AlbumHandler struct {
	Cfg      config.Config
	Scanner  *gallery.Scanner
	Sessions *session.Store
}

func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Scanner.Albums(r.Context()))
}

func (h *AlbumHandler) Detail(w http.ResponseWriter, r *http.Request) {
	albumPath := strings.Trim(chi.URLParam(r, "*"), "/")
	if albumPath == "" {
		writeError(w, http.StatusBadRequest, "album path is required")
		return
	}
	albumPath = "albums/" + albumPath

	if _, ok := resolveUnder(h.Cfg.AlbumsDir, strings.TrimPrefix(albumPath, "albums/")); !ok {
		log.Printf("attempted album access outside albums directory: %q", albumPath)
		writeError(w, http.StatusForbidden, "invalid album path")
		return
	}

	unlocked := false
	if h.Scanner.PasswordFor(albumPath) != "" {
		sessionID := h.Sessions.SessionID(w, r)
		unlocked = h.Sessions.IsUnlocked(sessionID, albumPath)
	}

	detail, err := h.Scanner.AlbumDetail(r.Context(), albumPath, unlocked)
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			writeError(w, http.StatusNotFound, "album not found")
			return
		}
		log.Printf("error loading album %s: %v", albumPath, err)
		writeError(w, http.StatusInternalServerError, "failed to load album")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
