package handlers

import (
	"encoding/json"
	"net/http"

	"gallery-backend/gallery"
	"gallery-backend/session"
)

type AuthHandler struct {
	Scanner  *gallery.Scanner
	Sessions *session.Store
}

type authCheckPayload struct {
	AlbumPath string `json:"albumPath"`
}

type authUnlockPayload struct {
	AlbumPath string `json:"albumPath"`
	Password  string `json:"password"`
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	var payload authCheckPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.AlbumPath == "" {
		writeError(w, http.StatusBadRequest, "albumPath required")
		return
	}

	password := h.Scanner.PasswordFor(payload.AlbumPath)
	sessionID := h.Sessions.SessionID(w, r)
	writeJSON(w, http.StatusOK, struct {
		HasPassword bool `json:"hasPassword"`
		IsUnlocked  bool `json:"isUnlocked"`
	}{
		HasPassword: password != "",
		IsUnlocked:  password == "" || h.Sessions.IsUnlocked(sessionID, payload.AlbumPath),
	})
}

func (h *AuthHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var payload authUnlockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.AlbumPath == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "albumPath and password required")
		return
	}

	correct := h.Scanner.PasswordFor(payload.AlbumPath)
	if correct == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "album has no password"})
		return
	}

	if payload.Password != correct {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": "incorrect password"})
		return
	}

	sessionID := h.Sessions.SessionID(w, r)
	h.Sessions.Unlock(sessionID, payload.AlbumPath)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
