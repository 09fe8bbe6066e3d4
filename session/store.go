package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie set on the first unlock-related
// request.
const CookieName = "gallery_session"

const sessionTTL = 24 * time.Hour

type sessionData struct {
	unlocked  map[string]bool
	expiresAt time.Time
}

// Store tracks per-session unlocked albums in memory. Sessions are
// anonymous: the cookie is an opaque id, there is no user identity.
// State is lost on restart, which only means re-entering album
// passwords.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*sessionData
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*sessionData)}
}

// SessionID returns the request's session id, creating a new session and
// setting the cookie when absent or expired.
func (s *Store) SessionID(w http.ResponseWriter, r *http.Request) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()

	if c, err := r.Cookie(CookieName); err == nil {
		if _, ok := s.sessions[c.Value]; ok {
			return c.Value
		}
	}

	id := uuid.NewString()
	s.sessions[id] = &sessionData{
		unlocked:  make(map[string]bool),
		expiresAt: time.Now().Add(sessionTTL),
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// IsUnlocked reports whether this session has unlocked albumPath.
func (s *Store) IsUnlocked(sessionID, albumPath string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd, ok := s.sessions[sessionID]
	return ok && sd.unlocked[albumPath]
}

// Unlock marks albumPath unlocked for the session; repeat calls are
// idempotent.
func (s *Store) Unlock(sessionID, albumPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sd, ok := s.sessions[sessionID]; ok {
		sd.unlocked[albumPath] = true
	}
}

// expireLocked drops expired sessions; callers hold the mutex.
func (s *Store) expireLocked() {
	now := time.Now()
	for id, sd := range s.sessions {
		if now.After(sd.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
