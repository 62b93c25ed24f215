// Package session keeps server-side browser sessions in Badger and identifies
// them with a signed cookie.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Flash kinds understood by the layout template.
const (
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the state kept for one browser client. UserID is zero while the
// client is anonymous.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	isNew bool
	dirty bool
}

// newSession returns an unsaved anonymous session with a fresh random ID. It
// is only persisted once something is stored in it.
func newSession(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		isNew:     true,
	}
}

// IsNew reports whether the session has never been saved.
func (s *Session) IsNew() bool { return s.isNew }

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool { return s.dirty }

// Authenticated reports whether a user is logged in on this session.
func (s *Session) Authenticated() bool { return s != nil && s.UserID > 0 }

// Login binds the session to userID.
func (s *Session) Login(userID int) {
	s.UserID = userID
	s.dirty = true
}

// Logout returns the session to the anonymous state.
func (s *Session) Logout() {
	s.UserID = 0
	s.dirty = true
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// PopFlashes returns and clears the queued messages.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return out
}
