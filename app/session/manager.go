package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "quill_session"

// Manager ties the Badger store to the signed session cookie.
type Manager struct {
	store  *Store
	codec  *Codec
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// Options configures a Manager.
type Options struct {
	Secret       string
	TTL          time.Duration
	SecureCookie bool
}

// NewManager builds a Manager over store.
func NewManager(store *Store, opts Options) (*Manager, error) {
	codec, err := NewCodec(opts.Secret, opts.TTL)
	if err != nil {
		return nil, err
	}
	return &Manager{
		store:  store,
		codec:  codec,
		ttl:    opts.TTL,
		secure: opts.SecureCookie,
		now:    time.Now,
	}, nil
}

// Store returns the underlying session store.
func (m *Manager) Store() *Store { return m.store }

// Load returns the session named by the request cookie. A missing, forged or
// expired cookie yields a fresh anonymous session that is not saved until Save.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return newSession(m.now()), nil
	}
	id, err := m.codec.Decode(cookie.Value)
	if err != nil {
		return newSession(m.now()), nil
	}
	sess, err := m.store.Get(id)
	if errors.Is(err, ErrNotFound) {
		return newSession(m.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// Save persists sess and, for new sessions, issues the cookie. Unchanged
// sessions are left alone.
func (m *Manager) Save(w http.ResponseWriter, sess *Session) error {
	if !sess.Dirty() {
		return nil
	}
	wasNew := sess.IsNew()
	if err := m.store.Save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if wasNew {
		return m.writeCookie(w, sess.ID)
	}
	return nil
}

// Renew moves sess to a fresh ID, dropping the old record. Called on login so
// a pre-login session ID cannot be reused.
func (m *Manager) Renew(w http.ResponseWriter, sess *Session) error {
	if !sess.IsNew() {
		if err := m.store.Delete(sess.ID); err != nil {
			return fmt.Errorf("renew session: %w", err)
		}
	}
	fresh := newSession(m.now())
	sess.ID = fresh.ID
	sess.isNew = true
	sess.dirty = true
	return m.Save(w, sess)
}

// Destroy deletes sess and expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, sess *Session) error {
	if !sess.IsNew() {
		if err := m.store.Delete(sess.ID); err != nil {
			return fmt.Errorf("destroy session: %w", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return nil
}

func (m *Manager) writeCookie(w http.ResponseWriter, id string) error {
	token, err := m.codec.Encode(id)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.ttl > 0 {
		cookie.MaxAge = int(m.ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}
