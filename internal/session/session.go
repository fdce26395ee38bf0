// Package session provides cookie-backed sessions used to carry one-time
// flash messages across the redirect that follows a form submission. The
// cookie is signed with the configured secret key.
package session

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "tcl_session"

	// maxAge bounds how long an unread flash survives.
	maxAge = 60 * 60
)

// Flash kinds used by the templates for styling.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Type    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Store reads and writes the session cookie.
type Store struct {
	cookies *sessions.CookieStore
}

// NewStore creates a session store signed with secret. Set secure when the
// site is served over TLS.
func NewStore(secret string, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// AddFlash queues a message for the next page view.
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error {
	return s.AddFlashes(w, r, Flash{Type: kind, Message: message})
}

// AddFlashes queues several messages with a single cookie write. Separate
// AddFlash calls in one response would each overwrite the cookie.
func (s *Store) AddFlashes(w http.ResponseWriter, r *http.Request, flashes ...Flash) error {
	sess, err := s.cookies.Get(r, CookieName)
	if err != nil {
		// A cookie signed with an old key decodes with an error but still
		// yields a fresh session that can be saved.
		slog.Debug("session decode failed, starting fresh", "error", err)
	}
	for _, f := range flashes {
		sess.AddFlash(f)
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Flashes returns and clears the queued messages. It must be called before
// the response body is written so the cleared cookie can be sent.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := s.cookies.Get(r, CookieName)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		slog.Warn("session save failed", "error", err)
	}

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
