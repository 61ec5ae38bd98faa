package session

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

const cookieName = "sentryprime_session"

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session pairs a backend bearer token with the user it belongs to. The
// cookie carries only the session ID; the token never leaves the gateway.
type Session struct {
	ID        string
	Token     string
	User      domain.User
	ExpiresAt time.Time
}

// Registry keeps live sessions in memory. A restart logs everyone out;
// nothing beyond the session token is ever persisted.
type Registry struct {
	store *sessions.CookieStore
	ttl   time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(key string, ttl time.Duration) *Registry {
	store := sessions.NewCookieStore([]byte(key))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = int(ttl / time.Second)
	return &Registry{store: store, ttl: ttl, sessions: make(map[string]*Session)}
}

// Create registers a session for a freshly obtained token and sets the
// session cookie on the response.
func (r *Registry) Create(w http.ResponseWriter, req *http.Request, token string, user domain.User) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		ExpiresAt: time.Now().Add(r.ttl),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	// store.Get errors on an undecodable stale cookie; a fresh session is
	// returned alongside the error, so it is safe to overwrite and save.
	cookie, _ := r.store.Get(req, cookieName)
	cookie.Values["sid"] = s.ID
	if err := r.store.Save(req, w, cookie); err != nil {
		return nil, err
	}
	return s, nil
}

// Resolve returns the session for the request's cookie.
func (r *Registry) Resolve(req *http.Request) (*Session, error) {
	cookie, err := r.store.Get(req, cookieName)
	if err != nil {
		return nil, ErrNotFound
	}
	sid, ok := cookie.Values["sid"].(string)
	if !ok {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sid]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(s.ExpiresAt) {
		delete(r.sessions, sid)
		return nil, ErrExpired
	}
	return s, nil
}

// Destroy drops the session and expires the cookie.
func (r *Registry) Destroy(w http.ResponseWriter, req *http.Request) error {
	cookie, err := r.store.Get(req, cookieName)
	if err == nil {
		if sid, ok := cookie.Values["sid"].(string); ok {
			r.mu.Lock()
			delete(r.sessions, sid)
			r.mu.Unlock()
		}
	}
	cookie.Options.MaxAge = -1
	return r.store.Save(req, w, cookie)
}
