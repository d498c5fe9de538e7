// Package session keeps one contact form per visitor, keyed by a cookie.
package session

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/boswecw/boswell/internal/contact"
	"github.com/google/uuid"
)

// CookieName is the visitor cookie.
const CookieName = "boswell_session"

const cleanupInterval = 1 * time.Minute

// Factory builds a fresh form for a new visitor.
type Factory func() (*contact.Form, error)

type entry struct {
	form     *contact.Form
	lastSeen time.Time
}

// Store maps visitor ids to forms and evicts idle visitors.
//
// Close must be called when shutting down to stop the cleanup goroutine.
type Store struct {
	factory     Factory
	ttl         time.Duration
	now         func() time.Time
	mu          sync.Mutex
	entries     map[string]*entry
	cleanupDone chan struct{}
	closeOnce   sync.Once
	secure      bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSecureCookie marks the visitor cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// New creates a store and starts its cleanup loop.
func New(factory Factory, ttl time.Duration, opts ...Option) (*Store, error) {
	if factory == nil {
		return nil, errors.New("form factory is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	s := &Store{
		factory:     factory,
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]*entry),
		cleanupDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s, nil
}

// Get returns the form for id, creating a new visitor when id is unknown or
// invalid. The returned id is the one to send back in the cookie.
func (s *Store) Get(id string) (string, *contact.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if e, ok := s.entries[id]; ok {
			e.lastSeen = s.now()
			return id, e.form, nil
		}
	}

	form, err := s.factory()
	if err != nil {
		return "", nil, err
	}

	id = uuid.NewString()
	s.entries[id] = &entry{form: form, lastSeen: s.now()}
	return id, form, nil
}

// FromRequest resolves the visitor of r and (re)sets the cookie on w, so its
// lifetime slides with the server-side idle timeout.
func (s *Store) FromRequest(w http.ResponseWriter, r *http.Request) (*contact.Form, error) {
	var current string
	if c, err := r.Cookie(CookieName); err == nil {
		current = c.Value
	}

	id, form, err := s.Get(current)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return form, nil
}

// Len returns the number of live visitors.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.cleanupDone:
			return
		}
	}
}

// Sweep closes and removes visitors idle longer than the ttl. Forms with an
// outstanding submission are kept until it resolves.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.After(cutoff) || e.form.Busy() {
			continue
		}
		e.form.Close()
		delete(s.entries, id)
		removed++
	}

	if removed > 0 {
		slog.Debug("evicted idle sessions", "count", removed, "remaining", len(s.entries))
	}
	return removed
}

// Close stops the cleanup goroutine and closes every form.
// Safe to call multiple times.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.cleanupDone)

		s.mu.Lock()
		defer s.mu.Unlock()
		for id, e := range s.entries {
			e.form.Close()
			delete(s.entries, id)
		}
	})
}
