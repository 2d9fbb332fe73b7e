package app

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/initify/logdrains/internal/configure"
)

const sessionCookie = "logdrains_session"

// sessionSigner issues the browser cookie naming a configure session. The
// cookie holds only the session id; credentials stay in server memory.
type sessionSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func newSessionSigner(secret string, ttl time.Duration) *sessionSigner {
	return &sessionSigner{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *sessionSigner) sign(id string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *sessionSigner) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session token has no id")
	}
	return claims.ID, nil
}

// sessionRegistry keeps one configure.Machine per browser session in
// memory. Entries idle longer than ttl are evicted.
type sessionRegistry struct {
	ttl        time.Duration
	now        func() time.Time
	newMachine func() *configure.Machine

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	machine  *configure.Machine
	lastSeen time.Time
}

func newSessionRegistry(ttl time.Duration, newMachine func() *configure.Machine) *sessionRegistry {
	return &sessionRegistry{
		ttl:        ttl,
		now:        time.Now,
		newMachine: newMachine,
		entries:    make(map[string]*sessionEntry),
	}
}

func (r *sessionRegistry) get(id string) (*configure.Machine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(e.lastSeen) > r.ttl {
		delete(r.entries, id)
		return nil, false
	}
	e.lastSeen = now
	return e.machine, true
}

func (r *sessionRegistry) create() (string, *configure.Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)

	id := uuid.NewString()
	m := r.newMachine()
	r.entries[id] = &sessionEntry{machine: m, lastSeen: now}
	return id, m
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *sessionRegistry) evictLocked(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.entries, id)
		}
	}
}
