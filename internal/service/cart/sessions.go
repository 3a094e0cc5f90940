package cart

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Sessions maps opaque session ids to carts. A cart idle for longer than
// the TTL is dropped the next time the registry is touched.
type Sessions struct {
	mu    sync.RWMutex
	carts map[string]*session
	ttl   time.Duration
	now   func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		carts: make(map[string]*session),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Open creates an empty cart and returns its session id.
func (m *Sessions) Open() (string, *Store, error) {
	id, err := randomToken()
	if err != nil {
		return "", nil, err
	}
	store := NewStore()
	m.mu.Lock()
	m.sweepLocked()
	m.carts[id] = &session{store: store, lastSeen: m.now()}
	m.mu.Unlock()
	return id, store, nil
}

// Get returns the cart of a live session and refreshes its idle timer.
func (m *Sessions) Get(id string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.carts[id]
	if !ok {
		return nil, false
	}
	if m.now().Sub(s.lastSeen) > m.ttl {
		delete(m.carts, id)
		return nil, false
	}
	s.lastSeen = m.now()
	return s.store, true
}

func (m *Sessions) Drop(id string) {
	m.mu.Lock()
	delete(m.carts, id)
	m.mu.Unlock()
}

func (m *Sessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.carts)
}

func (m *Sessions) sweepLocked() {
	now := m.now()
	for id, s := range m.carts {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.carts, id)
		}
	}
}

func randomToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
