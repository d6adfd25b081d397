package access

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Session is the authenticated state attached to a bearer token.
type Session struct {
	UserID   string
	Username string
	Role     string
}

// Sessions is an in-memory token store. Tokens expire after the
// configured TTL; an expired token simply stops resolving, which is the
// server side of the client's session timeout.
type Sessions struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSessions creates a session store with the given TTL.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		cache: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// Create issues a fresh token for the session.
func (s *Sessions) Create(sess Session) string {
	var b [16]byte
	rand.Read(b[:])
	token := hex.EncodeToString(b[:])
	s.cache.Set(token, sess, s.ttl)
	return token
}

// Get resolves a token, refreshing its expiry on use.
func (s *Sessions) Get(token string) (Session, bool) {
	v, ok := s.cache.Get(token)
	if !ok {
		return Session{}, false
	}
	sess := v.(Session)
	s.cache.Set(token, sess, s.ttl)
	return sess, true
}

// Delete revokes a token.
func (s *Sessions) Delete(token string) {
	s.cache.Delete(token)
}
