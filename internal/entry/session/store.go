package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const maxTrackedChats = 4096

// Store keeps at most one session per chat. Sessions expire after the TTL so
// abandoned conversations do not accumulate; an expired session behaves
// exactly like a cancelled one (the next entry command starts fresh).
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[int64, *Session]
}

// NewStore creates a session store with the given idle TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: expirable.NewLRU[int64, *Session](maxTrackedChats, nil, ttl),
	}
}

// Get returns the chat's session, if one exists.
func (s *Store) Get(chatID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Get(chatID)
}

// Put stores the chat's session, replacing any previous one.
func (s *Store) Put(chatID int64, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Add(chatID, sess)
}

// Clear removes the chat's session entirely. Every terminal transition
// (confirm, cancel, context loss) goes through here.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(chatID)
}
