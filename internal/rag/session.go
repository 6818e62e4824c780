package rag

import (
	"sync"

	"aethon-assistant/models"
)

// Session pairs the active document with its vector index. A Session value
// handed out by the store is immutable; a new upload installs a fresh one.
type Session struct {
	Document models.Document
	Index    *VectorIndex
}

// SessionStore holds at most one active (document, index) pair for the
// process. Replace swaps the whole pair under the lock, so a concurrent
// Current never observes the old document with the new index or vice
// versa. Uploading a new document implicitly discards the previous one;
// that is a deliberate single-tenant memory bound, not multi-document
// storage.
type SessionStore struct {
	mu     sync.RWMutex
	active *Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Replace atomically installs doc and index as the active session,
// discarding any previous pair.
func (s *SessionStore) Replace(doc models.Document, index *VectorIndex) {
	sess := &Session{Document: doc, Index: index}
	s.mu.Lock()
	s.active = sess
	s.mu.Unlock()
}

// Current returns the active session, or nil and false if none is set.
func (s *SessionStore) Current() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, false
	}
	return s.active, true
}

// Clear discards the active session. Subsequent Current calls report
// no session until the next Replace.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}
