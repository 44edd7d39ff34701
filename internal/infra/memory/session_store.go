package memory

import (
	"sync"

	"timed-quiz/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Runner
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Runner),
	}
}

func (s *SessionStore) Put(runner *app.Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[runner.ID()] = runner
}

func (s *SessionStore) Get(sessionID string) (*app.Runner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runner, ok := s.sessions[sessionID]
	return runner, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
