package redis

import (
	"context"
	"sync"
	"time"

	"timed-quiz/internal/app"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Runners stay in a local map; their timers and event loop are process-local.
//   - Redis holds a liveness marker per session so operators can count live
//     sessions across instances. Markers expire unless refreshed with Touch,
//     which QuizService does on every player action.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Runner
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Runner),
	}
}

func (s *SessionStore) Put(runner *app.Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[runner.ID()] = runner
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(runner.ID()), "1", s.ttl).Err()
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
	if _, ok := s.sessions[sessionID]; !ok {
		return
	}
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

// Touch renews the liveness marker of a local session, recreating it if it
// already lapsed.
func (s *SessionStore) Touch(ctx context.Context, sessionID string) error {
	s.mu.RLock()
	_, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.client.Set(ctx, s.key(sessionID), "1", s.ttl).Err()
}

// LiveCount counts liveness markers across every instance sharing the Redis.
func (s *SessionStore) LiveCount(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, "quiz:session:*", 100).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
