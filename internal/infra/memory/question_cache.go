package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"timed-quiz/internal/domain"

	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question sets from a backing store (file, HTTP, Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, topic string) (domain.QuestionSet, error)
}

// QuestionCache caches question sets with TTL to avoid repeated loads.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	set       domain.QuestionSet
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (c *QuestionCache) LoadQuestions(ctx context.Context, topic string) (domain.QuestionSet, error) {
	if set, ok := c.lookup(topic); ok {
		return set, nil
	}

	result, err, _ := c.sf.Do(topic, func() (interface{}, error) {
		if set, ok := c.lookup(topic); ok {
			return set, nil
		}

		set, err := c.loader.LoadQuestions(ctx, topic)
		if err != nil {
			return domain.QuestionSet{}, domain.AsLoadError(topic, err)
		}

		if ttl := c.ttlWithJitter(); ttl > 0 {
			c.mu.Lock()
			c.cache[topic] = cachedSet{set: set, expiresAt: c.clock().Add(ttl)}
			c.mu.Unlock()
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (c *QuestionCache) lookup(topic string) (domain.QuestionSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[topic]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.QuestionSet{}, false
	}
	return entry.set, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticLoader struct {
	topics map[string][]domain.QuestionRecord
}

func NewStaticLoader(topics map[string][]domain.QuestionRecord) *StaticLoader {
	return &StaticLoader{topics: topics}
}

func (l *StaticLoader) LoadQuestions(_ context.Context, topic string) (domain.QuestionSet, error) {
	records, ok := l.topics[topic]
	if !ok {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: domain.ErrTopicNotFound}
	}
	set, err := domain.NewQuestionSet(topic, records)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	return set, nil
}

// Topics lists the keys the loader can serve.
func (l *StaticLoader) Topics() []string {
	out := make([]string, 0, len(l.topics))
	for topic := range l.topics {
		out = append(out, topic)
	}
	return out
}
