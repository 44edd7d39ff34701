package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"timed-quiz/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question sets from a backing store (file, HTTP, Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, topic string) (domain.QuestionSet, error)
}

// QuestionCache caches question sets in Redis and falls back to a loader on a miss.
// Sets are stored as: SET quiz:questions:{topic} <json array of records> EX ttl
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) LoadQuestions(ctx context.Context, topic string) (domain.QuestionSet, error) {
	key := c.key(topic)

	if set, ok := c.cached(ctx, key, topic); ok {
		return set, nil
	}

	result, err, _ := c.sf.Do(topic, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := c.cached(ctx, key, topic); ok {
			return set, nil
		}

		set, err := c.loader.LoadQuestions(ctx, topic)
		if err != nil {
			return domain.QuestionSet{}, domain.AsLoadError(topic, err)
		}

		data, err := json.Marshal(set.Records())
		if err != nil {
			return domain.QuestionSet{}, domain.AsLoadError(topic, err)
		}
		if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache questions for %s: %v", topic, err)
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

// Invalidate drops the cached set for topic.
func (c *QuestionCache) Invalidate(ctx context.Context, topic string) error {
	return c.client.Del(ctx, c.key(topic)).Err()
}

func (c *QuestionCache) cached(ctx context.Context, key, topic string) (domain.QuestionSet, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.QuestionSet{}, false
	}
	var records []domain.QuestionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return domain.QuestionSet{}, false
	}
	set, err := domain.NewQuestionSet(topic, records)
	if err != nil {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (c *QuestionCache) key(topic string) string {
	return "quiz:questions:" + topic
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
