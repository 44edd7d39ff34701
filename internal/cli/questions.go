package cli

import (
	"context"
	"net/http"
	"sort"
	"time"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/catalog"
	"timed-quiz/internal/infra/memory"
	pgloader "timed-quiz/internal/infra/postgres"
	rediscache "timed-quiz/internal/infra/redis"
	transport "timed-quiz/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backend holds the question sources built from config.
type backend struct {
	questions app.QuestionProvider
	topics    transport.TopicSource
	redis     *redis.Client
	pool      *pgxpool.Pool
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// newBackend picks the question source (Postgres, remote catalog or local
// file), puts Redis in front of it when configured and an in-process cache
// in front of everything.
func newBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}
	topics := catalog.Topics{Mapping: cfg.Quiz.Topics, Fallback: cfg.Quiz.DefaultTopic}

	var loader memory.QuestionLoader
	var categories func(context.Context) ([]string, error)
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		pg := pgloader.NewQuestionLoader(pool, topics)
		loader = pg
		categories = pg.Categories
	case cfg.Quiz.CatalogURL != "":
		loader = catalog.NewHTTPLoader(&http.Client{Timeout: 10 * time.Second}, cfg.Quiz.CatalogURL, topics)
	default:
		loader = catalog.NewFileLoader(cfg.Quiz.Catalog, topics)
	}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loader = rediscache.NewQuestionCache(b.redis, loader, config.Duration(cfg.Redis.TTL, 10*time.Minute))
	}

	b.questions = memory.NewQuestionCache(loader, config.Duration(cfg.Quiz.TTL, 10*time.Minute))
	b.topics = func(ctx context.Context) ([]string, error) {
		keys := topics.Keys()
		if categories == nil {
			return keys, nil
		}
		stored, err := categories(ctx)
		if err != nil {
			return nil, err
		}
		return mergeSorted(keys, stored), nil
	}
	return b, nil
}

func sessionOptions(cfg config.Config) app.Options {
	return app.Options{
		TickInterval: config.Duration(cfg.Quiz.TickInterval, 0),
		RevealPause:  config.Duration(cfg.Quiz.RevealPause, 0),
		AdvancePause: config.Duration(cfg.Quiz.AdvancePause, 0),
	}
}

func mergeSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}
