package postgres

import (
	"context"
	"errors"
	"fmt"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/catalog"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads per-category question JSONB from Postgres.
type QuestionLoader struct {
	pool   *pgxpool.Pool
	topics catalog.Topics
}

func NewQuestionLoader(pool *pgxpool.Pool, topics catalog.Topics) *QuestionLoader {
	return &QuestionLoader{pool: pool, topics: topics}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, topic string) (domain.QuestionSet, error) {
	category := l.topics.Resolve(topic, func(key string) bool { return l.exists(ctx, key) })

	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE category=$1`, category).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: fmt.Errorf("%w: %s", domain.ErrTopicNotFound, category)}
	}
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: fmt.Errorf("load questions: %w", err)}
	}

	records, err := catalog.DecodeQuestions(raw)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	set, err := domain.NewQuestionSet(topic, records)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	return set, nil
}

// Categories lists the stored category ids.
func (l *QuestionLoader) Categories(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT category FROM question_sets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

func (l *QuestionLoader) exists(ctx context.Context, category string) bool {
	var found bool
	err := l.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM question_sets WHERE category=$1)`, category).Scan(&found)
	return err == nil && found
}
