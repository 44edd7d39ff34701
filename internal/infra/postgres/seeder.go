package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"timed-quiz/internal/infra/catalog"

	"github.com/uptrace/bun"
)

// QuestionSetRow is the bun model of the question_sets table.
type QuestionSetRow struct {
	bun.BaseModel `bun:"table:question_sets"`

	Category string          `bun:"category,pk"`
	Data     json.RawMessage `bun:"data,type:jsonb"`
}

// Seed upserts every category of c into question_sets and returns how many
// were written. Questions are stored as found in the catalog and validated
// when a category is loaded.
func Seed(ctx context.Context, db bun.IDB, c *catalog.Catalog) (int, error) {
	rows := make([]QuestionSetRow, 0, len(c.Categories()))
	for _, category := range c.Categories() {
		data, _ := c.RawQuestions(category)
		rows = append(rows, QuestionSetRow{Category: category, Data: data})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (category) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = now()").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert question sets: %w", err)
	}
	return len(rows), nil
}
