// Package catalog decodes the questions.json catalog format: categories of
// letter-coded multiple-choice questions keyed by category id.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"timed-quiz/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://catalog.json"

var (
	compileOnce     sync.Once
	catalogSchema   *jsonschema.Schema
	questionsSchema *jsonschema.Schema
	compileErr      error
)

func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		if catalogSchema, compileErr = c.Compile(schemaURL); compileErr != nil {
			return
		}
		questionsSchema, compileErr = c.Compile(schemaURL + "#/$defs/questions")
	})
	return catalogSchema, questionsSchema, compileErr
}

type wireCategory struct {
	ID        string          `json:"id"`
	Questions json.RawMessage `json:"questions"`
}

type wireQuestion struct {
	ID            json.RawMessage `json:"id"`
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectAnswer string          `json:"correctAnswer"`
	TimeLimit     json.RawMessage `json:"timeLimit"`
}

func (w wireQuestion) record() domain.QuestionRecord {
	return domain.QuestionRecord{
		ID:        strings.Trim(string(w.ID), `"`),
		Text:      w.Question,
		Options:   w.Options,
		Correct:   domain.Code(w.CorrectAnswer),
		TimeLimit: timeLimit(w.TimeLimit),
	}
}

// timeLimit floors a finite numeric limit of at least one second. Anything
// else yields 0 so NewQuestionSet applies the default.
func timeLimit(raw json.RawMessage) int {
	var v float64
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 || v > math.MaxInt32 {
		return 0
	}
	return int(math.Floor(v))
}

// Catalog holds every category of a decoded payload. Questions are kept raw
// and validated per category on lookup, so one broken category does not
// take the others down.
type Catalog struct {
	categories map[string]json.RawMessage
	order      []string
}

// Decode validates the catalog structure and indexes its categories.
func Decode(data []byte) (*Catalog, error) {
	schema, _, err := schemas()
	if err != nil {
		return nil, err
	}
	if err := validate(schema, data); err != nil {
		return nil, err
	}

	var payload struct {
		Categories []wireCategory `json:"categories"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{categories: make(map[string]json.RawMessage, len(payload.Categories))}
	for _, cat := range payload.Categories {
		if _, dup := c.categories[cat.ID]; dup {
			return nil, fmt.Errorf("decode catalog: duplicate category %q", cat.ID)
		}
		c.categories[cat.ID] = cat.Questions
		c.order = append(c.order, cat.ID)
	}
	return c, nil
}

// DecodeQuestions validates and parses a bare JSON array of questions, the
// shape of one category and of a Postgres row.
func DecodeQuestions(data []byte) ([]domain.QuestionRecord, error) {
	_, schema, err := schemas()
	if err != nil {
		return nil, err
	}
	if err := validate(schema, data); err != nil {
		return nil, err
	}
	var wire []wireQuestion
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	records := make([]domain.QuestionRecord, 0, len(wire))
	for _, q := range wire {
		records = append(records, q.record())
	}
	return records, nil
}

func validate(schema *jsonschema.Schema, data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Categories lists category ids in payload order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.order...)
}

// Has reports whether the catalog contains category.
func (c *Catalog) Has(category string) bool {
	_, ok := c.categories[category]
	return ok
}

// RawQuestions returns the undecoded question array of category.
func (c *Catalog) RawQuestions(category string) (json.RawMessage, bool) {
	raw, ok := c.categories[category]
	return raw, ok
}

// Records validates and decodes the questions of category.
func (c *Catalog) Records(category string) ([]domain.QuestionRecord, error) {
	raw, ok := c.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTopicNotFound, category)
	}
	records, err := DecodeQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", category, err)
	}
	return records, nil
}

// Lookup resolves topic through topics and builds its question set. Only the
// resolved category is validated.
func (c *Catalog) Lookup(topic string, topics Topics) (domain.QuestionSet, error) {
	records, err := c.Records(topics.Resolve(topic, c.Has))
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return domain.NewQuestionSet(topic, records)
}

// Topics maps user-facing topic keys to catalog category ids.
type Topics struct {
	Mapping  map[string]string
	Fallback string
}

// DefaultTopics is the mapping shipped with the bundled catalog.
func DefaultTopics() Topics {
	return Topics{
		Mapping: map[string]string{
			"js":      "js_basics",
			"angular": "angular_basics",
			"react":   "react_advanced",
			"flutter": "flutter_basics",
		},
		Fallback: "js_basics",
	}
}

// Resolve returns the category for key: an explicit mapping first, then key
// itself when known reports it as a category, then the fallback.
func (t Topics) Resolve(key string, known func(string) bool) string {
	if category, ok := t.Mapping[key]; ok {
		return category
	}
	if known != nil && known(key) {
		return key
	}
	if t.Fallback != "" {
		return t.Fallback
	}
	return key
}

// Keys lists the mapped topic keys in sorted order.
func (t Topics) Keys() []string {
	keys := make([]string, 0, len(t.Mapping))
	for k := range t.Mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
