package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeLimit is applied to questions whose time limit is absent or invalid.
const DefaultTimeLimit = 10

// Code is the single-letter identifier prefixed to every option ("A", "B", ...).
// The empty Code means no choice was made.
type Code string

// NoCode marks the absence of a selection.
const NoCode Code = ""

// ParseCode normalizes user input such as " b " into a Code.
func ParseCode(raw string) (Code, bool) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if len(raw) != 1 || raw[0] < 'A' || raw[0] > 'Z' {
		return NoCode, false
	}
	return Code(raw), true
}

// OptionCode extracts the letter prefix of an option string ("B. Closures" -> "B").
func OptionCode(option string) (Code, bool) {
	if option == "" {
		return NoCode, false
	}
	c := option[0]
	if c < 'A' || c > 'Z' {
		return NoCode, false
	}
	return Code(option[:1]), true
}

// QuestionRecord is one multiple-choice question with its own countdown.
type QuestionRecord struct {
	ID        string   `json:"id"`
	Text      string   `json:"question"`
	Options   []string `json:"options"`
	Correct   Code     `json:"correctAnswer"`
	TimeLimit int      `json:"timeLimit"` // whole seconds
}

// Codes returns the option codes in presentation order.
func (q QuestionRecord) Codes() []Code {
	codes := make([]Code, 0, len(q.Options))
	for _, opt := range q.Options {
		if code, ok := OptionCode(opt); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// Offers reports whether code is one of the question's option codes.
func (q QuestionRecord) Offers(code Code) bool {
	if code == NoCode {
		return false
	}
	for _, c := range q.Codes() {
		if c == code {
			return true
		}
	}
	return false
}

// Duration is the countdown length for the question.
func (q QuestionRecord) Duration() time.Duration {
	return time.Duration(q.TimeLimit) * time.Second
}

func (q QuestionRecord) validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question %s has no text", ErrInvalidQuestion, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %s needs at least two options", ErrInvalidQuestion, q.ID)
	}
	seen := make(map[Code]bool, len(q.Options))
	for _, opt := range q.Options {
		code, ok := OptionCode(opt)
		if !ok {
			return fmt.Errorf("%w: question %s option %q lacks a letter code", ErrInvalidQuestion, q.ID, opt)
		}
		if seen[code] {
			return fmt.Errorf("%w: question %s repeats option %s", ErrInvalidQuestion, q.ID, code)
		}
		seen[code] = true
	}
	if !seen[q.Correct] {
		return fmt.Errorf("%w: question %s correct answer %q is not an option", ErrInvalidQuestion, q.ID, q.Correct)
	}
	return nil
}

// QuestionSet is the ordered, immutable list of questions for one session.
type QuestionSet struct {
	topic   string
	records []QuestionRecord
}

// NewQuestionSet validates and copies records into a QuestionSet.
// Time limits below one second are replaced with DefaultTimeLimit.
func NewQuestionSet(topic string, records []QuestionRecord) (QuestionSet, error) {
	if len(records) == 0 {
		return QuestionSet{}, ErrEmptySet
	}
	out := make([]QuestionRecord, len(records))
	ids := make(map[string]bool, len(records))
	for i, r := range records {
		if err := r.validate(); err != nil {
			return QuestionSet{}, err
		}
		if ids[r.ID] {
			return QuestionSet{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidQuestion, r.ID)
		}
		ids[r.ID] = true
		if r.TimeLimit < 1 {
			r.TimeLimit = DefaultTimeLimit
		}
		r.Options = append([]string(nil), r.Options...)
		out[i] = r
	}
	return QuestionSet{topic: topic, records: out}, nil
}

// Topic is the key the set was loaded for.
func (s QuestionSet) Topic() string { return s.topic }

// Len returns the number of questions.
func (s QuestionSet) Len() int { return len(s.records) }

// At returns a copy of the i-th question.
func (s QuestionSet) At(i int) QuestionRecord {
	r := s.records[i]
	r.Options = append([]string(nil), r.Options...)
	return r
}

// Records returns a copy of every question in order.
func (s QuestionSet) Records() []QuestionRecord {
	out := make([]QuestionRecord, len(s.records))
	for i := range s.records {
		out[i] = s.At(i)
	}
	return out
}

// Outcome is the evaluation of a single locked question.
type Outcome struct {
	Selected  Code `json:"selected,omitempty"`
	Correct   Code `json:"correct"`
	IsCorrect bool `json:"isCorrect"`
}

// Answered reports whether a choice was made before the lock.
func (o Outcome) Answered() bool {
	return o.Selected != NoCode
}

// Verdict is the completion message band for a final percentage.
type Verdict struct {
	Tier    string `json:"tier"`
	Message string `json:"message"`
}

// VerdictFor maps a final percentage to its completion message.
func VerdictFor(percentage int) Verdict {
	switch {
	case percentage > 80:
		return Verdict{Tier: "great", Message: "Great job! Score above 80%."}
	case percentage >= 60:
		return Verdict{Tier: "good", Message: "Well done! Score between 60% and 80%."}
	default:
		return Verdict{Tier: "practice", Message: "Keep practicing! Score below 60%."}
	}
}
