package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"timed-quiz/internal/domain"
)

// FileLoader serves question sets from a catalog file on disk. The file is
// read on every load; wrap it in a cache for repeated use.
type FileLoader struct {
	path   string
	topics Topics
}

func NewFileLoader(path string, topics Topics) *FileLoader {
	return &FileLoader{path: path, topics: topics}
}

func (l *FileLoader) LoadQuestions(_ context.Context, topic string) (domain.QuestionSet, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	return lookup(data, topic, l.topics)
}

// HTTPLoader fetches the catalog over HTTP.
type HTTPLoader struct {
	client *http.Client
	url    string
	topics Topics
}

func NewHTTPLoader(client *http.Client, url string, topics Topics) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{client: client, url: url, topics: topics}
}

func (l *HTTPLoader) LoadQuestions(ctx context.Context, topic string) (domain.QuestionSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	return lookup(data, topic, l.topics)
}

func lookup(data []byte, topic string, topics Topics) (domain.QuestionSet, error) {
	c, err := Decode(data)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	set, err := c.Lookup(topic, topics)
	if err != nil {
		return domain.QuestionSet{}, &domain.LoadError{Topic: topic, Err: err}
	}
	return set, nil
}
