package app

import (
	"context"
	"log"

	"timed-quiz/internal/domain"

	"github.com/google/uuid"
)

// SessionRepository abstracts where live sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(runner *Runner)
	Get(sessionID string) (*Runner, bool)
	Delete(sessionID string)
}

// SessionToucher is implemented by repositories whose liveness markers expire
// unless refreshed.
type SessionToucher interface {
	Touch(ctx context.Context, sessionID string) error
}

// QuestionProvider loads the ordered question set for a topic. Failures are
// reported as *domain.LoadError.
type QuestionProvider interface {
	LoadQuestions(ctx context.Context, topic string) (domain.QuestionSet, error)
}

// QuizService contains the quiz use cases shared by every transport.
type QuizService struct {
	sessions     SessionRepository
	questions    QuestionProvider
	opts         Options
	newScheduler SchedulerFactory
	newID        func() string
}

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

// WithSchedulerFactory replaces the realtime scheduler, e.g. with a manual clock in tests.
func WithSchedulerFactory(f SchedulerFactory) ServiceOption {
	return func(s *QuizService) { s.newScheduler = f }
}

func NewQuizService(store SessionRepository, questions QuestionProvider, opts Options, options ...ServiceOption) *QuizService {
	s := &QuizService{
		sessions:     store,
		questions:    questions,
		opts:         opts,
		newScheduler: RealtimeScheduler,
		newID:        uuid.NewString,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Open registers a new idle session that reports to presenter.
func (s *QuizService) Open(presenter Presenter) *Runner {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	id := s.newID()
	runner := NewRunner(id, &loggingPresenter{Presenter: presenter, sessionID: id}, s.opts, s.newScheduler)
	s.sessions.Put(runner)
	return runner
}

// Start loads the topic's questions and begins a run. Provider errors are
// returned unmodified and leave the session as it was.
func (s *QuizService) Start(ctx context.Context, sessionID, topic string) (Snapshot, error) {
	runner, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	set, err := s.questions.LoadQuestions(ctx, topic)
	if err != nil {
		log.Printf("session %s: %v", sessionID, err)
		return Snapshot{}, err
	}
	if err := runner.Start(set); err != nil {
		return Snapshot{}, err
	}
	log.Printf("session %s started topic=%s questions=%d", sessionID, topic, set.Len())
	s.touch(ctx, sessionID)
	return runner.Snapshot(), nil
}

// Select submits an answer code for the current question.
func (s *QuizService) Select(ctx context.Context, sessionID string, code domain.Code) (bool, error) {
	runner, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	s.touch(ctx, sessionID)
	return runner.Select(code), nil
}

// Next locks the current question and moves on.
func (s *QuizService) Next(ctx context.Context, sessionID string) (bool, error) {
	runner, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	s.touch(ctx, sessionID)
	return runner.AdvanceNow(), nil
}

// Reset abandons the current run.
func (s *QuizService) Reset(_ context.Context, sessionID string) error {
	runner, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	runner.Reset()
	return nil
}

// Snapshot returns the session state.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (Snapshot, error) {
	runner, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return runner.Snapshot(), nil
}

// Close stops the session's timers and drops it from the registry.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	runner, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	runner.Close()
	s.sessions.Delete(sessionID)
}

func (s *QuizService) touch(ctx context.Context, sessionID string) {
	toucher, ok := s.sessions.(SessionToucher)
	if !ok {
		return
	}
	if err := toucher.Touch(ctx, sessionID); err != nil {
		log.Printf("session %s: refresh liveness: %v", sessionID, err)
	}
}

// loggingPresenter records completions before forwarding them.
type loggingPresenter struct {
	Presenter
	sessionID string
}

func (p *loggingPresenter) ShowCompletion(percentage, correct, total int) {
	log.Printf("session %s completed score=%d/%d (%d%%)", p.sessionID, correct, total, percentage)
	p.Presenter.ShowCompletion(percentage, correct, total)
}
