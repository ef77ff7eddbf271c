package waitlist

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/serpstrategist/site/internal/logging"
)

// Result codes reported by AddSubscriber on failure.
const (
	CodeDuplicate   = "DUPLICATE"
	CodeServerError = "SERVER_ERROR"
)

// Result is the outcome of a signup. Storage failures are reported here
// rather than returned as errors.
type Result struct {
	Success    bool
	Subscriber *Subscriber
	Error      string
	Code       string
}

// Service implements signup and listing on top of a Repository.
type Service struct {
	repo   Repository
	now    func() time.Time
	logger zerolog.Logger
}

// NewService creates a Service over repo.
func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logging.Component("waitlist"),
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Backend reports the active repository name.
func (s *Service) Backend() string {
	return s.repo.Name()
}

// AddSubscriber stores email with its metadata. The email is trimmed but
// otherwise compared exactly; format validation happens at the HTTP layer.
func (s *Service) AddSubscriber(ctx context.Context, email string, meta Metadata) Result {
	now := s.now().UTC()
	sub := Subscriber{
		ID:        strconv.FormatInt(now.UnixNano(), 10),
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		Source:    meta.Source,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	if err := s.repo.Add(ctx, sub); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return Result{Error: "Email already subscribed", Code: CodeDuplicate}
		}
		s.logger.Error().Err(err).Str("backend", s.repo.Name()).Msg("add subscriber failed")
		return Result{Error: "Failed to add subscriber", Code: CodeServerError}
	}

	s.logger.Info().Str("backend", s.repo.Name()).Str("source", sub.Source).Msg("subscriber added")
	return Result{Success: true, Subscriber: &sub}
}

// Subscribers lists every stored signup in signup order. A read failure is
// returned as is; a partial list is never reported.
func (s *Service) Subscribers(ctx context.Context) ([]Subscriber, error) {
	subscribers, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("backend", s.repo.Name()).Msg("list subscribers failed")
		return nil, err
	}
	if subscribers == nil {
		return []Subscriber{}, nil
	}
	return subscribers, nil
}

// Close releases the repository.
func (s *Service) Close() error {
	return s.repo.Close()
}
