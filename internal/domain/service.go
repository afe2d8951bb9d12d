package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// UserRepository captures user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
}

// ExerciseRepository captures exercise persistence operations.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise Exercise) error
	ListByUser(ctx context.Context, userID string, filter LogFilter) ([]Exercise, error)
}

// Service orchestrates user and exercise workflows.
type Service struct {
	users     UserRepository
	exercises ExerciseRepository
	clock     clockwork.Clock
}

// NewService constructs a Service. In production pass
// clockwork.NewRealClock(); tests inject a fake clock.
func NewService(users UserRepository, exercises ExerciseRepository, clock clockwork.Clock) *Service {
	return &Service{users: users, exercises: exercises, clock: clock}
}

// CreateUser registers a new user. Usernames are required but not unique.
func (s *Service) CreateUser(ctx context.Context, username string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	user := User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// AddExerciseInput carries the raw request fields for recording an exercise.
// Duration and Date arrive as strings because the HTTP surface accepts form
// bodies.
type AddExerciseInput struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

// ExerciseSummary is the response shape for a recorded exercise. UserID is
// the owning user's id, not the entry's.
type ExerciseSummary struct {
	Username    string
	Description string
	Duration    int
	Date        string
	UserID      string
}

// AddExercise records one exercise for an existing user. A missing or
// unparsable date falls back to the current day; a non-numeric duration is
// rejected.
func (s *Service) AddExercise(ctx context.Context, input AddExerciseInput) (*ExerciseSummary, error) {
	user, err := s.resolveUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	duration, err := strconv.Atoi(strings.TrimSpace(input.Duration))
	if err != nil {
		return nil, fmt.Errorf("%w: duration must be an integer", ErrValidation)
	}

	date := s.clock.Now().UTC()
	if input.Date != "" {
		if parsed, parseErr := ParseDate(input.Date); parseErr == nil {
			date = parsed
		}
	}

	exercise := Exercise{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Description: input.Description,
		Duration:    duration,
		Date:        date,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, err
	}

	return &ExerciseSummary{
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        RenderDate(exercise.Date),
		UserID:      user.ID,
	}, nil
}

// LogQuery carries the raw query parameters for a log request.
type LogQuery struct {
	From  string
	To    string
	Limit string
}

// LogEntry is one projected exercise in a log: storage ids are stripped and
// the date is rendered.
type LogEntry struct {
	Description string
	Duration    int
	Date        string
}

// LogResult is the bounded, filtered exercise log for a user. Count always
// equals len(Log).
type LogResult struct {
	Username string
	Count    int
	UserID   string
	Log      []LogEntry
}

// GetLog produces a user's exercise log, optionally filtered by date range
// and truncated to a limit. The user must exist before any exercise is
// consulted. Unparsable from/to bounds are rejected rather than silently
// matching nothing.
func (s *Service) GetLog(ctx context.Context, userID string, query LogQuery) (*LogResult, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter, err := buildLogFilter(query)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exercises.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, err
	}

	log := make([]LogEntry, 0, len(exercises))
	for _, e := range exercises {
		log = append(log, LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        RenderDate(e.Date),
		})
	}

	return &LogResult{
		Username: user.Username,
		Count:    len(log),
		UserID:   user.ID,
		Log:      log,
	}, nil
}

func buildLogFilter(query LogQuery) (LogFilter, error) {
	var filter LogFilter

	if query.From != "" {
		from, err := ParseDate(query.From)
		if err != nil {
			return LogFilter{}, fmt.Errorf("%w: invalid from date", ErrValidation)
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := ParseDate(query.To)
		if err != nil {
			return LogFilter{}, fmt.Errorf("%w: invalid to date", ErrValidation)
		}
		filter.To = &to
	}

	// Absent, non-numeric or non-positive limits mean unbounded.
	if parsed, err := strconv.Atoi(query.Limit); err == nil && parsed > 0 {
		filter.Limit = parsed
	}

	return filter, nil
}

func (s *Service) resolveUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
