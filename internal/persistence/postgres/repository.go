// Package postgres provides pgx-backed persistence for users and exercises.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plarrip/exercise-tracker/internal/domain"
	"github.com/plarrip/exercise-tracker/internal/observability"
)

// Repository holds the shared connection pool. It is constructed once at
// startup and injected into the domain service; the pool is closed by main
// on shutdown.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository implements domain.UserRepository over the users table.
type UserRepository struct {
	*Repository
}

// Users returns the user-facing slice of the repository.
func (r *Repository) Users() *UserRepository {
	return &UserRepository{r}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	const stmt = `INSERT INTO users (user_id, username, created_at) VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, stmt, user.ID, user.Username, user.CreatedAt); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	observability.RecordUserCreated()
	return nil
}

// Get fetches a user by id. A missing user returns (nil, nil).
func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT user_id, username, created_at FROM users WHERE user_id = $1`

	var user domain.User
	row := r.pool.QueryRow(ctx, query, id)
	if err := row.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// List returns all users in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT user_id, username, created_at FROM users ORDER BY created_at, user_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

var _ domain.ExerciseRepository = (*ExerciseRepository)(nil)

// ExerciseRepository implements domain.ExerciseRepository over the exercises
// table.
type ExerciseRepository struct {
	*Repository
}

// Exercises returns the exercise-facing slice of the repository.
func (r *Repository) Exercises() *ExerciseRepository {
	return &ExerciseRepository{r}
}

// Create inserts a new exercise row. No atomicity links this to the user
// lookup that preceded it.
func (r *ExerciseRepository) Create(ctx context.Context, exercise domain.Exercise) error {
	const stmt = `INSERT INTO exercises (exercise_id, user_id, description, duration_min, exercise_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt,
		exercise.ID,
		exercise.UserID,
		exercise.Description,
		exercise.Duration,
		exercise.Date,
		exercise.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	observability.RecordExercisePersisted(exercise.CreatedAt)
	return nil
}

// ListByUser returns the user's exercises matching the filter, in insertion
// order, truncated to filter.Limit when positive.
func (r *ExerciseRepository) ListByUser(ctx context.Context, userID string, filter domain.LogFilter) ([]domain.Exercise, error) {
	timer := observability.StartLogQueryTimer()
	defer timer.ObserveDuration()

	query := `SELECT exercise_id, user_id, description, duration_min, exercise_date, created_at
        FROM exercises WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND exercise_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND exercise_date <= $%d", len(args))
	}

	query += " ORDER BY created_at, exercise_id"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Duration, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}
