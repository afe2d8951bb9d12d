//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/plarrip/exercise-tracker/internal/domain"
)

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := domain.User{
		ID:        uuid.NewString(),
		Username:  "fcc_test",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Users().Create(ctx, user))

	stored, err := repo.Users().Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "fcc_test", stored.Username)

	missing, err := repo.Users().Get(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, missing)

	other := domain.User{ID: uuid.NewString(), Username: "fcc_test", CreatedAt: time.Now().UTC().Add(time.Second)}
	require.NoError(t, repo.Users().Create(ctx, other), "duplicate usernames are allowed")

	users, err := repo.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, user.ID, users[0].ID, "insertion order")
}

func TestExerciseFilteringAndBounding(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	userID := uuid.NewString()
	days := []string{"2023-01-01", "2023-02-01", "2023-03-01"}
	for i, day := range days {
		date, err := domain.ParseDate(day)
		require.NoError(t, err)
		require.NoError(t, repo.Exercises().Create(ctx, domain.Exercise{
			ID:          uuid.NewString(),
			UserID:      userID,
			Description: day,
			Duration:    10 * (i + 1),
			Date:        date,
			CreatedAt:   time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	// Another user's entry must never qualify.
	otherDate, _ := domain.ParseDate("2023-02-01")
	require.NoError(t, repo.Exercises().Create(ctx, domain.Exercise{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
		Description: "other",
		Duration:    5,
		Date:        otherDate,
		CreatedAt:   time.Now().UTC(),
	}))

	all, err := repo.Exercises().ListByUser(ctx, userID, domain.LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "2023-01-01", all[0].Description, "insertion order")

	from, _ := domain.ParseDate("2023-02-01")
	filtered, err := repo.Exercises().ListByUser(ctx, userID, domain.LogFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, filtered, 2, "from bound is inclusive")

	to, _ := domain.ParseDate("2023-01-31")
	filtered, err = repo.Exercises().ListByUser(ctx, userID, domain.LogFilter{To: &to})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	bounded, err := repo.Exercises().ListByUser(ctx, userID, domain.LogFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, bounded, 2)

	// Stable under repeated calls with no intervening writes.
	again, err := repo.Exercises().ListByUser(ctx, userID, domain.LogFilter{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, bounded, again)
}

func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("tracker"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewRepository(pool)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	t.Helper()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	path := resolvePath(t, "../../../db/postgres/migrations/0001_init.up.sql")
	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
