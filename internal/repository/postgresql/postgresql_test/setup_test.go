package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../../../migrations"

// TestDatabaseSetup wraps a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.Migrate(ctx, "001_init.sql", "002_comp_off.sql"))
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

// Migrate runs the named migration files in order.
func (s *TestDatabaseSetup) Migrate(ctx context.Context, files ...string) error {
	for _, name := range files {
		sql, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := s.DB.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}

// TruncateAllTables removes all rows from every table.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"comp_off_credits",
		"leave_balances",
		"leave_requests",
		"attendance_events",
		"holidays",
		"attendance_policies",
		"users",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateUser inserts a user row and returns its ID.
func (s *TestDatabaseSetup) CreateUser(t *testing.T, id, name, role string, managerID *string) string {
	t.Helper()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO users (id, full_name, email, role, manager_id)
		VALUES ($1, $2, $3, $4, $5)
	`, id, name, id+"@example.com", role, managerID)
	require.NoError(t, err)
	return id
}
