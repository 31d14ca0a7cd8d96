package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a pool against the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)

	_, err = db.Exec(ctx, postgresql.Schema)
	require.NoError(t, err)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)

	return setup
}

// TruncateAllTables deletes all rows from every table.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"shift_audits",
		"shifts",
		"leave_records",
		"advance_payments",
		"advance_configs",
		"payroll_configs",
		"drivers",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateDriver inserts an active driver and returns its id.
func (t *TestDatabaseSetup) CreateDriver(tb testing.TB, name string) string {
	tb.Helper()

	var id string
	err := t.DB.QueryRow(context.Background(),
		`INSERT INTO drivers (full_name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	require.NoError(tb, err)
	return id
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
