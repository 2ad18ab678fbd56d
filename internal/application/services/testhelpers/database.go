package testhelpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/DanielPopoola/gulfpay/internal/config"
	"github.com/DanielPopoola/gulfpay/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	eventStoreImage = "postgres:16-alpine"
	eventStoreUser  = "gulfpay"
	eventStorePass  = "gulfpay"
	eventStoreName  = "gulfpay_events"
)

// EventStore is a disposable Postgres holding the gateway_events table.
type EventStore struct {
	DB        *postgres.DB
	Config    *config.DatabaseConfig
	container testcontainers.Container
}

// StartEventStore runs every up migration against a fresh container and
// tears it down when t finishes. Skipped under -short.
func StartEventStore(t *testing.T) *EventStore {
	t.Helper()
	if testing.Short() {
		t.Skip("event store needs docker; skipped in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        eventStoreImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     eventStoreUser,
				"POSTGRES_PASSWORD": eventStorePass,
				"POSTGRES_DB":       eventStoreName,
			},
			// Postgres logs readiness twice: once for the init server, once for the real one.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate event store container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Enabled:      true,
		Host:         host,
		Port:         port.Int(),
		User:         eventStoreUser,
		Password:     eventStorePass,
		Name:         eventStoreName,
		SSLMode:      "disable",
		MaxOpenConns: 4,
	}

	db, err := postgres.Connect(ctx, cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, migrateUp(ctx, db, migrationsDir()))

	return &EventStore{DB: db, Config: cfg, container: container}
}

// Reset empties the event table between tests.
func (s *EventStore) Reset(t *testing.T) {
	t.Helper()
	_, err := s.DB.Pool.Exec(context.Background(), "TRUNCATE TABLE gateway_events")
	require.NoError(t, err)
}

// migrationsDir resolves db/migrations from this file, four levels below the module root.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(file)
	for range 4 {
		root = filepath.Dir(root)
	}
	return filepath.Join(root, "db", "migrations")
}

// migrateUp applies every *.up.sql in name order.
func migrateUp(ctx context.Context, db *postgres.DB, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no up migrations in %s", dir)
	}
	slices.Sort(files)

	for _, file := range files {
		sql, err := os.ReadFile(file) //nolint:gosec // path built from the repo layout
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(file), err)
		}
		if _, err := db.Pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}
