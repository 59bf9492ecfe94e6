//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/certledger/internal/storage/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "certledger_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/certledger_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := postgres.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	store := postgres.NewStore(conn.DB)
	require.NoError(t, store.Ping(ctx))

	got, err := store.Get(ctx, "account:a")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, store.Put(ctx, "account:a", []byte(`{"v":1}`)))
	require.NoError(t, store.Put(ctx, "account:a", []byte(`{"v":2}`)))

	got, err = store.Get(ctx, "account:a")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"v":2}`), got)

	require.NoError(t, store.Delete(ctx, "account:a"))
	got, err = store.Get(ctx, "account:a")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := postgres.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, postgres.Migrate(conn.DB))
}
