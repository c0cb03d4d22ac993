// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/vendorscore-backend/pkg/config"
	"github.com/angelmondragon/vendorscore-backend/pkg/db"
	"github.com/angelmondragon/vendorscore-backend/pkg/migrate"
	"github.com/google/uuid"
)

// NewDB opens an isolated in-memory sqlite database with every migration applied.
func NewDB(t testing.TB) *db.Client {
	t.Helper()

	cfg := config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString()),
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQL()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(context.Background(), sqlDB, migrate.Source{Driver: config.DBDriverSQLite}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}
