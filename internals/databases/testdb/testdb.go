// Package testdb opens an isolated in-memory SQLite store with the full schema.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "savethedate_backend/internals/databases"
)

var seq atomic.Int64

func New(t testing.TB) *gorm.DB {
	t.Helper()

	// Named shared-cache DB so every connection of this test sees the same data.
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))

	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	cfg.NowFunc = func() time.Time { return time.Now().UTC() }

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
