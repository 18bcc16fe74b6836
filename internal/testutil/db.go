// Package testutil provides shared test fixtures: an in-memory SQLite store
// migrated with the application schema, so repository and engine tests run
// real transactions without a PostgreSQL instance.
package testutil

import (
	"testing"

	"github.com/ecobite/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens a fresh in-memory database migrated with all models. The pool
// is pinned to one connection so every session sees the same memory store.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Claim{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
