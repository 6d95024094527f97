package database

import (
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/swaroski/ai-shelves/internal/kvstore"
	"github.com/swaroski/ai-shelves/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// OpenSQLite establishes a SQLite connection and performs schema migrations.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	return openSQLite(path, time.Now, logger)
}

func openSQLite(path string, clock func() time.Time, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&kvstore.Entry{}, &users.Identity{}, &migrationRecord{}); err != nil {
		return nil, err
	}

	if err := applyMigrations(db, clock, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}
