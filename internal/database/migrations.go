package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"github.com/swaroski/ai-shelves/internal/users"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	migrationStripProviderPrefixes = "2024-09-01_strip_provider_prefixes"
	migrationBackfillEntryTimes    = "2024-09-15_backfill_kv_entry_times"
)

var legacyProviderPrefixes = []string{"google:"}

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB, time.Time) error
}

func applyMigrations(db *gorm.DB, clock func() time.Time, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationStripProviderPrefixes, apply: stripProviderPrefixes},
		{name: migrationBackfillEntryTimes, apply: backfillEntryTimes},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := clock().UTC()
		if err := migration.apply(db, now); err != nil {
			return fmt.Errorf("migration %s: %w", migration.name, err)
		}
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: now.Unix()}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// stripProviderPrefixes rewrites canonical ids stored with a provider prefix.
func stripProviderPrefixes(db *gorm.DB, _ time.Time) error {
	for _, prefix := range legacyProviderPrefixes {
		start := len(prefix) + 1
		err := db.Model(&users.Identity{}).
			Where("user_id LIKE ?", prefix+"%").
			Update("user_id", gorm.Expr("substr(user_id, ?)", start)).
			Error
		if err != nil {
			return err
		}
	}
	return nil
}

// backfillEntryTimes stamps rows written before updated_at_s was tracked.
func backfillEntryTimes(db *gorm.DB, now time.Time) error {
	return db.Model(&kvstore.Entry{}).
		Where("updated_at_s = 0").
		Update("updated_at_s", now.Unix()).
		Error
}
