package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is the row backing one key in the SQL store.
type Entry struct {
	Key              string `gorm:"column:entry_key;primaryKey;size:190;not null"`
	Value            string `gorm:"column:entry_value;type:text;not null"`
	UpdatedAtSeconds int64  `gorm:"column:updated_at_s;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Entry) TableName() string {
	return "kv_entries"
}

var errMissingDatabase = errors.New("kvstore: database handle is required")

// SQLStoreConfig describes the dependencies of a SQLStore.
type SQLStoreConfig struct {
	Database      *gorm.DB
	MaxValueBytes int
	Clock         func() time.Time
}

// SQLStore persists values in the kv_entries table.
type SQLStore struct {
	db            *gorm.DB
	maxValueBytes int
	clock         func() time.Time
}

// NewSQLStore constructs a SQLStore. The kv_entries table must already be migrated.
func NewSQLStore(cfg SQLStoreConfig) (*SQLStore, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SQLStore{
		db:            cfg.Database,
		maxValueBytes: cfg.MaxValueBytes,
		clock:         clock,
	}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	var entry Entry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kvstore: select %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := checkQuota(key, value, s.maxValueBytes); err != nil {
		return err
	}
	entry := Entry{
		Key:              key,
		Value:            value,
		UpdatedAtSeconds: s.clock().UTC().Unix(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at_s"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("kvstore: upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("kvstore: delete %s: %w", key, err)
	}
	return nil
}
