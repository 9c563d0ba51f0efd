package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"coursegate/pkg/platform/sentinel"
)

// schemaVersion is the current layout of the client database. Version 3
// keeps only the completed-lesson table; earlier layouts also cached course
// and user tables locally, which are now server-owned and dropped on
// upgrade.
const schemaVersion = 3

type completedSet struct {
	Key string `gorm:"primaryKey;column:key"`
	IDs string `gorm:"column:ids;not null"`
}

func (completedSet) TableName() string { return "completed_lessons" }

type schemaInfo struct {
	ID      int `gorm:"primaryKey"`
	Version int `gorm:"not null"`
}

func (schemaInfo) TableName() string { return "schema_info" }

// legacyTables existed before schemaVersion 3.
var legacyTables = []string{"courses", "users"}

// SQLiteStore persists the completed set in an embedded database file. Each
// Load/Save runs in its own transaction; Toggle wraps its load and save in
// one transaction so a lone caller can never observe a torn set.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating or migrating as needed) the client database at
// path. Open failures are wrapped in sentinel.ErrUnavailable so callers can
// degrade to in-memory state instead of crashing the client.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	if err := migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(db *gorm.DB) error {
	migrator := db.Migrator()

	version := 0
	if migrator.HasTable(&schemaInfo{}) {
		var info schemaInfo
		if err := db.First(&info).Error; err == nil {
			version = info.Version
		}
	}
	if version > schemaVersion {
		return fmt.Errorf("%w: database schema version %d is newer than supported %d",
			sentinel.ErrUnavailable, version, schemaVersion)
	}
	if version < schemaVersion {
		for _, table := range legacyTables {
			if !migrator.HasTable(table) {
				continue
			}
			if err := migrator.DropTable(table); err != nil {
				return fmt.Errorf("%w: drop legacy table %s: %v", sentinel.ErrUnavailable, table, err)
			}
		}
	}
	if err := db.AutoMigrate(&completedSet{}, &schemaInfo{}); err != nil {
		return fmt.Errorf("%w: migrate: %v", sentinel.ErrUnavailable, err)
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"version"}),
	}).Create(&schemaInfo{ID: 1, Version: schemaVersion}).Error
	if err != nil {
		return fmt.Errorf("%w: record schema version: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) ([]string, error) {
	return load(s.db.WithContext(ctx))
}

func (s *SQLiteStore) Save(ctx context.Context, ids []string) error {
	return save(s.db.WithContext(ctx), dedupe(ids))
}

func (s *SQLiteStore) Toggle(ctx context.Context, id string) (bool, error) {
	var member bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := load(tx)
		if err != nil {
			return err
		}
		next, nowMember := toggle(ids, id)
		if err := save(tx, next); err != nil {
			return err
		}
		member = nowMember
		return nil
	})
	if err != nil {
		return false, err
	}
	return member, nil
}

// Close releases the database handle. The client runtime calls this at
// teardown instead of leaking an implicitly opened singleton.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func load(db *gorm.DB) ([]string, error) {
	var row completedSet
	err := db.First(&row, "key = ?", completedKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load completed set: %v", sentinel.ErrUnavailable, err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(row.IDs), &ids); err != nil {
		return nil, fmt.Errorf("%w: decode completed set: %v", sentinel.ErrUnavailable, err)
	}
	return ids, nil
}

func save(db *gorm.DB, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode completed set: %w", err)
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"ids"}),
	}).Create(&completedSet{Key: completedKey, IDs: string(data)}).Error
	if err != nil {
		return fmt.Errorf("%w: save completed set: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}
