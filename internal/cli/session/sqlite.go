package session

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Record is one persisted key-value row
type Record struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)"`
	Key       string    `gorm:"column:record_key;uniqueIndex;not null"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name independent of gorm's pluralization
func (Record) TableName() string {
	return "session_records"
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	return nil
}

// SQLiteBackend persists records in an embedded SQLite database
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLiteBackend opens (creating if needed) the database at path
func OpenSQLiteBackend(path string, zlog zerolog.Logger) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// A single connection keeps :memory: databases alive between calls
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	zlog.Debug().Str("path", path).Msg("Opened session database")
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Get(key string) ([]byte, error) {
	var rec Record
	if err := s.db.Where("record_key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query session record: %w", err)
	}
	return rec.Value, nil
}

func (s *SQLiteBackend) Set(key string, value []byte) error {
	rec := Record{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to upsert session record: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Delete(key string) error {
	res := s.db.Where("record_key = ?", key).Delete(&Record{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete session record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the database handle
func (s *SQLiteBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
