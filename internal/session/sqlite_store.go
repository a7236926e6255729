package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionKey matches the key the web client used in browser local storage.
const sessionKey = "chatbot_session_id"

type storeEntry struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (storeEntry) TableName() string {
	return "session_store"
}

// SqliteStore is the durable Store, a single-row key/value table in a local
// sqlite database.
type SqliteStore struct {
	// SQLite only supports one writer at a time, so we need a lock
	// whenever we write to the database
	mu sync.Mutex
	db *gorm.DB
}

func OpenSqliteStore(path string) (*SqliteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening session store %s: %w", path, err)
	}

	if err := getMigrator(db).Migrate(); err != nil {
		return nil, fmt.Errorf("migrating session store: %w", err)
	}

	return &SqliteStore{db: db}, nil
}

func getMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "0",
			Migrate: func(txn *gorm.DB) error {
				return txn.AutoMigrate(&storeEntry{})
			},
			Rollback: func(txn *gorm.DB) error {
				return txn.Migrator().DropTable(&storeEntry{})
			},
		},
	})
}

func (s *SqliteStore) Get() (string, bool, error) {
	var entry storeEntry
	err := s.db.First(&entry, "key = ?", sessionKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *SqliteStore) Set(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&storeEntry{Key: sessionKey, Value: id}).Error
}

func (s *SqliteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Delete(&storeEntry{}, "key = ?", sessionKey).Error
}
