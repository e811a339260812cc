// Package store persists the small set of string properties photodrop needs
// across runs: OAuth client credentials, the login hint and the user's tokens.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Fixed property names.
const (
	KeyClientID     = "CLIENT_ID"
	KeyClientSecret = "CLIENT_SECRET"
	KeyEmail        = "EMAIL"
)

var ErrEmptyKey = errors.New("property key is empty")

// PropertyStore is a durable key to string store.
// Implementations must be safe for concurrent use.
type PropertyStore interface {
	// GetProperty returns the value for key and whether it was present.
	GetProperty(ctx context.Context, key string) (string, bool, error)
	SetProperty(ctx context.Context, key, value string) error
	// DeleteProperty removes key. Deleting a missing key is not an error.
	DeleteProperty(ctx context.Context, key string) error
	Properties(ctx context.Context) (map[string]string, error)
}

// Property is one row of the properties table.
type Property struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// GormStore is a PropertyStore backed by sqlite or postgres.
type GormStore struct {
	db *gorm.DB
}

var _ PropertyStore = (*GormStore)(nil)

// Open connects to the database selected by driver ("sqlite" or "postgres")
// and migrates the properties table.
func Open(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	if err := db.AutoMigrate(&Property{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s store: %w", driver, err)
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) GetProperty(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	// Find+Limit instead of First: a missing key is normal and should not be
	// logged as a failed query.
	var props []Property
	res := s.db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&props)
	if res.Error != nil {
		return "", false, fmt.Errorf("failed to get property %s: %w", key, res.Error)
	}
	if len(props) == 0 {
		return "", false, nil
	}
	return props[0].Value, true, nil
}

func (s *GormStore) SetProperty(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	prop := Property{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&prop).Error
	if err != nil {
		return fmt.Errorf("failed to set property %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) DeleteProperty(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&Property{}).Error; err != nil {
		return fmt.Errorf("failed to delete property %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Properties(ctx context.Context) (map[string]string, error) {
	var props []Property
	if err := s.db.WithContext(ctx).Order("key").Find(&props).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	out := make(map[string]string, len(props))
	for _, p := range props {
		out[p.Key] = p.Value
	}
	return out, nil
}
