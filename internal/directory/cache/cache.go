// Package cache persists the last known snapshot on local disk so the
// application can start without the gateway. It stores the company
// collection and the hidden-id set under two fixed keys in a small
// sqlite key-value table. The cache is never the system of record once
// a remote snapshot has been obtained.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	e "github.com/euvalley/directory/internal/directory/errors"
	"github.com/euvalley/directory/internal/directory/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	companiesKey = "eu-valley-companies"
	hiddenKey    = "eu-valley-hidden-companies"
)

type entry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// Cache is a sqlite-backed key-value mirror of the snapshot.
type Cache struct {
	db *gorm.DB
}

// Open opens (or creates) the cache database at path. ":memory:" gives
// an ephemeral cache for tests.
func Open(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}
	return &Cache{db: db}, nil
}

// Load reads the cached companies and hidden ids. It returns ErrNotFound
// when no snapshot has been cached yet.
func (c *Cache) Load() ([]models.Company, []string, error) {
	var companiesRow entry
	result := c.db.First(&companiesRow, "key = ?", companiesKey)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, e.ErrNotFound
		}
		return nil, nil, result.Error
	}

	var companies []models.Company
	if err := json.Unmarshal(companiesRow.Value, &companies); err != nil {
		return nil, nil, fmt.Errorf("corrupt company cache: %w", err)
	}

	hidden := []string{}
	var hiddenRow entry
	result = c.db.First(&hiddenRow, "key = ?", hiddenKey)
	if result.Error == nil {
		if err := json.Unmarshal(hiddenRow.Value, &hidden); err != nil {
			return nil, nil, fmt.Errorf("corrupt hidden-id cache: %w", err)
		}
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil, result.Error
	}

	return companies, hidden, nil
}

// Save overwrites both cache keys with the given state.
func (c *Cache) Save(companies []models.Company, hiddenIDs []string) error {
	companiesJSON, err := json.Marshal(companies)
	if err != nil {
		return err
	}
	if hiddenIDs == nil {
		hiddenIDs = []string{}
	}
	hiddenJSON, err := json.Marshal(hiddenIDs)
	if err != nil {
		return err
	}

	now := time.Now()
	rows := []entry{
		{Key: companiesKey, Value: companiesJSON, UpdatedAt: now},
		{Key: hiddenKey, Value: hiddenJSON, UpdatedAt: now},
	}
	for _, row := range rows {
		if err := c.db.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to write cache key %s: %w", row.Key, err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	db, err := c.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
