// Package blob implements the gateway's storage: the whole snapshot is
// kept as one JSON document in a single row, read and overwritten
// atomically. There is no per-record persistence.
package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	e "github.com/euvalley/directory/internal/directory/errors"
	"github.com/euvalley/directory/internal/directory/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const snapshotKey = "companies.json"

type snapshotRow struct {
	Key         string `gorm:"primaryKey"`
	RevisionID  string
	Payload     []byte
	LastUpdated time.Time
}

// Repository stores snapshots in a relational database via gorm.
type Repository struct {
	db *gorm.DB
}

// Config holds the database connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewRepository connects to postgres and migrates the snapshot table.
func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// NewRepositoryWithDB wraps an existing gorm handle, migrating the
// snapshot table. Tests use this with an in-memory sqlite database.
func NewRepositoryWithDB(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// Load reads the stored snapshot. It returns ErrNotFound when no
// snapshot has ever been written.
func (r *Repository) Load(ctx context.Context) (*models.Snapshot, error) {
	var row snapshotRow
	result := r.db.WithContext(ctx).First(&row, "key = ?", snapshotKey)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(row.Payload, &snapshot); err != nil {
		return nil, fmt.Errorf("corrupt snapshot payload: %w", err)
	}
	return &snapshot, nil
}

// Save overwrites the stored snapshot, stamping LastUpdated, and
// returns the stamp. The previous revision is discarded: last writer
// wins, with no version comparison.
func (r *Repository) Save(ctx context.Context, snapshot *models.Snapshot) (time.Time, error) {
	now := time.Now().UTC()
	snapshot.LastUpdated = &now

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return time.Time{}, err
	}

	row := snapshotRow{
		Key:         snapshotKey,
		RevisionID:  uuid.New().String(),
		Payload:     payload,
		LastUpdated: now,
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return time.Time{}, fmt.Errorf("failed to write snapshot: %w", err)
	}
	return now, nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
