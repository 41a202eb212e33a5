package blob

import (
	"context"
	"testing"
	"time"

	e "github.com/euvalley/directory/internal/directory/errors"
	"github.com/euvalley/directory/internal/directory/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestRepo initializes an in-memory SQLite database for testing.
func SetupTestRepo(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	repo, err := NewRepositoryWithDB(db)
	require.NoError(t, err, "failed to migrate test database")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestLoadEmpty(t *testing.T) {
	repo := SetupTestRepo(t)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, e.ErrNotFound, "empty store should report ErrNotFound")
}

func TestSaveAndLoad(t *testing.T) {
	repo := SetupTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	snapshot := &models.Snapshot{
		Companies: []models.Company{
			{ID: "sap-1", Name: "SAP", CountryCode: "DE", AlternativeFor: []string{}, CreatedAt: now, UpdatedAt: now},
		},
		HiddenIDs: []string{"sap-1"},
	}

	stamp, err := repo.Save(ctx, snapshot)
	require.NoError(t, err)
	assert.False(t, stamp.IsZero(), "save should stamp lastUpdated")

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Companies, got.Companies)
	assert.Equal(t, snapshot.HiddenIDs, got.HiddenIDs)
	require.NotNil(t, got.LastUpdated)
	assert.True(t, stamp.Equal(*got.LastUpdated))
}

func TestSaveOverwrites(t *testing.T) {
	repo := SetupTestRepo(t)
	ctx := context.Background()

	first := &models.Snapshot{Companies: []models.Company{{ID: "a", Name: "A"}}, HiddenIDs: []string{}}
	second := &models.Snapshot{Companies: []models.Company{{ID: "b", Name: "B"}}, HiddenIDs: []string{}}

	_, err := repo.Save(ctx, first)
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Companies, 1)
	assert.Equal(t, "b", got.Companies[0].ID, "last writer wins, no merge")
}
