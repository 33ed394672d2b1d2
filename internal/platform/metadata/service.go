package metadata

import (
	"errors"
	"time"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Generic Accessors ---

// GetValue retrieves a value for a given key from the metadata table.
// A missing key is not an error; it returns the empty string.
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue creates or updates a value for a given key.
func SetValue(db *gorm.DB, key, value string) error {
	// Use GORM's OnConflict clause for an efficient and atomic "upsert" operation.
	// It will update the 'value' column if a record with the same 'key' already exists.
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// --- Specific Helpers ---

// MarkLeaderboardWarmup records the current time as the last leaderboard warmup.
func MarkLeaderboardWarmup() error {
	return SetValue(database.DB, LastLeaderboardWarmupKey, time.Now().UTC().Format(time.RFC3339))
}

// MarkCleanShutdown records the current time as the last clean shutdown.
func MarkCleanShutdown() error {
	return SetValue(database.DB, LastCleanShutdownKey, time.Now().UTC().Format(time.RFC3339))
}
