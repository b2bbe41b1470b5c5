package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

// AutoMigrateAll creates the tables this service owns. The profile table is owned by billing
// but is migrated too so local and test databases are usable on their own.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Pin{},
		&types.ContentAnalysis{},
		&types.Profile{},
	)
}
