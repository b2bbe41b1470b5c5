package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pinforge-backend/internal/data/repos/pins"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type PinRepo = pins.PinRepo
type ContentAnalysisRepo = pins.ContentAnalysisRepo
type ProfileRepo = pins.ProfileRepo

type Repos struct {
	Pin             PinRepo
	ContentAnalysis ContentAnalysisRepo
	Profile         ProfileRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Pin:             pins.NewPinRepo(db, log),
		ContentAnalysis: pins.NewContentAnalysisRepo(db, log),
		Profile:         pins.NewProfileRepo(db, log),
	}
}
