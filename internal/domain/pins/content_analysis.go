package pins

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContentAnalysis is the cached extraction result for one URL. Absent tags stay nil.
type ContentAnalysis struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"-"`
	URL            string                      `gorm:"column:url;type:text;not null;uniqueIndex" json:"url"`
	Title          *string                     `gorm:"column:title;type:text" json:"title,omitempty"`
	Description    *string                     `gorm:"column:description;type:text" json:"description,omitempty"`
	OGTitle        *string                     `gorm:"column:og_title;type:text" json:"og_title,omitempty"`
	OGDescription  *string                     `gorm:"column:og_description;type:text" json:"og_description,omitempty"`
	OGImage        *string                     `gorm:"column:og_image;type:text" json:"og_image,omitempty"`
	Keywords       datatypes.JSONSlice[string] `gorm:"column:keywords;type:jsonb" json:"keywords"`
	ContentSummary string                      `gorm:"column:content_summary;type:text" json:"content_summary"`
	ExpiresAt      time.Time                   `gorm:"column:expires_at;not null;index" json:"expires_at"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContentAnalysis) TableName() string { return "content_analysis" }

func (c *ContentAnalysis) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the entry is stale at now.
func (c *ContentAnalysis) Expired(now time.Time) bool {
	return c == nil || !now.Before(c.ExpiresAt)
}
