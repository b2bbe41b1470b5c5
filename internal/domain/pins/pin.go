package pins

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PinStatus string

const (
	PinStatusPending   PinStatus = "pending"
	PinStatusCompleted PinStatus = "completed"
	PinStatusFailed    PinStatus = "failed"
)

// Pin is one persisted generated pin. Only Status changes after insert.
type Pin struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_pin_owner_created,priority:1" json:"owner_user_id"`
	SourceURL       *string   `gorm:"column:source_url;type:text" json:"source_url,omitempty"`
	Title           string    `gorm:"column:title;type:varchar(100);not null" json:"title"`
	Description     string    `gorm:"column:description;type:varchar(400);not null" json:"description"`
	ImageURL        string    `gorm:"column:image_url;type:text;not null" json:"image_url"`
	ImageStorageKey string    `gorm:"column:image_storage_key;type:text;not null" json:"-"`
	ImageMimeType   string    `gorm:"column:image_mime_type;type:varchar(64)" json:"image_mime_type,omitempty"`
	ImageWidth      int       `gorm:"column:image_width" json:"image_width,omitempty"`
	ImageHeight     int       `gorm:"column:image_height" json:"image_height,omitempty"`
	StylePromptUsed string    `gorm:"column:style_prompt_used;type:text" json:"style_prompt_used,omitempty"`
	TemplateStyle   string    `gorm:"column:template_style;type:varchar(32);not null" json:"template_style"`
	VariationIndex  int       `gorm:"column:variation_index;not null" json:"variation_index"`
	Status          PinStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_pin_owner_created,priority:2" json:"created_at"`
}

func (Pin) TableName() string { return "pin" }

func (p *Pin) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
