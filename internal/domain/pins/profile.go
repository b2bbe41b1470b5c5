package pins

import (
	"time"

	"github.com/google/uuid"
)

// Profile mirrors the subscription state an external billing process keeps in sync.
// This service only reads it and increments UsedThisMonth.
type Profile struct {
	UserID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SubscriptionStatus string    `gorm:"column:subscription_status;type:varchar(32)" json:"subscription_status"`
	PlanID             string    `gorm:"column:plan_id;type:varchar(32)" json:"plan_id"`
	MonthlyLimit       int       `gorm:"column:monthly_limit;not null;default:0" json:"monthly_limit"`
	UsedThisMonth      int       `gorm:"column:used_this_month;not null;default:0" json:"used_this_month"`
	IsSuperAdmin       bool      `gorm:"column:is_super_admin;not null;default:false" json:"is_super_admin"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profile" }
