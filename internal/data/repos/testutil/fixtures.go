package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, planID string, used int) *types.Profile {
	tb.Helper()
	p := &types.Profile{
		UserID:             uuid.New(),
		SubscriptionStatus: "active",
		PlanID:             planID,
		MonthlyLimit:       25,
		UsedThisMonth:      used,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedPin(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, index int) *types.Pin {
	tb.Helper()
	p := &types.Pin{
		OwnerUserID:     ownerID,
		Title:           "Seeded pin",
		Description:     "Seeded description",
		ImageURL:        "https://storage.googleapis.com/pins/seed.webp",
		ImageStorageKey: "pins/seed.webp",
		TemplateStyle:   "modern",
		VariationIndex:  index,
		Status:          types.PinStatusCompleted,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed pin: %v", err)
	}
	return p
}
