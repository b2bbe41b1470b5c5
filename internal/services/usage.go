package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/pinforge-backend/internal/data/repos"
	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/entitlement"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type UsageView struct {
	CanGenerate   bool `json:"canGenerate"`
	Remaining     int  `json:"remaining"`
	MonthlyLimit  int  `json:"monthlyLimit"`
	UsedThisMonth int  `json:"usedThisMonth"`
	IsSuperAdmin  bool `json:"isSuperAdmin"`
}

type UsageService interface {
	// Load returns a nil state when the user has no profile.
	Load(ctx context.Context, userID uuid.UUID) (*entitlement.State, error)
	RecordGeneration(ctx context.Context, userID uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID) (*UsageView, error)
}

type usageService struct {
	log      *logger.Logger
	profiles repos.ProfileRepo
}

func NewUsageService(baseLog *logger.Logger, profiles repos.ProfileRepo) UsageService {
	return &usageService{
		log:      baseLog.With("service", "UsageService"),
		profiles: profiles,
	}
}

func (s *usageService) Load(ctx context.Context, userID uuid.UUID) (*entitlement.State, error) {
	p, err := s.profiles.GetByUserID(ctx, nil, userID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return entitlement.FromProfile(p), nil
}

func (s *usageService) RecordGeneration(ctx context.Context, userID uuid.UUID) error {
	if err := s.profiles.IncrementUsage(ctx, nil, userID, 1); err != nil {
		s.log.Warn("usage increment failed", "user_id", userID.String(), "error", err)
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

func (s *usageService) Summary(ctx context.Context, userID uuid.UUID) (*UsageView, error) {
	state, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &UsageView{
		CanGenerate: entitlement.CanGenerate(state),
		Remaining:   entitlement.Remaining(state),
	}
	if state != nil {
		view.MonthlyLimit = state.MonthlyLimit
		view.UsedThisMonth = state.UsedThisMonth
		view.IsSuperAdmin = state.IsSuperAdmin
	}
	return view, nil
}
