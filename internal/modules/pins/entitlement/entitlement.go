package entitlement

import (
	"strings"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

// State is the subscription snapshot the gate decides on.
type State struct {
	IsActive      bool
	IsSuperAdmin  bool
	MonthlyLimit  int
	UsedThisMonth int
}

var planLimits = map[string]int{
	"starter":  25,
	"pro":      100,
	"business": 500,
}

// PlanLimit returns the monthly pin allowance for a known plan id.
func PlanLimit(planID string) (int, bool) {
	n, ok := planLimits[strings.ToLower(strings.TrimSpace(planID))]
	return n, ok
}

func isActiveStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing":
		return true
	}
	return false
}

// FromProfile derives State. A recognised plan id wins over the stored numeric limit.
func FromProfile(p *types.Profile) *State {
	if p == nil {
		return nil
	}
	limit := p.MonthlyLimit
	if n, ok := PlanLimit(p.PlanID); ok {
		limit = n
	}
	return &State{
		IsActive:      isActiveStatus(p.SubscriptionStatus),
		IsSuperAdmin:  p.IsSuperAdmin,
		MonthlyLimit:  limit,
		UsedThisMonth: p.UsedThisMonth,
	}
}

// CanGenerate is the single gate rule. A nil state never generates.
func CanGenerate(s *State) bool {
	if s == nil {
		return false
	}
	if s.IsSuperAdmin {
		return true
	}
	return s.IsActive && s.MonthlyLimit-s.UsedThisMonth > 0
}

// Remaining is what the usage endpoint shows. Super admins report -1 for unlimited.
func Remaining(s *State) int {
	if s == nil {
		return 0
	}
	if s.IsSuperAdmin {
		return -1
	}
	if !s.IsActive {
		return 0
	}
	if r := s.MonthlyLimit - s.UsedThisMonth; r > 0 {
		return r
	}
	return 0
}
