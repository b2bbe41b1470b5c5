package entitlement

import (
	"testing"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

func TestCanGenerate(t *testing.T) {
	cases := []struct {
		name  string
		state *State
		want  bool
	}{
		{name: "nil", state: nil, want: false},
		{name: "super admin inactive over limit", state: &State{IsSuperAdmin: true, MonthlyLimit: 0, UsedThisMonth: 900}, want: true},
		{name: "active with room", state: &State{IsActive: true, MonthlyLimit: 25, UsedThisMonth: 24}, want: true},
		{name: "active at limit", state: &State{IsActive: true, MonthlyLimit: 25, UsedThisMonth: 25}, want: false},
		{name: "active over limit", state: &State{IsActive: true, MonthlyLimit: 25, UsedThisMonth: 30}, want: false},
		{name: "inactive with room", state: &State{IsActive: false, MonthlyLimit: 25, UsedThisMonth: 0}, want: false},
	}
	for _, tc := range cases {
		if got := CanGenerate(tc.state); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}

func TestCanGenerateMonotoneInUsage(t *testing.T) {
	for limit := 0; limit <= 30; limit++ {
		seenDenied := false
		for used := 0; used <= 40; used++ {
			ok := CanGenerate(&State{IsActive: true, MonthlyLimit: limit, UsedThisMonth: used})
			if ok && seenDenied {
				t.Fatalf("limit=%d used=%d: allowed after a lower usage was denied", limit, used)
			}
			if !ok {
				seenDenied = true
			}
		}
	}
}

func TestRemainingAgreesWithGate(t *testing.T) {
	for used := 0; used <= 30; used++ {
		s := &State{IsActive: true, MonthlyLimit: 25, UsedThisMonth: used}
		if (Remaining(s) > 0) != CanGenerate(s) {
			t.Fatalf("used=%d: Remaining=%d CanGenerate=%v", used, Remaining(s), CanGenerate(s))
		}
	}
	if Remaining(&State{IsSuperAdmin: true}) != -1 {
		t.Fatalf("super admin remaining should be unlimited")
	}
}

func TestFromProfilePrefersPlanID(t *testing.T) {
	s := FromProfile(&types.Profile{SubscriptionStatus: "trialing", PlanID: "Pro", MonthlyLimit: 5, UsedThisMonth: 10})
	if !s.IsActive || s.MonthlyLimit != 100 {
		t.Fatalf("FromProfile: %+v", s)
	}
	s = FromProfile(&types.Profile{SubscriptionStatus: "canceled", PlanID: "legacy", MonthlyLimit: 7})
	if s.IsActive || s.MonthlyLimit != 7 {
		t.Fatalf("FromProfile unknown plan: %+v", s)
	}
	if FromProfile(nil) != nil {
		t.Fatalf("FromProfile(nil): want nil")
	}
}
