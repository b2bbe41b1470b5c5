package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/jobs/background"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type fakeProfiles struct {
	profile *types.Profile
	incErr  error
}

func (f *fakeProfiles) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*types.Profile, error) {
	if f.profile == nil || f.profile.UserID != userID {
		return nil, types.ErrNotFound
	}
	cp := *f.profile
	return &cp, nil
}

func (f *fakeProfiles) IncrementUsage(_ context.Context, _ *gorm.DB, userID uuid.UUID, delta int) error {
	if f.incErr != nil {
		return f.incErr
	}
	if f.profile == nil || f.profile.UserID != userID {
		return types.ErrNotFound
	}
	f.profile.UsedThisMonth += delta
	return nil
}

func TestUsageSummary(t *testing.T) {
	user := uuid.New()
	profiles := &fakeProfiles{profile: &types.Profile{UserID: user, SubscriptionStatus: "active", PlanID: "starter", UsedThisMonth: 24}}
	svc := NewUsageService(logger.Nop(), profiles)
	ctx := context.Background()

	view, err := svc.Summary(ctx, user)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !view.CanGenerate || view.Remaining != 1 || view.MonthlyLimit != 25 || view.UsedThisMonth != 24 {
		t.Fatalf("unexpected view %+v", view)
	}
	if err := svc.RecordGeneration(ctx, user); err != nil {
		t.Fatalf("RecordGeneration: %v", err)
	}
	view, _ = svc.Summary(ctx, user)
	if view.CanGenerate || view.Remaining != 0 {
		t.Fatalf("exhausted view %+v", view)
	}
}

func TestUsageWithoutProfile(t *testing.T) {
	svc := NewUsageService(logger.Nop(), &fakeProfiles{})
	state, err := svc.Load(context.Background(), uuid.New())
	if err != nil || state != nil {
		t.Fatalf("Load: want nil,nil got %v,%v", state, err)
	}
	view, err := svc.Summary(context.Background(), uuid.New())
	if err != nil || view.CanGenerate || view.Remaining != 0 {
		t.Fatalf("Summary: %+v %v", view, err)
	}
}

func TestUsageSuperAdmin(t *testing.T) {
	user := uuid.New()
	svc := NewUsageService(logger.Nop(), &fakeProfiles{profile: &types.Profile{UserID: user, IsSuperAdmin: true, UsedThisMonth: 4000}})
	view, err := svc.Summary(context.Background(), user)
	if err != nil || !view.CanGenerate || view.Remaining != -1 || !view.IsSuperAdmin {
		t.Fatalf("Summary: %+v %v", view, err)
	}
}

type fakePinRepo struct {
	pins      map[uuid.UUID]*types.Pin
	deleteErr error
}

func (f *fakePinRepo) Create(_ context.Context, _ *gorm.DB, items []*types.Pin) ([]*types.Pin, error) {
	for _, p := range items {
		f.pins[p.ID] = p
	}
	return items, nil
}

func (f *fakePinRepo) GetByID(_ context.Context, _ *gorm.DB, owner, id uuid.UUID) (*types.Pin, error) {
	p, ok := f.pins[id]
	if !ok || p.OwnerUserID != owner {
		return nil, types.ErrNotFound
	}
	return p, nil
}

func (f *fakePinRepo) ListByOwner(_ context.Context, _ *gorm.DB, owner uuid.UUID, limit, offset int) ([]*types.Pin, int64, error) {
	var out []*types.Pin
	for _, p := range f.pins {
		if p.OwnerUserID == owner {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePinRepo) UpdateStatus(context.Context, *gorm.DB, uuid.UUID, types.PinStatus) error {
	return nil
}

func (f *fakePinRepo) Delete(_ context.Context, _ *gorm.DB, owner, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	p, ok := f.pins[id]
	if !ok || p.OwnerUserID != owner {
		return types.ErrNotFound
	}
	delete(f.pins, id)
	return nil
}

type fakeBlobs struct {
	deleted []string
	err     error
}

func (f *fakeBlobs) DeleteFile(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.err
}

func TestPinServiceDeleteRemovesBlob(t *testing.T) {
	owner := uuid.New()
	pin := &types.Pin{ID: uuid.New(), OwnerUserID: owner, ImageStorageKey: "pins/x/y.png"}
	repo := &fakePinRepo{pins: map[uuid.UUID]*types.Pin{pin.ID: pin}}
	blobs := &fakeBlobs{}
	bg := &background.Inline{}
	svc := NewPinService(logger.Nop(), repo, blobs, bg)

	if err := svc.Delete(context.Background(), owner, pin.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.pins) != 0 || len(blobs.deleted) != 1 || blobs.deleted[0] != "pins/x/y.png" {
		t.Fatalf("delete: rows=%d blobs=%v", len(repo.pins), blobs.deleted)
	}
}

func TestPinServiceDeleteToleratesBlobFailure(t *testing.T) {
	owner := uuid.New()
	pin := &types.Pin{ID: uuid.New(), OwnerUserID: owner, ImageStorageKey: "pins/x/y.png"}
	repo := &fakePinRepo{pins: map[uuid.UUID]*types.Pin{pin.ID: pin}}
	bg := &background.Inline{}
	svc := NewPinService(logger.Nop(), repo, &fakeBlobs{err: errors.New("gone")}, bg)

	if err := svc.Delete(context.Background(), owner, pin.ID); err != nil {
		t.Fatalf("Delete must ignore blob failures: %v", err)
	}
	if len(bg.Errs) != 1 {
		t.Fatalf("blob failure should be recorded by the dispatcher")
	}
}

func TestPinServiceScopesToOwner(t *testing.T) {
	owner := uuid.New()
	pin := &types.Pin{ID: uuid.New(), OwnerUserID: owner}
	repo := &fakePinRepo{pins: map[uuid.UUID]*types.Pin{pin.ID: pin}}
	svc := NewPinService(logger.Nop(), repo, nil, nil)

	if _, err := svc.Get(context.Background(), uuid.New(), pin.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Get by stranger: want ErrNotFound got %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), pin.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Delete by stranger: want ErrNotFound got %v", err)
	}
	if _, _, err := svc.List(context.Background(), uuid.Nil, 10, 0); !errors.Is(err, types.ErrValidation) {
		t.Fatalf("List without owner: want ErrValidation got %v", err)
	}
}
