package pins

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pinforge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pinforge-backend/internal/domain"
)

func TestPinRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPinRepo(db, testutil.Logger(t))

	owner := uuid.New()
	other := uuid.New()
	for i := 0; i < 3; i++ {
		testutil.SeedPin(t, ctx, tx, owner, i)
	}
	foreign := testutil.SeedPin(t, ctx, tx, other, 0)

	list, total, err := repo.ListByOwner(ctx, tx, owner, 2, 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if total != 3 || len(list) != 2 {
		t.Fatalf("ListByOwner: total=%d len=%d", total, len(list))
	}

	if _, err := repo.GetByID(ctx, tx, owner, foreign.ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("GetByID other owner: want ErrNotFound got %v", err)
	}
	if err := repo.UpdateStatus(ctx, tx, list[0].ID, types.PinStatusFailed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, owner, list[0].ID)
	if err != nil || got.Status != types.PinStatusFailed {
		t.Fatalf("GetByID after UpdateStatus: %+v %v", got, err)
	}
	if err := repo.Delete(ctx, tx, owner, list[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, tx, owner, list[0].ID); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Delete twice: want ErrNotFound got %v", err)
	}
}

func TestContentAnalysisRepoUpsertAndExpiry(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewContentAnalysisRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	url := "https://example.com/" + uuid.NewString()
	first := "First"
	if err := repo.Upsert(ctx, tx, &types.ContentAnalysis{URL: url, Title: &first, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := "Second"
	if err := repo.Upsert(ctx, tx, &types.ContentAnalysis{URL: url, Title: &second, Keywords: []string{"a", "b"}, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	got, err := repo.GetFresh(ctx, tx, url, now)
	if err != nil {
		t.Fatalf("GetFresh: %v", err)
	}
	if got.Title == nil || *got.Title != "Second" || len(got.Keywords) != 2 || got.Keywords[0] != "a" {
		t.Fatalf("GetFresh: last write should win, got %+v", got)
	}
	if _, err := repo.GetFresh(ctx, tx, url, now.Add(2*time.Hour)); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("GetFresh expired: want ErrNotFound got %v", err)
	}
}

func TestProfileRepoIncrementUsage(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewProfileRepo(db, testutil.Logger(t))

	p := testutil.SeedProfile(t, ctx, tx, "starter", 24)
	if err := repo.IncrementUsage(ctx, tx, p.UserID, 1); err != nil {
		t.Fatalf("IncrementUsage: %v", err)
	}
	got, err := repo.GetByUserID(ctx, tx, p.UserID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.UsedThisMonth != 25 {
		t.Fatalf("UsedThisMonth: want=25 got=%d", got.UsedThisMonth)
	}
	if err := repo.IncrementUsage(ctx, tx, uuid.New(), 1); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("IncrementUsage unknown user: want ErrNotFound got %v", err)
	}
}
