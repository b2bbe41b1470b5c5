package pins

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type PinRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.Pin) ([]*types.Pin, error)
	GetByID(ctx context.Context, tx *gorm.DB, ownerUserID, id uuid.UUID) (*types.Pin, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID, limit, offset int) ([]*types.Pin, int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.PinStatus) error
	Delete(ctx context.Context, tx *gorm.DB, ownerUserID, id uuid.UUID) error
}

type pinRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPinRepo(db *gorm.DB, baseLog *logger.Logger) PinRepo {
	repoLog := baseLog.With("repo", "PinRepo")
	return &pinRepo{db: db, log: repoLog}
}

func (r *pinRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.Pin) ([]*types.Pin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return []*types.Pin{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pinRepo) GetByID(ctx context.Context, tx *gorm.DB, ownerUserID, id uuid.UUID) (*types.Pin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Pin
	err := transaction.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", id, ownerUserID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByOwner returns one page, newest first, and the owner's total pin count.
func (r *pinRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID, limit, offset int) ([]*types.Pin, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var total int64
	if err := transaction.WithContext(ctx).
		Model(&types.Pin{}).
		Where("owner_user_id = ?", ownerUserID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var results []*types.Pin
	if err := transaction.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC, variation_index ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *pinRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.PinStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Pin{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *pinRepo) Delete(ctx context.Context, tx *gorm.DB, ownerUserID, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", id, ownerUserID).
		Delete(&types.Pin{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}
