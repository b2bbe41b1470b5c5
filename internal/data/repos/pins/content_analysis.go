package pins

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type ContentAnalysisRepo interface {
	// GetFresh returns the entry for url if it has not expired at now, else types.ErrNotFound.
	GetFresh(ctx context.Context, tx *gorm.DB, url string, now time.Time) (*types.ContentAnalysis, error)
	Upsert(ctx context.Context, tx *gorm.DB, item *types.ContentAnalysis) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type contentAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) ContentAnalysisRepo {
	repoLog := baseLog.With("repo", "ContentAnalysisRepo")
	return &contentAnalysisRepo{db: db, log: repoLog}
}

func (r *contentAnalysisRepo) GetFresh(ctx context.Context, tx *gorm.DB, url string, now time.Time) (*types.ContentAnalysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.ContentAnalysis
	err := transaction.WithContext(ctx).
		Where("url = ? AND expires_at > ?", url, now).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upsert replaces any existing row for the same url. Concurrent writers: last one wins.
func (r *contentAnalysisRepo) Upsert(ctx context.Context, tx *gorm.DB, item *types.ContentAnalysis) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if item == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "url"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "og_title", "og_description", "og_image",
				"keywords", "content_summary", "expires_at", "updated_at",
			}),
		}).
		Create(item).Error
}

func (r *contentAnalysisRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&types.ContentAnalysis{})
	return res.RowsAffected, res.Error
}
