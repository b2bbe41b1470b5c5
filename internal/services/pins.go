package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/pinforge-backend/internal/data/repos"
	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/jobs/background"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

// BlobDeleter removes stored pin images.
type BlobDeleter interface {
	DeleteFile(ctx context.Context, key string) error
}

type PinService interface {
	List(ctx context.Context, ownerUserID uuid.UUID, limit, offset int) ([]*types.Pin, int64, error)
	Get(ctx context.Context, ownerUserID, id uuid.UUID) (*types.Pin, error)
	// Delete removes the row, then the image in the background. Blob failures are only logged.
	Delete(ctx context.Context, ownerUserID, id uuid.UUID) error
}

type pinService struct {
	log   *logger.Logger
	pins  repos.PinRepo
	blobs BlobDeleter
	bg    background.Dispatcher
}

func NewPinService(baseLog *logger.Logger, pins repos.PinRepo, blobs BlobDeleter, bg background.Dispatcher) PinService {
	return &pinService{
		log:   baseLog.With("service", "PinService"),
		pins:  pins,
		blobs: blobs,
		bg:    bg,
	}
}

func (s *pinService) List(ctx context.Context, ownerUserID uuid.UUID, limit, offset int) ([]*types.Pin, int64, error) {
	if ownerUserID == uuid.Nil {
		return nil, 0, fmt.Errorf("%w: missing owner", types.ErrValidation)
	}
	if offset < 0 {
		offset = 0
	}
	return s.pins.ListByOwner(ctx, nil, ownerUserID, limit, offset)
}

func (s *pinService) Get(ctx context.Context, ownerUserID, id uuid.UUID) (*types.Pin, error) {
	if ownerUserID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing id", types.ErrValidation)
	}
	return s.pins.GetByID(ctx, nil, ownerUserID, id)
}

func (s *pinService) Delete(ctx context.Context, ownerUserID, id uuid.UUID) error {
	pin, err := s.Get(ctx, ownerUserID, id)
	if err != nil {
		return err
	}
	if err := s.pins.Delete(ctx, nil, ownerUserID, id); err != nil {
		return err
	}
	key := pin.ImageStorageKey
	if key == "" || s.blobs == nil || s.bg == nil {
		return nil
	}
	s.bg.Go(ctx, "pin_blob_delete", func(ctx context.Context) error {
		if err := s.blobs.DeleteFile(ctx, key); err != nil {
			s.log.Warn("pin image delete failed", "pin_id", id.String(), "key", key, "error", err)
			return err
		}
		return nil
	})
	return nil
}
