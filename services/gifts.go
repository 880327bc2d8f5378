package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vs-wedding/backend/core"
)

// GiftService manages the gift registry. Locking is first-wins: the store's
// conditional update decides races, never in-process state.
type GiftService struct {
	store  core.WeddingStorage
	logger *zap.Logger
}

func NewGiftService(store core.WeddingStorage, logger *zap.Logger) *GiftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GiftService{store: store, logger: logger}
}

// List returns every gift of the registry, locked or not.
func (s *GiftService) List(ctx context.Context) ([]*core.Gift, error) {
	return s.store.ListGifts(ctx)
}

// Lock reserves a gift for the account. Fails with ErrGiftTaken when
// another guest got there first.
func (s *GiftService) Lock(ctx context.Context, giftID int64, accountID string) error {
	if err := s.store.LockGift(ctx, giftID, accountID); err != nil {
		return err
	}

	if err := s.store.InsertActionLog(ctx, accountID, fmt.Sprintf("locked gift %d", giftID)); err != nil {
		// The reservation already happened; losing the audit row is not
		// worth failing the request over.
		s.logger.Warn("failed to write action log", zap.Error(err))
	}
	return nil
}

// Unlock releases a gift previously reserved by the same account.
func (s *GiftService) Unlock(ctx context.Context, giftID int64, accountID string) error {
	if err := s.store.UnlockGift(ctx, giftID, accountID); err != nil {
		return err
	}

	if err := s.store.InsertActionLog(ctx, accountID, fmt.Sprintf("unlocked gift %d", giftID)); err != nil {
		s.logger.Warn("failed to write action log", zap.Error(err))
	}
	return nil
}
