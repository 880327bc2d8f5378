package services

import (
	"context"
	"strings"
	"time"

	"github.com/vs-wedding/backend/core"
)

// ParticipationService manages RSVP rows. Every read and write is scoped to
// the calling account; one guest can never touch another guest's rows.
type ParticipationService struct {
	store core.WeddingStorage
}

func NewParticipationService(store core.WeddingStorage) *ParticipationService {
	return &ParticipationService{store: store}
}

func (s *ParticipationService) List(ctx context.Context, accountID string) ([]*core.Participation, error) {
	return s.store.ListParticipations(ctx, accountID)
}

func (s *ParticipationService) Create(ctx context.Context, accountID string, p *core.Participation) (*core.Participation, error) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.AccountID = accountID
	p.CreatedAt = time.Now()

	if err := s.store.CreateParticipation(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update edits one of the caller's own rows; editing someone else's row
// reads as not found.
func (s *ParticipationService) Update(ctx context.Context, accountID string, p *core.Participation) (*core.Participation, error) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.AccountID = accountID

	if err := s.store.UpdateParticipation(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ParticipationService) Delete(ctx context.Context, accountID string, id int64) error {
	return s.store.DeleteParticipation(ctx, accountID, id)
}
