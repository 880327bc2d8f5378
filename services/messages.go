package services

import (
	"context"
	"strings"
	"time"

	"github.com/vs-wedding/backend/core"
)

// MessageService manages the guestbook.
type MessageService struct {
	store core.WeddingStorage
}

func NewMessageService(store core.WeddingStorage) *MessageService {
	return &MessageService{store: store}
}

func (s *MessageService) List(ctx context.Context) ([]*core.Message, error) {
	return s.store.ListMessages(ctx)
}

// Create posts a guestbook entry for the account. An empty author name
// falls back to the account's full name.
func (s *MessageService) Create(ctx context.Context, account *core.Account, body, authorName string) (*core.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, core.ErrMessageRequired
	}

	authorName = strings.TrimSpace(authorName)
	if authorName == "" {
		authorName = account.FullName
	}

	message := &core.Message{
		AuthorName: authorName,
		Body:       body,
		AccountID:  account.ID,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}
