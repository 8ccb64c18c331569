package service

import (
	"context"
	"strings"
	"time"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

type MessageService struct {
	store *repository.Store
	now   func() time.Time
}

func NewMessageService(store *repository.Store) *MessageService {
	return &MessageService{store: store, now: time.Now}
}

func (s *MessageService) Create(ctx context.Context, c policy.Caller, content string) (*models.Message, error) {
	if err := policy.Allow(c, policy.WriteMessages); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("message content is required")
	}
	msg := &models.Message{
		Sender:    policy.MessageSender(c),
		Content:   content,
		Timestamp: s.now().UTC(),
	}
	if err := repository.Create(ctx, s.store, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns every message to staff and a parent's own threads to parents.
func (s *MessageService) List(ctx context.Context, c policy.Caller) ([]models.Message, error) {
	filter := repository.MessageFilter{All: policy.Can(c, policy.ReadAllMessages)}
	if !filter.All {
		filter.Sender = policy.MessageSender(c)
	}
	return s.store.ListMessages(ctx, filter)
}

// Reply answers a message as staff and marks the original as read.
func (s *MessageService) Reply(ctx context.Context, c policy.Caller, id uint, content string) (*models.Message, error) {
	if err := policy.Allow(c, policy.ReplyMessages); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("reply content is required")
	}
	if err := ensureExists[models.Message](ctx, s.store, id, "message not found"); err != nil {
		return nil, err
	}
	parentID := id
	reply := &models.Message{
		Sender:          policy.AdminSender(),
		Content:         content,
		Timestamp:       s.now().UTC(),
		ParentMessageID: &parentID,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := repository.Create(ctx, tx, reply); err != nil {
			return err
		}
		return tx.MarkMessageRead(ctx, id)
	})
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "message not found")
	}
	return reply, nil
}

func (s *MessageService) MarkRead(ctx context.Context, c policy.Caller, id uint) (*models.Message, error) {
	msg, err := repository.Get[models.Message](ctx, s.store, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "message not found")
	}
	if err := policy.CanMarkRead(c, msg.Sender); err != nil {
		return nil, err
	}
	if err := s.store.MarkMessageRead(ctx, id); err != nil {
		return nil, apperrors.NotFoundOr(err, "message not found")
	}
	msg.IsRead = true
	return msg, nil
}
