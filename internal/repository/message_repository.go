package repository

import (
	"context"

	"transit_ops/internal/models"
)

// MessageFilter limits a listing to one sender's threads unless All is set.
type MessageFilter struct {
	All    bool
	Sender string
}

// ListMessages returns messages newest first. A sender-restricted listing
// includes the sender's messages and the replies to them.
func (s *Store) ListMessages(ctx context.Context, f MessageFilter) ([]models.Message, error) {
	messages := []models.Message{}
	q := s.conn(ctx).Order("timestamp DESC").Order("id DESC")
	if !f.All {
		own := s.conn(ctx).Model(&models.Message{}).Select("id").Where("sender = ?", f.Sender)
		q = q.Where("sender = ? OR parent_message_id IN (?)", f.Sender, own)
	}
	err := q.Find(&messages).Error
	return messages, err
}

func (s *Store) MarkMessageRead(ctx context.Context, id uint) error {
	return Update[models.Message](ctx, s, id, map[string]any{"is_read": true})
}
