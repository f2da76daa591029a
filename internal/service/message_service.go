package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentesana/agendapro/internal/booking"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
	"go.uber.org/zap"
)

type MessageService struct {
	store  store.Store
	logger *zap.Logger
}

func NewMessageService(st store.Store, logger *zap.Logger) *MessageService {
	return &MessageService{store: st, logger: logger}
}

// Submit stores a message coming from the public contact form. New
// messages always start in the "new" status.
func (s *MessageService) Submit(ctx context.Context, f booking.ContactForm) (string, booking.FieldErrors, error) {
	errs := booking.ValidateContact(f)
	if !errs.Valid() {
		return "", errs, nil
	}

	msg := model.ContactMessage{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
		Status:  model.MessageStatusNew,
	}

	id, err := s.store.CreateMessage(ctx, msg)
	if err != nil {
		return "", nil, fmt.Errorf("submit message: %w", err)
	}

	s.logger.Info("Contact message received", zap.String("message_id", id))
	return id, nil, nil
}

// ToggleRead flips a message between new and read.
func (s *MessageService) ToggleRead(ctx context.Context, id string, current model.MessageStatus) error {
	next := model.MessageStatusRead
	if current == model.MessageStatusRead {
		next = model.MessageStatusNew
	}
	if err := s.store.UpdateMessageStatus(ctx, id, next); err != nil {
		return fmt.Errorf("toggle message status: %w", err)
	}
	return nil
}

// MarkRead marks a message read if it is still new, used when the
// admin replies to it.
func (s *MessageService) MarkRead(ctx context.Context, id string, current model.MessageStatus) error {
	if current != model.MessageStatusNew {
		return nil
	}
	return s.ToggleRead(ctx, id, current)
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	s.logger.Info("Message deleted", zap.String("message_id", id))
	return nil
}
