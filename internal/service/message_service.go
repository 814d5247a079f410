package service

import (
	"context"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/socket"
)

// ============================================
// Internal Message Service
// ============================================

type MessageService interface {
	// Send delivers a message to one or more recipients and pushes it to
	// any of them currently connected.
	Send(ctx context.Context, senderID int, subject, body string, recipientIDs []int) (*repository.InternalMessage, error)
	GetByID(ctx context.Context, claims *Claims, id int) (*repository.InternalMessage, error)
	Inbox(ctx context.Context, userID int) ([]*repository.InternalMessage, error)
	Sent(ctx context.Context, userID int) ([]*repository.InternalMessage, error)
	Recipients(ctx context.Context, messageID int) ([]*repository.MessageRecipient, error)

	// MarkRead records a recipient's read receipt. Only recipients may call it.
	MarkRead(ctx context.Context, claims *Claims, messageID int) error

	// Delete removes a message. Only the sender or an admin may call it.
	Delete(ctx context.Context, claims *Claims, messageID int) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	broadcaster *socket.Broadcaster
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	broadcaster *socket.Broadcaster,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

func (s *messageService) Send(ctx context.Context, senderID int, subject, body string, recipientIDs []int) (*repository.InternalMessage, error) {
	if subject == "" || body == "" || len(recipientIDs) == 0 {
		return nil, ErrInvalidInput
	}

	// Deduplicate and validate recipients; senders cannot message themselves
	seen := make(map[int]bool, len(recipientIDs))
	var recipients []int
	for _, id := range recipientIDs {
		if id == senderID || seen[id] {
			continue
		}
		seen[id] = true
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		recipients = append(recipients, id)
	}
	if len(recipients) == 0 {
		return nil, ErrInvalidInput
	}

	msg := &repository.InternalMessage{
		SenderID: senderID,
		Subject:  subject,
		Body:     body,
	}
	if err := s.messageRepo.Create(ctx, msg, recipients); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.SendMessageReceived(recipients, map[string]interface{}{
			"messageId": msg.ID,
			"senderId":  senderID,
			"subject":   subject,
		})
	}
	return msg, nil
}

func (s *messageService) GetByID(ctx context.Context, claims *Claims, id int) (*repository.InternalMessage, error) {
	msg, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	ok, err := s.canAccess(ctx, claims, msg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return msg, nil
}

func (s *messageService) canAccess(ctx context.Context, claims *Claims, msg *repository.InternalMessage) (bool, error) {
	if claims.IsAdmin() || msg.SenderID == claims.UserID {
		return true, nil
	}
	recipients, err := s.messageRepo.FindRecipients(ctx, msg.ID)
	if err != nil {
		return false, err
	}
	for _, r := range recipients {
		if r.RecipientID == claims.UserID {
			return true, nil
		}
	}
	return false, nil
}

func (s *messageService) Inbox(ctx context.Context, userID int) ([]*repository.InternalMessage, error) {
	return s.messageRepo.FindInbox(ctx, userID)
}

func (s *messageService) Sent(ctx context.Context, userID int) ([]*repository.InternalMessage, error) {
	return s.messageRepo.FindSent(ctx, userID)
}

func (s *messageService) Recipients(ctx context.Context, messageID int) ([]*repository.MessageRecipient, error) {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return s.messageRepo.FindRecipients(ctx, messageID)
}

func (s *messageService) MarkRead(ctx context.Context, claims *Claims, messageID int) error {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrNotFound
	}

	recipients, err := s.messageRepo.FindRecipients(ctx, messageID)
	if err != nil {
		return err
	}
	isRecipient := false
	for _, r := range recipients {
		if r.RecipientID == claims.UserID {
			isRecipient = true
			break
		}
	}
	if !isRecipient {
		return ErrForbidden
	}

	if err := s.messageRepo.MarkRead(ctx, messageID, claims.UserID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.SendMessageRead(msg.SenderID, messageID, claims.UserID)
	}
	return nil
}

func (s *messageService) Delete(ctx context.Context, claims *Claims, messageID int) error {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrNotFound
	}
	if msg.SenderID != claims.UserID && !claims.IsAdmin() {
		return ErrForbidden
	}
	return s.messageRepo.Delete(ctx, messageID)
}
