package service

import (
	"context"
	"strings"
	"time"

	"aichat-backend/internal/apperr"
	"aichat-backend/internal/metrics"
	"aichat-backend/internal/model"

	"github.com/rs/zerolog/log"
)

const defaultReplyTimeout = 30 * time.Second

type MessageService struct {
	Messages     MessageStore
	Generator    ReplyGenerator
	Events       EventPublisher
	ReplyTimeout time.Duration
}

func NewMessageService(messages MessageStore, generator ReplyGenerator, events EventPublisher, replyTimeout time.Duration) *MessageService {
	if replyTimeout <= 0 {
		replyTimeout = defaultReplyTimeout
	}
	return &MessageService{
		Messages:     messages,
		Generator:    generator,
		Events:       publisherOrNoop(events),
		ReplyTimeout: replyTimeout,
	}
}

type SendMessageInput struct {
	ContactID int64
	Sender    string
	Receiver  string
	Content   string
	AutoReply bool
}

type ForwardMessageInput struct {
	ContactID int64
	Sender    string
	Receiver  string
	AutoReply bool
}

// Send stores the message and, when AutoReply is set, a generated answer
// authored by the contact. A failing gateway degrades to FallbackReply; it
// never fails the send.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*model.Message, error) {
	if in.ContactID <= 0 {
		return nil, apperr.Validation("contact_id is required")
	}
	if strings.TrimSpace(in.Sender) == "" || strings.TrimSpace(in.Receiver) == "" {
		return nil, apperr.Validation("sender and receiver are required")
	}

	saved, err := s.Messages.Create(ctx, &model.Message{
		ContactID: in.ContactID,
		Sender:    in.Sender,
		Receiver:  in.Receiver,
		Content:   in.Content,
	})
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	metrics.MessagesSentTotal.Inc()
	s.Events.Publish(saved.ContactID, EventMessageCreated, saved)

	if !in.AutoReply {
		return saved, nil
	}

	// The human message is already stored; finish the reply even if the
	// caller goes away.
	replyCtx := context.WithoutCancel(ctx)
	text := s.generateReply(replyCtx, in.Content)

	reply, err := s.Messages.Create(replyCtx, &model.Message{
		ContactID: in.ContactID,
		Sender:    in.Receiver,
		Receiver:  in.Sender,
		Content:   text,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("contact_id", in.ContactID).Msg("store auto-reply")
		return saved, nil
	}
	s.Events.Publish(reply.ContactID, EventMessageCreated, reply)
	saved.AIReply = reply
	return saved, nil
}

func (s *MessageService) generateReply(ctx context.Context, content string) string {
	logger := log.Ctx(ctx)
	if s.Generator == nil {
		metrics.AutoRepliesTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		return FallbackReply
	}

	systemInstruction, userContent := buildPrompt(content)
	ctx, cancel := context.WithTimeout(ctx, s.ReplyTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.Generator.GenerateReply(ctx, systemInstruction, userContent)
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(text) == "" {
		err = apperr.Gateway("completion returned empty text", nil)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("auto-reply generation failed, using fallback")
		metrics.AutoRepliesTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		return FallbackReply
	}
	metrics.AutoRepliesTotal.WithLabelValues(metrics.OutcomeGenerated).Inc()
	return text
}

// Forward re-sends an existing message to another contact with the
// "Forwarded:" prefix.
func (s *MessageService) Forward(ctx context.Context, messageID int64, in ForwardMessageInput) (*model.Message, error) {
	if messageID <= 0 {
		return nil, apperr.NotFound("Message not found")
	}
	original, err := s.Messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if original == nil {
		return nil, apperr.NotFound("Message not found")
	}

	return s.Send(ctx, SendMessageInput{
		ContactID: in.ContactID,
		Sender:    in.Sender,
		Receiver:  in.Receiver,
		Content:   ForwardedPrefix + " " + original.Content,
		AutoReply: in.AutoReply,
	})
}

// List returns the thread in creation order; an unknown contact yields an
// empty slice.
func (s *MessageService) List(ctx context.Context, contactID int64) ([]model.Message, error) {
	messages, err := s.Messages.ListByContact(ctx, contactID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return messages, nil
}

func (s *MessageService) Delete(ctx context.Context, messageID int64) (*model.Message, error) {
	if messageID <= 0 {
		return nil, apperr.NotFound("Message not found")
	}
	deleted, err := s.Messages.Delete(ctx, messageID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if deleted == nil {
		return nil, apperr.NotFound("Message not found")
	}
	s.Events.Publish(deleted.ContactID, EventMessageDeleted, deleted)
	return deleted, nil
}

// ClearChat deletes every message of the contact and reports how many went.
func (s *MessageService) ClearChat(ctx context.Context, contactID int64) (int64, error) {
	n, err := s.Messages.DeleteByContact(ctx, contactID)
	if err != nil {
		return 0, apperr.Persistence(err)
	}
	log.Ctx(ctx).Info().Int64("contact_id", contactID).Int64("deleted", n).Msg("chat cleared")
	s.Events.Publish(contactID, EventChatCleared, map[string]int64{"deletedCount": n})
	return n, nil
}

func (s *MessageService) Stats(ctx context.Context, contactID int64) (*model.ThreadStats, error) {
	stats, err := s.Messages.Stats(ctx, contactID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return stats, nil
}
