package service

import (
	"context"

	"aichat-backend/internal/model"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks aichat-backend/internal/service AccountStore,ContactStore,MessageStore,ReplyGenerator,EventPublisher

// Lookups return (nil, nil) when no row matches; the services turn that into
// a NOT_FOUND error.

type AccountStore interface {
	Create(ctx context.Context, account *model.Account) (*model.Account, error)
	GetByPhone(ctx context.Context, phone string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
}

type ContactStore interface {
	List(ctx context.Context, query string) ([]model.Contact, error)
	GetByID(ctx context.Context, id int64) (*model.Contact, error)
	Create(ctx context.Context, name string, phone *string) (*model.Contact, error)
	Rename(ctx context.Context, id int64, name string) (*model.Contact, error)
	// DeleteWithMessages must remove the messages and the contact atomically.
	DeleteWithMessages(ctx context.Context, id int64) (*model.Contact, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) (*model.Message, error)
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	ListByContact(ctx context.Context, contactID int64) ([]model.Message, error)
	Delete(ctx context.Context, id int64) (*model.Message, error)
	DeleteByContact(ctx context.Context, contactID int64) (int64, error)
	Stats(ctx context.Context, contactID int64) (*model.ThreadStats, error)
}

// ReplyGenerator produces the text of an auto-reply.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, systemInstruction, userContent string) (string, error)
}

// EventPublisher fans thread events out to live subscribers. Publish must not
// block on slow consumers.
type EventPublisher interface {
	Publish(contactID int64, eventType string, data interface{})
}

const (
	EventMessageCreated = "message_created"
	EventMessageDeleted = "message_deleted"
	EventChatCleared    = "chat_cleared"
	EventContactRenamed = "contact_renamed"
	EventContactDeleted = "contact_deleted"
)

type noopPublisher struct{}

func (noopPublisher) Publish(int64, string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
