package service

import (
	"context"
	"strings"

	"aichat-backend/internal/apperr"
	"aichat-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// ContactService manages the shared address book. Contacts are not scoped to
// an account.
type ContactService struct {
	Contacts ContactStore
	Events   EventPublisher
}

func NewContactService(contacts ContactStore, events EventPublisher) *ContactService {
	return &ContactService{
		Contacts: contacts,
		Events:   publisherOrNoop(events),
	}
}

func (s *ContactService) List(ctx context.Context, query string) ([]model.Contact, error) {
	contacts, err := s.Contacts.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return contacts, nil
}

func (s *ContactService) Get(ctx context.Context, id int64) (*model.Contact, error) {
	if id <= 0 {
		return nil, apperr.NotFound("Contact not found")
	}
	contact, err := s.Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if contact == nil {
		return nil, apperr.NotFound("Contact not found")
	}
	return contact, nil
}

func (s *ContactService) Add(ctx context.Context, name, phone string) (*model.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}
	var phonePtr *string
	if p := strings.TrimSpace(phone); p != "" {
		phonePtr = &p
	}

	contact, err := s.Contacts.Create(ctx, name, phonePtr)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return contact, nil
}

func (s *ContactService) Rename(ctx context.Context, id int64, name string) (*model.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if id <= 0 {
		return nil, apperr.NotFound("Contact not found")
	}

	contact, err := s.Contacts.Rename(ctx, id, name)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if contact == nil {
		return nil, apperr.NotFound("Contact not found")
	}
	s.Events.Publish(contact.ID, EventContactRenamed, contact)
	return contact, nil
}

// Delete removes the contact together with its whole message thread.
func (s *ContactService) Delete(ctx context.Context, id int64) (*model.Contact, error) {
	if id <= 0 {
		return nil, apperr.NotFound("Contact not found")
	}

	contact, err := s.Contacts.DeleteWithMessages(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if contact == nil {
		return nil, apperr.NotFound("Contact not found")
	}
	log.Ctx(ctx).Info().Int64("contact_id", id).Msg("contact deleted")
	s.Events.Publish(contact.ID, EventContactDeleted, contact)
	return contact, nil
}
