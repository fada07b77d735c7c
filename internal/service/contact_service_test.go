package service

import (
	"context"
	"errors"
	"testing"

	"aichat-backend/internal/apperr"
	"aichat-backend/internal/model"
	"aichat-backend/internal/service/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestContactService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockContactStore(ctrl)
	svc := NewContactService(store, nil)

	store.EXPECT().Create(gomock.Any(), "Ann", strPtr("555-1")).Return(&model.Contact{ID: 1, Name: "Ann", Phone: strPtr("555-1")}, nil)
	c, err := svc.Add(context.Background(), "  Ann ", " 555-1 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)

	store.EXPECT().Create(gomock.Any(), "Cid", (*string)(nil)).Return(&model.Contact{ID: 2, Name: "Cid"}, nil)
	c, err = svc.Add(context.Background(), "Cid", "   ")
	require.NoError(t, err)
	assert.Nil(t, c.Phone)

	_, err = svc.Add(context.Background(), "   ", "555")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestContactService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockContactStore(ctrl)
	svc := NewContactService(store, nil)

	want := []model.Contact{{ID: 1, Name: "Ann"}}
	store.EXPECT().List(gomock.Any(), "an").Return(want, nil)
	got, err := svc.List(context.Background(), " an ")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	store.EXPECT().List(gomock.Any(), "").Return(nil, errors.New("db down"))
	_, err = svc.List(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.CodePersistence))
}

func TestContactService_Rename(t *testing.T) {
	t.Run("blank name leaves the row untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockContactStore(ctrl)
		svc := NewContactService(store, nil)

		_, err := svc.Rename(context.Background(), 1, "")
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
		_, err = svc.Rename(context.Background(), 1, "  \t")
		assert.True(t, apperr.Is(err, apperr.CodeValidation))
	})

	t.Run("unknown id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockContactStore(ctrl)
		svc := NewContactService(store, nil)

		store.EXPECT().Rename(gomock.Any(), int64(9), "Ghost").Return(nil, nil)
		_, err := svc.Rename(context.Background(), 9, "Ghost")
		assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	})

	t.Run("renames and publishes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockContactStore(ctrl)
		events := mocks.NewMockEventPublisher(ctrl)
		svc := NewContactService(store, events)

		renamed := &model.Contact{ID: 1, Name: "Annie"}
		store.EXPECT().Rename(gomock.Any(), int64(1), "Annie").Return(renamed, nil)
		events.EXPECT().Publish(int64(1), EventContactRenamed, renamed)

		got, err := svc.Rename(context.Background(), 1, " Annie ")
		require.NoError(t, err)
		assert.Equal(t, "Annie", got.Name)
	})
}

func TestContactService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockContactStore(ctrl)
	events := mocks.NewMockEventPublisher(ctrl)
	svc := NewContactService(store, events)

	ann := &model.Contact{ID: 1, Name: "Ann"}
	store.EXPECT().DeleteWithMessages(gomock.Any(), int64(1)).Return(ann, nil)
	events.EXPECT().Publish(int64(1), EventContactDeleted, ann)

	got, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, ann, got)

	store.EXPECT().DeleteWithMessages(gomock.Any(), int64(2)).Return(nil, nil)
	_, err = svc.Delete(context.Background(), 2)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	store.EXPECT().DeleteWithMessages(gomock.Any(), int64(3)).Return(nil, errors.New("tx aborted"))
	_, err = svc.Delete(context.Background(), 3)
	assert.True(t, apperr.Is(err, apperr.CodePersistence))
}

// Ann/Bob walkthrough across both services against recorded rows.
func TestAddSendListExample(t *testing.T) {
	ctrl := gomock.NewController(t)
	contacts := mocks.NewMockContactStore(ctrl)
	messages, rows := recordingStore(ctrl)

	contacts.EXPECT().Create(gomock.Any(), "Ann", strPtr("555-1")).Return(&model.Contact{ID: 11, Name: "Ann", Phone: strPtr("555-1")}, nil)
	messages.EXPECT().ListByContact(gomock.Any(), int64(11)).DoAndReturn(
		func(_ context.Context, contactID int64) ([]model.Message, error) {
			var out []model.Message
			for _, m := range *rows {
				if m.ContactID == contactID {
					out = append(out, m)
				}
			}
			return out, nil
		})

	contactSvc := NewContactService(contacts, nil)
	messageSvc := NewMessageService(messages, nil, nil, 0)

	ann, err := contactSvc.Add(context.Background(), "Ann", "555-1")
	require.NoError(t, err)

	_, err = messageSvc.Send(context.Background(), SendMessageInput{
		ContactID: ann.ID, Sender: "Bob", Receiver: "Ann", Content: "hi",
	})
	require.NoError(t, err)

	list, err := messageSvc.List(context.Background(), ann.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hi", list[0].Content)
}

func TestContactService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockContactStore(ctrl)
	svc := NewContactService(store, nil)

	store.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&model.Contact{ID: 1, Name: "Ann"}, nil)
	got, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	store.EXPECT().GetByID(gomock.Any(), int64(2)).Return(nil, nil)
	_, err = svc.Get(context.Background(), 2)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = svc.Get(context.Background(), -1)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
