package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aichat-backend/internal/apperr"
	"aichat-backend/internal/config"
	"aichat-backend/internal/model"
	"aichat-backend/internal/repository"
	"aichat-backend/internal/service/mocks"
	"aichat-backend/internal/utils"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = &config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour}

func TestAccountService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	svc := NewAccountService(store, testConfig)

	store.EXPECT().GetByPhone(gomock.Any(), "555-0").Return(nil, nil)
	store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, a *model.Account) (*model.Account, error) {
			assert.Equal(t, "Bob", a.Name)
			assert.NotEqual(t, "hunter2", a.PasswordHash)
			assert.True(t, utils.VerifyPassword(a.PasswordHash, "hunter2"))
			created := *a
			created.ID = 1
			return &created, nil
		})

	token, account, err := svc.Register(context.Background(), " Bob ", "555-0", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)

	session, err := utils.ParseSessionToken(token, testConfig.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.AccountID)
}

func TestAccountService_RegisterExistingPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	svc := NewAccountService(store, testConfig)

	// Create must never be reached.
	store.EXPECT().GetByPhone(gomock.Any(), "555-0").Return(&model.Account{ID: 1, Phone: "555-0"}, nil)

	_, account, err := svc.Register(context.Background(), "Other", "555-0", "pw")
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Nil(t, account)
}

func TestAccountService_RegisterRaceMapsToConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	svc := NewAccountService(store, testConfig)

	store.EXPECT().GetByPhone(gomock.Any(), "555-0").Return(nil, nil)
	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, repository.ErrDuplicate)

	_, _, err := svc.Register(context.Background(), "Bob", "555-0", "pw")
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestAccountService_RegisterValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAccountService(mocks.NewMockAccountStore(ctrl), testConfig)

	for _, in := range [][3]string{{"", "555", "pw"}, {"Bob", " ", "pw"}, {"Bob", "555", ""}} {
		_, _, err := svc.Register(context.Background(), in[0], in[1], in[2])
		assert.True(t, apperr.Is(err, apperr.CodeValidation), "input %v", in)
	}
}

func TestAccountService_Login(t *testing.T) {
	hash, err := utils.HashPassword("hunter2")
	require.NoError(t, err)
	stored := &model.Account{ID: 3, Name: "Bob", Phone: "555-0", PasswordHash: hash}

	tests := []struct {
		name     string
		phone    string
		password string
		found    *model.Account
		lookup   error
		wantCode apperr.Code
	}{
		{"success", "555-0", "hunter2", stored, nil, ""},
		{"wrong password", "555-0", "nope", stored, nil, apperr.CodeUnauthorized},
		{"empty password", "555-0", "", stored, nil, apperr.CodeUnauthorized},
		{"unknown phone", "555-9", "hunter2", nil, nil, apperr.CodeNotFound},
		{"store down", "555-0", "hunter2", nil, errors.New("conn refused"), apperr.CodePersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockAccountStore(ctrl)
			store.EXPECT().GetByPhone(gomock.Any(), tt.phone).Return(tt.found, tt.lookup)

			token, account, err := NewAccountService(store, testConfig).Login(context.Background(), tt.phone, tt.password)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, stored.ID, account.ID)
				assert.NotEmpty(t, token)
				return
			}
			assert.True(t, apperr.Is(err, tt.wantCode))
			assert.Nil(t, account)
			assert.Empty(t, token)
		})
	}
}

func TestAccountService_LoginBlankPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAccountService(mocks.NewMockAccountStore(ctrl), testConfig)

	_, account, err := svc.Login(context.Background(), "  ", "pw")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Nil(t, account)
}

func TestAccountService_GetAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockAccountStore(ctrl)
	svc := NewAccountService(store, testConfig)

	store.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&model.Account{ID: 3}, nil)
	got, err := svc.GetAccount(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)

	store.EXPECT().GetByID(gomock.Any(), int64(4)).Return(nil, nil)
	_, err = svc.GetAccount(context.Background(), 4)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}
