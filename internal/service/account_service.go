package service

import (
	"context"
	"errors"
	"strings"

	"aichat-backend/internal/apperr"
	"aichat-backend/internal/config"
	"aichat-backend/internal/model"
	"aichat-backend/internal/repository"
	"aichat-backend/internal/utils"

	"github.com/rs/zerolog/log"
)

type AccountService struct {
	Accounts AccountStore
	Config   *config.Config
}

func NewAccountService(accounts AccountStore, cfg *config.Config) *AccountService {
	return &AccountService{
		Accounts: accounts,
		Config:   cfg,
	}
}

// Register creates an account and returns it with a fresh session token.
// The phone number is unique across accounts.
func (s *AccountService) Register(ctx context.Context, name, phone, password string) (string, *model.Account, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" || password == "" {
		return "", nil, apperr.Validation("Name, phone and password are required.")
	}

	existing, err := s.Accounts.GetByPhone(ctx, phone)
	if err != nil {
		return "", nil, apperr.Persistence(err)
	}
	if existing != nil {
		return "", nil, apperr.Conflict("An account with this phone number already exists.")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return "", nil, apperr.Persistence(err)
	}

	account, err := s.Accounts.Create(ctx, &model.Account{Name: name, Phone: phone, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, apperr.Conflict("An account with this phone number already exists.")
		}
		return "", nil, apperr.Persistence(err)
	}
	log.Ctx(ctx).Info().Int64("account_id", account.ID).Msg("account registered")

	token, err := s.issueToken(account.ID)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// Login checks the password against the stored bcrypt hash. A wrong password
// returns no account data.
func (s *AccountService) Login(ctx context.Context, phone, password string) (string, *model.Account, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil, apperr.Validation("Phone is required.")
	}

	account, err := s.Accounts.GetByPhone(ctx, phone)
	if err != nil {
		return "", nil, apperr.Persistence(err)
	}
	if account == nil {
		return "", nil, apperr.NotFound("Account not found.")
	}
	if !utils.VerifyPassword(account.PasswordHash, password) {
		return "", nil, apperr.Unauthorized("Invalid password.")
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// GetAccount resolves the account behind a session.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	account, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if account == nil {
		return nil, apperr.NotFound("Account not found.")
	}
	return account, nil
}

func (s *AccountService) issueToken(accountID int64) (string, error) {
	token, err := utils.IssueSessionToken(accountID, s.Config.JWTSecret, s.Config.SessionTTL)
	if err != nil {
		return "", apperr.Persistence(err)
	}
	return token, nil
}
