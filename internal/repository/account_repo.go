package repository

import (
	"context"
	"database/sql"

	"aichat-backend/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type AccountRepository struct {
	DB *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) (*model.Account, error) {
	query := `
		INSERT INTO accounts (name, phone, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, phone, password_hash`

	var created model.Account
	err := r.DB.GetContext(ctx, &created, query, account.Name, account.Phone, account.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, errors.Wrap(err, "accountRepo.Create")
	}
	return &created, nil
}

func (r *AccountRepository) GetByPhone(ctx context.Context, phone string) (*model.Account, error) {
	var account model.Account
	query := `SELECT id, name, phone, password_hash FROM accounts WHERE phone = $1`

	if err := r.DB.GetContext(ctx, &account, query, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "accountRepo.GetByPhone")
	}
	return &account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	query := `SELECT id, name, phone, password_hash FROM accounts WHERE id = $1`

	if err := r.DB.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "accountRepo.GetByID")
	}
	return &account, nil
}
