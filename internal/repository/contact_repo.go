package repository

import (
	"context"
	"database/sql"

	"aichat-backend/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type ContactRepository struct {
	DB *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

// List returns contacts ordered by name. A non-empty query keeps contacts
// whose name or phone contains it, case-insensitively.
func (r *ContactRepository) List(ctx context.Context, query string) ([]model.Contact, error) {
	contacts := []model.Contact{}
	var err error
	if query == "" {
		err = r.DB.SelectContext(ctx, &contacts, `SELECT id, name, phone FROM contacts ORDER BY name, id`)
	} else {
		err = r.DB.SelectContext(ctx, &contacts,
			`SELECT id, name, phone FROM contacts WHERE name ILIKE $1 OR phone ILIKE $1 ORDER BY name, id`, likePattern(query))
	}
	if err != nil {
		return nil, errors.Wrap(err, "contactRepo.List")
	}
	return contacts, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*model.Contact, error) {
	var c model.Contact
	if err := r.DB.GetContext(ctx, &c, `SELECT id, name, phone FROM contacts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "contactRepo.GetByID")
	}
	return &c, nil
}

func (r *ContactRepository) Create(ctx context.Context, name string, phone *string) (*model.Contact, error) {
	var c model.Contact
	query := `INSERT INTO contacts (name, phone) VALUES ($1, $2) RETURNING id, name, phone`

	if err := r.DB.GetContext(ctx, &c, query, name, phone); err != nil {
		return nil, errors.Wrap(err, "contactRepo.Create")
	}
	return &c, nil
}

// Rename returns nil, nil when no contact has the given id.
func (r *ContactRepository) Rename(ctx context.Context, id int64, name string) (*model.Contact, error) {
	var c model.Contact
	query := `UPDATE contacts SET name = $1 WHERE id = $2 RETURNING id, name, phone`

	if err := r.DB.GetContext(ctx, &c, query, name, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "contactRepo.Rename")
	}
	return &c, nil
}

// DeleteWithMessages removes the contact's messages and then the contact in a
// single transaction. It returns nil, nil (and rolls back) when the contact
// does not exist.
func (r *ContactRepository) DeleteWithMessages(ctx context.Context, id int64) (*model.Contact, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "contactRepo.DeleteWithMessages.Begin")
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error().Err(err).Int64("contact_id", id).Msg("rollback contact delete")
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE contact_id = $1`, id)
	if err != nil {
		return nil, errors.Wrap(err, "contactRepo.DeleteWithMessages.Messages")
	}

	var c model.Contact
	err = tx.GetContext(ctx, &c, `DELETE FROM contacts WHERE id = $1 RETURNING id, name, phone`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "contactRepo.DeleteWithMessages.Contact")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "contactRepo.DeleteWithMessages.Commit")
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Debug().Int64("contact_id", id).Int64("messages", n).Msg("contact deleted with messages")
	}
	return &c, nil
}
