package repository

import (
	"context"
	"database/sql"

	"aichat-backend/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const messageColumns = `id, contact_id, sender, receiver, content, timestamp`

type MessageRepository struct {
	DB *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Create inserts the message and returns the stored row with its id and
// server-assigned timestamp.
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	query := `
		INSERT INTO messages (contact_id, sender, receiver, content)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + messageColumns

	var saved model.Message
	err := r.DB.GetContext(ctx, &saved, query, msg.ContactID, msg.Sender, msg.Receiver, msg.Content)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.Create")
	}
	return &saved, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var m model.Message
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	if err := r.DB.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "messageRepo.GetByID")
	}
	return &m, nil
}

// ListByContact returns the thread in insertion order. It never returns a nil
// slice.
func (r *MessageRepository) ListByContact(ctx context.Context, contactID int64) ([]model.Message, error) {
	messages := []model.Message{}
	query := `SELECT ` + messageColumns + ` FROM messages WHERE contact_id = $1 ORDER BY id`

	if err := r.DB.SelectContext(ctx, &messages, query, contactID); err != nil {
		return nil, errors.Wrap(err, "messageRepo.ListByContact")
	}
	return messages, nil
}

// Delete returns nil, nil when no message has the given id.
func (r *MessageRepository) Delete(ctx context.Context, id int64) (*model.Message, error) {
	var m model.Message
	query := `DELETE FROM messages WHERE id = $1 RETURNING ` + messageColumns

	if err := r.DB.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "messageRepo.Delete")
	}
	return &m, nil
}

func (r *MessageRepository) DeleteByContact(ctx context.Context, contactID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM messages WHERE contact_id = $1`, contactID)
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.DeleteByContact")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "messageRepo.DeleteByContact.RowsAffected")
	}
	return n, nil
}

func (r *MessageRepository) Stats(ctx context.Context, contactID int64) (*model.ThreadStats, error) {
	stats := &model.ThreadStats{
		ContactID:  contactID,
		BySender:   []model.SenderStat{},
		DailyStats: []model.DailyStat{},
	}

	var lastActive sql.NullTime
	err := r.DB.QueryRowxContext(ctx,
		`SELECT COUNT(*), MAX(timestamp) FROM messages WHERE contact_id = $1`, contactID,
	).Scan(&stats.TotalMessages, &lastActive)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.Stats.Total")
	}
	if lastActive.Valid {
		stats.LastActive = &lastActive.Time
	}

	err = r.DB.SelectContext(ctx, &stats.BySender, `
		SELECT sender, COUNT(*) AS count
		FROM messages
		WHERE contact_id = $1
		GROUP BY sender
		ORDER BY count DESC, sender`, contactID)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.Stats.BySender")
	}

	// Last 7 days
	err = r.DB.SelectContext(ctx, &stats.DailyStats, `
		SELECT to_char(timestamp, 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM messages
		WHERE contact_id = $1 AND timestamp > NOW() - INTERVAL '7 days'
		GROUP BY date
		ORDER BY date ASC`, contactID)
	if err != nil {
		return nil, errors.Wrap(err, "messageRepo.Stats.Daily")
	}

	return stats, nil
}
