package model

import "time"

type Message struct {
	ID        int64     `json:"id" db:"id"`
	ContactID int64     `json:"contact_id" db:"contact_id"`
	Sender    string    `json:"sender" db:"sender"`
	Receiver  string    `json:"receiver" db:"receiver"`
	Content   string    `json:"content" db:"content"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	// AIReply is only set on the response of a send that produced an auto-reply.
	AIReply *Message `json:"ai_reply,omitempty" db:"-"`
}

// ThreadStats summarises one contact's message thread.
type ThreadStats struct {
	ContactID     int64        `json:"contact_id"`
	TotalMessages int          `json:"total_messages"`
	BySender      []SenderStat `json:"by_sender"`
	LastActive    *time.Time   `json:"last_active"`
	DailyStats    []DailyStat  `json:"daily_stats"`
}

type SenderStat struct {
	Sender string `json:"sender" db:"sender"`
	Count  int    `json:"count" db:"count"`
}

type DailyStat struct {
	Date  string `json:"date" db:"date"`
	Count int    `json:"count" db:"count"`
}
