package model

import "time"

// Session is what a verified session token resolves to. It is handed to
// handlers through the request context, never kept in server-side state.
type Session struct {
	AccountID int64     `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
