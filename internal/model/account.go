package model

// Account is a registered user. PasswordHash is a bcrypt hash and never
// leaves the server.
type Account struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Phone        string `json:"phone" db:"phone"`
	PasswordHash string `json:"-" db:"password_hash"`
}
