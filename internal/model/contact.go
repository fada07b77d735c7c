package model

// Contact is an entry of the shared address book. Phone is optional.
type Contact struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Phone *string `json:"phone" db:"phone"`
}
