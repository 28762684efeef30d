package domain

import "time"

// RouterDevice is a managed network device the console provisions against.
type RouterDevice struct {
	ID           int64
	Name         string
	IPAddress    string
	Username     string
	PasswordHash string
	Description  string
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
