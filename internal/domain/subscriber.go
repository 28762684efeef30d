package domain

import "time"

// Subscriber models a billed network-access customer. Usernames are unique
// within this table only; an operator may carry the same username without
// conflict.
type Subscriber struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Phone        string
	Address      string
	City         string
	Status       AccountStatus
	Balance      float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
