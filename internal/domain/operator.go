package domain

import "time"

// OperatorRole enumerates console operator roles. RoleCustomer is not an
// operator role; it is the marker used in role sets to admit subscribers.
type OperatorRole string

const (
	RoleSuperAdmin OperatorRole = "SuperAdmin"
	RoleAdmin      OperatorRole = "Admin"
	RoleAgent      OperatorRole = "Agent"
	RoleReport     OperatorRole = "Report"
	RoleCustomer   OperatorRole = "Customer"
)

// Operator models a console administrator account.
type Operator struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Role         OperatorRole
	Status       AccountStatus
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
