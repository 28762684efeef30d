package dto

import (
	"time"

	"github.com/spec-kit/billing-console/internal/domain"
)

// OperatorView is the operator representation exposed over HTTP.
type OperatorView struct {
	ID        int64               `json:"id"`
	Username  string              `json:"username"`
	FullName  string              `json:"fullname"`
	Email     string              `json:"email"`
	Role      domain.OperatorRole `json:"role"`
	Status    string              `json:"status"`
	LastLogin *time.Time          `json:"last_login,omitempty"`
}

// NewOperatorView strips credentials from the domain record.
func NewOperatorView(op *domain.Operator) OperatorView {
	return OperatorView{
		ID:        op.ID,
		Username:  op.Username,
		FullName:  op.FullName,
		Email:     op.Email,
		Role:      op.Role,
		Status:    string(op.Status),
		LastLogin: op.LastLogin,
	}
}

// GenerateVouchersRequest is the payload for batch voucher generation.
type GenerateVouchersRequest struct {
	PlanID int64 `json:"plan_id"`
	Count  int   `json:"count"`
}

// SubscriberView is the subscriber representation exposed over HTTP.
type SubscriberView struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"fullname"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Status   string  `json:"status"`
	Balance  float64 `json:"balance"`
}

// NewSubscriberView strips credentials from the domain record.
func NewSubscriberView(sub *domain.Subscriber) SubscriberView {
	return SubscriberView{
		ID:       sub.ID,
		Username: sub.Username,
		FullName: sub.FullName,
		Email:    sub.Email,
		Phone:    sub.Phone,
		Address:  sub.Address,
		City:     sub.City,
		Status:   string(sub.Status),
		Balance:  sub.Balance,
	}
}
