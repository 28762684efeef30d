package domain

import "time"

// VoucherStatus tracks redemption state.
type VoucherStatus string

const (
	VoucherUnused VoucherStatus = "Unused"
	VoucherUsed   VoucherStatus = "Used"
)

// Voucher is a prepaid network-access credential tied to a plan.
type Voucher struct {
	ID            int64
	Code          string
	PlanID        int64
	OwnerUsername string
	Status        VoucherStatus
	GeneratedAt   time.Time
	UsedAt        *time.Time
}
