package domain

import "time"

// PlanType distinguishes hotspot vouchers from PPPoE subscriptions.
type PlanType string

const (
	PlanTypeHotspot PlanType = "Hotspot"
	PlanTypePPPoE   PlanType = "PPPoE"
)

// Plan is a purchasable service plan.
type Plan struct {
	ID            int64
	Name          string
	BandwidthName string
	Type          PlanType
	Price         float64
	ValidityDays  int
	Enabled       bool
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
