package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/repository"
	apperrors "github.com/spec-kit/billing-console/pkg/util"
)

// ConsoleService aggregates the read-only dashboard queries. Individual
// count failures degrade to zero rather than failing the whole dashboard,
// matching the console's display-only use of these numbers.
type ConsoleService struct {
	operators   repository.OperatorRepository
	subscribers repository.SubscriberRepository
	plans       repository.PlanRepository
	vouchers    repository.VoucherRepository
	routers     repository.RouterDeviceRepository
	logs        repository.ActivityLogRepository
}

// ConsoleDependencies bundles repository requirements.
type ConsoleDependencies struct {
	Operators   repository.OperatorRepository
	Subscribers repository.SubscriberRepository
	Plans       repository.PlanRepository
	Vouchers    repository.VoucherRepository
	Routers     repository.RouterDeviceRepository
	Logs        repository.ActivityLogRepository
}

// NewConsoleService builds the service.
func NewConsoleService(deps ConsoleDependencies) *ConsoleService {
	return &ConsoleService{
		operators:   deps.Operators,
		subscribers: deps.Subscribers,
		plans:       deps.Plans,
		vouchers:    deps.Vouchers,
		routers:     deps.Routers,
		logs:        deps.Logs,
	}
}

// DashboardStats summarizes the admin dashboard.
type DashboardStats struct {
	TotalSubscribers  int64 `json:"total_subscribers"`
	ActiveSubscribers int64 `json:"active_subscribers"`
	TotalVouchers     int64 `json:"total_vouchers"`
	UsedVouchers      int64 `json:"used_vouchers"`
	TotalPlans        int64 `json:"total_plans"`
	TotalRouters      int64 `json:"total_routers"`
}

// AdminDashboard collects stats, recent activity and recent subscribers.
func (s *ConsoleService) AdminDashboard(ctx context.Context) (DashboardStats, []domain.ActivityLog, []domain.Subscriber, error) {
	var stats DashboardStats
	stats.TotalSubscribers, _ = s.subscribers.Count(ctx)
	stats.ActiveSubscribers, _ = s.subscribers.CountByStatus(ctx, domain.StatusActive)
	stats.TotalVouchers, _ = s.vouchers.Count(ctx)
	stats.UsedVouchers, _ = s.vouchers.CountByStatus(ctx, domain.VoucherUsed)
	stats.TotalPlans, _ = s.plans.Count(ctx)
	stats.TotalRouters, _ = s.routers.Count(ctx)

	recentLogs, err := s.logs.ListRecent(ctx, 10)
	if err != nil {
		recentLogs = nil
	}
	recentSubscribers, err := s.subscribers.List(ctx, 5, 0)
	if err != nil {
		recentSubscribers = nil
	}
	return stats, recentLogs, recentSubscribers, nil
}

// ListOperators returns the operator accounts page.
func (s *ConsoleService) ListOperators(ctx context.Context, limit, offset int) ([]domain.Operator, error) {
	return s.operators.List(ctx, limit, offset)
}

// SubscriberDashboard collects the subscriber's own view: enabled plans and
// their recent vouchers.
func (s *ConsoleService) SubscriberDashboard(ctx context.Context, subscriber *domain.Subscriber) ([]domain.Plan, []domain.Voucher, error) {
	plans, err := s.plans.ListEnabled(ctx)
	if err != nil {
		return nil, nil, err
	}
	vouchers, err := s.vouchers.ListByOwner(ctx, subscriber.Username, 10)
	if err != nil {
		return nil, nil, err
	}
	return plans, vouchers, nil
}

// EnabledPlans lists plans available for purchase.
func (s *ConsoleService) EnabledPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.plans.ListEnabled(ctx)
}

const maxVoucherBatch = 500

// GenerateVouchers creates a batch of unused prepaid vouchers for the
// given plan. Codes are random and unique; the vouchers table's unique
// constraint backs that up.
func (s *ConsoleService) GenerateVouchers(ctx context.Context, planID int64, count int) ([]domain.Voucher, error) {
	if count <= 0 || count > maxVoucherBatch {
		return nil, apperrors.NewValidationError("count must be between 1 and 500", map[string]any{"count": count})
	}

	vouchers := make([]domain.Voucher, 0, count)
	for i := 0; i < count; i++ {
		voucher := domain.Voucher{
			Code:   newVoucherCode(),
			PlanID: planID,
			Status: domain.VoucherUnused,
		}
		if err := s.vouchers.Create(ctx, &voucher); err != nil {
			return nil, err
		}
		vouchers = append(vouchers, voucher)
	}
	return vouchers, nil
}

// newVoucherCode derives a short printable code from a random UUID.
func newVoucherCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
}
