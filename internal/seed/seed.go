package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/billing-console/internal/auth"
	"github.com/spec-kit/billing-console/internal/config"
	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/events"
	"github.com/spec-kit/billing-console/internal/repository"
)

// defaultConfig lists the baseline settings every deployment gets. Existing
// rows are never overwritten.
var defaultConfig = []domain.ConfigEntry{
	{Setting: domain.SettingCompanyName, Value: "Billing Console"},
	{Setting: domain.SettingAddress, Value: ""},
	{Setting: domain.SettingPhone, Value: ""},
	{Setting: domain.SettingTimezone, Value: "UTC"},
	{Setting: domain.SettingMaintenanceMode, Value: "false"},
	{Setting: domain.SettingLanguage, Value: "english"},
	{Setting: domain.SettingCurrency, Value: "USD"},
	{Setting: domain.SettingEnableWhatsapp, Value: "yes"},
	{Setting: domain.SettingWhatsappNotifications, Value: "yes"},
}

// Seeder guarantees the default operator and baseline configuration exist.
// Run is idempotent and safe to invoke concurrently with normal traffic:
// every insert is guarded by a natural-key check, and a lost race surfaces
// as a unique violation that is treated as "already exists".
type Seeder struct {
	operators   repository.OperatorRepository
	subscribers repository.SubscriberRepository
	plans       repository.PlanRepository
	routers     repository.RouterDeviceRepository
	settings    repository.ConfigRepository
	dispatcher  events.Dispatcher
	cfg         config.SeedConfig
	bcryptCost  int
	logger      *zap.Logger
}

// Dependencies bundles repository requirements for the seeder.
type Dependencies struct {
	Operators   repository.OperatorRepository
	Subscribers repository.SubscriberRepository
	Plans       repository.PlanRepository
	Routers     repository.RouterDeviceRepository
	Settings    repository.ConfigRepository
	Dispatcher  events.Dispatcher
}

// NewSeeder builds the seeder.
func NewSeeder(cfg config.SeedConfig, bcryptCost int, deps Dependencies, logger *zap.Logger) *Seeder {
	return &Seeder{
		operators:   deps.Operators,
		subscribers: deps.Subscribers,
		plans:       deps.Plans,
		routers:     deps.Routers,
		settings:    deps.Settings,
		dispatcher:  deps.Dispatcher,
		cfg:         cfg,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// Run ensures the default super-admin operator and baseline configuration
// rows exist, then optionally inserts sample data into empty tables.
func (s *Seeder) Run(ctx context.Context) error {
	adminCreated, err := s.ensureDefaultOperator(ctx)
	if err != nil {
		return err
	}

	for _, entry := range defaultConfig {
		if err := s.settings.Ensure(ctx, entry.Setting, entry.Value); err != nil {
			return err
		}
	}

	sampled := false
	if s.cfg.SampleData {
		sampled, err = s.ensureSampleData(ctx)
		if err != nil {
			return err
		}
	}

	s.logger.Info("seed completed",
		zap.Bool("admin_created", adminCreated),
		zap.Bool("sample_data", sampled))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSeedCompleted,
			Timestamp: time.Now(),
			Payload:   events.SeedCompletedPayload{AdminCreated: adminCreated, SampleData: sampled},
		})
	}
	return nil
}

func (s *Seeder) ensureDefaultOperator(ctx context.Context) (bool, error) {
	_, err := s.operators.GetByUsername(ctx, s.cfg.AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return false, err
	}

	operator := &domain.Operator{
		Username:     s.cfg.AdminUsername,
		PasswordHash: hash,
		FullName:     "Administrator",
		Email:        s.cfg.AdminEmail,
		Role:         domain.RoleSuperAdmin,
		Status:       domain.StatusActive,
	}
	if err := s.operators.Create(ctx, operator); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("default operator created", zap.String("username", operator.Username))
	return true, nil
}

func (s *Seeder) ensureSampleData(ctx context.Context) (bool, error) {
	count, err := s.subscribers.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword("password123", s.bcryptCost)
	if err != nil {
		return false, err
	}

	samples := []domain.Subscriber{
		{
			Username:     "subscriber1",
			PasswordHash: hash,
			FullName:     "John Doe",
			Email:        "john@example.com",
			Phone:        "+1234567890",
			Address:      "123 Main St",
			City:         "Springfield",
			Status:       domain.StatusActive,
			Balance:      50.00,
		},
		{
			Username:     "subscriber2",
			PasswordHash: hash,
			FullName:     "Jane Roe",
			Email:        "jane@example.com",
			Phone:        "+1987654321",
			Address:      "456 Oak Ave",
			City:         "Riverton",
			Status:       domain.StatusActive,
			Balance:      25.00,
		},
	}
	for i := range samples {
		if err := s.subscribers.Create(ctx, &samples[i]); err != nil && !isUniqueViolation(err) {
			return false, err
		}
	}

	plans := []domain.Plan{
		{
			Name:          "Basic Plan",
			BandwidthName: "1M",
			Type:          domain.PlanTypeHotspot,
			Price:         10.00,
			ValidityDays:  30,
			Enabled:       true,
			Description:   "Basic internet plan with 1GB data",
		},
		{
			Name:          "Premium Plan",
			BandwidthName: "5M",
			Type:          domain.PlanTypeHotspot,
			Price:         25.00,
			ValidityDays:  30,
			Enabled:       true,
			Description:   "Premium unlimited internet plan",
		},
	}
	for i := range plans {
		if err := s.plans.Create(ctx, &plans[i]); err != nil && !isUniqueViolation(err) {
			return false, err
		}
	}

	router := &domain.RouterDevice{
		Name:        "Main Router",
		IPAddress:   "192.168.1.1",
		Username:    "admin",
		Description: "Primary access router",
		Enabled:     true,
	}
	if err := s.routers.Create(ctx, router); err != nil && !isUniqueViolation(err) {
		return false, err
	}

	return true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
