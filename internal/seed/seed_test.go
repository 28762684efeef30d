package seed

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/billing-console/internal/auth"
	"github.com/spec-kit/billing-console/internal/config"
	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/events"
	"github.com/spec-kit/billing-console/internal/repository"
)

type memOperatorRepo struct {
	repository.OperatorRepository
	byUsername map[string]*domain.Operator
	nextID     int64
}

func newMemOperatorRepo() *memOperatorRepo {
	return &memOperatorRepo{byUsername: make(map[string]*domain.Operator), nextID: 1}
}

func (r *memOperatorRepo) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	op, ok := r.byUsername[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return op, nil
}

func (r *memOperatorRepo) Create(_ context.Context, operator *domain.Operator) error {
	operator.ID = r.nextID
	r.nextID++
	r.byUsername[operator.Username] = operator
	return nil
}

type memConfigRepo struct {
	repository.ConfigRepository
	values  map[string]string
	ensures int
}

func newMemConfigRepo() *memConfigRepo {
	return &memConfigRepo{values: make(map[string]string)}
}

func (r *memConfigRepo) Ensure(_ context.Context, setting, value string) error {
	r.ensures++
	if _, ok := r.values[setting]; !ok {
		r.values[setting] = value
	}
	return nil
}

type memSubscriberRepo struct {
	repository.SubscriberRepository
	subscribers []domain.Subscriber
}

func (r *memSubscriberRepo) Count(context.Context) (int64, error) {
	return int64(len(r.subscribers)), nil
}

func (r *memSubscriberRepo) Create(_ context.Context, subscriber *domain.Subscriber) error {
	subscriber.ID = int64(len(r.subscribers) + 1)
	r.subscribers = append(r.subscribers, *subscriber)
	return nil
}

type memPlanRepo struct {
	repository.PlanRepository
	plans []domain.Plan
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.Plan) error {
	r.plans = append(r.plans, *plan)
	return nil
}

type memRouterRepo struct {
	repository.RouterDeviceRepository
	devices []domain.RouterDevice
}

func (r *memRouterRepo) Create(_ context.Context, device *domain.RouterDevice) error {
	r.devices = append(r.devices, *device)
	return nil
}

type seedFixture struct {
	seeder      *Seeder
	operators   *memOperatorRepo
	settings    *memConfigRepo
	subscribers *memSubscriberRepo
	plans       *memPlanRepo
	routers     *memRouterRepo
	dispatcher  events.Dispatcher
}

func newSeedFixture(cfg config.SeedConfig) *seedFixture {
	f := &seedFixture{
		operators:   newMemOperatorRepo(),
		settings:    newMemConfigRepo(),
		subscribers: &memSubscriberRepo{},
		plans:       &memPlanRepo{},
		routers:     &memRouterRepo{},
		dispatcher:  events.NewInMemoryDispatcher(),
	}
	f.seeder = NewSeeder(cfg, bcrypt.MinCost, Dependencies{
		Operators:   f.operators,
		Subscribers: f.subscribers,
		Plans:       f.plans,
		Routers:     f.routers,
		Settings:    f.settings,
		Dispatcher:  f.dispatcher,
	}, zap.NewNop())
	return f
}

func baseSeedConfig() config.SeedConfig {
	return config.SeedConfig{
		AdminUsername: "admin",
		AdminPassword: "changeme",
		AdminEmail:    "admin@example.com",
	}
}

func TestSeeder_CreatesDefaultOperator(t *testing.T) {
	f := newSeedFixture(baseSeedConfig())

	if err := f.seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	admin, ok := f.operators.byUsername["admin"]
	if !ok {
		t.Fatal("default operator was not created")
	}
	if admin.Role != domain.RoleSuperAdmin {
		t.Errorf("Role = %q, want SuperAdmin", admin.Role)
	}
	if admin.Status != domain.StatusActive {
		t.Errorf("Status = %q, want Active", admin.Status)
	}
	if err := auth.ComparePassword(admin.PasswordHash, "changeme"); err != nil {
		t.Errorf("stored hash does not match the configured password: %v", err)
	}
	if got := len(f.settings.values); got != len(defaultConfig) {
		t.Errorf("config rows = %d, want %d", got, len(defaultConfig))
	}
}

func TestSeeder_RunIsIdempotent(t *testing.T) {
	f := newSeedFixture(baseSeedConfig())
	ctx := context.Background()

	if err := f.seeder.Run(ctx); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	firstHash := f.operators.byUsername["admin"].PasswordHash

	if err := f.seeder.Run(ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if got := len(f.operators.byUsername); got != 1 {
		t.Errorf("operators after two runs = %d, want exactly 1", got)
	}
	if f.operators.byUsername["admin"].PasswordHash != firstHash {
		t.Error("second run rewrote the default operator's credentials")
	}
	if got := len(f.settings.values); got != len(defaultConfig) {
		t.Errorf("config rows after two runs = %d, want %d", got, len(defaultConfig))
	}
}

func TestSeeder_ExistingConfigNotOverwritten(t *testing.T) {
	f := newSeedFixture(baseSeedConfig())
	f.settings.values[domain.SettingCompanyName] = "Acme ISP"

	if err := f.seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := f.settings.values[domain.SettingCompanyName]; got != "Acme ISP" {
		t.Errorf("company_name = %q, want the pre-existing value kept", got)
	}
}

func TestSeeder_SampleData(t *testing.T) {
	cfg := baseSeedConfig()
	cfg.SampleData = true
	f := newSeedFixture(cfg)
	ctx := context.Background()

	if err := f.seeder.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(f.subscribers.subscribers) == 0 || len(f.plans.plans) == 0 || len(f.routers.devices) == 0 {
		t.Fatalf("sample data missing: subscribers=%d plans=%d routers=%d",
			len(f.subscribers.subscribers), len(f.plans.plans), len(f.routers.devices))
	}

	// Non-empty subscriber table suppresses sample inserts on later runs.
	before := len(f.subscribers.subscribers)
	if err := f.seeder.Run(ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if got := len(f.subscribers.subscribers); got != before {
		t.Errorf("subscribers after second run = %d, want %d", got, before)
	}
}

func TestSeeder_PublishesCompletionEvent(t *testing.T) {
	f := newSeedFixture(baseSeedConfig())

	var received []events.Event
	f.dispatcher.Subscribe(events.EventSeedCompleted, func(_ context.Context, ev events.Event) error {
		received = append(received, ev)
		return nil
	})

	if err := f.seeder.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("seed completion events = %d, want 1", len(received))
	}
	payload, ok := received[0].Payload.(events.SeedCompletedPayload)
	if !ok {
		t.Fatalf("payload type = %T, want SeedCompletedPayload", received[0].Payload)
	}
	if !payload.AdminCreated {
		t.Error("AdminCreated = false, want true on first run")
	}
}
