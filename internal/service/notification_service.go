package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/events"
	"github.com/spec-kit/billing-console/internal/repository"
)

// NotificationService turns auth and bootstrap events into activity-log
// rows and outbound notification stubs. Outbound delivery is an external
// collaborator; only the dispatch point lives here.
type NotificationService struct {
	dispatcher events.Dispatcher
	logs       repository.ActivityLogRepository
	settings   repository.ConfigRepository
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logs repository.ActivityLogRepository, settings repository.ConfigRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logs:       logs,
		settings:   settings,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOperatorLogin, n.handleLogin)
	n.dispatcher.Subscribe(events.EventSubscriberLogin, n.handleLogin)
	n.dispatcher.Subscribe(events.EventLogout, n.handleLogout)
	n.dispatcher.Subscribe(events.EventSeedCompleted, n.handleSeedCompleted)
}

func (n *NotificationService) handleLogin(ctx context.Context, event events.Event) error {
	n.recordActivity(ctx, event, "login")
	n.sendWhatsappStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLogout(ctx context.Context, event events.Event) error {
	n.recordActivity(ctx, event, "logout")
	return nil
}

func (n *NotificationService) handleSeedCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("SeedCompleted", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) recordActivity(ctx context.Context, event events.Event, action string) {
	if n.logs == nil {
		return
	}
	entry := &domain.ActivityLog{
		ActorKind: event.Actor.Kind,
		ActorID:   event.Actor.ID,
		Action:    action,
		Detail:    string(event.Type),
	}
	if err := n.logs.Insert(ctx, entry); err != nil {
		n.logger.Warn("failed to record activity", zap.String("action", action), zap.Error(err))
	}
}

func (n *NotificationService) sendWhatsappStub(ctx context.Context, event events.Event) {
	enabled, err := n.settings.Get(ctx, domain.SettingWhatsappNotifications)
	if err != nil || enabled != "yes" {
		return
	}
	n.logger.Debug("sendWhatsappStub",
		zap.String("event_type", string(event.Type)),
		zap.Int64("actor_id", event.Actor.ID))
}
