package events

import (
	"time"

	"github.com/spec-kit/billing-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOperatorLogin   EventType = "operator_login"
	EventSubscriberLogin EventType = "subscriber_login"
	EventLogout          EventType = "logout"
	EventSeedCompleted   EventType = "seed_completed"
)

// Actor encapsulates the principal that triggered an event. Seed events
// carry a zero actor since no principal exists at bootstrap time.
type Actor struct {
	Kind domain.PrincipalKind `json:"kind"`
	ID   int64                `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginPayload carries login metadata for notification handlers.
type LoginPayload struct {
	Username string `json:"username"`
	Remote   string `json:"remote,omitempty"`
}

// SeedCompletedPayload summarizes a bootstrap run.
type SeedCompletedPayload struct {
	AdminCreated bool `json:"admin_created"`
	SampleData   bool `json:"sample_data"`
}
