package domain

import "time"

// ActivityLog records an auditable console action.
type ActivityLog struct {
	ID        int64
	ActorKind PrincipalKind
	ActorID   int64
	Action    string
	Detail    string
	CreatedAt time.Time
}
