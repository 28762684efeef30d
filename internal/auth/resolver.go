package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/repository"
)

// Resolution failures. Both collapse to unauthorized at the gate; a missing
// or disabled account is indistinguishable from "not logged in" to callers.
var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrPrincipalInactive = errors.New("principal inactive")
)

// PrincipalResolver loads the principal row named by a verified claim set or
// session record. Claims and sessions carry no liveness guarantee beyond
// expiry, so every authenticated request passes through here.
type PrincipalResolver struct {
	operators   repository.OperatorRepository
	subscribers repository.SubscriberRepository
}

// NewPrincipalResolver constructs the resolver.
func NewPrincipalResolver(operators repository.OperatorRepository, subscribers repository.SubscriberRepository) *PrincipalResolver {
	return &PrincipalResolver{operators: operators, subscribers: subscribers}
}

// Resolve loads the row for {id, kind}, scoped to the table matching kind,
// and rejects missing or non-Active accounts. Store failures other than
// "no row" are returned as-is; there is no safe fallback for them.
func (r *PrincipalResolver) Resolve(ctx context.Context, id int64, kind domain.PrincipalKind) (*domain.Principal, error) {
	switch kind {
	case domain.PrincipalKindOperator:
		operator, err := r.operators.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		if operator.Status != domain.StatusActive {
			return nil, ErrPrincipalInactive
		}
		return &domain.Principal{Kind: kind, Operator: operator}, nil
	case domain.PrincipalKindSubscriber:
		subscriber, err := r.subscribers.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrPrincipalNotFound
			}
			return nil, err
		}
		if subscriber.Status != domain.StatusActive {
			return nil, ErrPrincipalInactive
		}
		return &domain.Principal{Kind: kind, Subscriber: subscriber}, nil
	default:
		return nil, ErrPrincipalNotFound
	}
}
