package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/repository"
)

type fakeOperatorRepo struct {
	repository.OperatorRepository
	operators map[int64]*domain.Operator
	err       error
}

func (f *fakeOperatorRepo) GetByID(_ context.Context, id int64) (*domain.Operator, error) {
	if f.err != nil {
		return nil, f.err
	}
	op, ok := f.operators[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return op, nil
}

type fakeSubscriberRepo struct {
	repository.SubscriberRepository
	subscribers map[int64]*domain.Subscriber
}

func (f *fakeSubscriberRepo) GetByID(_ context.Context, id int64) (*domain.Subscriber, error) {
	sub, ok := f.subscribers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return sub, nil
}

func newTestResolver() *PrincipalResolver {
	operators := &fakeOperatorRepo{operators: map[int64]*domain.Operator{
		7: {ID: 7, Username: "admin", Role: domain.RoleSuperAdmin, Status: domain.StatusActive},
		8: {ID: 8, Username: "disabled", Role: domain.RoleAgent, Status: domain.StatusInactive},
	}}
	subscribers := &fakeSubscriberRepo{subscribers: map[int64]*domain.Subscriber{
		3: {ID: 3, Username: "sub", Status: domain.StatusActive},
	}}
	return NewPrincipalResolver(operators, subscribers)
}

func TestResolver_Operator(t *testing.T) {
	resolver := newTestResolver()

	principal, err := resolver.Resolve(context.Background(), 7, domain.PrincipalKindOperator)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if principal.Kind != domain.PrincipalKindOperator {
		t.Errorf("Kind = %q, want operator", principal.Kind)
	}
	if principal.ID() != 7 {
		t.Errorf("ID() = %d, want 7", principal.ID())
	}
	if principal.Role() != domain.RoleSuperAdmin {
		t.Errorf("Role() = %q, want SuperAdmin", principal.Role())
	}
}

func TestResolver_Subscriber(t *testing.T) {
	resolver := newTestResolver()

	principal, err := resolver.Resolve(context.Background(), 3, domain.PrincipalKindSubscriber)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if principal.Kind != domain.PrincipalKindSubscriber {
		t.Errorf("Kind = %q, want subscriber", principal.Kind)
	}
	if principal.Role() != domain.RoleCustomer {
		t.Errorf("Role() = %q, want Customer for subscribers", principal.Role())
	}
}

func TestResolver_NotFound(t *testing.T) {
	resolver := newTestResolver()

	// Id 3 exists as a subscriber only; the operator table is a separate
	// namespace.
	_, err := resolver.Resolve(context.Background(), 3, domain.PrincipalKindOperator)
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Errorf("Resolve() error = %v, want ErrPrincipalNotFound", err)
	}
}

func TestResolver_Inactive(t *testing.T) {
	resolver := newTestResolver()

	_, err := resolver.Resolve(context.Background(), 8, domain.PrincipalKindOperator)
	if !errors.Is(err, ErrPrincipalInactive) {
		t.Errorf("Resolve() error = %v, want ErrPrincipalInactive", err)
	}
}

func TestResolver_UnknownKind(t *testing.T) {
	resolver := newTestResolver()

	_, err := resolver.Resolve(context.Background(), 7, domain.PrincipalKind("robot"))
	if !errors.Is(err, ErrPrincipalNotFound) {
		t.Errorf("Resolve() error = %v, want ErrPrincipalNotFound", err)
	}
}

func TestResolver_StoreFailureIsFatal(t *testing.T) {
	storeErr := errors.New("connection refused")
	resolver := NewPrincipalResolver(
		&fakeOperatorRepo{err: storeErr},
		&fakeSubscriberRepo{},
	)

	_, err := resolver.Resolve(context.Background(), 7, domain.PrincipalKindOperator)
	if !errors.Is(err, storeErr) {
		t.Errorf("Resolve() error = %v, want the store error passed through", err)
	}
}
