package domain

// PrincipalKind differentiates operator vs subscriber credentials.
type PrincipalKind string

const (
	PrincipalKindOperator   PrincipalKind = "operator"
	PrincipalKindSubscriber PrincipalKind = "subscriber"
)

// Valid reports whether the kind is one of the known values.
func (k PrincipalKind) Valid() bool {
	return k == PrincipalKindOperator || k == PrincipalKindSubscriber
}

// AccountStatus represents lifecycle states shared by both principal kinds.
type AccountStatus string

const (
	StatusActive   AccountStatus = "Active"
	StatusInactive AccountStatus = "Inactive"
)

// Principal is the authenticated caller: exactly one of Operator or
// Subscriber is set, selected by Kind. The persisted rows carry no kind
// column; the kind is supplied by which table was queried.
type Principal struct {
	Kind       PrincipalKind
	Operator   *Operator
	Subscriber *Subscriber
}

// ID returns the principal's row id.
func (p *Principal) ID() int64 {
	if p.Kind == PrincipalKindOperator && p.Operator != nil {
		return p.Operator.ID
	}
	if p.Subscriber != nil {
		return p.Subscriber.ID
	}
	return 0
}

// Status returns the account status of the underlying record.
func (p *Principal) Status() AccountStatus {
	if p.Kind == PrincipalKindOperator && p.Operator != nil {
		return p.Operator.Status
	}
	if p.Subscriber != nil {
		return p.Subscriber.Status
	}
	return StatusInactive
}

// Role returns the operator's role label. Subscribers have a single
// implicit role, reported as RoleCustomer.
func (p *Principal) Role() OperatorRole {
	if p.Kind == PrincipalKindOperator && p.Operator != nil {
		return p.Operator.Role
	}
	return RoleCustomer
}
