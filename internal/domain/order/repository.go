package order

import "context"

type BorrowerRepository interface {
	Create(ctx context.Context, o *BorrowerOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*BorrowerOrder, error)
	GetByOrderIDForUpdate(ctx context.Context, orderID string) (*BorrowerOrder, error)
	ListByStatus(ctx context.Context, status BorrowerStatus) ([]*BorrowerOrder, error)
	List(ctx context.Context) ([]*BorrowerOrder, error)
	// SaveVersioned persists the order only if the stored version still
	// matches o.Version; on success o.Version is bumped. A stale version
	// returns ErrConcurrentModification.
	SaveVersioned(ctx context.Context, o *BorrowerOrder) error
}

type LenderRepository interface {
	Create(ctx context.Context, o *LenderOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*LenderOrder, error)
	GetByID(ctx context.Context, id uint64) (*LenderOrder, error)
	ListByStatus(ctx context.Context, statuses ...LenderStatus) ([]*LenderOrder, error)
	List(ctx context.Context) ([]*LenderOrder, error)
	SaveVersioned(ctx context.Context, o *LenderOrder) error
}

type CommitmentRepository interface {
	Create(ctx context.Context, c *Commitment) error
	ListByBorrowerOrder(ctx context.Context, borrowerOrderID uint64) ([]*Commitment, error)
}

type TransitionRepository interface {
	Record(ctx context.Context, orderID, from, to string) error
	ListByOrder(ctx context.Context, orderID string) ([]*Transition, error)
}
