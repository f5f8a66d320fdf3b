package repository

import "context"

// Store groups repositories bound to a single connection or transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Payments() PaymentRepository
}

// Transactor runs fn inside one database transaction. The Store passed to fn
// is bound to that transaction; a non-nil error from fn rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Factory describes access to different domain repositories.
type Factory interface {
	Store
	Transactor
}
