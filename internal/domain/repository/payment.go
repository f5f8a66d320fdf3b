package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// PaymentRepository is the ledger of gateway transactions.
type PaymentRepository interface {
	// Upsert records the payment keyed by its external transaction id and
	// reports whether a new row was inserted.
	Upsert(ctx context.Context, payment *model.Payment) (bool, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error)
	List(ctx context.Context, filter model.PaymentFilter, page model.Page) ([]model.Payment, int, error)
	Statistics(ctx context.Context) (*model.PaymentStatistics, error)
}
