package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
)

// PaymentUseCase exposes the payment ledger to back-office users.
type PaymentUseCase struct {
	payments func() repository.PaymentRepository
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(store repository.Factory) *PaymentUseCase {
	return &PaymentUseCase{payments: store.Payments}
}

// List returns recorded gateway transactions matching filter.
func (u *PaymentUseCase) List(ctx context.Context, filter model.PaymentFilter, page model.Page) ([]model.Payment, int, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, 0, fmt.Errorf("%w: date_from is after date_to", domainErrors.ErrValidation)
	}
	return u.payments().List(ctx, filter, page.Normalize())
}

// Get returns the ledger row for one gateway transaction.
func (u *PaymentUseCase) Get(ctx context.Context, transactionID string) (*model.Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", domainErrors.ErrValidation)
	}
	return u.payments().GetByTransactionID(ctx, transactionID)
}

// Statistics aggregates the ledger.
func (u *PaymentUseCase) Statistics(ctx context.Context) (*model.PaymentStatistics, error) {
	return u.payments().Statistics(ctx)
}
