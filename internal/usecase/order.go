package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
	"github.com/fotovariedades/storefront/internal/pkg/qrcode"
)

// OrderUseCase encapsulates order queries and customer cancellation.
type OrderUseCase struct {
	store     repository.Factory
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store repository.Factory, publisher EventPublisher, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{store: store, publisher: publisher, logger: logger, now: time.Now}
}

// Get returns an order visible to the principal. Orders of other customers
// are reported as missing.
func (u *OrderUseCase) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	order, err := u.store.Orders().GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !canView(principal, order) {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListMine returns the principal's own orders, newest first.
func (u *OrderUseCase) ListMine(ctx context.Context, principal model.Principal, page model.Page) ([]model.Order, int, error) {
	return u.store.Orders().ListByUser(ctx, principal.UserID, page.Normalize())
}

// List returns orders across all customers.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter, page model.Page) ([]model.Order, int, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, 0, fmt.Errorf("%w: date_from is after date_to", domainErrors.ErrValidation)
	}
	return u.store.Orders().List(ctx, filter, page.Normalize())
}

// Statistics aggregates order counts and revenue.
func (u *OrderUseCase) Statistics(ctx context.Context) (*model.OrderStatistics, error) {
	return u.store.Orders().Statistics(ctx)
}

// Cancel moves a pending order to CANCELLED and returns its stock. Customers
// may cancel only their own orders.
func (u *OrderUseCase) Cancel(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	var order *model.Order
	err := u.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		order, err = tx.Orders().GetByID(ctx, id, true)
		if err != nil {
			return err
		}
		if order.UserID != principal.UserID && !principal.Can(model.PermCancelAnyOrder) {
			return domainErrors.ErrNotFound
		}
		if order.Status != model.OrderStatusPending {
			return fmt.Errorf("%w: order is %s", domainErrors.ErrInvalidState, order.Status)
		}

		at := u.now()
		if err := tx.Orders().TransitionStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusCancelled, at); err != nil {
			if errors.Is(err, domainErrors.ErrInvalidStateTransition) {
				return fmt.Errorf("%w: %v", domainErrors.ErrInvalidState, err)
			}
			return err
		}
		if err := releaseStock(ctx, tx, order.Items); err != nil {
			return err
		}
		order.Status = model.OrderStatusCancelled
		order.UpdatedAt = at
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("order cancelled",
		slog.String("order_id", order.ID.String()),
		slog.Int64("by", principal.UserID),
	)
	u.publisher.Publish(model.NewOrderEvent(*order, order.UpdatedAt))
	return order, nil
}

// QRCode renders the redemption code of a paid order as PNG.
func (u *OrderUseCase) QRCode(ctx context.Context, principal model.Principal, id uuid.UUID, size int) ([]byte, error) {
	order, err := u.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPaid {
		return nil, fmt.Errorf("%w: only paid orders have a redeemable code", domainErrors.ErrInvalidState)
	}
	return qrcode.PNG(order.RedemptionCode, size)
}

// Payments returns the ledger rows of an order visible to the principal.
func (u *OrderUseCase) Payments(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.Payment, error) {
	if _, err := u.Get(ctx, principal, id); err != nil {
		return nil, err
	}
	return u.store.Payments().ListByOrder(ctx, id)
}

func canView(principal model.Principal, order *model.Order) bool {
	return order.UserID == principal.UserID || principal.Can(model.PermViewAllOrders)
}
