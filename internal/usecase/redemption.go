package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
)

// RedemptionUseCase marks paid orders as collected by the customer.
type RedemptionUseCase struct {
	tx        repository.Transactor
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(store repository.Factory, publisher EventPublisher, logger *slog.Logger) *RedemptionUseCase {
	return &RedemptionUseCase{tx: store, publisher: publisher, logger: logger, now: time.Now}
}

// Redeem consumes the code of a paid order. Each code redeems at most once;
// concurrent submissions of the same code serialize on the order row lock.
// A code that cannot exist is reported the same way as an unknown one.
func (u *RedemptionUseCase) Redeem(ctx context.Context, staff model.Principal, code string) (*model.Order, error) {
	if !staff.Can(model.PermRedeemOrders) {
		return nil, domainErrors.ErrForbidden
	}
	canonical, ok := ValidateRedemptionCode(code)
	if !ok {
		return nil, fmt.Errorf("%w: redemption code", domainErrors.ErrNotFound)
	}

	var order *model.Order
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		order, err = tx.Orders().GetByRedemptionCode(ctx, canonical, true)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusPaid || order.RedeemedAt != nil {
			return fmt.Errorf("%w: order is %s", domainErrors.ErrInvalidState, order.Status)
		}

		at := u.now()
		if err := tx.Orders().TransitionStatus(ctx, order.ID, model.OrderStatusPaid, model.OrderStatusRedeemed, at); err != nil {
			if errors.Is(err, domainErrors.ErrInvalidStateTransition) {
				return fmt.Errorf("%w: %v", domainErrors.ErrInvalidState, err)
			}
			return err
		}
		order.Status = model.OrderStatusRedeemed
		order.RedeemedAt = &at
		order.UpdatedAt = at
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("order redeemed",
		slog.String("order_id", order.ID.String()),
		slog.Int64("staff_id", staff.UserID),
	)
	u.publisher.Publish(model.NewOrderEvent(*order, *order.RedeemedAt))
	return order, nil
}
