package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fotovariedades/storefront/internal/adapter/wompi"
	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
)

// WebhookUseCase reconciles gateway transaction events with orders and the payment ledger.
type WebhookUseCase struct {
	tx        repository.Transactor
	verifier  *wompi.Verifier
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(store repository.Factory, verifier *wompi.Verifier, publisher EventPublisher, logger *slog.Logger) *WebhookUseCase {
	return &WebhookUseCase{tx: store, verifier: verifier, publisher: publisher, logger: logger, now: time.Now}
}

// Handle verifies and applies one raw event body. Replays of a transaction
// update its ledger row and leave the order untouched.
func (u *WebhookUseCase) Handle(ctx context.Context, raw []byte) (*model.WebhookResult, error) {
	ev, err := wompi.ParseEvent(raw)
	if err != nil {
		return nil, err
	}
	if err := u.verifier.Verify(ev); err != nil {
		u.logger.Warn("rejected gateway event",
			slog.String("transaction_id", ev.Transaction.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	result := &model.WebhookResult{Event: ev.Event, TransactionID: ev.Transaction.ID, Outcome: model.OutcomeIgnored}
	if ev.Event != wompi.EventTransactionUpdated {
		u.logger.Info("ignoring gateway event", slog.String("event", ev.Event))
		return result, nil
	}

	var published *model.OrderEvent
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		order, err := u.findOrder(ctx, tx, ev.Transaction)
		if errors.Is(err, domainErrors.ErrNotFound) {
			result.Outcome = model.OutcomeUnknownOrder
			u.logger.Warn("gateway event for unknown order",
				slog.String("transaction_id", ev.Transaction.ID),
				slog.String("reference", ev.Transaction.LookupReference()),
			)
			return nil
		}
		if err != nil {
			return err
		}
		result.OrderID = &order.ID
		result.OrderStatus = order.Status

		payment := ev.Transaction.ToPayment(order.ID, raw)
		if !ev.Transaction.KnownStatus() {
			created, err := tx.Payments().Upsert(ctx, &payment)
			if err != nil {
				return err
			}
			result.PaymentID = payment.ID
			result.Created = created
			u.logger.Warn("gateway event with unknown transaction status",
				slog.String("order_id", order.ID.String()),
				slog.String("transaction_id", payment.ExternalTransactionID),
				slog.String("status", ev.Transaction.Status),
			)
			return nil
		}
		target, drives := payment.Status.OrderOutcome()
		mismatch := target == model.OrderStatusPaid && !payment.Amount.Equal(order.TotalAmount)
		if mismatch {
			msg := fmt.Sprintf("amount mismatch: paid %s, order total %s", payment.Amount.StringFixed(2), order.TotalAmount.StringFixed(2))
			payment.ErrorMessage = &msg
		}

		created, err := tx.Payments().Upsert(ctx, &payment)
		if err != nil {
			return err
		}
		result.PaymentID = payment.ID
		result.Created = created
		result.Outcome = model.OutcomeRecorded

		switch {
		case !drives:
			return nil
		case mismatch:
			result.Outcome = model.OutcomeAmountMismatch
			u.logger.Error("approved amount does not match order total",
				slog.String("order_id", order.ID.String()),
				slog.String("transaction_id", payment.ExternalTransactionID),
				slog.String("paid", payment.Amount.StringFixed(2)),
				slog.String("expected", order.TotalAmount.StringFixed(2)),
			)
			return nil
		case order.Status == target:
			result.Outcome = model.OutcomeDuplicate
			return nil
		}

		at := u.now()
		if err := tx.Orders().TransitionStatus(ctx, order.ID, order.Status, target, at); err != nil {
			if errors.Is(err, domainErrors.ErrInvalidStateTransition) {
				result.Outcome = model.OutcomeRejected
				u.logger.Warn("gateway event does not apply to order",
					slog.String("order_id", order.ID.String()),
					slog.String("from", string(order.Status)),
					slog.String("to", string(target)),
				)
				return nil
			}
			return err
		}
		if target == model.OrderStatusFailed {
			if err := releaseStock(ctx, tx, order.Items); err != nil {
				return err
			}
		}

		order.Status = target
		order.UpdatedAt = at
		result.OrderStatus = target
		result.Outcome = model.OutcomeApplied
		event := model.NewOrderEvent(*order, at)
		published = &event
		return nil
	})
	if err != nil {
		return nil, err
	}

	if published != nil {
		u.logger.Info("order status updated from gateway",
			slog.String("order_id", published.OrderID.String()),
			slog.String("status", string(published.Status)),
			slog.String("transaction_id", result.TransactionID),
		)
		u.publisher.Publish(*published)
	}
	return result, nil
}

func (u *WebhookUseCase) findOrder(ctx context.Context, tx repository.Store, t wompi.Transaction) (*model.Order, error) {
	order, err := tx.Orders().GetByGatewayReference(ctx, t.LookupReference(), true)
	if errors.Is(err, domainErrors.ErrNotFound) && t.PaymentLinkID != "" && t.Reference != "" && t.Reference != t.PaymentLinkID {
		return tx.Orders().GetByGatewayReference(ctx, t.Reference, true)
	}
	return order, err
}

// releaseStock returns reserved units of items to the catalog.
func releaseStock(ctx context.Context, tx repository.Store, items []model.OrderItem) error {
	for _, item := range items {
		if _, err := tx.Products().AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}
