package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/adapter/wompi"
	"github.com/fotovariedades/storefront/internal/config"
	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
)

// paymentLinkTTL bounds how long a customer may take to pay.
const paymentLinkTTL = 24 * time.Hour

// CheckoutUseCase turns a cart into a pending order bound to a gateway payment link.
type CheckoutUseCase struct {
	tx          repository.Transactor
	gateway     wompi.Gateway
	publisher   EventPublisher
	currency    string
	redirectURL string
	timeout     time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(store repository.Factory, gateway wompi.Gateway, publisher EventPublisher, cfg *config.Config, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		tx:          store,
		gateway:     gateway,
		publisher:   publisher,
		currency:    cfg.Currency,
		redirectURL: cfg.WompiRedirectURL,
		timeout:     cfg.GatewayTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Checkout validates the cart, reserves stock and opens a payment link. Nothing
// is persisted unless the gateway accepted the link.
func (u *CheckoutUseCase) Checkout(ctx context.Context, customer model.Principal, lines []model.CartLine, redirectURL string) (*model.CheckoutResult, error) {
	if !customer.Can(model.PermPlaceOrders) {
		return nil, domainErrors.ErrForbidden
	}
	quantities, ids, err := mergeLines(lines)
	if err != nil {
		return nil, err
	}
	if redirectURL == "" {
		redirectURL = u.redirectURL
	}

	var order model.Order
	var link *wompi.PaymentLink
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		products, err := tx.Products().LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		items := make([]model.OrderItem, 0, len(ids))
		for _, id := range ids {
			p, ok := byID[id]
			if !ok || !p.IsActive {
				return fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, id)
			}
			qty := quantities[id]
			if !p.Available(qty) {
				return fmt.Errorf("%w: product %d has %d, requested %d", domainErrors.ErrInsufficientStock, id, p.Stock, qty)
			}
			items = append(items, model.OrderItem{
				ProductID:       p.ID,
				ProductName:     p.Name,
				Quantity:        qty,
				PriceAtPurchase: p.Price,
			})
		}

		code, err := GenerateRedemptionCode()
		if err != nil {
			return err
		}
		order = model.Order{
			ID:             uuid.New(),
			UserID:         customer.UserID,
			TotalAmount:    model.SumItems(items),
			Status:         model.OrderStatusPending,
			RedemptionCode: code,
			Items:          items,
		}
		if err := tx.Orders().Create(ctx, &order); err != nil {
			return err
		}
		for _, item := range items {
			if _, err := tx.Products().AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		link, err = u.createLink(ctx, order, redirectURL)
		if err != nil {
			return err
		}
		if err := tx.Orders().SetGatewayReference(ctx, order.ID, link.ID); err != nil {
			return err
		}
		order.GatewayReference = &link.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("order created",
		slog.String("order_id", order.ID.String()),
		slog.Int64("user_id", order.UserID),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.String("reference", link.ID),
	)
	u.publisher.Publish(model.NewOrderEvent(order, u.now()))

	return &model.CheckoutResult{
		OrderID:          order.ID,
		GatewayReference: link.ID,
		RedirectURL:      link.URL,
		TotalAmount:      order.TotalAmount,
	}, nil
}

func (u *CheckoutUseCase) createLink(ctx context.Context, order model.Order, redirectURL string) (*wompi.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	link, err := u.gateway.CreatePaymentLink(ctx, wompi.LinkRequest{
		Name:          "Order " + order.ID.String()[:8],
		Description:   fmt.Sprintf("%d item(s)", len(order.Items)),
		SKU:           order.ID.String(),
		AmountInCents: order.AmountInCents(),
		Currency:      u.currency,
		RedirectURL:   redirectURL,
		ExpiresAt:     u.now().Add(paymentLinkTTL).UTC(),
	})
	if err != nil {
		u.logger.Error("payment link creation failed",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	return link, nil
}

func mergeLines(lines []model.CartLine) (map[int64]int, []int64, error) {
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%w: cart is empty", domainErrors.ErrValidation)
	}
	quantities := make(map[int64]int, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, nil, fmt.Errorf("%w: invalid product id %d", domainErrors.ErrValidation, line.ProductID)
		}
		if line.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: quantity for product %d must be positive", domainErrors.ErrValidation, line.ProductID)
		}
		if _, seen := quantities[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		quantities[line.ProductID] += line.Quantity
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return quantities, ids, nil
}
