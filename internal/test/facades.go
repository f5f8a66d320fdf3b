package test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
)

// FacadeStub provides controllable behaviour for every HTTP endpoint.
// Unset functions return small fixed values.
type FacadeStub struct {
	AuthorizerStub

	RegisterFn       func(ctx context.Context, email, password, fullName string) (*model.User, string, error)
	AuthenticateFn   func(ctx context.Context, email, password string) (*model.User, string, error)
	CurrentUserFn    func(ctx context.Context, principal model.Principal) (*model.User, error)
	RefreshTokenFn   func(ctx context.Context, principal model.Principal) (string, error)
	ChangePasswordFn func(ctx context.Context, principal model.Principal, current, next string) error

	UsersFn      func(ctx context.Context, page model.Page) ([]model.User, int, error)
	CreateUserFn func(ctx context.Context, email, password, fullName string, role model.Role) (*model.User, error)
	UpdateUserFn func(ctx context.Context, actor model.Principal, id int64, patch model.UserPatch) (*model.User, error)

	ProductsFn          func(ctx context.Context, viewer *model.Principal, filter model.ProductFilter, page model.Page) ([]model.Product, int, error)
	ProductFn           func(ctx context.Context, viewer *model.Principal, id int64) (*model.Product, error)
	CreateProductFn     func(ctx context.Context, product model.Product) (*model.Product, error)
	UpdateProductFn     func(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
	DeactivateProductFn func(ctx context.Context, id int64) error
	AdjustInventoryFn   func(ctx context.Context, id int64, delta int) (int, error)

	CheckoutFn        func(ctx context.Context, customer model.Principal, lines []model.CartLine, redirectURL string) (*model.CheckoutResult, error)
	OrderFn           func(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error)
	MyOrdersFn        func(ctx context.Context, principal model.Principal, page model.Page) ([]model.Order, int, error)
	OrdersFn          func(ctx context.Context, filter model.OrderFilter, page model.Page) ([]model.Order, int, error)
	OrderStatisticsFn func(ctx context.Context) (*model.OrderStatistics, error)
	CancelOrderFn     func(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error)
	OrderQRCodeFn     func(ctx context.Context, principal model.Principal, id uuid.UUID, size int) ([]byte, error)
	RedeemOrderFn     func(ctx context.Context, staff model.Principal, code string) (*model.Order, error)

	HandleGatewayEventFn func(ctx context.Context, raw []byte) (*model.WebhookResult, error)
	OrderPaymentsFn      func(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.Payment, error)
	PaymentsFn           func(ctx context.Context, filter model.PaymentFilter, page model.Page) ([]model.Payment, int, error)
	PaymentFn            func(ctx context.Context, transactionID string) (*model.Payment, error)
	PaymentStatisticsFn  func(ctx context.Context) (*model.PaymentStatistics, error)

	HealthCheckFn func(ctx context.Context) error
	TTL           time.Duration
}

// StubUser is returned by account operations that have no override.
func StubUser(id int64, email string, role model.Role) *model.User {
	return &model.User{ID: id, Email: email, FullName: "Stub User", Role: role, IsActive: true, CreatedAt: time.Unix(0, 0).UTC()}
}

// StubOrder builds a one-line order in status.
func StubOrder(status model.OrderStatus) *model.Order {
	id := uuid.New()
	price := decimal.RequireFromString("15000.00")
	return &model.Order{
		ID:             id,
		UserID:         CustomerPrincipal.UserID,
		TotalAmount:    price,
		Status:         status,
		RedemptionCode: "ABCD-EFGH-JKM2",
		CreatedAt:      time.Unix(0, 0).UTC(),
		UpdatedAt:      time.Unix(0, 0).UTC(),
		Items: []model.OrderItem{
			{ID: 1, OrderID: id, ProductID: 10, ProductName: "Mug", Quantity: 1, PriceAtPurchase: price},
		},
	}
}

// Register delegates to RegisterFn or returns a customer.
func (s FacadeStub) Register(ctx context.Context, email, password, fullName string) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, email, password, fullName)
	}
	return StubUser(3, email, model.RoleCustomer), "token", nil
}

// Authenticate delegates to AuthenticateFn or succeeds.
func (s FacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return StubUser(3, email, model.RoleCustomer), "token", nil
}

// CurrentUser delegates to CurrentUserFn or mirrors the principal.
func (s FacadeStub) CurrentUser(ctx context.Context, principal model.Principal) (*model.User, error) {
	if s.CurrentUserFn != nil {
		return s.CurrentUserFn(ctx, principal)
	}
	return StubUser(principal.UserID, principal.Email, principal.Role), nil
}

// RefreshToken delegates to RefreshTokenFn or returns a fresh token.
func (s FacadeStub) RefreshToken(ctx context.Context, principal model.Principal) (string, error) {
	if s.RefreshTokenFn != nil {
		return s.RefreshTokenFn(ctx, principal)
	}
	return fmt.Sprintf("token-%d-%s", principal.UserID, principal.Role), nil
}

// ChangePassword delegates to ChangePasswordFn.
func (s FacadeStub) ChangePassword(ctx context.Context, principal model.Principal, current, next string) error {
	if s.ChangePasswordFn != nil {
		return s.ChangePasswordFn(ctx, principal, current, next)
	}
	return nil
}

// TokenTTL returns TTL or one hour.
func (s FacadeStub) TokenTTL() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return time.Hour
}

// Users delegates to UsersFn or returns no accounts.
func (s FacadeStub) Users(ctx context.Context, page model.Page) ([]model.User, int, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, page)
	}
	return nil, 0, nil
}

// CreateUser delegates to CreateUserFn or echoes the input.
func (s FacadeStub) CreateUser(ctx context.Context, email, password, fullName string, role model.Role) (*model.User, error) {
	if s.CreateUserFn != nil {
		return s.CreateUserFn(ctx, email, password, fullName, role)
	}
	return StubUser(10, email, role), nil
}

// UpdateUser delegates to UpdateUserFn or returns the patched stub user.
func (s FacadeStub) UpdateUser(ctx context.Context, actor model.Principal, id int64, patch model.UserPatch) (*model.User, error) {
	if s.UpdateUserFn != nil {
		return s.UpdateUserFn(ctx, actor, id, patch)
	}
	user := StubUser(id, "user@example.com", model.RoleCustomer)
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	return user, nil
}

// Products delegates to ProductsFn or returns an empty page.
func (s FacadeStub) Products(ctx context.Context, viewer *model.Principal, filter model.ProductFilter, page model.Page) ([]model.Product, int, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, viewer, filter, page)
	}
	return nil, 0, nil
}

// Product delegates to ProductFn or reports not found.
func (s FacadeStub) Product(ctx context.Context, viewer *model.Principal, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, viewer, id)
	}
	return nil, domainErrors.ErrNotFound
}

// CreateProduct delegates to CreateProductFn or assigns an id.
func (s FacadeStub) CreateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, product)
	}
	product.ID = 1
	return &product, nil
}

// UpdateProduct delegates to UpdateProductFn or reports not found.
func (s FacadeStub) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if s.UpdateProductFn != nil {
		return s.UpdateProductFn(ctx, id, patch)
	}
	return nil, domainErrors.ErrNotFound
}

// DeactivateProduct delegates to DeactivateProductFn.
func (s FacadeStub) DeactivateProduct(ctx context.Context, id int64) error {
	if s.DeactivateProductFn != nil {
		return s.DeactivateProductFn(ctx, id)
	}
	return nil
}

// AdjustInventory delegates to AdjustInventoryFn or returns delta as the new stock.
func (s FacadeStub) AdjustInventory(ctx context.Context, id int64, delta int) (int, error) {
	if s.AdjustInventoryFn != nil {
		return s.AdjustInventoryFn(ctx, id, delta)
	}
	return delta, nil
}

// Checkout delegates to CheckoutFn or returns a fixed payment link.
func (s FacadeStub) Checkout(ctx context.Context, customer model.Principal, lines []model.CartLine, redirectURL string) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, customer, lines, redirectURL)
	}
	return &model.CheckoutResult{
		OrderID:          uuid.New(),
		GatewayReference: "link_1",
		RedirectURL:      "https://checkout.test/l/link_1",
		TotalAmount:      decimal.RequireFromString("15000"),
	}, nil
}

// Order delegates to OrderFn or returns a pending order.
func (s FacadeStub) Order(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, principal, id)
	}
	order := StubOrder(model.OrderStatusPending)
	order.ID = id
	return order, nil
}

// MyOrders delegates to MyOrdersFn or returns no orders.
func (s FacadeStub) MyOrders(ctx context.Context, principal model.Principal, page model.Page) ([]model.Order, int, error) {
	if s.MyOrdersFn != nil {
		return s.MyOrdersFn(ctx, principal, page)
	}
	return nil, 0, nil
}

// Orders delegates to OrdersFn or returns no orders.
func (s FacadeStub) Orders(ctx context.Context, filter model.OrderFilter, page model.Page) ([]model.Order, int, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter, page)
	}
	return nil, 0, nil
}

// OrderStatistics delegates to OrderStatisticsFn or returns zeroes.
func (s FacadeStub) OrderStatistics(ctx context.Context) (*model.OrderStatistics, error) {
	if s.OrderStatisticsFn != nil {
		return s.OrderStatisticsFn(ctx)
	}
	return &model.OrderStatistics{}, nil
}

// CancelOrder delegates to CancelOrderFn or returns a cancelled order.
func (s FacadeStub) CancelOrder(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, principal, id)
	}
	order := StubOrder(model.OrderStatusCancelled)
	order.ID = id
	return order, nil
}

// OrderQRCode delegates to OrderQRCodeFn or returns a PNG signature.
func (s FacadeStub) OrderQRCode(ctx context.Context, principal model.Principal, id uuid.UUID, size int) ([]byte, error) {
	if s.OrderQRCodeFn != nil {
		return s.OrderQRCodeFn(ctx, principal, id, size)
	}
	return []byte("\x89PNG\r\n\x1a\n"), nil
}

// RedeemOrder delegates to RedeemOrderFn or returns a redeemed order.
func (s FacadeStub) RedeemOrder(ctx context.Context, staff model.Principal, code string) (*model.Order, error) {
	if s.RedeemOrderFn != nil {
		return s.RedeemOrderFn(ctx, staff, code)
	}
	order := StubOrder(model.OrderStatusRedeemed)
	at := time.Unix(100, 0).UTC()
	order.RedeemedAt = &at
	return order, nil
}

// HandleGatewayEvent delegates to HandleGatewayEventFn or ignores the event.
func (s FacadeStub) HandleGatewayEvent(ctx context.Context, raw []byte) (*model.WebhookResult, error) {
	if s.HandleGatewayEventFn != nil {
		return s.HandleGatewayEventFn(ctx, raw)
	}
	return &model.WebhookResult{Event: "transaction.updated", Outcome: model.OutcomeIgnored}, nil
}

// OrderPayments delegates to OrderPaymentsFn or returns no payments.
func (s FacadeStub) OrderPayments(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.Payment, error) {
	if s.OrderPaymentsFn != nil {
		return s.OrderPaymentsFn(ctx, principal, id)
	}
	return nil, nil
}

// Payments delegates to PaymentsFn or returns no payments.
func (s FacadeStub) Payments(ctx context.Context, filter model.PaymentFilter, page model.Page) ([]model.Payment, int, error) {
	if s.PaymentsFn != nil {
		return s.PaymentsFn(ctx, filter, page)
	}
	return nil, 0, nil
}

// Payment delegates to PaymentFn or returns an empty row for transactionID.
func (s FacadeStub) Payment(ctx context.Context, transactionID string) (*model.Payment, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, transactionID)
	}
	return &model.Payment{ExternalTransactionID: transactionID}, nil
}

// PaymentStatistics delegates to PaymentStatisticsFn or returns zeroes.
func (s FacadeStub) PaymentStatistics(ctx context.Context) (*model.PaymentStatistics, error) {
	if s.PaymentStatisticsFn != nil {
		return s.PaymentStatisticsFn(ctx)
	}
	return &model.PaymentStatistics{}, nil
}

// HealthCheck delegates to HealthCheckFn.
func (s FacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthCheckFn != nil {
		return s.HealthCheckFn(ctx)
	}
	return nil
}
