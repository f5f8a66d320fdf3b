package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade exposes the use cases to transport adapters.
type StorefrontFacade struct {
	auth       *usecase.AuthUseCase
	products   *usecase.ProductUseCase
	checkout   *usecase.CheckoutUseCase
	webhooks   *usecase.WebhookUseCase
	redemption *usecase.RedemptionUseCase
	orders     *usecase.OrderUseCase
	payments   *usecase.PaymentUseCase
	health     HealthChecker
}

// FacadeParams lists the facade dependencies.
type FacadeParams struct {
	fx.In

	Auth       *usecase.AuthUseCase
	Products   *usecase.ProductUseCase
	Checkout   *usecase.CheckoutUseCase
	Webhooks   *usecase.WebhookUseCase
	Redemption *usecase.RedemptionUseCase
	Orders     *usecase.OrderUseCase
	Payments   *usecase.PaymentUseCase
	Health     HealthChecker
}

// NewStorefrontFacade constructs StorefrontFacade.
func NewStorefrontFacade(p FacadeParams) *StorefrontFacade {
	return &StorefrontFacade{
		auth:       p.Auth,
		products:   p.Products,
		checkout:   p.Checkout,
		webhooks:   p.Webhooks,
		redemption: p.Redemption,
		orders:     p.Orders,
		payments:   p.Payments,
		health:     p.Health,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, email, password, fullName string) (*model.User, string, error) {
	return f.auth.Register(ctx, usecase.NewUser{Email: email, Password: password, FullName: fullName})
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *StorefrontFacade) Authorize(ctx context.Context, token string) (model.Principal, error) {
	return f.auth.Authorize(ctx, token)
}

func (f *StorefrontFacade) CurrentUser(ctx context.Context, principal model.Principal) (*model.User, error) {
	return f.auth.Me(ctx, principal)
}

func (f *StorefrontFacade) RefreshToken(ctx context.Context, principal model.Principal) (string, error) {
	return f.auth.Refresh(ctx, principal)
}

func (f *StorefrontFacade) ChangePassword(ctx context.Context, principal model.Principal, current, next string) error {
	return f.auth.ChangePassword(ctx, principal, current, next)
}

func (f *StorefrontFacade) TokenTTL() time.Duration {
	return f.auth.TokenTTL()
}

func (f *StorefrontFacade) Users(ctx context.Context, page model.Page) ([]model.User, int, error) {
	return f.auth.ListUsers(ctx, page)
}

func (f *StorefrontFacade) CreateUser(ctx context.Context, email, password, fullName string, role model.Role) (*model.User, error) {
	return f.auth.CreateUser(ctx, usecase.NewUser{Email: email, Password: password, FullName: fullName, Role: role})
}

func (f *StorefrontFacade) UpdateUser(ctx context.Context, actor model.Principal, id int64, patch model.UserPatch) (*model.User, error) {
	return f.auth.UpdateUser(ctx, actor, id, patch)
}

func (f *StorefrontFacade) Products(ctx context.Context, viewer *model.Principal, filter model.ProductFilter, page model.Page) ([]model.Product, int, error) {
	return f.products.List(ctx, viewer, filter, page)
}

func (f *StorefrontFacade) Product(ctx context.Context, viewer *model.Principal, id int64) (*model.Product, error) {
	return f.products.Get(ctx, viewer, id)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	return f.products.Create(ctx, product)
}

func (f *StorefrontFacade) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	return f.products.Update(ctx, id, patch)
}

func (f *StorefrontFacade) DeactivateProduct(ctx context.Context, id int64) error {
	return f.products.Deactivate(ctx, id)
}

func (f *StorefrontFacade) AdjustInventory(ctx context.Context, id int64, delta int) (int, error) {
	return f.products.AdjustInventory(ctx, id, delta)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, customer model.Principal, lines []model.CartLine, redirectURL string) (*model.CheckoutResult, error) {
	return f.checkout.Checkout(ctx, customer, lines, redirectURL)
}

func (f *StorefrontFacade) Order(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	return f.orders.Get(ctx, principal, id)
}

func (f *StorefrontFacade) MyOrders(ctx context.Context, principal model.Principal, page model.Page) ([]model.Order, int, error) {
	return f.orders.ListMine(ctx, principal, page)
}

func (f *StorefrontFacade) Orders(ctx context.Context, filter model.OrderFilter, page model.Page) ([]model.Order, int, error) {
	return f.orders.List(ctx, filter, page)
}

func (f *StorefrontFacade) OrderStatistics(ctx context.Context) (*model.OrderStatistics, error) {
	return f.orders.Statistics(ctx)
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error) {
	return f.orders.Cancel(ctx, principal, id)
}

func (f *StorefrontFacade) OrderQRCode(ctx context.Context, principal model.Principal, id uuid.UUID, size int) ([]byte, error) {
	return f.orders.QRCode(ctx, principal, id, size)
}

func (f *StorefrontFacade) RedeemOrder(ctx context.Context, staff model.Principal, code string) (*model.Order, error) {
	return f.redemption.Redeem(ctx, staff, code)
}

func (f *StorefrontFacade) HandleGatewayEvent(ctx context.Context, raw []byte) (*model.WebhookResult, error) {
	return f.webhooks.Handle(ctx, raw)
}

func (f *StorefrontFacade) OrderPayments(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.Payment, error) {
	return f.orders.Payments(ctx, principal, id)
}

func (f *StorefrontFacade) Payments(ctx context.Context, filter model.PaymentFilter, page model.Page) ([]model.Payment, int, error) {
	return f.payments.List(ctx, filter, page)
}

func (f *StorefrontFacade) Payment(ctx context.Context, transactionID string) (*model.Payment, error) {
	return f.payments.Get(ctx, transactionID)
}

func (f *StorefrontFacade) PaymentStatistics(ctx context.Context) (*model.PaymentStatistics, error) {
	return f.payments.Statistics(ctx)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
