package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, email, password, fullName string) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	Authorize(ctx context.Context, token string) (model.Principal, error)
	CurrentUser(ctx context.Context, principal model.Principal) (*model.User, error)
	RefreshToken(ctx context.Context, principal model.Principal) (string, error)
	ChangePassword(ctx context.Context, principal model.Principal, current, next string) error
	TokenTTL() time.Duration
}

// UserAdminFacade covers account administration.
type UserAdminFacade interface {
	Users(ctx context.Context, page model.Page) ([]model.User, int, error)
	CreateUser(ctx context.Context, email, password, fullName string, role model.Role) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.Principal, id int64, patch model.UserPatch) (*model.User, error)
}

// CatalogFacade exposes product operations.
type CatalogFacade interface {
	Products(ctx context.Context, viewer *model.Principal, filter model.ProductFilter, page model.Page) ([]model.Product, int, error)
	Product(ctx context.Context, viewer *model.Principal, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
	DeactivateProduct(ctx context.Context, id int64) error
	AdjustInventory(ctx context.Context, id int64, delta int) (int, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, customer model.Principal, lines []model.CartLine, redirectURL string) (*model.CheckoutResult, error)
	Order(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error)
	MyOrders(ctx context.Context, principal model.Principal, page model.Page) ([]model.Order, int, error)
	Orders(ctx context.Context, filter model.OrderFilter, page model.Page) ([]model.Order, int, error)
	OrderStatistics(ctx context.Context) (*model.OrderStatistics, error)
	CancelOrder(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Order, error)
	OrderQRCode(ctx context.Context, principal model.Principal, id uuid.UUID, size int) ([]byte, error)
	RedeemOrder(ctx context.Context, staff model.Principal, code string) (*model.Order, error)
}

// PaymentFacade exposes the payment ledger and gateway notifications.
type PaymentFacade interface {
	HandleGatewayEvent(ctx context.Context, raw []byte) (*model.WebhookResult, error)
	OrderPayments(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.Payment, error)
	Payments(ctx context.Context, filter model.PaymentFilter, page model.Page) ([]model.Payment, int, error)
	Payment(ctx context.Context, transactionID string) (*model.Payment, error)
	PaymentStatistics(ctx context.Context) (*model.PaymentStatistics, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	UserAdminFacade
	CatalogFacade
	OrderFacade
	PaymentFacade
	HealthFacade
}
