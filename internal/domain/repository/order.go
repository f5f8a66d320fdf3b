package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	SetGatewayReference(ctx context.Context, id uuid.UUID, reference string) error
	GetByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.Order, error)
	GetByRedemptionCode(ctx context.Context, code string, forUpdate bool) (*model.Order, error)
	GetByGatewayReference(ctx context.Context, reference string, forUpdate bool) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.Order, int, error)
	List(ctx context.Context, filter model.OrderFilter, page model.Page) ([]model.Order, int, error)
	// TransitionStatus writes to only when the stored status equals from, and
	// returns ErrInvalidStateTransition otherwise.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, at time.Time) error
	Statistics(ctx context.Context) (*model.OrderStatistics, error)
}
