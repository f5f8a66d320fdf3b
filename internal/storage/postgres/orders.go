package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
)

const orderColumns = `id, user_id, total_amount, status, gateway_reference, validation_code, created_at, redeemed_at, updated_at`

type orderRepository struct {
	db querier
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.GatewayReference, &o.RedemptionCode,
		&o.CreatedAt, &o.RedeemedAt, &o.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const insertOrder = `INSERT INTO orders (id, user_id, total_amount, status, validation_code)
                         VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, insertOrder, order.ID, order.UserID, order.TotalAmount, order.Status, order.RedemptionCode).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	const insertItem = `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
                        VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := r.db.QueryRow(ctx, insertItem, order.ID, item.ProductID, item.Quantity, item.PriceAtPurchase).Scan(&item.ID); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *orderRepository) SetGatewayReference(ctx context.Context, id uuid.UUID, reference string) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET gateway_reference=$2, updated_at=NOW() WHERE id=$1`, id, reference)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) getOne(ctx context.Context, column string, key any, forUpdate bool) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + `=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	order, err := scanOrder(r.db.QueryRow(ctx, query, key))
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.Order, error) {
	return r.getOne(ctx, "id", id, forUpdate)
}

func (r *orderRepository) GetByRedemptionCode(ctx context.Context, code string, forUpdate bool) (*model.Order, error) {
	return r.getOne(ctx, "validation_code", code, forUpdate)
}

func (r *orderRepository) GetByGatewayReference(ctx context.Context, reference string, forUpdate bool) (*model.Order, error) {
	return r.getOne(ctx, "gateway_reference", reference, forUpdate)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.Order, int, error) {
	return r.List(ctx, model.OrderFilter{UserID: &userID}, page)
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter, page model.Page) ([]model.Order, int, error) {
	var b filterBuilder
	if filter.UserID != nil {
		b.add("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		b.add("status = ?", *filter.Status)
	}
	if filter.IsRedeemed != nil {
		if *filter.IsRedeemed {
			b.addRaw("redeemed_at IS NOT NULL")
		} else {
			b.addRaw("redeemed_at IS NULL")
		}
	}
	if filter.DateFrom != nil {
		b.add("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		b.add("created_at <= ?", *filter.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+b.where(), b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	limit, args := b.paginate(page.Size, page.Offset())
	orders, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders`+b.where()+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) query(ctx context.Context, sql string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, *o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Order, len(result))
	for i := range result {
		refs[i] = &result[i]
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return result, nil
}

// attachItems loads the items of all orders in one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*model.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	const query = `SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price_at_purchase
                   FROM order_items oi JOIN products p ON p.id = oi.product_id
                   WHERE oi.order_id = ANY($1) ORDER BY oi.id`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.PriceAtPurchase); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *orderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, at time.Time) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidStateTransition, from, to)
	}

	var redeemedAt *time.Time
	if to == model.OrderStatusRedeemed {
		redeemedAt = &at
	}

	const query = `UPDATE orders SET status=$1, updated_at=$2, redeemed_at=COALESCE($3, redeemed_at)
                   WHERE id=$4 AND status=$5`
	tag, err := r.db.Exec(ctx, query, to, at, redeemedAt, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s is no longer %s", domainErrors.ErrInvalidStateTransition, id, from)
	}
	return nil
}

func (r *orderRepository) Statistics(ctx context.Context) (*model.OrderStatistics, error) {
	const query = `SELECT
                       COUNT(*),
                       COALESCE(SUM(total_amount) FILTER (WHERE status IN ('PAID', 'REDEEMED')), 0),
                       COUNT(*) FILTER (WHERE status = 'PENDING'),
                       COUNT(*) FILTER (WHERE status = 'PAID'),
                       COUNT(*) FILTER (WHERE status = 'REDEEMED'),
                       COUNT(*) FILTER (WHERE status = 'FAILED'),
                       COUNT(*) FILTER (WHERE status = 'CANCELLED')
                   FROM orders`
	var s model.OrderStatistics
	err := r.db.QueryRow(ctx, query).Scan(&s.TotalOrders, &s.TotalRevenue, &s.PendingOrders, &s.PaidOrders,
		&s.RedeemedOrders, &s.FailedOrders, &s.CancelledOrders)
	if err != nil {
		return nil, err
	}
	if settled := s.PaidOrders + s.RedeemedOrders; settled > 0 {
		s.AverageOrderValue = s.TotalRevenue.DivRound(decimal.NewFromInt(int64(settled)), 2)
	}
	return &s, nil
}
