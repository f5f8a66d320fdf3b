package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

const paymentColumns = `id, order_id, external_transaction_id, external_reference, amount, currency, status,
    payment_method, payment_method_type, card_last_four, card_brand, raw_payload, error_message,
    transaction_date, created_at, updated_at`

type paymentRepository struct {
	db querier
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var (
		p   model.Payment
		ref *string
	)
	err := row.Scan(&p.ID, &p.OrderID, &p.ExternalTransactionID, &ref, &p.Amount, &p.Currency, &p.Status,
		&p.Method, &p.MethodType, &p.CardLastFour, &p.CardBrand, &p.RawPayload, &p.ErrorMessage,
		&p.TransactionDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if ref != nil {
		p.ExternalReference = *ref
	}
	return &p, nil
}

func (r *paymentRepository) Upsert(ctx context.Context, payment *model.Payment) (bool, error) {
	const query = `INSERT INTO payments (order_id, external_transaction_id, external_reference, amount, currency,
                       status, payment_method, payment_method_type, card_last_four, card_brand, raw_payload,
                       error_message, transaction_date)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                   ON CONFLICT (external_transaction_id) DO UPDATE SET
                       status = EXCLUDED.status,
                       payment_method = COALESCE(EXCLUDED.payment_method, payments.payment_method),
                       payment_method_type = EXCLUDED.payment_method_type,
                       card_last_four = COALESCE(EXCLUDED.card_last_four, payments.card_last_four),
                       card_brand = COALESCE(EXCLUDED.card_brand, payments.card_brand),
                       raw_payload = EXCLUDED.raw_payload,
                       error_message = EXCLUDED.error_message,
                       transaction_date = COALESCE(EXCLUDED.transaction_date, payments.transaction_date),
                       updated_at = NOW()
                   RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`
	var inserted bool
	err := r.db.QueryRow(ctx, query,
		payment.OrderID, payment.ExternalTransactionID, payment.ExternalReference, payment.Amount, payment.Currency,
		payment.Status, payment.Method, payment.MethodType, payment.CardLastFour, payment.CardBrand, payment.RawPayload,
		payment.ErrorMessage, payment.TransactionDate,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt, &inserted)
	if err != nil {
		return false, mapError(err)
	}
	return inserted, nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE external_transaction_id=$1`, transactionID))
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error) {
	return r.query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id=$1 ORDER BY created_at DESC`, orderID)
}

func (r *paymentRepository) List(ctx context.Context, filter model.PaymentFilter, page model.Page) ([]model.Payment, int, error) {
	var b filterBuilder
	if filter.OrderID != nil {
		b.add("order_id = ?", *filter.OrderID)
	}
	if filter.Status != nil {
		b.add("status = ?", *filter.Status)
	}
	if filter.Method != nil {
		b.add("payment_method = ?", *filter.Method)
	}
	if filter.DateFrom != nil {
		b.add("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		b.add("created_at <= ?", *filter.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+b.where(), b.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	limit, args := b.paginate(page.Size, page.Offset())
	payments, err := r.query(ctx, `SELECT `+paymentColumns+` FROM payments`+b.where()+` ORDER BY created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepository) query(ctx context.Context, sql string, args ...any) ([]model.Payment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) Statistics(ctx context.Context) (*model.PaymentStatistics, error) {
	const query = `SELECT
                       COUNT(*),
                       COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED'), 0),
                       COUNT(*) FILTER (WHERE status = 'APPROVED'),
                       COUNT(*) FILTER (WHERE status = 'DECLINED'),
                       COUNT(*) FILTER (WHERE status = 'PENDING')
                   FROM payments`
	var (
		s      model.PaymentStatistics
		amount decimal.Decimal
	)
	err := r.db.QueryRow(ctx, query).Scan(&s.TotalTransactions, &amount, &s.Approved, &s.Declined, &s.Pending)
	if err != nil {
		return nil, err
	}
	s.TotalAmount = amount
	if s.TotalTransactions > 0 {
		s.ApprovalRate = float64(s.Approved) / float64(s.TotalTransactions) * 100
	}
	return &s, nil
}
