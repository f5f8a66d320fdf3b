package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/domain/repository"
)

// MemoryStore is an in-memory repository.Factory. Transactions are serialized
// and a failed transaction restores the state it started from.
type MemoryStore struct {
	// Fail is consulted before every repository call with an operation name
	// such as "orders.Create"; a non-nil result is returned from that call.
	Fail func(op string) error

	txMu sync.Mutex
	mu   sync.Mutex
	data memoryData

	commits   int
	rollbacks int
}

type memoryData struct {
	users       map[int64]model.User
	products    map[int64]model.Product
	orders      map[uuid.UUID]model.Order
	payments    map[string]model.Payment
	nextUser    int64
	nextProduct int64
	nextItem    int64
	nextPayment int64
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memoryData{
		users:    make(map[int64]model.User),
		products: make(map[int64]model.Product),
		orders:   make(map[uuid.UUID]model.Order),
		payments: make(map[string]model.Payment),
	}}
}

func (d memoryData) clone() memoryData {
	c := d
	c.users = make(map[int64]model.User, len(d.users))
	for k, v := range d.users {
		c.users[k] = v
	}
	c.products = make(map[int64]model.Product, len(d.products))
	for k, v := range d.products {
		c.products[k] = v
	}
	c.orders = make(map[uuid.UUID]model.Order, len(d.orders))
	for k, v := range d.orders {
		c.orders[k] = copyOrder(v)
	}
	c.payments = make(map[string]model.Payment, len(d.payments))
	for k, v := range d.payments {
		c.payments[k] = v
	}
	return c
}

func copyOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

// WithinTransaction runs fn while holding the transaction lock.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if err := s.fail("tx.Begin"); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.rollbacks++
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.commits++
	s.mu.Unlock()
	return nil
}

// Users returns the user repository.
func (s *MemoryStore) Users() repository.UserRepository { return memUsers{s} }

// Products returns the product repository.
func (s *MemoryStore) Products() repository.ProductRepository { return memProducts{s} }

// Orders returns the order repository.
func (s *MemoryStore) Orders() repository.OrderRepository { return memOrders{s} }

// Payments returns the payment repository.
func (s *MemoryStore) Payments() repository.PaymentRepository { return memPayments{s} }

// Commits reports the number of committed transactions.
func (s *MemoryStore) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Rollbacks reports the number of rolled back transactions.
func (s *MemoryStore) Rollbacks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbacks
}

// SeedUser stores u and returns it with an identifier assigned.
func (s *MemoryStore) SeedUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextUser++
	u.ID = s.data.nextUser
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.data.users[u.ID] = u
	return u
}

// SeedProduct stores p and returns it with an identifier assigned.
func (s *MemoryStore) SeedProduct(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextProduct++
	p.ID = s.data.nextProduct
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.data.products[p.ID] = p
	return p
}

// SeedOrder stores o as is, assigning item identifiers.
func (s *MemoryStore) SeedOrder(o model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o = copyOrder(o)
	for i := range o.Items {
		s.data.nextItem++
		o.Items[i].ID = s.data.nextItem
		o.Items[i].OrderID = o.ID
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	s.data.orders[o.ID] = o
	return o
}

// Product returns the stored product with id.
func (s *MemoryStore) Product(id int64) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[id]
	return p, ok
}

// Order returns the stored order with id.
func (s *MemoryStore) Order(id uuid.UUID) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data.orders[id]
	return copyOrder(o), ok
}

// User returns the stored user with id.
func (s *MemoryStore) User(id int64) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[id]
	return u, ok
}

// Payment returns the stored payment for an external transaction id.
func (s *MemoryStore) Payment(transactionID string) (model.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.payments[transactionID]
	return p, ok
}

// OrderCount reports the number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

// PaymentCount reports the number of stored payments.
func (s *MemoryStore) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.payments)
}

func (s *MemoryStore) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func (s *MemoryStore) lock(op string) error {
	if err := s.fail(op); err != nil {
		return err
	}
	s.mu.Lock()
	return nil
}

func paginate[T any](items []T, page model.Page) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) Create(_ context.Context, u *model.User) error {
	if err := r.s.lock("users.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return domainErrors.ErrAlreadyExists
		}
	}
	r.s.data.nextUser++
	u.ID = r.s.data.nextUser
	u.CreatedAt = time.Now()
	r.s.data.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if err := r.s.lock("users.GetByEmail"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if err := r.s.lock("users.GetByID"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) List(_ context.Context, page model.Page) ([]model.User, int, error) {
	if err := r.s.lock("users.List"); err != nil {
		return nil, 0, err
	}
	defer r.s.mu.Unlock()
	all := make([]model.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), len(all), nil
}

func (r memUsers) Update(_ context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	if err := r.s.lock("users.Update"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	now := time.Now()
	u.UpdatedAt = &now
	r.s.data.users[id] = u
	return &u, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	if err := r.s.lock("users.UpdatePassword"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	u.PasswordHash = hash
	r.s.data.users[id] = u
	return nil
}

type memProducts struct{ s *MemoryStore }

func (r memProducts) Create(_ context.Context, p *model.Product) error {
	if err := r.s.lock("products.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	r.s.data.nextProduct++
	p.ID = r.s.data.nextProduct
	p.CreatedAt = time.Now()
	r.s.data.products[p.ID] = *p
	return nil
}

func (r memProducts) GetByID(_ context.Context, id int64) (*model.Product, error) {
	if err := r.s.lock("products.GetByID"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) List(_ context.Context, f model.ProductFilter, page model.Page) ([]model.Product, int, error) {
	if err := r.s.lock("products.List"); err != nil {
		return nil, 0, err
	}
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var matched []model.Product
	for _, p := range r.s.data.products {
		switch {
		case !f.IncludeInactive && !p.IsActive:
		case search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), search):
		case f.Category != "" && !strings.EqualFold(f.Category, p.Category):
		case f.MinPrice != nil && p.Price.LessThan(*f.MinPrice):
		case f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice):
		case f.InStock != nil && *f.InStock != (p.Stock > 0):
		default:
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, page), len(matched), nil
}

func (r memProducts) Update(_ context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if err := r.s.lock("products.Update"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	now := time.Now()
	p.UpdatedAt = &now
	r.s.data.products[id] = p
	return &p, nil
}

func (r memProducts) LockForUpdate(_ context.Context, ids []int64) ([]model.Product, error) {
	if err := r.s.lock("products.LockForUpdate"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	var result []model.Product
	for _, id := range ids {
		if p, ok := r.s.data.products[id]; ok {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r memProducts) AdjustStock(_ context.Context, id int64, delta int) (int, error) {
	if err := r.s.lock("products.AdjustStock"); err != nil {
		return 0, err
	}
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, domainErrors.ErrInsufficientStock
	}
	p.Stock += delta
	r.s.data.products[id] = p
	return p.Stock, nil
}

type memOrders struct{ s *MemoryStore }

func (r memOrders) Create(_ context.Context, o *model.Order) error {
	if err := r.s.lock("orders.Create"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	if _, exists := r.s.data.orders[o.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	for _, existing := range r.s.data.orders {
		if existing.RedemptionCode == o.RedemptionCode {
			return domainErrors.ErrAlreadyExists
		}
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	for i := range o.Items {
		r.s.data.nextItem++
		o.Items[i].ID = r.s.data.nextItem
		o.Items[i].OrderID = o.ID
	}
	r.s.data.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r memOrders) SetGatewayReference(_ context.Context, id uuid.UUID, reference string) error {
	if err := r.s.lock("orders.SetGatewayReference"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	for _, existing := range r.s.data.orders {
		if existing.ID != id && existing.Reference() == reference {
			return domainErrors.ErrAlreadyExists
		}
	}
	o.GatewayReference = &reference
	r.s.data.orders[id] = o
	return nil
}

func (r memOrders) find(op string, match func(model.Order) bool) (*model.Order, error) {
	if err := r.s.lock(op); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	for _, o := range r.s.data.orders {
		if match(o) {
			found := copyOrder(o)
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memOrders) GetByID(_ context.Context, id uuid.UUID, _ bool) (*model.Order, error) {
	return r.find("orders.GetByID", func(o model.Order) bool { return o.ID == id })
}

func (r memOrders) GetByRedemptionCode(_ context.Context, code string, _ bool) (*model.Order, error) {
	return r.find("orders.GetByRedemptionCode", func(o model.Order) bool { return o.RedemptionCode == code })
}

func (r memOrders) GetByGatewayReference(_ context.Context, reference string, _ bool) (*model.Order, error) {
	return r.find("orders.GetByGatewayReference", func(o model.Order) bool {
		return o.GatewayReference != nil && *o.GatewayReference == reference
	})
}

func (r memOrders) ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.Order, int, error) {
	return r.List(ctx, model.OrderFilter{UserID: &userID}, page)
}

func (r memOrders) List(_ context.Context, f model.OrderFilter, page model.Page) ([]model.Order, int, error) {
	if err := r.s.lock("orders.List"); err != nil {
		return nil, 0, err
	}
	defer r.s.mu.Unlock()
	var matched []model.Order
	for _, o := range r.s.data.orders {
		switch {
		case f.UserID != nil && o.UserID != *f.UserID:
		case f.Status != nil && o.Status != *f.Status:
		case f.IsRedeemed != nil && *f.IsRedeemed != (o.RedeemedAt != nil):
		case f.DateFrom != nil && o.CreatedAt.Before(*f.DateFrom):
		case f.DateTo != nil && o.CreatedAt.After(*f.DateTo):
		default:
			matched = append(matched, copyOrder(o))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, page), len(matched), nil
}

func (r memOrders) TransitionStatus(_ context.Context, id uuid.UUID, from, to model.OrderStatus, at time.Time) error {
	if !from.CanTransitionTo(to) {
		return domainErrors.ErrInvalidStateTransition
	}
	if err := r.s.lock("orders.TransitionStatus"); err != nil {
		return err
	}
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok || o.Status != from {
		return domainErrors.ErrInvalidStateTransition
	}
	o.Status = to
	o.UpdatedAt = at
	if to == model.OrderStatusRedeemed {
		o.RedeemedAt = &at
	}
	r.s.data.orders[id] = o
	return nil
}

func (r memOrders) Statistics(context.Context) (*model.OrderStatistics, error) {
	if err := r.s.lock("orders.Statistics"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	stats := &model.OrderStatistics{TotalRevenue: decimal.Zero, AverageOrderValue: decimal.Zero}
	for _, o := range r.s.data.orders {
		stats.TotalOrders++
		switch o.Status {
		case model.OrderStatusPending:
			stats.PendingOrders++
		case model.OrderStatusPaid:
			stats.PaidOrders++
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		case model.OrderStatusRedeemed:
			stats.RedeemedOrders++
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		case model.OrderStatusFailed:
			stats.FailedOrders++
		case model.OrderStatusCancelled:
			stats.CancelledOrders++
		}
	}
	if settled := stats.PaidOrders + stats.RedeemedOrders; settled > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.DivRound(decimal.NewFromInt(int64(settled)), 2)
	}
	return stats, nil
}

type memPayments struct{ s *MemoryStore }

func (r memPayments) Upsert(_ context.Context, p *model.Payment) (bool, error) {
	if err := r.s.lock("payments.Upsert"); err != nil {
		return false, err
	}
	defer r.s.mu.Unlock()
	now := time.Now()
	existing, ok := r.s.data.payments[p.ExternalTransactionID]
	if !ok {
		r.s.data.nextPayment++
		p.ID = r.s.data.nextPayment
		p.CreatedAt = now
		p.UpdatedAt = nil
		r.s.data.payments[p.ExternalTransactionID] = *p
		return true, nil
	}

	existing.Status = p.Status
	if p.Method != nil {
		existing.Method = p.Method
	}
	if p.CardLastFour != nil {
		existing.CardLastFour = p.CardLastFour
	}
	if p.CardBrand != nil {
		existing.CardBrand = p.CardBrand
	}
	if p.TransactionDate != nil {
		existing.TransactionDate = p.TransactionDate
	}
	existing.RawPayload = p.RawPayload
	existing.ErrorMessage = p.ErrorMessage
	existing.UpdatedAt = &now
	r.s.data.payments[p.ExternalTransactionID] = existing
	*p = existing
	return false, nil
}

func (r memPayments) GetByTransactionID(_ context.Context, transactionID string) (*model.Payment, error) {
	if err := r.s.lock("payments.GetByTransactionID"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	p, ok := r.s.data.payments[transactionID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &p, nil
}

func (r memPayments) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Payment, error) {
	payments, _, err := r.List(ctx, model.PaymentFilter{OrderID: &orderID}, model.Page{Size: model.MaxPageSize})
	return payments, err
}

func (r memPayments) List(_ context.Context, f model.PaymentFilter, page model.Page) ([]model.Payment, int, error) {
	if err := r.s.lock("payments.List"); err != nil {
		return nil, 0, err
	}
	defer r.s.mu.Unlock()
	var matched []model.Payment
	for _, p := range r.s.data.payments {
		switch {
		case f.OrderID != nil && p.OrderID != *f.OrderID:
		case f.Status != nil && p.Status != *f.Status:
		case f.Method != nil && (p.Method == nil || *p.Method != *f.Method):
		case f.DateFrom != nil && p.CreatedAt.Before(*f.DateFrom):
		case f.DateTo != nil && p.CreatedAt.After(*f.DateTo):
		default:
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, page), len(matched), nil
}

func (r memPayments) Statistics(context.Context) (*model.PaymentStatistics, error) {
	if err := r.s.lock("payments.Statistics"); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()
	stats := &model.PaymentStatistics{TotalAmount: decimal.Zero}
	for _, p := range r.s.data.payments {
		stats.TotalTransactions++
		switch p.Status {
		case model.PaymentStatusApproved:
			stats.Approved++
			stats.TotalAmount = stats.TotalAmount.Add(p.Amount)
		case model.PaymentStatusDeclined:
			stats.Declined++
		case model.PaymentStatusPending:
			stats.Pending++
		}
	}
	if stats.TotalTransactions > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(stats.TotalTransactions) * 100
	}
	return stats, nil
}
