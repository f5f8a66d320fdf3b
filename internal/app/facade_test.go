package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fotovariedades/storefront/internal/adapter/wompi"
	"github.com/fotovariedades/storefront/internal/config"
	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	testhelpers "github.com/fotovariedades/storefront/internal/test"
	"github.com/fotovariedades/storefront/internal/usecase"
)

const eventsSecret = "facade_events_secret"

type healthStub struct{ err error }

func (h healthStub) HealthCheck(context.Context) error { return h.err }

type facadeFixture struct {
	facade    *StorefrontFacade
	store     *testhelpers.MemoryStore
	publisher *testhelpers.PublisherRecorder
	mug       model.Product
}

func newFacadeFixture(health HealthChecker) *facadeFixture {
	store := testhelpers.NewMemoryStore()
	publisher := &testhelpers.PublisherRecorder{}
	logger := discardLogger()
	cfg := &config.Config{Currency: "COP", WompiRedirectURL: "https://shop.test/thanks", GatewayTimeout: time.Second}
	mug := store.SeedProduct(model.Product{
		Name: "Mug", Price: decimal.RequireFromString("15000.00"), Category: "gifts", Stock: 5, IsActive: true,
	})

	facade := NewStorefrontFacade(FacadeParams{
		Auth:       usecase.NewAuthUseCase(store.Users(), testhelpers.HasherStub{}, testhelpers.StrategyStub{}),
		Products:   usecase.NewProductUseCase(store),
		Checkout:   usecase.NewCheckoutUseCase(store, &testhelpers.GatewayStub{}, publisher, cfg, logger),
		Webhooks:   usecase.NewWebhookUseCase(store, wompi.NewVerifier(eventsSecret), publisher, logger),
		Redemption: usecase.NewRedemptionUseCase(store, publisher, logger),
		Orders:     usecase.NewOrderUseCase(store, publisher, logger),
		Payments:   usecase.NewPaymentUseCase(store),
		Health:     health,
	})
	return &facadeFixture{facade: facade, store: store, publisher: publisher, mug: mug}
}

func TestFacadePurchaseAndRedeemFlow(t *testing.T) {
	f := newFacadeFixture(healthStub{})
	ctx := context.Background()

	user, token, err := f.facade.Register(ctx, "ana@example.com", "secret123", "Ana")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	customer, err := f.facade.Authorize(ctx, token)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if customer.UserID != user.ID || customer.Role != model.RoleCustomer {
		t.Fatalf("unexpected principal %+v", customer)
	}

	result, err := f.facade.Checkout(ctx, customer, []model.CartLine{{ProductID: f.mug.ID, Quantity: 2}}, "")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !result.TotalAmount.Equal(decimal.RequireFromString("30000.00")) || result.GatewayReference != "link_1" {
		t.Fatalf("unexpected checkout result %+v", result)
	}
	if p, _ := f.store.Product(f.mug.ID); p.Stock != 3 {
		t.Fatalf("expected stock reserved, got %d", p.Stock)
	}

	txID := testhelpers.RandomTransactionID()
	event := testhelpers.WompiEvent{
		TransactionID: txID,
		Reference:     "ref-100",
		PaymentLinkID: result.GatewayReference,
		Status:        "APPROVED",
		AmountInCents: 3000000,
	}
	outcome, err := f.facade.HandleGatewayEvent(ctx, event.Payload(eventsSecret))
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if outcome.Outcome != model.OutcomeApplied || outcome.OrderStatus != model.OrderStatusPaid {
		t.Fatalf("unexpected webhook result %+v", outcome)
	}

	order, err := f.facade.Order(ctx, customer, result.OrderID)
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if order.Status != model.OrderStatusPaid || order.RedemptionCode == "" {
		t.Fatalf("unexpected order %+v", order)
	}

	redeemed, err := f.facade.RedeemOrder(ctx, testhelpers.StaffPrincipal, order.RedemptionCode)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if redeemed.Status != model.OrderStatusRedeemed || redeemed.RedeemedAt == nil {
		t.Fatalf("unexpected redeemed order %+v", redeemed)
	}
	if _, err := f.facade.RedeemOrder(ctx, testhelpers.StaffPrincipal, order.RedemptionCode); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected second redemption to fail, got %v", err)
	}

	payments, err := f.facade.OrderPayments(ctx, customer, result.OrderID)
	if err != nil || len(payments) != 1 || payments[0].ExternalTransactionID != txID {
		t.Fatalf("unexpected payments %+v err=%v", payments, err)
	}
	if payment, err := f.facade.Payment(ctx, txID); err != nil || payment.OrderID != result.OrderID {
		t.Fatalf("unexpected payment lookup %+v err=%v", payment, err)
	}
	orderStats, err := f.facade.OrderStatistics(ctx)
	if err != nil || orderStats.RedeemedOrders != 1 || !orderStats.TotalRevenue.Equal(decimal.RequireFromString("30000")) {
		t.Fatalf("unexpected order statistics %+v err=%v", orderStats, err)
	}
	paymentStats, err := f.facade.PaymentStatistics(ctx)
	if err != nil || paymentStats.Approved != 1 || paymentStats.ApprovalRate != 100 {
		t.Fatalf("unexpected payment statistics %+v err=%v", paymentStats, err)
	}

	var types []model.EventType
	for _, e := range f.publisher.Events() {
		types = append(types, e.Type)
	}
	want := []model.EventType{model.EventOrderCreated, model.EventOrderPaid, model.EventOrderRedeemed}
	if len(types) != len(want) {
		t.Fatalf("unexpected events %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("unexpected events %v", types)
		}
	}
}

func TestFacadeCatalogAndAccounts(t *testing.T) {
	f := newFacadeFixture(healthStub{})
	ctx := context.Background()

	created, err := f.facade.CreateProduct(ctx, model.Product{Name: "Frame", Price: decimal.NewFromInt(9000), Stock: 1, IsActive: true})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	stock, err := f.facade.AdjustInventory(ctx, created.ID, 4)
	if err != nil || stock != 5 {
		t.Fatalf("adjust inventory: stock=%d err=%v", stock, err)
	}
	if err := f.facade.DeactivateProduct(ctx, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.facade.Product(ctx, nil, created.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected inactive product hidden, got %v", err)
	}
	products, total, err := f.facade.Products(ctx, nil, model.ProductFilter{}, model.Page{Number: 1, Size: 20})
	if err != nil || total != 1 || len(products) != 1 || products[0].ID != f.mug.ID {
		t.Fatalf("unexpected catalog %+v total=%d err=%v", products, total, err)
	}

	staff, err := f.facade.CreateUser(ctx, "staff@example.com", "secret123", "Staff", model.RoleStaff)
	if err != nil || staff.Role != model.RoleStaff {
		t.Fatalf("create user: %+v err=%v", staff, err)
	}
	users, total, err := f.facade.Users(ctx, model.Page{Number: 1, Size: 20})
	if err != nil || total != 1 || len(users) != 1 {
		t.Fatalf("unexpected users %+v total=%d err=%v", users, total, err)
	}
	if f.facade.TokenTTL() <= 0 {
		t.Fatal("expected positive token ttl")
	}
}

func TestFacadeHealthCheck(t *testing.T) {
	if err := newFacadeFixture(healthStub{}).facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}
	down := errors.New("db down")
	if err := newFacadeFixture(healthStub{err: down}).facade.HealthCheck(context.Background()); !errors.Is(err, down) {
		t.Fatalf("expected health error, got %v", err)
	}
}
