package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fotovariedades/storefront/internal/adapter/wompi"
	"github.com/fotovariedades/storefront/internal/config"
	"github.com/fotovariedades/storefront/internal/domain/model"
	testhelpers "github.com/fotovariedades/storefront/internal/test"
)

const eventsSecret = "test_events_secret"

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Currency:         "COP",
		WompiRedirectURL: "https://shop.test/thanks",
		GatewayTimeout:   time.Second,
	}
}

type fixture struct {
	store     *testhelpers.MemoryStore
	gateway   *testhelpers.GatewayStub
	publisher *testhelpers.PublisherRecorder
	mug       model.Product
	poster    model.Product
}

func newFixture() *fixture {
	store := testhelpers.NewMemoryStore()
	return &fixture{
		store:     store,
		gateway:   &testhelpers.GatewayStub{},
		publisher: &testhelpers.PublisherRecorder{},
		mug: store.SeedProduct(model.Product{
			Name: "Mug", Price: decimal.RequireFromString("15000.00"), Category: "gifts", Stock: 5, IsActive: true,
		}),
		poster: store.SeedProduct(model.Product{
			Name: "Poster", Price: decimal.RequireFromString("4500.50"), Category: "prints", Stock: 2, IsActive: true,
		}),
	}
}

func (f *fixture) checkout() *CheckoutUseCase {
	uc := NewCheckoutUseCase(f.store, f.gateway, f.publisher, testConfig(), testLogger())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) webhook() *WebhookUseCase {
	uc := NewWebhookUseCase(f.store, wompi.NewVerifier(eventsSecret), f.publisher, testLogger())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) redemption() *RedemptionUseCase {
	uc := NewRedemptionUseCase(f.store, f.publisher, testLogger())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) orders() *OrderUseCase {
	uc := NewOrderUseCase(f.store, f.publisher, testLogger())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

// seedOrder stores an order for the customer holding qty mugs in status.
func (f *fixture) seedOrder(status model.OrderStatus, qty int) model.Order {
	code, err := GenerateRedemptionCode()
	if err != nil {
		panic(err)
	}
	ref := "link_seed_" + code
	items := []model.OrderItem{{ProductID: f.mug.ID, ProductName: f.mug.Name, Quantity: qty, PriceAtPurchase: f.mug.Price}}
	return f.store.SeedOrder(model.Order{
		ID:               uuid.New(),
		UserID:           testhelpers.CustomerPrincipal.UserID,
		TotalAmount:      model.SumItems(items),
		Status:           status,
		GatewayReference: &ref,
		RedemptionCode:   code,
		Items:            items,
	})
}
