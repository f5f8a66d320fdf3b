package usecase

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/fotovariedades/storefront/internal/domain/errors"
	"github.com/fotovariedades/storefront/internal/domain/model"
	testhelpers "github.com/fotovariedades/storefront/internal/test"
)

func TestOrderUseCaseVisibility(t *testing.T) {
	f := newFixture()
	order := f.seedOrder(model.OrderStatusPending, 1)
	uc := f.orders()
	ctx := context.Background()

	if got, err := uc.Get(ctx, testhelpers.CustomerPrincipal, order.ID); err != nil || got.ID != order.ID {
		t.Fatalf("owner should see order: %+v err=%v", got, err)
	}
	if _, err := uc.Get(ctx, testhelpers.StaffPrincipal, order.ID); err != nil {
		t.Fatalf("staff should see order: %v", err)
	}
	stranger := model.Principal{UserID: 77, Role: model.RoleCustomer}
	if _, err := uc.Get(ctx, stranger, order.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected other customers to get not found, got %v", err)
	}
	if _, err := uc.Get(ctx, testhelpers.CustomerPrincipal, uuid.New()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderUseCaseListing(t *testing.T) {
	f := newFixture()
	f.seedOrder(model.OrderStatusPending, 1)
	f.seedOrder(model.OrderStatusPaid, 1)
	f.store.SeedOrder(model.Order{ID: uuid.New(), UserID: 77, TotalAmount: decimal.NewFromInt(5), Status: model.OrderStatusPaid, RedemptionCode: "X"})
	uc := f.orders()
	ctx := context.Background()

	mine, total, err := uc.ListMine(ctx, testhelpers.CustomerPrincipal, model.Page{})
	if err != nil || total != 2 || len(mine) != 2 {
		t.Fatalf("unexpected own orders: total=%d err=%v", total, err)
	}

	paid := model.OrderStatusPaid
	all, total, err := uc.List(ctx, model.OrderFilter{Status: &paid}, model.Page{Size: 1})
	if err != nil || total != 2 || len(all) != 1 {
		t.Fatalf("unexpected admin list: len=%d total=%d err=%v", len(all), total, err)
	}

	from, to := time.Now(), time.Now().Add(-time.Hour)
	if _, _, err := uc.List(ctx, model.OrderFilter{DateFrom: &from, DateTo: &to}, model.Page{}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}

	stats, err := uc.Statistics(ctx)
	if err != nil || stats.TotalOrders != 3 || stats.PaidOrders != 2 || stats.PendingOrders != 1 {
		t.Fatalf("unexpected stats: %+v err=%v", stats, err)
	}
	if stats.TotalRevenue.StringFixed(2) != "15005.00" {
		t.Fatalf("unexpected revenue %s", stats.TotalRevenue)
	}
}

func TestOrderUseCaseCancel(t *testing.T) {
	f := newFixture()
	order := f.seedOrder(model.OrderStatusPending, 2)
	uc := f.orders()
	ctx := context.Background()

	stranger := model.Principal{UserID: 77, Role: model.RoleCustomer}
	if _, err := uc.Cancel(ctx, stranger, order.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for other customers, got %v", err)
	}
	if _, err := uc.Cancel(ctx, testhelpers.StaffPrincipal, order.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("staff may not cancel orders, got %v", err)
	}

	cancelled, err := uc.Cancel(ctx, testhelpers.CustomerPrincipal, order.ID)
	if err != nil || cancelled.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected cancel: %+v err=%v", cancelled, err)
	}
	if mug, _ := f.store.Product(f.mug.ID); mug.Stock != 7 {
		t.Fatalf("expected stock released, got %d", mug.Stock)
	}
	if events := f.publisher.Events(); len(events) != 1 || events[0].Type != model.EventOrderCancelled {
		t.Fatalf("unexpected events: %+v", events)
	}

	if _, err := uc.Cancel(ctx, testhelpers.CustomerPrincipal, order.ID); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected invalid state on second cancel, got %v", err)
	}

	paid := f.seedOrder(model.OrderStatusPaid, 1)
	if _, err := uc.Cancel(ctx, testhelpers.AdminPrincipal, paid.ID); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected paid orders to be non cancellable, got %v", err)
	}

	pending := f.seedOrder(model.OrderStatusPending, 1)
	if _, err := uc.Cancel(ctx, testhelpers.AdminPrincipal, pending.ID); err != nil {
		t.Fatalf("admin should cancel any pending order: %v", err)
	}
}

func TestOrderUseCaseQRCode(t *testing.T) {
	f := newFixture()
	paid := f.seedOrder(model.OrderStatusPaid, 1)
	pending := f.seedOrder(model.OrderStatusPending, 1)
	uc := f.orders()
	ctx := context.Background()

	data, err := uc.QRCode(ctx, testhelpers.CustomerPrincipal, paid.ID, 128)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("expected png: %v", err)
	}

	if _, err := uc.QRCode(ctx, testhelpers.CustomerPrincipal, pending.ID, 0); !errors.Is(err, domainErrors.ErrInvalidState) {
		t.Fatalf("expected invalid state for unpaid order, got %v", err)
	}
	if _, err := uc.QRCode(ctx, model.Principal{UserID: 77, Role: model.RoleCustomer}, paid.ID, 0); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
}

func TestOrderUseCasePayments(t *testing.T) {
	f := newFixture()
	order := f.seedOrder(model.OrderStatusPending, 1)
	if _, err := f.webhook().Handle(context.Background(), approvedEvent(order, "T1").Payload(eventsSecret)); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	uc := f.orders()

	payments, err := uc.Payments(context.Background(), testhelpers.CustomerPrincipal, order.ID)
	if err != nil || len(payments) != 1 || payments[0].ExternalTransactionID != "T1" {
		t.Fatalf("unexpected payments: %+v err=%v", payments, err)
	}
	if _, err := uc.Payments(context.Background(), model.Principal{UserID: 77, Role: model.RoleCustomer}, order.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
}

func TestPaymentUseCase(t *testing.T) {
	f := newFixture()
	first := f.seedOrder(model.OrderStatusPending, 1)
	second := f.seedOrder(model.OrderStatusPending, 1)
	wh := f.webhook()
	if _, err := wh.Handle(context.Background(), approvedEvent(first, "T1").Payload(eventsSecret)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	declined := approvedEvent(second, "T2")
	declined.Status = "DECLINED"
	if _, err := wh.Handle(context.Background(), declined.Payload(eventsSecret)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uc := NewPaymentUseCase(f.store)
	status := model.PaymentStatusApproved
	list, total, err := uc.List(context.Background(), model.PaymentFilter{Status: &status}, model.Page{})
	if err != nil || total != 1 || list[0].ExternalTransactionID != "T1" {
		t.Fatalf("unexpected list: %+v total=%d err=%v", list, total, err)
	}

	from, to := time.Now(), time.Now().Add(-time.Minute)
	if _, _, err := uc.List(context.Background(), model.PaymentFilter{DateFrom: &from, DateTo: &to}, model.Page{}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, err := uc.Get(context.Background(), " T2 ")
	if err != nil || got.OrderID != second.ID || got.Status != model.PaymentStatusDeclined {
		t.Fatalf("unexpected payment: %+v err=%v", got, err)
	}
	if _, err := uc.Get(context.Background(), "T9"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Get(context.Background(), " "); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stats, err := uc.Statistics(context.Background())
	if err != nil || stats.TotalTransactions != 2 || stats.Approved != 1 || stats.Declined != 1 || stats.ApprovalRate != 50 {
		t.Fatalf("unexpected stats: %+v err=%v", stats, err)
	}
	if !stats.TotalAmount.Equal(first.TotalAmount) {
		t.Fatalf("unexpected approved amount %s", stats.TotalAmount)
	}
}
