package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		legal    bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusFailed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusRedeemed, true},
		{OrderStatusPaid, OrderStatusFailed, false},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusFailed, OrderStatusPaid, false},
		{OrderStatusRedeemed, OrderStatusPaid, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
		{OrderStatusPending, OrderStatusRedeemed, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.legal {
				t.Fatalf("expected %v, got %v", tc.legal, got)
			}
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusFailed, OrderStatusRedeemed, OrderStatusCancelled} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPaid} {
		if s.Terminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, ok := ParseOrderStatus(" paid "); !ok || s != OrderStatusPaid {
		t.Fatalf("expected PAID, got %q ok=%v", s, ok)
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestPaymentStatusOrderOutcome(t *testing.T) {
	cases := []struct {
		status  PaymentStatus
		want    OrderStatus
		changes bool
	}{
		{PaymentStatusApproved, OrderStatusPaid, true},
		{PaymentStatusDeclined, OrderStatusFailed, true},
		{PaymentStatusError, OrderStatusFailed, true},
		{PaymentStatusVoided, OrderStatusFailed, true},
		{PaymentStatusPending, "", false},
	}
	for _, tc := range cases {
		got, ok := tc.status.OrderOutcome()
		if got != tc.want || ok != tc.changes {
			t.Errorf("%s: expected (%q,%v), got (%q,%v)", tc.status, tc.want, tc.changes, got, ok)
		}
	}
}

func TestParsePaymentValues(t *testing.T) {
	if s, ok := ParsePaymentStatus("approved"); !ok || s != PaymentStatusApproved {
		t.Fatalf("unexpected status %q ok=%v", s, ok)
	}
	if _, ok := ParsePaymentStatus("REFUNDED"); ok {
		t.Fatal("expected unknown payment status to be rejected")
	}
	if m, ok := ParsePaymentMethod("nequi"); !ok || m != PaymentMethodNequi {
		t.Fatalf("unexpected method %q ok=%v", m, ok)
	}
	if _, ok := ParsePaymentMethod("DAVIPLATA"); ok {
		t.Fatal("expected unknown method to be rejected")
	}
}

func TestRolePermissions(t *testing.T) {
	if !RoleAdmin.Can(PermManageUsers) {
		t.Error("admin must manage users")
	}
	if RoleStaff.Can(PermManageUsers) {
		t.Error("staff must not manage users")
	}
	if !RoleStaff.Can(PermRedeemOrders) {
		t.Error("staff must redeem orders")
	}
	if RoleCustomer.Can(PermRedeemOrders) {
		t.Error("customer must not redeem orders")
	}
	if !RoleCustomer.Can(PermPlaceOrders) {
		t.Error("customer must place orders")
	}
	if Role("ROOT").Can(PermPlaceOrders) {
		t.Error("unknown role must have no permissions")
	}

	if r, ok := ParseRole("staff"); !ok || r != RoleStaff {
		t.Fatalf("expected STAFF, got %q ok=%v", r, ok)
	}
	if _, ok := ParseRole("owner"); ok {
		t.Fatal("expected unknown role to be rejected")
	}

	p := Principal{UserID: 1, Role: RoleStaff}
	if !p.Can(PermViewAllOrders) {
		t.Fatal("expected principal to inherit role permissions")
	}
}

func TestOrderAmounts(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, PriceAtPurchase: decimal.RequireFromString("10000.50")},
		{Quantity: 1, PriceAtPurchase: decimal.RequireFromString("2500.25")},
	}
	total := SumItems(items)
	if !total.Equal(decimal.RequireFromString("22501.25")) {
		t.Fatalf("unexpected total %s", total)
	}

	order := Order{TotalAmount: total}
	if cents := order.AmountInCents(); cents != 2250125 {
		t.Fatalf("unexpected cents %d", cents)
	}
	if order.Reference() != "" {
		t.Fatal("expected empty reference")
	}
	ref := "link_1"
	order.GatewayReference = &ref
	if order.Reference() != "link_1" {
		t.Fatalf("unexpected reference %q", order.Reference())
	}
}

func TestProductAvailable(t *testing.T) {
	p := Product{IsActive: true, Stock: 3}
	if !p.Available(3) {
		t.Error("expected exact stock to be available")
	}
	if p.Available(4) {
		t.Error("expected over-stock quantity to be unavailable")
	}
	if p.Available(0) {
		t.Error("expected zero quantity to be unavailable")
	}
	p.IsActive = false
	if p.Available(1) {
		t.Error("expected inactive product to be unavailable")
	}
}

func TestPageNormalize(t *testing.T) {
	p := Page{}.Normalize()
	if p.Number != 1 || p.Size != DefaultPageSize {
		t.Fatalf("unexpected defaults %+v", p)
	}
	p = Page{Number: 3, Size: 500}.Normalize()
	if p.Size != MaxPageSize {
		t.Fatalf("expected size clamp, got %d", p.Size)
	}
	if off := (Page{Number: 3, Size: 10}).Offset(); off != 20 {
		t.Fatalf("expected offset 20, got %d", off)
	}
	if pages := (Page{Size: 10}).TotalPages(21); pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
	if pages := (Page{Size: 10}).TotalPages(0); pages != 0 {
		t.Fatalf("expected 0 pages, got %d", pages)
	}
}

func TestNewOrderEvent(t *testing.T) {
	ref := "ref-1"
	order := Order{ID: uuid.New(), UserID: 4, Status: OrderStatusPaid, TotalAmount: decimal.NewFromInt(100), GatewayReference: &ref}
	at := time.Unix(10, 0)
	ev := NewOrderEvent(order, at)
	if ev.Type != EventOrderPaid || ev.OrderID != order.ID || ev.Reference != ref || !ev.OccurredAt.Equal(at) {
		t.Fatalf("unexpected event %+v", ev)
	}
	if EventForStatus(OrderStatusPending) != EventOrderCreated {
		t.Fatal("expected pending orders to map to created event")
	}
}
