package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.OrderEvent
	err    error
	panic  bool
	block  chan struct{}
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, event model.OrderEvent) error {
	if n.block != nil {
		<-n.block
	}
	if n.panic {
		panic("boom")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newEvent(status model.OrderStatus) model.OrderEvent {
	return model.NewOrderEvent(model.Order{
		ID:          uuid.New(),
		UserID:      3,
		Status:      status,
		TotalAmount: decimal.NewFromInt(15000),
	}, time.Now())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewDispatcherDefaults(t *testing.T) {
	d := NewDispatcher(nil, 0, 0, discardLogger())
	if d.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", d.workers)
	}
	if cap(d.jobs) != 1 {
		t.Fatalf("expected queue size default to 1, got %d", cap(d.jobs))
	}
}

func TestDispatcherDeliversToAllNotifiers(t *testing.T) {
	first := &recordingNotifier{}
	failing := &recordingNotifier{err: errors.New("unreachable")}
	panicking := &recordingNotifier{panic: true}
	last := &recordingNotifier{}
	d := NewDispatcher([]Notifier{first, failing, panicking, last}, 8, 2, discardLogger())

	d.Start(context.Background())
	defer d.Stop()

	for i := 0; i < 3; i++ {
		d.Publish(newEvent(model.OrderStatusPaid))
	}
	waitFor(t, func() bool { return first.count() == 3 && last.count() == 3 })
	if failing.count() != 3 {
		t.Fatalf("expected failing notifier to still receive events, got %d", failing.count())
	}
}

func TestDispatcherPublishNeverBlocks(t *testing.T) {
	block := make(chan struct{})
	slow := &recordingNotifier{block: block}
	d := NewDispatcher([]Notifier{slow}, 1, 1, discardLogger())
	d.Start(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Publish(newEvent(model.OrderStatusPending))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
	if d.Dropped() == 0 {
		t.Fatal("expected events to be dropped")
	}

	close(block)
	d.Stop()
}

func TestDispatcherStopDrainsQueue(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher([]Notifier{n}, 16, 1, discardLogger())
	for i := 0; i < 5; i++ {
		d.Publish(newEvent(model.OrderStatusRedeemed))
	}
	d.Start(context.Background())
	d.Stop()
	if n.count() != 5 {
		t.Fatalf("expected queued events delivered on stop, got %d", n.count())
	}
	d.Stop()
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))
	event := newEvent(model.OrderStatusPaid)
	if err := n.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"type":"order.paid"`) || !strings.Contains(out, event.OrderID.String()) || !strings.Contains(out, `"total":"15000.00"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if n.Name() != "log" {
		t.Fatalf("unexpected name %q", n.Name())
	}
}
