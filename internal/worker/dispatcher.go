package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fotovariedades/storefront/internal/domain/model"
)

// Notifier delivers order events to one downstream consumer.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, event model.OrderEvent) error
}

// Dispatcher fans committed order events out to notifiers from a bounded
// queue served by a fixed pool of workers.
type Dispatcher struct {
	notifiers []Notifier
	workers   int
	logger    *slog.Logger

	jobs    chan model.OrderEvent
	dropped atomic.Int64
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
}

// NewDispatcher constructs the notification worker pool.
func NewDispatcher(notifiers []Notifier, queueSize, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		notifiers: notifiers,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan model.OrderEvent, queueSize),
	}
}

// Start launches the workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop delivers what is already queued and waits for all workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Publish enqueues event without blocking. Events are dropped when the queue is full.
func (d *Dispatcher) Publish(event model.OrderEvent) {
	select {
	case d.jobs <- event:
	default:
		d.dropped.Add(1)
		d.logger.Warn("notification queue full, dropping event",
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.OrderID.String()),
		)
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case event := <-d.jobs:
			d.deliver(ctx, event)
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case event := <-d.jobs:
			d.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event model.OrderEvent) {
	for _, n := range d.notifiers {
		if err := safeNotify(ctx, n, event); err != nil {
			d.logger.Error("notifier failed",
				slog.String("notifier", n.Name()),
				slog.String("type", string(event.Type)),
				slog.String("order_id", event.OrderID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

func safeNotify(ctx context.Context, n Notifier, event model.OrderEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return n.Notify(ctx, event)
}

// LogNotifier writes every event as a structured log line.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string { return "log" }

// Notify logs the event.
func (n *LogNotifier) Notify(ctx context.Context, event model.OrderEvent) error {
	n.logger.InfoContext(ctx, "order event",
		slog.String("type", string(event.Type)),
		slog.String("order_id", event.OrderID.String()),
		slog.Int64("user_id", event.UserID),
		slog.String("status", string(event.Status)),
		slog.String("total", event.TotalAmount.StringFixed(2)),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
