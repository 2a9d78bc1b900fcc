package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/notify"
)

// ErrQueueFull is returned when a notice cannot be queued without blocking.
var ErrQueueFull = errors.New("notification queue is full")

// ErrStopped is returned when enqueueing after Stop.
var ErrStopped = errors.New("notification worker stopped")

const defaultSendTimeout = 15 * time.Second

// NotificationWorker sends resolution notices off the request path. Results are
// only logged; nothing is retried.
type NotificationWorker struct {
	sender notify.Sender
	logger *zap.Logger
	jobs   chan notify.ResolutionNotice

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
	once    sync.Once

	// Sent is invoked after every attempt. Set it before Start.
	Sent func(notice notify.ResolutionNotice, ok bool)
}

// NewNotificationWorker creates a worker with the given queue size.
func NewNotificationWorker(sender notify.Sender, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		sender: sender,
		logger: logger,
		jobs:   make(chan notify.ResolutionNotice, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the consumer goroutine.
func (w *NotificationWorker) Start() {
	go w.run()
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for notice := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), defaultSendTimeout)
		ok := w.sender.SendResolutionNotification(ctx, notice)
		cancel()
		if !ok {
			w.logger.Warn("resolution notice not delivered", zap.String("ticket_id", notice.TicketID))
		}
		if w.Sent != nil {
			w.Sent(notice, ok)
		}
	}
}

// Enqueue queues a notice without blocking the caller.
func (w *NotificationWorker) Enqueue(notice notify.ResolutionNotice) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.jobs <- notice:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new notices and waits for queued ones to finish or ctx to expire.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.once.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.jobs)
		w.mu.Unlock()
	})
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
