package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/service"
)

const defaultQueueSize = 64

// NotificationWorker moves webhook delivery off the request path. Handlers
// registered on the dispatcher only enqueue; one goroutine delivers.
type NotificationWorker struct {
	notifier *service.NotificationService
	logger   *zap.Logger
	queue    chan events.Event
	wg       sync.WaitGroup
	once     sync.Once
}

// StartNotificationWorker subscribes to notified events and starts delivery.
func StartNotificationWorker(dispatcher events.Dispatcher, notifier *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	w := &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, defaultQueueSize),
	}
	for _, eventType := range service.NotifiedEvents {
		dispatcher.Subscribe(eventType, w.enqueue)
	}

	w.wg.Add(1)
	go w.run()
	return w
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID))
	}
	return nil
}

func (w *NotificationWorker) run() {
	defer w.wg.Done()
	for event := range w.queue {
		// Deliveries outlive the request that produced them.
		if err := w.notifier.Handle(context.Background(), event); err != nil {
			w.logger.Debug("notification not delivered", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
}

// Stop drains queued events and waits for delivery to finish.
func (w *NotificationWorker) Stop() {
	w.once.Do(func() { close(w.queue) })
	w.wg.Wait()
}
