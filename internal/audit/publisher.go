package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher captures structured audit events. Emission is asynchronous so a
// slow sink never blocks webhook processing; events are dropped with a log
// line when the inbox is full rather than applying backpressure.
type Publisher struct {
	store  Store
	logger *slog.Logger
	inbox  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

const defaultInboxSize = 256

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	p := &Publisher{
		store:  store,
		logger: logger,
		inbox:  make(chan Event, defaultInboxSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Emit queues an event for persistence. Never blocks.
func (p *Publisher) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit inbox full, dropping event",
			"provider", event.Provider,
			"merchant_id", event.MerchantID,
			"outcome", event.Outcome,
		)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"provider", event.Provider,
				"merchant_id", event.MerchantID,
			)
		}
		cancel()
	}
}

// Close drains queued events and stops the worker. Safe to call more than
// once.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.inbox)
		<-p.done
	})
}
