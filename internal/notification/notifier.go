// Package notification delivers best-effort messages to patients and
// doctors. Delivery is fire-and-forget: failures are logged and counted,
// never surfaced to the flow that triggered them.
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindBookingConfirmed Kind = "booking_confirmed"
	KindBookingCancelled Kind = "booking_cancelled"
	KindLeaveRecorded    Kind = "leave_recorded"
	KindScheduleUpdated  Kind = "schedule_updated"
)

// Message is a delivery intent: what happened, who to tell, and the
// structured payload the template on the gateway side renders from.
type Message struct {
	Kind      Kind           `json:"kind"`
	Recipient string         `json:"recipient"`
	Payload   map[string]any `json:"payload"`
}

// Sender is the delivery transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NopSender discards every message. Used when notifications are disabled.
type NopSender struct{}

func (NopSender) Send(context.Context, Message) error { return nil }

const dispatchBufferSize = 1_000

const sendTimeout = 10 * time.Second

// Dispatcher decouples callers from delivery latency with a buffered
// queue and a single worker. If the buffer is full the message is dropped
// and a warning is emitted.
type Dispatcher struct {
	sender  Sender
	log     *zap.Logger
	queue   chan Message
	done    chan struct{}
	onError func()
}

// NewDispatcher starts the delivery worker. onError is invoked once per
// failed or dropped delivery; pass nil when no counter is wired.
func NewDispatcher(sender Sender, log *zap.Logger, onError func()) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		log:     log,
		queue:   make(chan Message, dispatchBufferSize),
		done:    make(chan struct{}),
		onError: onError,
	}
	go d.worker()
	return d
}

// Dispatch enqueues a message for async delivery. Never blocks.
func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification buffer full, dropping message",
			zap.String("kind", string(msg.Kind)),
			zap.String("recipient", msg.Recipient),
		)
		d.fail()
	}
}

func (d *Dispatcher) Shutdown() {
	close(d.queue)
	select {
	case <-d.done:
	case <-time.After(10 * time.Second):
		d.log.Warn("notification dispatcher shutdown timed out; some messages may be lost")
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Error("notification delivery failed",
				zap.String("kind", string(msg.Kind)),
				zap.String("recipient", msg.Recipient),
				zap.Error(err),
			)
			d.fail()
		}
		cancel()
	}
}

func (d *Dispatcher) fail() {
	if d.onError != nil {
		d.onError()
	}
}
