package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultDialTimeout bounds dial plus handshake when ctx carries no deadline.
const DefaultDialTimeout = 5 * time.Second

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// AMQPPublisher publishes reservation events to a durable RabbitMQ queue.
// The connection and channel are opened on first use and reused until the
// broker drops them.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *slog.Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewAMQPPublisher returns a publisher for the given broker url and queue.
func NewAMQPPublisher(url, queue string, logger *slog.Logger) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{url: url, queue: queue, logger: logger}
}

// Publish sends event to the queue as persistent JSON. Dialing honours the
// deadline of ctx.
func (p *AMQPPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.logger.Error("rabbitmq publish failed", "event_id", event.EventID, "error", err)
		p.reset()
		return err
	}
	return nil
}

// Close releases the broker connection. Later publishes fail with
// ErrPublisherClosed.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	var err error
	if p.conn != nil {
		err = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
	return err
}

// channel returns the live channel, dialing if needed. Caller holds p.mu.
func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.closed {
		return nil, ErrPublisherClosed
	}
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout(ctx))})
	if err != nil {
		p.logger.Error("rabbitmq dial failed", "error", err)
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		p.logger.Error("rabbitmq channel open failed", "error", err)
		_ = conn.Close()
		return nil, err
	}
	// idempotent
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.logger.Error("rabbitmq queue declare failed", "queue", p.queue, "error", err)
		_ = conn.Close()
		return nil, err
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

// reset drops the current connection. Caller holds p.mu.
func (p *AMQPPublisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

func dialTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return DefaultDialTimeout
	}
	if d := time.Until(deadline); d < DefaultDialTimeout {
		return max(d, time.Millisecond)
	}
	return DefaultDialTimeout
}
