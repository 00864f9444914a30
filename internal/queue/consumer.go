package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditConsumer reads reservation events from the broker and appends one
// line per event to an audit log file.
type AuditConsumer struct {
	url     string
	queue   string
	logPath string
	logger  *slog.Logger
}

// NewAuditConsumer returns a consumer; call Run to start it.
func NewAuditConsumer(url, queue, logPath string, logger *slog.Logger) *AuditConsumer {
	return &AuditConsumer{url: url, queue: queue, logPath: logPath, logger: logger}
}

// Run dials the broker and consumes until ctx is cancelled, reconnecting with
// exponential backoff (capped at 30s) whenever the connection drops.
func (c *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("audit consumer dial failed", "error", err, "retry_in", backoff.String())
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("audit consumer loop ended, reconnecting", "error", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.Warn("audit consumer set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.logger.Error("audit consumer handle message failed", "error", err)
				_ = d.Nack(false, false) // no requeue
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *AuditConsumer) handleMessage(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.ReservationID == 0 {
		return fmt.Errorf("incomplete event %q", ev.EventID)
	}
	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// FormatAuditLine renders ev as a single newline-terminated log line.
func FormatAuditLine(ev ReservationEvent) string {
	line := fmt.Sprintf("[%s] %s | event_id=%s | reservation_id=%d",
		ev.OccurredAt, ev.Type, ev.EventID, ev.ReservationID)
	if ev.Type != EventReservationDeleted {
		line += fmt.Sprintf(" | name=%q | datetime=%s", ev.Name, ev.Datetime)
	}
	return line + "\n"
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
