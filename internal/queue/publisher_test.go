package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/iliyamo/reservas/internal/model"
)

// silentBroker accepts TCP connections and never speaks AMQP.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan struct{})
	t.Cleanup(func() {
		close(done)
		_ = ln.Close()
	})
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				<-done
				_ = conn.Close()
			}()
		}
	}()
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func newEvent() ReservationEvent {
	r := model.Reservation{ID: 1, Name: "Ana", Datetime: model.NewTimestamp(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))}
	return NewReservationEvent(EventReservationCreated, r, time.Now())
}

func TestAMQPPublisher_HonoursContextDeadline(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewAMQPPublisher(silentBroker(t), "reservas.events", logger)
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, newEvent())
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Publish() to a silent broker should fail")
	}
	if elapsed > 2*time.Second {
		t.Errorf("Publish() took %v, want it bounded by the context deadline", elapsed)
	}
}

func TestAMQPPublisher_CancelledContext(t *testing.T) {
	p := NewAMQPPublisher(silentBroker(t), "reservas.events", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Publish(ctx, newEvent()); !errors.Is(err, context.Canceled) {
		t.Errorf("Publish() error = %v, want context.Canceled", err)
	}
}

func TestAMQPPublisher_Closed(t *testing.T) {
	p := NewAMQPPublisher("amqp://127.0.0.1:1/", "reservas.events", nil)
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Publish(context.Background(), newEvent()); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("Publish() after Close error = %v, want ErrPublisherClosed", err)
	}
}

func TestDialTimeout(t *testing.T) {
	if got := dialTimeout(context.Background()); got != DefaultDialTimeout {
		t.Errorf("no deadline = %v, want %v", got, DefaultDialTimeout)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if got := dialTimeout(ctx); got > time.Second || got <= 0 {
		t.Errorf("1s deadline = %v", got)
	}
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := dialTimeout(expired); got != time.Millisecond {
		t.Errorf("expired deadline = %v, want 1ms", got)
	}
}
