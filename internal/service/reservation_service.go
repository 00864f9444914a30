// Package service owns the reservation store and enforces the CRUD contract:
// input validation, datetime normalization and the not-found policy.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/reservas/internal/metrics"
	"github.com/iliyamo/reservas/internal/model"
	"github.com/iliyamo/reservas/internal/queue"
	"github.com/iliyamo/reservas/internal/repository"
)

// Validation messages returned to API clients.
const (
	MsgMissingData = "missing data"
	MsgInvalidDate = "invalid date"
	MsgInvalidData = "invalid data"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing or malformed field in a ReservationInput.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ReservationStore is the persistence boundary. repository.MemoryReservationRepo
// is the only implementation today.
type ReservationStore interface {
	List(ctx context.Context) ([]model.Reservation, error)
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	Insert(ctx context.Context, name string, at model.Timestamp) (model.Reservation, error)
	Replace(ctx context.Context, id uint64, name string, at model.Timestamp) (model.Reservation, error)
	Remove(ctx context.Context, id uint64) (bool, error)
	Len() int
}

// EventPublisher delivers reservation events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.ReservationEvent) error
}

// ReservationInput is the create/update payload.
type ReservationInput struct {
	Name     string `json:"name"`
	Datetime string `json:"datetime"`
}

// ReservationService exposes the four CRUD operations over a ReservationStore.
// Callers never touch the underlying collection directly.
type ReservationService struct {
	store     ReservationStore
	publisher EventPublisher
	metrics   *metrics.ReservationMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewReservationService wires the service. publisher and m may be nil.
func NewReservationService(store ReservationStore, publisher EventPublisher, m *metrics.ReservationMetrics, logger *slog.Logger) *ReservationService {
	if store == nil {
		panic("nil store passed to NewReservationService")
	}
	return &ReservationService{
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the current snapshot in insertion order.
func (s *ReservationService) List(ctx context.Context) ([]model.Reservation, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		s.metrics.Observe("list", "error")
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	s.metrics.Observe("list", "ok")
	return items, nil
}

// Get returns reservation id, or repository.ErrReservationNotFound.
func (s *ReservationService) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := s.store.Get(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrReservationNotFound) {
		return model.Reservation{}, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return res, err
}

// Create validates in, assigns a new id and stores the reservation.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (model.Reservation, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Datetime) == "" {
		s.metrics.Observe("create", "invalid")
		return model.Reservation{}, &ValidationError{Message: MsgMissingData}
	}
	at, err := model.ParseTimestamp(in.Datetime)
	if err != nil {
		s.metrics.Observe("create", "invalid")
		return model.Reservation{}, &ValidationError{Message: MsgInvalidDate}
	}

	res, err := s.store.Insert(ctx, name, at)
	if err != nil {
		s.metrics.Observe("create", "error")
		return model.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	s.metrics.Observe("create", "ok")
	s.metrics.SetStored(s.store.Len())
	s.publish(ctx, queue.EventReservationCreated, res)
	return res, nil
}

// Update replaces name and datetime of reservation id. A missing id is
// reported before any validation failure.
func (s *ReservationService) Update(ctx context.Context, id uint64, in ReservationInput) (model.Reservation, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			s.metrics.Observe("update", "not_found")
			return model.Reservation{}, err
		}
		s.metrics.Observe("update", "error")
		return model.Reservation{}, fmt.Errorf("get reservation %d: %w", id, err)
	}

	name := strings.TrimSpace(in.Name)
	at, err := model.ParseTimestamp(in.Datetime)
	if name == "" || err != nil {
		s.metrics.Observe("update", "invalid")
		return model.Reservation{}, &ValidationError{Message: MsgInvalidData}
	}

	res, err := s.store.Replace(ctx, id, name, at)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			s.metrics.Observe("update", "not_found")
			return model.Reservation{}, err
		}
		s.metrics.Observe("update", "error")
		return model.Reservation{}, fmt.Errorf("replace reservation %d: %w", id, err)
	}
	s.metrics.Observe("update", "ok")
	s.publish(ctx, queue.EventReservationUpdated, res)
	return res, nil
}

// Delete removes reservation id. Deleting an unknown id succeeds.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		s.metrics.Observe("delete", "error")
		return fmt.Errorf("remove reservation %d: %w", id, err)
	}
	s.metrics.Observe("delete", "ok")
	if removed {
		s.metrics.SetStored(s.store.Len())
		s.publish(ctx, queue.EventReservationDeleted, model.Reservation{ID: id})
	}
	return nil
}

// publish is best effort; a broker outage never fails the request.
func (s *ReservationService) publish(ctx context.Context, eventType string, r model.Reservation) {
	if s.publisher == nil {
		return
	}
	ev := queue.NewReservationEvent(eventType, r, s.now())
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, ev); err != nil && s.logger != nil {
		s.logger.Warn("reservation event not published", "type", eventType, "reservation_id", r.ID, "error", err)
	}
}
