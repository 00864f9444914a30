package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/reservas/internal/model"
)

// MemoryReservationRepo keeps reservations in process memory. Records are
// kept in insertion order and ids come from a counter seeded at 1 that only
// moves forward, so an id is never handed out twice in the lifetime of the
// process. Everything is lost on restart.
type MemoryReservationRepo struct {
	mu     sync.Mutex
	items  []model.Reservation
	nextID uint64
}

// NewMemoryReservationRepo returns an empty repository.
func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{nextID: 1}
}

// List returns a copy of all reservations in insertion order. The result is
// never nil so it encodes as [] rather than null.
func (r *MemoryReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Reservation, len(r.items))
	copy(out, r.items)
	return out, nil
}

// Get returns the reservation with the given id or ErrReservationNotFound.
func (r *MemoryReservationRepo) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], nil
	}
	return model.Reservation{}, ErrReservationNotFound
}

// Insert assigns the next id and appends the reservation.
func (r *MemoryReservationRepo) Insert(ctx context.Context, name string, at model.Timestamp) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := model.Reservation{ID: r.nextID, Name: name, Datetime: at}
	r.nextID++
	r.items = append(r.items, res)
	return res, nil
}

// Replace overwrites name and datetime of an existing reservation. The id and
// the position in the list do not change.
func (r *MemoryReservationRepo) Replace(ctx context.Context, id uint64, name string, at model.Timestamp) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Reservation{}, ErrReservationNotFound
	}
	r.items[i] = model.Reservation{ID: id, Name: name, Datetime: at}
	return r.items[i], nil
}

// Remove deletes the reservation if present and reports whether it existed.
// Removing an unknown id is not an error.
func (r *MemoryReservationRepo) Remove(ctx context.Context, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return true, nil
}

// Len returns the number of live reservations.
func (r *MemoryReservationRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// indexOf must be called with mu held.
func (r *MemoryReservationRepo) indexOf(id uint64) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
