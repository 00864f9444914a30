package client

import (
	"context"
	"sync"

	"github.com/iliyamo/reservas/internal/model"
	"github.com/iliyamo/reservas/internal/service"
)

// Messages exposed through State.Err.
const (
	MsgLoadFailed   = "Error loading reservations"
	MsgCreateFailed = "Error adding reservation"
	MsgUpdateFailed = "Error updating reservation"
	MsgDeleteFailed = "Error deleting reservation"
)

// API is the part of *Client that State drives.
type API interface {
	List(ctx context.Context) ([]model.Reservation, error)
	Create(ctx context.Context, in service.ReservationInput) (model.Reservation, error)
	Update(ctx context.Context, id uint64, in service.ReservationInput) (model.Reservation, error)
	Delete(ctx context.Context, id uint64) error
}

// Snapshot is a copy of the state at one instant.
type Snapshot struct {
	Records []model.Reservation
	Loading bool
	Err     string
}

// State holds the last fetched list together with loading and error flags.
// Every successful mutation is followed by a full Refresh; the list is never
// patched locally. Overlapping calls are not sequenced, the last response
// wins.
type State struct {
	api API

	mu      sync.Mutex
	records []model.Reservation
	loading bool
	err     string
}

// NewState returns an empty state over api.
func NewState(api API) *State {
	return &State{api: api, records: []model.Reservation{}}
}

// Snapshot returns a copy safe to read without further locking.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]model.Reservation, len(s.records))
	copy(recs, s.records)
	return Snapshot{Records: recs, Loading: s.loading, Err: s.err}
}

// Refresh replaces the list with the server's current one. On failure the
// previous list is kept and Err is set.
func (s *State) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	items, err := s.api.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = MsgLoadFailed
		return err
	}
	s.records = items
	return nil
}

// Create adds a reservation and refreshes.
func (s *State) Create(ctx context.Context, in service.ReservationInput) error {
	return s.mutate(ctx, MsgCreateFailed, func() error {
		_, err := s.api.Create(ctx, in)
		return err
	})
}

// Update replaces reservation id and refreshes.
func (s *State) Update(ctx context.Context, id uint64, in service.ReservationInput) error {
	return s.mutate(ctx, MsgUpdateFailed, func() error {
		_, err := s.api.Update(ctx, id, in)
		return err
	})
}

// Remove deletes reservation id and refreshes.
func (s *State) Remove(ctx context.Context, id uint64) error {
	return s.mutate(ctx, MsgDeleteFailed, func() error {
		return s.api.Delete(ctx, id)
	})
}

func (s *State) mutate(ctx context.Context, failMsg string, call func() error) error {
	s.setErr("")
	if err := call(); err != nil {
		s.setErr(failMsg)
		return err
	}
	return s.Refresh(ctx)
}

func (s *State) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
