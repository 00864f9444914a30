// Package repository holds the reservation store. The sentinel errors below
// let higher layers such as handlers tell failure scenarios apart without
// inspecting error strings.
package repository

import "errors"

// ErrReservationNotFound is returned when no reservation has the requested
// id. Handlers translate it into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")
