package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/reservas/internal/model"
	"github.com/iliyamo/reservas/internal/repository"
	"github.com/iliyamo/reservas/internal/service"
)

const maxBodyBytes = 64 << 10

// ReservationService is the subset of service.ReservationService used by
// the HTTP layer.
type ReservationService interface {
	List(ctx context.Context) ([]model.Reservation, error)
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	Create(ctx context.Context, in service.ReservationInput) (model.Reservation, error)
	Update(ctx context.Context, id uint64, in service.ReservationInput) (model.Reservation, error)
	Delete(ctx context.Context, id uint64) error
}

// ReservationHandler serves the /reservas resource.
type ReservationHandler struct {
	svc    ReservationService
	logger *slog.Logger
}

// NewReservationHandler panics on a nil service.
func NewReservationHandler(svc ReservationService, logger *slog.Logger) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationHandler{svc: svc, logger: logger}
}

// List handles GET /reservas.
func (h *ReservationHandler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return h.internalError(c, "list reservations", err)
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /reservas and returns 201 with the stored record.
func (h *ReservationHandler) Create(c echo.Context) error {
	in, err := decodeInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return h.writeError(c, "create reservation", err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Update handles PUT /reservas/:id. An id that is not a positive integer
// can never match a record, so it is reported as not found.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrReservationNotFound.Error()})
	}
	in, err := decodeInput(c)
	if err != nil {
		// a missing id is reported before a bad body, as with field validation
		if _, gerr := h.svc.Get(c.Request().Context(), id); gerr != nil {
			return h.writeError(c, "update reservation", gerr)
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return h.writeError(c, "update reservation", err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /reservas/:id. It answers 204 whether or not the
// record existed.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.internalError(c, "delete reservation", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// writeError maps service errors to responses: validation failures are 400
// with the service message, a missing record is 404 and anything else is
// logged and reported as 500.
func (h *ReservationHandler) writeError(c echo.Context, op string, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrReservationNotFound.Error()})
	default:
		return h.internalError(c, op, err)
	}
}

// internalError logs err under op and hides it from the client.
func (h *ReservationHandler) internalError(c echo.Context, op string, err error) error {
	h.logger.Error(op+" failed", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// idParam parses the :id path segment. Ids start at 1.
func idParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// decodeInput reads at most one JSON object with no unknown fields.
func decodeInput(c echo.Context) (service.ReservationInput, error) {
	var in service.ReservationInput
	dec := json.NewDecoder(http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			// an empty body is an empty payload, left to field validation
			return in, nil
		}
		return service.ReservationInput{}, err
	}
	if dec.More() {
		return service.ReservationInput{}, errors.New("trailing data after JSON object")
	}
	return in, nil
}
