// Package client is the typed HTTP client for the /reservas API plus the
// snapshot state the terminal front-end renders from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/iliyamo/reservas/internal/model"
	"github.com/iliyamo/reservas/internal/service"
)

// DefaultBaseURL is where cmd/server listens by default.
const DefaultBaseURL = "http://localhost:3001"

// ErrNetwork matches every *NetworkError via errors.Is.
var ErrNetwork = errors.New("network error")

// NetworkError wraps a transport failure or an unreadable response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the reservation API. The zero http.Client default has no
// timeout; callers bound requests with their context.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil hc uses http.DefaultClient.
func New(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// List fetches every reservation.
func (c *Client) List(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	if err := c.do(ctx, "list reservations", http.MethodGet, "/reservas", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Reservation{}
	}
	return out, nil
}

// Create posts a new reservation and returns the stored record.
func (c *Client) Create(ctx context.Context, in service.ReservationInput) (model.Reservation, error) {
	var out model.Reservation
	err := c.do(ctx, "create reservation", http.MethodPost, "/reservas", in, &out)
	return out, err
}

// Update replaces reservation id.
func (c *Client) Update(ctx context.Context, id uint64, in service.ReservationInput) (model.Reservation, error) {
	var out model.Reservation
	err := c.do(ctx, "update reservation", http.MethodPut, reservationPath(id), in, &out)
	return out, err
}

// Delete removes reservation id. The server answers 204 even for unknown ids.
func (c *Client) Delete(ctx context.Context, id uint64) error {
	return c.do(ctx, "delete reservation", http.MethodDelete, reservationPath(id), nil, nil)
}

func reservationPath(id uint64) string {
	return "/reservas/" + strconv.FormatUint(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
