package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/reservas/internal/handler"
	"github.com/iliyamo/reservas/internal/model"
	"github.com/iliyamo/reservas/internal/repository"
	"github.com/iliyamo/reservas/internal/service"
)

func newTestServer(t *testing.T) (*echo.Echo, *repository.MemoryReservationRepo) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemoryReservationRepo()
	h := handler.NewReservationHandler(service.NewReservationService(repo, nil, nil, logger), logger)

	e := echo.New()
	e.GET("/reservas", h.List)
	e.POST("/reservas", h.Create)
	e.PUT("/reservas/:id", h.Update)
	e.DELETE("/reservas/:id", h.Delete)
	return e, repo
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestReservationHandler_Scenario(t *testing.T) {
	e, _ := newTestServer(t)

	steps := []struct {
		method, path, body string
		wantStatus         int
		wantBody           string
	}{
		{http.MethodPost, "/reservas", `{"name":"Ana","datetime":"2024-06-01T09:00:00Z"}`, http.StatusCreated,
			`{"id":1,"name":"Ana","datetime":"2024-06-01T09:00:00.000Z"}`},
		{http.MethodGet, "/reservas", "", http.StatusOK,
			`[{"id":1,"name":"Ana","datetime":"2024-06-01T09:00:00.000Z"}]`},
		{http.MethodPut, "/reservas/1", `{"name":"Ana Maria","datetime":"2024-06-02T09:00:00Z"}`, http.StatusOK,
			`{"id":1,"name":"Ana Maria","datetime":"2024-06-02T09:00:00.000Z"}`},
		{http.MethodDelete, "/reservas/1", "", http.StatusNoContent, ""},
		{http.MethodGet, "/reservas", "", http.StatusOK, `[]`},
	}

	for i, s := range steps {
		rec := do(e, s.method, s.path, s.body)
		if rec.Code != s.wantStatus {
			t.Fatalf("step %d %s %s: status = %d, want %d (body %s)", i, s.method, s.path, rec.Code, s.wantStatus, rec.Body.String())
		}
		if got := strings.TrimSpace(rec.Body.String()); got != s.wantBody {
			t.Errorf("step %d %s %s: body = %s, want %s", i, s.method, s.path, got, s.wantBody)
		}
	}
}

func TestReservationHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "valid", body: `{"name":"Luis","datetime":"2024-05-01T10:00:00.000Z"}`, wantStatus: http.StatusCreated},
		{name: "empty name", body: `{"name":"","datetime":"2024-05-01T10:00:00Z"}`, wantStatus: http.StatusBadRequest, wantError: "missing data"},
		{name: "missing datetime", body: `{"name":"Luis"}`, wantStatus: http.StatusBadRequest, wantError: "missing data"},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantError: "missing data"},
		{name: "unparsable datetime", body: `{"name":"Luis","datetime":"not-a-date"}`, wantStatus: http.StatusBadRequest, wantError: "invalid date"},
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "unknown field", body: `{"name":"Luis","datetime":"2024-05-01","id":7}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "wrong type", body: `{"name":5,"datetime":"2024-05-01"}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, repo := newTestServer(t)
			rec := do(e, http.MethodPost, "/reservas", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantError == "" {
				if repo.Len() != 1 {
					t.Errorf("store size = %d, want 1", repo.Len())
				}
				return
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body is not JSON: %s", rec.Body.String())
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
			if repo.Len() != 0 {
				t.Errorf("store mutated on rejected create: %d records", repo.Len())
			}
		})
	}
}

func TestReservationHandler_IDsIncrease(t *testing.T) {
	e, _ := newTestServer(t)
	var last uint64
	for i := 0; i < 3; i++ {
		rec := do(e, http.MethodPost, "/reservas", `{"name":"Ana","datetime":"2024-06-01T09:00:00Z"}`)
		var r model.Reservation
		if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
			t.Fatal(err)
		}
		if r.ID <= last {
			t.Fatalf("id %d not greater than previous %d", r.ID, last)
		}
		last = r.ID
	}
	do(e, http.MethodDelete, "/reservas/3", "")
	rec := do(e, http.MethodPost, "/reservas", `{"name":"Ana","datetime":"2024-06-01T09:00:00Z"}`)
	var r model.Reservation
	_ = json.Unmarshal(rec.Body.Bytes(), &r)
	if r.ID != 4 {
		t.Errorf("id after delete = %d, want 4", r.ID)
	}
}

func TestReservationHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "missing id on empty store", path: "/reservas/99999", body: `{"name":"X","datetime":"2024-01-01T00:00:00Z"}`, wantStatus: http.StatusNotFound, wantError: "reservation not found"},
		{name: "missing id beats invalid body", path: "/reservas/99999", body: `{"name":""}`, wantStatus: http.StatusNotFound, wantError: "reservation not found"},
		{name: "missing id beats unknown fields", path: "/reservas/99999", body: `{"nombre":"x","fecha":"2024-01-01"}`, wantStatus: http.StatusNotFound, wantError: "reservation not found"},
		{name: "missing id beats malformed json", path: "/reservas/99999", body: `{"name":`, wantStatus: http.StatusNotFound, wantError: "reservation not found"},
		{name: "unknown fields on existing id", path: "/reservas/1", body: `{"nombre":"x","fecha":"2024-01-01"}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "non numeric id", path: "/reservas/abc", body: `{"name":"X","datetime":"2024-01-01T00:00:00Z"}`, wantStatus: http.StatusNotFound, wantError: "reservation not found"},
		{name: "empty name", path: "/reservas/1", body: `{"name":"","datetime":"2024-01-01T00:00:00Z"}`, wantStatus: http.StatusBadRequest, wantError: "invalid data"},
		{name: "bad datetime", path: "/reservas/1", body: `{"name":"X","datetime":"nope"}`, wantStatus: http.StatusBadRequest, wantError: "invalid data"},
		{name: "valid", path: "/reservas/1", body: `{"name":"Ana Maria","datetime":"2024-06-02T09:00:00Z"}`, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, repo := newTestServer(t)
			if !strings.Contains(tt.name, "empty store") {
				do(e, http.MethodPost, "/reservas", `{"name":"Ana","datetime":"2024-06-01T09:00:00Z"}`)
				do(e, http.MethodPost, "/reservas", `{"name":"Luis","datetime":"2024-06-03T18:30:00Z"}`)
			}
			before, _ := repo.List(context.Background())

			rec := do(e, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			after, _ := repo.List(context.Background())
			if tt.wantError != "" {
				var body map[string]string
				_ = json.Unmarshal(rec.Body.Bytes(), &body)
				if body["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", body["error"], tt.wantError)
				}
				if len(before) != len(after) || (len(before) > 0 && before[0] != after[0]) {
					t.Errorf("store changed on rejected update: %+v -> %+v", before, after)
				}
				return
			}
			if after[0].ID != 1 || after[0].Name != "Ana Maria" || after[0].Datetime.String() != "2024-06-02T09:00:00.000Z" {
				t.Errorf("updated record = %+v", after[0])
			}
			if after[1] != before[1] {
				t.Errorf("other record changed: %+v -> %+v", before[1], after[1])
			}
		})
	}
}

func TestReservationHandler_Delete(t *testing.T) {
	e, repo := newTestServer(t)
	do(e, http.MethodPost, "/reservas", `{"name":"Ana","datetime":"2024-06-01T09:00:00Z"}`)
	do(e, http.MethodPost, "/reservas", `{"name":"Luis","datetime":"2024-06-03T18:30:00Z"}`)

	for _, path := range []string{"/reservas/99999", "/reservas/abc", "/reservas/0"} {
		rec := do(e, http.MethodDelete, path, "")
		if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
			t.Errorf("DELETE %s = %d %q, want 204 and no body", path, rec.Code, rec.Body.String())
		}
	}
	if repo.Len() != 2 {
		t.Fatalf("store size = %d after deleting missing ids", repo.Len())
	}

	if rec := do(e, http.MethodDelete, "/reservas/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /reservas/1 = %d", rec.Code)
	}
	rec := do(e, http.MethodGet, "/reservas", "")
	var items []model.Reservation
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != 2 {
		t.Errorf("List after delete = %+v", items)
	}
}

func TestReservationHandler_RoundTrip(t *testing.T) {
	e, _ := newTestServer(t)
	do(e, http.MethodPost, "/reservas", `{"name":"Ana","datetime":"2024-05-01T10:00:00.000Z"}`)

	rec := do(e, http.MethodGet, "/reservas", "")
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"datetime":"2024-05-01T10:00:00.000Z"`)) {
		t.Errorf("List body = %s", rec.Body.String())
	}
}

// MockReservationService lets a test force service failures.
type MockReservationService struct {
	Err error
}

func (m *MockReservationService) List(ctx context.Context) ([]model.Reservation, error) {
	return nil, m.Err
}
func (m *MockReservationService) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	return model.Reservation{}, m.Err
}
func (m *MockReservationService) Create(ctx context.Context, in service.ReservationInput) (model.Reservation, error) {
	return model.Reservation{}, m.Err
}
func (m *MockReservationService) Update(ctx context.Context, id uint64, in service.ReservationInput) (model.Reservation, error) {
	return model.Reservation{}, m.Err
}
func (m *MockReservationService) Delete(ctx context.Context, id uint64) error { return m.Err }

func TestReservationHandler_InternalErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewReservationHandler(&MockReservationService{Err: errors.New("disk on fire")}, logger)
	e := echo.New()
	e.GET("/reservas", h.List)
	e.POST("/reservas", h.Create)
	e.PUT("/reservas/:id", h.Update)
	e.DELETE("/reservas/:id", h.Delete)

	body := `{"name":"Ana","datetime":"2024-06-01T09:00:00Z"}`
	for _, r := range []struct{ method, path, body string }{
		{http.MethodGet, "/reservas", ""},
		{http.MethodPost, "/reservas", body},
		{http.MethodPut, "/reservas/1", body},
		{http.MethodDelete, "/reservas/1", ""},
	} {
		rec := do(e, r.method, r.path, r.body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s %s = %d, want 500", r.method, r.path, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "disk on fire") {
			t.Errorf("%s %s leaked internal error: %s", r.method, r.path, rec.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", handler.Health)
	rec := do(e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}
