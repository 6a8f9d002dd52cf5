package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"billed-app/internal/audit"
	"billed-app/internal/auth"
	"billed-app/internal/bills/application"
	bills "billed-app/internal/bills/domain"
	"billed-app/internal/bills/format"
	"billed-app/internal/bills/infrastructure/memory"
)

type recordingAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAudit) Log(_ context.Context, entry audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

type failingReader struct {
	err error
}

func (f failingReader) ListBills(context.Context, application.Filter) ([]bills.Bill, error) {
	return nil, f.err
}

func seededRepo(t *testing.T) *memory.BillRepository {
	t.Helper()
	repo := memory.NewBillRepository()
	seed := []bills.Bill{
		{ID: "1", Email: "e@e", Type: "Transports", Name: "Vol Paris-Brest", Date: "2023-08-15", Amount: decimal.NewFromInt(100), Status: bills.StatusPending},
		{ID: "2", Email: "e@e", Type: "Hôtel et logement", Name: "Hôtel", Date: "2023-04-04", Amount: decimal.RequireFromString("89.90"), Status: bills.StatusRefused},
		{ID: "3", Email: "other@e", Type: "Restaurants et bars", Name: "Déjeuner", Date: "2023-12-31", Amount: decimal.NewFromInt(30), Status: bills.StatusAccepted},
	}
	for i := range seed {
		if err := repo.Save(context.Background(), &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func newTestHandler(t *testing.T, reader application.BillReader, auditLogger audit.Logger) *BillsHandler {
	t.Helper()
	service, err := application.NewListService(reader, format.Default(), application.Labels{}, nil)
	if err != nil {
		t.Fatalf("list service: %v", err)
	}
	handler, err := NewBillsHandler(service, format.Default(), application.ExportConfig{Title: "Mes notes de frais", Currency: "EUR"}, auditLogger, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	handler.now = func() time.Time { return time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC) }
	return handler
}

func withIdentity(req *http.Request, email string, role auth.Role) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), email, role))
}

func TestBillsHandler_EmployeeSeesOwnBillsFormatted(t *testing.T) {
	handler := newTestHandler(t, seededRepo(t), nil)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/bills?email=other@e", nil), "e@e", auth.RoleEmployee)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var views []application.BillView
	if err := json.Unmarshal(resp.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 own bills, got %d", len(views))
	}
	if views[0].Date != "15 Aoû. 23" || views[0].Status != "En attente" {
		t.Fatalf("unexpected first view %+v", views[0])
	}
	if views[1].Date != "4 Avr. 23" || views[1].Status != "Refusé" {
		t.Fatalf("unexpected second view %+v", views[1])
	}
}

func TestBillsHandler_AdminFiltersByQuery(t *testing.T) {
	handler := newTestHandler(t, seededRepo(t), nil)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/bills?email=other@e", nil), "admin@a", auth.RoleAdmin)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	var views []application.BillView
	if err := json.Unmarshal(resp.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 || views[0].Date != "31 Déc. 23" || views[0].Status != "Accepté" {
		t.Fatalf("unexpected admin views %+v", views)
	}
}

func TestBillsHandler_StoreErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantBody string
	}{
		{bills.ErrNotFound, http.StatusNotFound, "Erreur 404"},
		{errors.New("boom"), http.StatusInternalServerError, "Erreur 500"},
	}
	for _, tc := range cases {
		handler := newTestHandler(t, failingReader{err: tc.err}, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil))
		if resp.Code != tc.wantCode {
			t.Fatalf("expected %d, got %d", tc.wantCode, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), tc.wantBody) {
			t.Fatalf("expected body %q, got %q", tc.wantBody, resp.Body.String())
		}
	}
}

func TestBillsHandler_ConvertDate(t *testing.T) {
	handler := newTestHandler(t, seededRepo(t), nil)
	cases := []struct {
		body     string
		wantCode int
		wantISO  string
	}{
		{`{"date":"15 Aoû. 23"}`, http.StatusOK, "2023-08-15"},
		{`{"date":"15 Août 23"}`, http.StatusUnprocessableEntity, ""},
		{`{"date":"15/08/23"}`, http.StatusBadRequest, ""},
		{`not json`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/convert-date", bytes.NewBufferString(tc.body))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.wantCode {
			t.Fatalf("body %s: expected %d, got %d", tc.body, tc.wantCode, resp.Code)
		}
		if tc.wantISO == "" {
			continue
		}
		var out map[string]string
		if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out["iso"] != tc.wantISO {
			t.Fatalf("expected %s, got %s", tc.wantISO, out["iso"])
		}
	}
}

func TestBillsHandler_Exports(t *testing.T) {
	recorder := &recordingAudit{}
	handler := newTestHandler(t, seededRepo(t), recorder)

	cases := []struct {
		path        string
		contentType string
		magic       []byte
	}{
		{"/api/v1/bills/export.pdf", contentTypePDF, []byte("%PDF")},
		{"/api/v1/bills/export.xlsx", contentTypeXLSX, []byte("PK")},
	}
	for _, tc := range cases {
		req := withIdentity(httptest.NewRequest(http.MethodGet, tc.path, nil), "e@e", auth.RoleEmployee)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.path, resp.Code)
		}
		if resp.Header().Get("Content-Type") != tc.contentType {
			t.Fatalf("%s: content-type mismatch %s", tc.path, resp.Header().Get("Content-Type"))
		}
		if !bytes.HasPrefix(resp.Body.Bytes(), tc.magic) {
			t.Fatalf("%s: unexpected payload header", tc.path)
		}
	}

	if len(recorder.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Action != "bills.export" || entry.Actor != "e@e" || entry.ResourceID != "e@e" {
		t.Fatalf("unexpected audit entry %+v", entry)
	}
}

func TestBillsHandler_NotFoundRoute(t *testing.T) {
	handler := newTestHandler(t, seededRepo(t), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/bills", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestNewBillsHandler_NilService(t *testing.T) {
	if _, err := NewBillsHandler(nil, nil, application.ExportConfig{}, nil, nil); err == nil {
		t.Fatalf("expected error for nil service")
	}
}
