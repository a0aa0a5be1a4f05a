package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-dashboard/internal/auth"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/dvloznov/sales-dashboard/internal/jobs"
	"github.com/dvloznov/sales-dashboard/internal/jobs/inmemory"
	"github.com/dvloznov/sales-dashboard/internal/report"
	"github.com/dvloznov/sales-dashboard/internal/session"
)

type stubLoader struct {
	txs      []domain.Transaction
	clients  []domain.Client
	products []domain.Product
	users    []auth.User
}

func (s *stubLoader) Sales(context.Context) ([]domain.Transaction, string, string, error) {
	return s.txs, "sales/20250815.xlsx", "20250815", nil
}
func (s *stubLoader) Clients(context.Context) ([]domain.Client, error)   { return s.clients, nil }
func (s *stubLoader) Products(context.Context) ([]domain.Product, error) { return s.products, nil }
func (s *stubLoader) Users(context.Context) ([]auth.User, error)         { return s.users, nil }

type stubPublisher struct {
	published []*jobs.RefreshDataJob
	err       error
}

func (p *stubPublisher) PublishRefreshData(_ context.Context, job *jobs.RefreshDataJob) error {
	if p.err != nil {
		return p.err
	}
	if job.JobID == "" {
		job.JobID = "job-1"
	}
	job.Status = jobs.JobStatusPending
	p.published = append(p.published, job)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func newHandler(t *testing.T) (*DashboardHandler, *stubPublisher) {
	t.Helper()

	loader := &stubLoader{
		txs: []domain.Transaction{
			{Date: "2024-03-05", ClientCode: "42", ClientNameRaw: "Client A", ProductCode: "P-1", Quantity: 5, Amount: 500, DiscountPct: 10},
			{Date: "2025-03-10", ClientCode: "42", ClientNameRaw: "Client A", ProductCode: "P-1", Quantity: 10, Amount: 1500},
			{Date: "2025-04-02", ClientCode: "7", ClientNameRaw: "Client B", ProductCode: "P-2", Quantity: 2, Amount: 300},
		},
		clients: []domain.Client{
			{ClientCode: "42", NameRu: "Клиент А", NameKr: "클라이언트 A", Country: "Russia", Region: "Moscow"},
			{ClientCode: "7", NameRu: "Клиент Б", Country: "Kazakhstan", Region: "Almaty"},
		},
		products: []domain.Product{
			{ProductCode: "P-1", Category: "Snacks"},
			{ProductCode: "P-2", Category: "Drinks"},
		},
		users: []auth.User{{Type: "USER", Username: "kim", Password: "pass1", Name: "Kim"}},
	}
	sessions := session.NewStore(loader)
	if err := sessions.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	pub := &stubPublisher{}
	h := NewDashboardHandler(sessions, report.NewAnnotations(), pub, inmemory.NewStore(), decimal.NewFromFloat(15.5), 12, zerolog.Nop())
	return h, pub
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestSales(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sales?month=2025-03", nil)
	rec := httptest.NewRecorder()
	h.Sales(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", body["total"])
	}
	rows := body["rows"].([]interface{})
	row := rows[0].(map[string]interface{})
	if row["clientName"] != "Клиент А" {
		t.Errorf("clientName = %v", row["clientName"])
	}
	if body["fileDate"] != "20250815" {
		t.Errorf("fileDate = %v", body["fileDate"])
	}
}

func TestSales_SortedDescending(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sales?sort=amount&dir=desc", nil)
	rec := httptest.NewRecorder()
	h.Sales(rec, req)

	body := decode(t, rec)
	rows := body["rows"].([]interface{})
	first := rows[0].(map[string]interface{})
	if first["amount"].(float64) != 1500 {
		t.Errorf("first amount = %v, want 1500", first["amount"])
	}
}

func TestSummary(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	body := decode(t, rec)
	if body["totalAmount"].(float64) != 2300 {
		t.Errorf("totalAmount = %v, want 2300", body["totalAmount"])
	}
}

func TestCharts(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/charts", nil)
	rec := httptest.NewRecorder()
	h.Charts(rec, req)

	body := decode(t, rec)
	for _, key := range []string{"monthly", "regions", "products", "clients", "categories"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing chart dataset %q", key)
		}
	}
}

func TestYoYWithAnnotation(t *testing.T) {
	h, _ := newHandler(t)

	put := httptest.NewRequest(http.MethodPut, "/api/yoy/annotations",
		strings.NewReader(`{"country":"Russia","clientCode":"42","target":2000,"note":"stretch"}`))
	rec := httptest.NewRecorder()
	h.SaveAnnotation(rec, put)
	if rec.Code != http.StatusOK {
		t.Fatalf("annotation save status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/yoy", nil)
	rec = httptest.NewRecorder()
	h.YoY(rec, req)

	body := decode(t, rec)
	rows := body["rows"].([]interface{})
	var found bool
	for _, r := range rows {
		row := r.(map[string]interface{})
		if row["clientCode"] == "42" {
			found = true
			if row["targetAmount"].(float64) != 2000 {
				t.Errorf("targetAmount = %v", row["targetAmount"])
			}
			if row["changePct"].(float64) != 200 {
				t.Errorf("changePct = %v, want 200", row["changePct"])
			}
		}
	}
	if !found {
		t.Fatal("client 42 missing from YoY rows")
	}
}

func TestSaveAnnotation_Invalid(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/yoy/annotations", strings.NewReader(`{"target":5}`))
	rec := httptest.NewRecorder()
	h.SaveAnnotation(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"kim","password":"pass1"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["name"] != "Kim" {
		t.Errorf("name = %v", body["name"])
	}

	req = httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"kim","password":"wrong"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	h, pub := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", strings.NewReader(`{"requested_by":"kim"}`))
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if len(pub.published) != 1 || pub.published[0].RequestedBy != "kim" {
		t.Error("refresh job not published")
	}
}

func TestExportTable(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec := httptest.NewRecorder()
	h.ExportTable(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty export body")
	}
}

func TestGetJob_NotFound(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil)
	rec := httptest.NewRecorder()
	h.GetJob(rec, req, "nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	body := decode(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
	if body["fileDate"] != "20250815" {
		t.Errorf("fileDate = %v", body["fileDate"])
	}
}
