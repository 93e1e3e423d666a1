package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kommo_pulse/backend/internal/crm"
	"github.com/kommo_pulse/backend/internal/report"
)

func newTestRouter(t *testing.T, outputDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := crm.MockClient{Leads: 6, Talks: 4}
	h := &Handler{
		Builder:   &report.Builder{Client: client, Logger: zerolog.Nop()},
		Client:    client,
		Logger:    zerolog.Nop(),
		OutputDir: outputDir,
	}

	r := gin.New()
	r.GET("/healthz", h.Healthz)
	r.GET("/api/users", h.UsersList)
	r.GET("/api/reports/leads", h.ReportLeads)
	r.GET("/api/reports/talks", h.ReportTalks)
	r.GET("/api/runs/latest", h.RunsLatest)
	r.POST("/api/reports/:kind/run", h.RunReport)
	return r
}

func TestHealthzWithoutDatabase(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestUsersList(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req, _ := http.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Items []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Items) != 4 {
		t.Fatalf("expected 4 users, got %d", len(body.Items))
	}
	if body.Items[0].Name != "User 1" {
		t.Fatalf("expected User 1, got %q", body.Items[0].Name)
	}
}

func TestReportLeadsJSON(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req, _ := http.NewRequest(http.MethodGet, "/api/reports/leads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Header []string            `json:"header"`
		Rows   []map[string]string `json:"rows"`
		Count  int                 `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 6 {
		t.Fatalf("expected 6 rows, got %d", body.Count)
	}
	if len(body.Header) != len(report.LeadHeader) {
		t.Fatalf("expected %d columns, got %d", len(report.LeadHeader), len(body.Header))
	}
	for _, row := range body.Rows {
		if row["Lead ID"] == "" {
			t.Fatalf("row missing Lead ID: %v", row)
		}
	}
}

func TestReportTalksCSV(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req, _ := http.NewRequest(http.MethodGet, "/api/reports/talks?format=csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv content type, got %q", ct)
	}
	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("expected header plus rows, got %d records", len(records))
	}
	if records[0][0] != report.TalkHeader[0] {
		t.Fatalf("unexpected first column %q", records[0][0])
	}
}

func TestRunReportWritesCSV(t *testing.T) {
	dir := t.TempDir()
	r := newTestRouter(t, dir)

	req, _ := http.NewRequest(http.MethodPost, "/api/reports/lead/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Status string `json:"status"`
		Rows   int    `json:"rows"`
		Path   string `json:"path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" || body.Rows != 6 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Path != filepath.Join(dir, "lead_report.csv") {
		t.Fatalf("unexpected path %q", body.Path)
	}

	table, err := report.ReadCSV(body.Path)
	if err != nil {
		t.Fatalf("read written report: %v", err)
	}
	if len(table.Rows) != 6 {
		t.Fatalf("expected 6 rows on disk, got %d", len(table.Rows))
	}
}

func TestRunReportRejectsUnknownKind(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req, _ := http.NewRequest(http.MethodPost, "/api/reports/contacts/run", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRunsLatestWithoutDatabase(t *testing.T) {
	r := newTestRouter(t, t.TempDir())

	req, _ := http.NewRequest(http.MethodGet, "/api/runs/latest", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "NOT_CONFIGURED" {
		t.Fatalf("expected NOT_CONFIGURED, got %q", body.Error.Code)
	}
}
