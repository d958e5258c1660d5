package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wchung1209/climbing-log/internal/model"
	"github.com/wchung1209/climbing-log/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st, err := store.Open(filepath.Join(t.TempDir(), "climbs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return NewRouter(st, zap.NewNop()), st
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func postClimb(t *testing.T, h http.Handler, body map[string]any) model.Climb {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/climbs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var c model.Climb
	decode(t, rec, &c)
	return c
}

func TestHealthz(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateClimbDefaultsAndValidation(t *testing.T) {
	h, _ := newTestRouter(t)

	c := postClimb(t, h, map[string]any{"date": "2024-03-05", "grade": "V4", "isSent": true, "tags": []string{"Crimp"}})
	if c.ID == "" || c.GradeSystem != "V-scale" || c.Attempts != 1 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	custom := postClimb(t, h, map[string]any{"date": "2024-03-05", "grade": "Pink tape", "attempts": 4})
	if custom.GradeSystem != "Custom" || custom.Attempts != 4 {
		t.Fatalf("unexpected custom climb: %+v", custom)
	}

	rec := do(t, h, http.MethodPost, "/api/climbs", map[string]any{"date": "2024-03-05", "grade": "V4", "attempts": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero attempts, got %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["field"] != "attempts" {
		t.Fatalf("expected attempts field error, got %v", body)
	}

	rec = do(t, h, http.MethodPost, "/api/climbs", map[string]any{"date": "2024-3-5", "grade": "V4"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestListClimbsFiltersAndPaginates(t *testing.T) {
	h, _ := newTestRouter(t)
	postClimb(t, h, map[string]any{"date": "2024-01-01", "grade": "V4", "isSent": true, "tags": []string{"Crimp"}})
	postClimb(t, h, map[string]any{"date": "2024-01-02", "grade": "V4", "tags": []string{"Slab"}})
	postClimb(t, h, map[string]any{"date": "2024-01-03", "grade": "V11+", "isSent": true})
	postClimb(t, h, map[string]any{"date": "2024-01-04", "grade": "V2"})

	var resp struct {
		Items      []model.Climb `json:"items"`
		Page       int           `json:"page"`
		TotalPages int           `json:"totalPages"`
		Total      int           `json:"total"`
	}
	rec := do(t, h, http.MethodGet, "/api/climbs?grade=V4,V11%2B&pageSize=2&page=9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &resp)
	if resp.Total != 3 || resp.TotalPages != 2 || resp.Page != 2 {
		t.Fatalf("unexpected paging: %+v", resp)
	}
	if len(resp.Items) != 1 || resp.Items[0].Date != "2024-01-01" {
		t.Fatalf("expected oldest V4 on the last page, got %+v", resp.Items)
	}

	rec = do(t, h, http.MethodGet, "/api/climbs?tag=Slab", nil)
	decode(t, rec, &resp)
	if resp.Total != 1 || resp.Items[0].Date != "2024-01-02" {
		t.Fatalf("unexpected tag filter result: %+v", resp)
	}

	rec = do(t, h, http.MethodGet, "/api/climbs?page=two", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page, got %d", rec.Code)
	}
}

func TestSummaryAndTrend(t *testing.T) {
	h, _ := newTestRouter(t)
	postClimb(t, h, map[string]any{"date": "2024-01-01", "grade": "V1", "isSent": true, "tags": []string{"Crimp"}})
	postClimb(t, h, map[string]any{"date": "2024-01-01", "grade": "V1", "tags": []string{"Slab"}})
	postClimb(t, h, map[string]any{"date": "2024-01-03", "grade": "V5"})

	var summary struct {
		Summary  model.SummaryStats `json:"summary"`
		Rejected int                `json:"rejected"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/summary", nil), &summary)
	if summary.Summary.TotalSessions != 2 || summary.Summary.SendRate != 33 || summary.Summary.LatestSessionDate != "2024-01-03" {
		t.Fatalf("unexpected summary: %+v", summary.Summary)
	}

	var trend struct {
		Trend     []model.DailyAggregate `json:"trend"`
		NoMatches bool                   `json:"noMatches"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/trend?tag=Crimp", nil), &trend)
	if len(trend.Trend) != 1 || trend.Trend[0].SendRate != 100 || trend.Trend[0].Sample.Total != 1 {
		t.Fatalf("unexpected trend: %+v", trend.Trend)
	}

	decode(t, do(t, h, http.MethodGet, "/api/trend?tag=Dyno", nil), &trend)
	if len(trend.Trend) != 0 || !trend.NoMatches {
		t.Fatalf("expected empty trend for unused tag, got %+v", trend)
	}
}

func TestDeleteClimb(t *testing.T) {
	h, st := newTestRouter(t)
	c := postClimb(t, h, map[string]any{"date": "2024-01-01", "grade": "V0"})

	rec := do(t, h, http.MethodGet, "/api/climbs/"+c.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got model.Climb
	decode(t, rec, &got)
	if got.ID != c.ID || got.Grade != "V0" {
		t.Fatalf("unexpected climb: %+v", got)
	}

	if rec := do(t, h, http.MethodDelete, "/api/climbs/does-not-exist", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/climbs/"+c.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/climbs/"+c.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	climbs, err := st.ListClimbs(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(climbs) != 0 {
		t.Fatalf("expected store to be empty, got %d", len(climbs))
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	router := gin.New()
	router.Use(requestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	do(t, router, http.MethodGet, "/ok", nil)
	do(t, router, http.MethodGet, "/missing", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.WarnLevel {
		t.Fatalf("unexpected levels: %v, %v", entries[0].Level, entries[1].Level)
	}
}
