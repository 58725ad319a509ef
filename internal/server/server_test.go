package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Janwang88/KIMD/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Watch.DownloadsDir = t.TempDir()
	s := NewServer(cfg)
	t.Cleanup(func() { s.Close() })
	return s
}

func doRequest(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	resp := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func TestLedgerEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, resp := doRequest(t, s, http.MethodPost, "/api/outsource-record", map[string]any{
		"work_date":    "2026-08-01",
		"work_order":   "MO-1",
		"worker_name":  "张三",
		"worker_level": "大工",
		"hours":        8,
		"content":      "模组组装",
	})
	if w.Code != http.StatusOK || resp["success"] != true {
		t.Fatalf("add record: code=%d resp=%v", w.Code, resp)
	}

	w, resp = doRequest(t, s, http.MethodGet, "/api/outsource-records?keyword=张三", nil)
	if w.Code != http.StatusOK || resp["total"].(float64) != 1 {
		t.Fatalf("list records: code=%d resp=%v", w.Code, resp)
	}

	w, resp = doRequest(t, s, http.MethodGet, "/api/outsource-hours?workOrder=MO-1", nil)
	if w.Code != http.StatusOK || resp["success"] != true {
		t.Fatalf("outsource hours: code=%d resp=%v", w.Code, resp)
	}
	if resp["assembly"].(float64) != 8 {
		t.Fatalf("assembly hours: got %v, want 8", resp["assembly"])
	}

	w, _ = doRequest(t, s, http.MethodGet, "/api/outsource-hours", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing workOrder should be 400, got %d", w.Code)
	}

	w, _ = doRequest(t, s, http.MethodDelete, "/api/outsource-record/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleting missing record should be 404, got %d", w.Code)
	}
}

func TestReviewEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, resp := doRequest(t, s, http.MethodPost, "/api/reviews", map[string]any{
		"content":   "组装进度正常",
		"milestone": "assemblyStart",
		"user_id":   "u1",
	})
	if w.Code != http.StatusOK || resp["success"] != true {
		t.Fatalf("add review: code=%d resp=%v", w.Code, resp)
	}

	w, _ = doRequest(t, s, http.MethodPost, "/api/reviews", map[string]any{"content": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty content should be 400, got %d", w.Code)
	}

	w, resp = doRequest(t, s, http.MethodGet, "/api/reviews?milestone=assemblyStart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list reviews: code=%d", w.Code)
	}
	data := resp["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("reviews: got %d, want 1", len(data))
	}
}

func TestWorkOrderEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, resp := doRequest(t, s, http.MethodGet, "/api/work-orders", nil)
	if w.Code != http.StatusOK || resp["success"] != true {
		t.Fatalf("work orders: code=%d resp=%v", w.Code, resp)
	}
	if resp["updateTime"] != nil {
		t.Fatalf("empty cache update time should be null, got %v", resp["updateTime"])
	}

	w, _ = doRequest(t, s, http.MethodGet, "/api/milestones", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing workOrder should be 400, got %d", w.Code)
	}

	w, resp = doRequest(t, s, http.MethodGet, "/api/milestones?workOrder=MO-1", nil)
	if w.Code != http.StatusOK || resp["success"] != false {
		t.Fatalf("empty cache milestones: code=%d resp=%v", w.Code, resp)
	}
}
