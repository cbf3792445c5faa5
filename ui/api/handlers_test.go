package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openclaw/brainsurgeon/audit"
	"github.com/openclaw/brainsurgeon/gateway"
	"github.com/openclaw/brainsurgeon/internal/testutil"
	"github.com/openclaw/brainsurgeon/prune"
	"github.com/openclaw/brainsurgeon/store"
	"github.com/openclaw/brainsurgeon/trash"
	"github.com/openclaw/brainsurgeon/ui/service"
)

func newTestRouter(t *testing.T, cfg *Config) (http.Handler, string) {
	t.Helper()
	root := testutil.NewRoot(t)
	st := store.New(root, nil)
	svc := service.New(
		st,
		prune.NewEngine(nil),
		trash.NewManager(st, &trash.Config{Now: func() time.Time {
			return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
		}}, nil),
		gateway.NewRestarter("definitely-not-installed-anywhere", nil),
		nil,
		audit.NewTrail(nil),
	)
	return NewRouter(svc, cfg), root
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s response: %v\nbody: %s", method, path, err, rec.Body.String())
		}
	}
	return rec, resp
}

func dataMap(t *testing.T, resp Response) map[string]any {
	t.Helper()
	m, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("response data is %T, want object", resp.Data)
	}
	return m
}

func TestGetConfig(t *testing.T) {
	h, _ := newTestRouter(t, &Config{AutoRefreshMS: 7000, ReadOnly: true})
	rec, resp := doJSON(t, h, "GET", "/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := dataMap(t, resp)
	if data["auto_refresh_interval_ms"] != float64(7000) || data["readonly_mode"] != true {
		t.Errorf("config = %v", data)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSessionEndpoints(t *testing.T) {
	h, root := newTestRouter(t, &Config{})
	testutil.WriteSession(t, root, "main", "sess-1",
		`{"type":"message","timestamp":"2026-04-01T09:00:00Z","message":{"role":"user","content":"please fix the bug in auth"}}`,
		`{"type":"message","timestamp":"2026-04-01T09:05:00Z","message":{"role":"assistant","model":"claude-sonnet-4","content":"done"}}`,
	)
	testutil.WriteIndex(t, root, "main", map[string]map[string]any{
		"k1": {"sessionId": "sess-1", "label": "auth fix"},
	})

	rec, resp := doJSON(t, h, "GET", "/agents", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("agents status = %d", rec.Code)
	}
	agents := dataMap(t, resp)["agents"].([]any)
	if len(agents) != 1 || agents[0] != "main" {
		t.Errorf("agents = %v", agents)
	}

	rec, resp = doJSON(t, h, "GET", "/sessions?agent=main", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sessions status = %d", rec.Code)
	}
	sessions := dataMap(t, resp)["sessions"].([]any)
	if len(sessions) != 1 {
		t.Fatalf("sessions = %v", sessions)
	}

	rec, resp = doJSON(t, h, "GET", "/sessions/main/sess-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("detail status = %d, body %v", rec.Code, resp.Error)
	}
	if dataMap(t, resp)["id"] != "sess-1" {
		t.Errorf("detail = %v", resp.Data)
	}

	rec, _ = doJSON(t, h, "GET", "/sessions/main/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing session status = %d", rec.Code)
	}

	rec, resp = doJSON(t, h, "GET", "/sessions/main/sess-1/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	data := dataMap(t, resp)
	if data["session_id"] != "sess-1" || data["agent"] != "main" {
		t.Errorf("summary = %v", data)
	}
	if data["summary"].(map[string]any)["message_count"] != float64(2) {
		t.Errorf("summary payload = %v", data["summary"])
	}
}

func TestPruneEndpoint(t *testing.T) {
	h, root := newTestRouter(t, &Config{})
	testutil.WriteSession(t, root, "main", "sess-1",
		`{"type":"tool_result","content":"big output"}`,
		`{"type":"tool_result","content":"bigger output"}`,
	)

	rec, resp := doJSON(t, h, "POST", "/sessions/main/sess-1/prune", `{"keep_recent":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, error %v", rec.Code, resp.Error)
	}
	data := dataMap(t, resp)
	if data["entries_pruned"] != float64(1) || data["mode"] != "full" {
		t.Errorf("prune result = %v", data)
	}

	rec, _ = doJSON(t, h, "POST", "/sessions/main/sess-1/prune", `{"keep_recent":-2}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid keep_recent status = %d", rec.Code)
	}

	rec, _ = doJSON(t, h, "POST", "/sessions/main/missing/prune", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing session status = %d", rec.Code)
	}
}

func TestEditEntryEndpoint(t *testing.T) {
	h, root := newTestRouter(t, &Config{})
	testutil.WriteSession(t, root, "main", "sess-1", `{"type":"message"}`)

	rec, resp := doJSON(t, h, "PUT", "/sessions/main/sess-1/entries/0", `{"entry":{"type":"custom"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, error %v", rec.Code, resp.Error)
	}
	if dataMap(t, resp)["updated"] != true {
		t.Errorf("result = %v", resp.Data)
	}

	rec, _ = doJSON(t, h, "PUT", "/sessions/main/sess-1/entries/5", `{"entry":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range index status = %d", rec.Code)
	}

	rec, _ = doJSON(t, h, "PUT", "/sessions/main/sess-1/entries/zero", `{"entry":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-integer index status = %d", rec.Code)
	}
}

func TestTrashLifecycleOverAPI(t *testing.T) {
	h, root := newTestRouter(t, &Config{})
	testutil.WriteSession(t, root, "main", "sess-1", `{"type":"message"}`)

	rec, resp := doJSON(t, h, "DELETE", "/sessions/main/sess-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if dataMap(t, resp)["moved_to_trash"] != true {
		t.Errorf("delete result = %v", resp.Data)
	}

	rec, resp = doJSON(t, h, "GET", "/trash", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("trash list status = %d", rec.Code)
	}
	trashed := dataMap(t, resp)["sessions"].([]any)
	if len(trashed) != 1 {
		t.Fatalf("trash = %v", trashed)
	}

	rec, resp = doJSON(t, h, "POST", "/trash/main/sess-1/restore", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d, error %v", rec.Code, resp.Error)
	}
	if dataMap(t, resp)["restored"] != true {
		t.Errorf("restore result = %v", resp.Data)
	}

	rec, _ = doJSON(t, h, "POST", "/trash/main/sess-1/restore", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second restore status = %d", rec.Code)
	}

	rec, resp = doJSON(t, h, "POST", "/trash/cleanup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cleanup status = %d", rec.Code)
	}
	if dataMap(t, resp)["cleaned"] != float64(0) {
		t.Errorf("cleanup result = %v", resp.Data)
	}
}

func TestReadOnlyModeBlocksWrites(t *testing.T) {
	h, root := newTestRouter(t, &Config{ReadOnly: true})
	testutil.WriteSession(t, root, "main", "sess-1", `{"type":"message"}`)

	for _, req := range []struct{ method, path string }{
		{"DELETE", "/sessions/main/sess-1"},
		{"POST", "/sessions/main/sess-1/prune"},
		{"PUT", "/sessions/main/sess-1/entries/0"},
		{"DELETE", "/trash/main/sess-1"},
		{"POST", "/trash/main/sess-1/restore"},
		{"POST", "/trash/cleanup"},
		{"POST", "/restart"},
	} {
		rec, resp := doJSON(t, h, req.method, req.path, "{}")
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s status = %d, want 403", req.method, req.path, rec.Code)
		}
		if resp.Error == nil || resp.Error.Code != "readonly" {
			t.Errorf("%s %s error = %v", req.method, req.path, resp.Error)
		}
	}

	// Reads still work.
	if rec, _ := doJSON(t, h, "GET", "/sessions/main/sess-1", ""); rec.Code != http.StatusOK {
		t.Errorf("read in readonly mode status = %d", rec.Code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	h, _ := newTestRouter(t, &Config{APIKeys: []string{"secret-key"}})

	req := httptest.NewRequest("GET", "/agents", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("no key status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("rejection Content-Type = %q", ct)
	}

	req = httptest.NewRequest("GET", "/agents", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/agents", nil)
	req.Header.Set("X-API-Key", "secret-key")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("good key status = %d", rec.Code)
	}
}

func TestPathComponentValidation(t *testing.T) {
	h, _ := newTestRouter(t, &Config{})

	rec, resp := doJSON(t, h, "GET", "/sessions/bad.agent/sess-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "invalid_path_component" {
		t.Errorf("error = %v", resp.Error)
	}

	rec, _ = doJSON(t, h, "GET", "/sessions?agent=..", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("query agent status = %d, want 400", rec.Code)
	}
}

func TestRestartEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, &Config{})

	rec, resp := doJSON(t, h, "POST", "/restart", `{"delay_ms":1000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := dataMap(t, resp)
	if data["restarted"] != true || data["simulated"] != true {
		t.Errorf("restart = %v", data)
	}
	if data["delay_ms"] != float64(1000) {
		t.Errorf("delay_ms = %v", data["delay_ms"])
	}
}

func TestCORSPreflightAndAllowedOrigin(t *testing.T) {
	h, _ := newTestRouter(t, &Config{CORSOrigins: []string{"http://localhost:8654"}})

	req := httptest.NewRequest("OPTIONS", "/sessions", nil)
	req.Header.Set("Origin", "http://localhost:8654")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8654" {
		t.Errorf("allow-origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("GET", "/agents", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("disallowed origin must not be echoed")
	}
}
