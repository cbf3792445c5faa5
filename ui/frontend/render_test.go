package frontend

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openclaw/brainsurgeon/internal/testutil"
	"github.com/openclaw/brainsurgeon/store"
	"github.com/openclaw/brainsurgeon/summary"
	"github.com/openclaw/brainsurgeon/ui/service"
)

func TestRenderSummary(t *testing.T) {
	duration := 12.5
	sum := &summary.Summary{
		SessionType:      "development",
		DurationEstimate: &duration,
		MessageCount:     10,
		UserMessages:     4,
		ToolsUsed:        []string{"bash", "edit"},
		KeyActions:       []string{"Fixed the auth bug"},
		HasGitCommits:    true,
	}

	html, err := RenderSummary("main", "sess-1", sum)
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := string(html)
	for _, want := range []string{"<h1", "sess-1", "12.5 min", "<li>bash</li>", "Fixed the auth bug", "git commits"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered HTML missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary_NilDuration(t *testing.T) {
	sum := &summary.Summary{SessionType: "chat"}

	html, err := RenderSummary("main", "sess-2", sum)
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "unknown") {
		t.Errorf("rendered HTML missing duration placeholder:\n%s", out)
	}
	if strings.Contains(out, "%!") {
		t.Errorf("rendered HTML contains a formatting artifact:\n%s", out)
	}
}

func TestRenderSummary_SanitizesScript(t *testing.T) {
	sum := &summary.Summary{
		SessionType: "chat",
		KeyActions:  []string{`<script>alert("x")</script>Created file`},
	}

	html, err := RenderSummary("main", "sess-1", sum)
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Errorf("script tag survived sanitization:\n%s", html)
	}
}

func TestSummaryPageHandler(t *testing.T) {
	root := testutil.NewRoot(t)
	testutil.WriteSession(t, root, "main", "sess-1",
		`{"type":"message","message":{"role":"user","content":"please fix the login flow"}}`,
	)
	st := store.New(root, nil)
	svc := service.New(st, nil, nil, nil, nil, nil)
	h := NewRouter(svc, nil)

	req := httptest.NewRequest("GET", "/sessions/main/sess-1/summary", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "sess-1") {
		t.Error("page should mention the session id")
	}

	req = httptest.NewRequest("GET", "/sessions/main/missing/summary", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing session status = %d", rec.Code)
	}
}
