package frontend

import (
	"errors"
	"html/template"
	"net/http"
	"regexp"

	"github.com/openclaw/brainsurgeon/ui/service"
)

var pathComponentRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var pageTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Session {{.SessionID}} — BrainSurgeon</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a1a; }
h1 { border-bottom: 1px solid #ddd; padding-bottom: 0.5rem; }
h2 { margin-top: 1.5rem; color: #444; }
li { margin: 0.25rem 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type summaryPage struct {
	SessionID string
	Body      template.HTML
}

func (rt *router) handleSummaryPage(w http.ResponseWriter, r *http.Request) {
	agent := r.PathValue("agent")
	id := r.PathValue("id")
	if !pathComponentRe.MatchString(agent) || !pathComponentRe.MatchString(id) {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	sum, err := rt.svc.Summarize(agent, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if rt.config.Logger != nil {
			rt.config.Logger.Error("summary render failed", "agent", agent, "session", id, "error", err)
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	body, err := RenderSummary(agent, id, sum.Summary)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = pageTemplate.Execute(w, summaryPage{SessionID: id, Body: body})
}
