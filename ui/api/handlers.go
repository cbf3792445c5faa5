package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/openclaw/brainsurgeon/prune"
	"github.com/openclaw/brainsurgeon/store"
	"github.com/openclaw/brainsurgeon/trash"
	"github.com/openclaw/brainsurgeon/ui/service"
)

// Response wraps all API responses.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response. The content type is set here
// too because middleware can reply before jsonMiddleware runs.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Error: &APIError{Code: code, Message: message},
	})
}

// pathComponentRe restricts agent and session id path components to
// names that cannot traverse directories.
var pathComponentRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// pathComponent extracts and validates a path parameter. It writes the
// error response itself and returns ok=false on failure.
func pathComponent(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.PathValue(name)
	if value == "" || !pathComponentRe.MatchString(value) {
		writeError(w, http.StatusBadRequest, "invalid_path_component",
			"invalid "+name+": only alphanumeric, hyphens, and underscores allowed")
		return "", false
	}
	return value, true
}

// requireWrite rejects the request when the server is read-only.
func (rt *router) requireWrite(w http.ResponseWriter) bool {
	if rt.config.ReadOnly {
		writeError(w, http.StatusForbidden, "readonly", "server is in read-only mode")
		return false
	}
	return true
}

func actorOf(r *http.Request) string {
	return r.Header.Get("X-API-Key")
}

// Metadata handlers

func (rt *router) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"auto_refresh_interval_ms": rt.config.AutoRefreshMS,
		"readonly_mode":            rt.config.ReadOnly,
	})
}

func (rt *router) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": rt.svc.Agents()})
}

// Session handlers

func (rt *router) handleListSessions(w http.ResponseWriter, r *http.Request) {
	agent := r.URL.Query().Get("agent")
	if agent != "" && !pathComponentRe.MatchString(agent) {
		writeError(w, http.StatusBadRequest, "invalid_path_component", "invalid agent")
		return
	}
	list, err := rt.svc.ListSessions(agent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (rt *router) handleGetSession(w http.ResponseWriter, r *http.Request) {
	agent, ok := pathComponent(w, r, "agent")
	if !ok {
		return
	}
	id, ok := pathComponent(w, r, "id")
	if !ok {
		return
	}
	detail, err := rt.svc.GetSession(agent, id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (rt *router) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	agent, ok := pathComponent(w, r, "agent")
	if !ok {
		return
	}
	id, ok := pathComponent(w, r, "id")
	if !ok {
		return
	}
	sum, err := rt.svc.Summarize(agent, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (rt *router) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !rt.requireWrite(w) {
		return
	}
	agent, ok := pathComponent(w, r, "agent")
	if !ok {
		return
	}
	id, ok := pathComponent(w, r, "id")
	if !ok {
		return
	}
	result, err := rt.svc.DeleteSession(agent, id, actorOf(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type pruneRequest struct {
	KeepRecent *int `json:"keep_recent"`
}

func (rt *router) handlePruneSession(w http.ResponseWriter, r *http.Request) {
	if !rt.requireWrite(w) {
		return
	}
	agent, ok := pathComponent(w, r, "agent")
	if !ok {
		return
	}
	id, ok := pathComponent(w, r, "id")
	if !ok {
		return
	}

	keepRecent := 3
	var req pruneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.KeepRecent != nil {
		keepRecent = *req.KeepRecent
	}

	result, err := rt.svc.PruneSession(agent, id, actorOf(r), keepRecent)
	if err != nil {
		switch {
		case errors.Is(err, prune.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "not_found", "session not found")
		case errors.Is(err, prune.ErrInvalidKeepRecent):
			writeError(w, http.StatusBadRequest, "invalid_keep_recent", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type editEntryRequest struct {
	Entry map[string]any `json:"entry"`
}

func (rt *router) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	if !rt.requireWrite(w) {
		return
	}
	agent, ok := pathComponent(w, r, "agent")
	if !ok {
		return
	}
	id, ok := pathComponent(w, r, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index", "entry index must be an integer")
		return
	}

	var req editEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Entry == nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must contain an entry object")
		return
	}

	result, err := rt.svc.EditEntry(agent, id, actorOf(r), index, req.Entry)
	if err != nil {
		switch {
		case errors.Is(err, prune.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "not_found", "session not found")
		case errors.Is(err, prune.ErrInvalidIndex):
			writeError(w, http.StatusBadRequest, "invalid_index", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Trash handlers

func (rt *router) handleListTrash(w http.ResponseWriter, r *http.Request) {
	metas, err := rt.svc.ListTrash()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": metas})
}

func (rt *router) handlePermanentDelete(w http.ResponseWriter, r *http.Request) {
	if !rt.requireWrite(w) {
		return
	}
	agent, ok := pathComponent(w, r, "agent")
	if !ok {
		return
	}
	id, ok := pathComponent(w, r, "id")
	if !ok {
		return
	}
	found, err := rt.svc.PermanentDelete(agent, id, actorOf(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": found, "id": id})
}

func (rt *router) handleRestoreSession(w http.ResponseWriter, r *http.Request) {
	if !rt.requireWrite(w) {
		return
	}
	agent, ok := pathComponent(w, r, "agent")
	if !ok {
		return
	}
	id, ok := pathComponent(w, r, "id")
	if !ok {
		return
	}
	result, err := rt.svc.RestoreSession(agent, id, actorOf(r))
	if err != nil {
		if errors.Is(err, trash.ErrNotInTrash) {
			writeError(w, http.StatusNotFound, "not_found", "session not found in trash")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *router) handleCleanupTrash(w http.ResponseWriter, r *http.Request) {
	if !rt.requireWrite(w) {
		return
	}
	result, err := rt.svc.CleanupTrash(actorOf(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Gateway handlers

type restartRequest struct {
	DelayMS *int   `json:"delay_ms"`
	Note    string `json:"note"`
}

func (rt *router) handleRestart(w http.ResponseWriter, r *http.Request) {
	if !rt.requireWrite(w) {
		return
	}

	delayMS := 5000
	note := "Restart triggered from BrainSurgeon"
	var req restartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		if req.DelayMS != nil {
			delayMS = *req.DelayMS
		}
		if req.Note != "" {
			note = req.Note
		}
	}

	result, err := rt.svc.RestartGateway(r.Context(), actorOf(r), delayMS, note)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "restart_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
