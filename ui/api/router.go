package api

import (
	"net/http"

	"github.com/openclaw/brainsurgeon/ui/service"
)

// Config holds API router configuration.
type Config struct {
	// APIKeys is the set of accepted X-API-Key values.
	// Empty means authentication is disabled.
	APIKeys []string

	// ReadOnly rejects every destructive endpoint.
	ReadOnly bool

	// CORSOrigins is the allowed origin list for browser clients.
	CORSOrigins []string

	// AutoRefreshMS is advertised to the UI via GET /config.
	AutoRefreshMS int

	// Logger for structured logging.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// router holds the API router state.
type router struct {
	svc    *service.Service
	config *Config
}

// NewRouter creates a new API router.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &router{
		svc:    svc,
		config: cfg,
	}

	mux := http.NewServeMux()

	// Service metadata
	mux.HandleFunc("GET /config", r.handleGetConfig)
	mux.HandleFunc("GET /agents", r.handleListAgents)

	// Sessions
	mux.HandleFunc("GET /sessions", r.handleListSessions)
	mux.HandleFunc("GET /sessions/{agent}/{id}", r.handleGetSession)
	mux.HandleFunc("GET /sessions/{agent}/{id}/summary", r.handleGetSummary)
	mux.HandleFunc("DELETE /sessions/{agent}/{id}", r.handleDeleteSession)
	mux.HandleFunc("POST /sessions/{agent}/{id}/prune", r.handlePruneSession)
	mux.HandleFunc("PUT /sessions/{agent}/{id}/entries/{index}", r.handleEditEntry)

	// Trash
	mux.HandleFunc("GET /trash", r.handleListTrash)
	mux.HandleFunc("DELETE /trash/{agent}/{id}", r.handlePermanentDelete)
	mux.HandleFunc("POST /trash/{agent}/{id}/restore", r.handleRestoreSession)
	mux.HandleFunc("POST /trash/cleanup", r.handleCleanupTrash)

	// Gateway
	mux.HandleFunc("POST /restart", r.handleRestart)

	return withMiddleware(mux, cfg)
}

// withMiddleware wraps the handler with common middleware.
func withMiddleware(handler http.Handler, cfg *Config) http.Handler {
	// Add JSON content type
	handler = jsonMiddleware(handler)
	// Check API keys
	handler = authMiddleware(handler, cfg)
	// Browser cross-origin headers
	handler = corsMiddleware(handler, cfg)
	// Add error recovery
	handler = recoveryMiddleware(handler, cfg.Logger)
	return handler
}

// jsonMiddleware sets JSON content type for all responses.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// authMiddleware enforces the configured API key set. An empty set
// leaves the API open for local development.
func authMiddleware(next http.Handler, cfg *Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(cfg.APIKeys) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get("X-API-Key")
		if key == "" {
			writeError(w, http.StatusForbidden, "api_key_required", "API key required. Pass X-API-Key header.")
			return
		}
		for _, allowed := range cfg.APIKeys {
			if key == allowed {
				next.ServeHTTP(w, r)
				return
			}
		}
		writeError(w, http.StatusForbidden, "invalid_api_key", "invalid API key")
	})
}

// corsMiddleware answers preflight requests and sets allow-origin
// headers for configured origins.
func corsMiddleware(next http.Handler, cfg *Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			for _, allowed := range cfg.CORSOrigins {
				if origin == allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					break
				}
			}
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, `{"error":{"code":"internal_error","message":"internal server error"}}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
