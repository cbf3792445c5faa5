package frontend

import (
	"net/http"

	"github.com/openclaw/brainsurgeon/ui/service"
)

// Config holds frontend router configuration.
type Config struct {
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

// router holds the frontend router state.
type router struct {
	svc    *service.Service
	config *Config
}

// NewRouter creates a new frontend router.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &router{
		svc:    svc,
		config: cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions/{agent}/{id}/summary", r.handleSummaryPage)

	return mux
}
