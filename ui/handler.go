package ui

import (
	"net/http"

	"github.com/openclaw/brainsurgeon/ui/api"
	"github.com/openclaw/brainsurgeon/ui/frontend"
	"github.com/openclaw/brainsurgeon/ui/service"
)

// Handler returns the combined HTTP handler: the JSON API at the root
// and the rendered summary pages under /view/.
//
// Usage:
//
//	http.Handle("/", ui.Handler(svc, cfg))
func Handler(svc *service.Service, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.applyDefaults()
	}

	// Validate configuration (panic on invalid config as this is a programmer error)
	if err := cfg.validate(); err != nil {
		panic("ui: invalid configuration: " + err.Error())
	}

	apiHandler := api.NewRouter(svc, &api.Config{
		APIKeys:       cfg.APIKeys,
		ReadOnly:      cfg.ReadOnly,
		CORSOrigins:   cfg.CORSOrigins,
		AutoRefreshMS: cfg.AutoRefreshMS,
		Logger:        cfg.Logger,
	})
	viewHandler := frontend.NewRouter(svc, &frontend.Config{
		Logger: cfg.Logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/view/", http.StripPrefix("/view", viewHandler))
	mux.Handle("/", apiHandler)
	return mux
}
