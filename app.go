package brainsurgeon

import (
	"net/http"

	"github.com/openclaw/brainsurgeon/audit"
	"github.com/openclaw/brainsurgeon/gateway"
	"github.com/openclaw/brainsurgeon/prune"
	"github.com/openclaw/brainsurgeon/store"
	"github.com/openclaw/brainsurgeon/summary"
	"github.com/openclaw/brainsurgeon/trash"
	"github.com/openclaw/brainsurgeon/ui"
	"github.com/openclaw/brainsurgeon/ui/service"
)

// App wires the engines together for the serving binary.
type App struct {
	Config  *Config
	Store   *store.Store
	Trash   *trash.Manager
	Sweeper *trash.Sweeper
	Service *service.Service
	Handler http.Handler
}

// NewApp assembles the full service from configuration.
func NewApp(cfg *Config, logger Logger) *App {
	if cfg == nil {
		cfg = DefaultConfig()
		cfg.ApplyDefaults()
	}

	st := store.New(cfg.Root, logger)
	trashMgr := trash.NewManager(st, nil, logger)
	svc := service.New(
		st,
		prune.NewEngine(logger),
		trashMgr,
		gateway.NewRestarter(cfg.GatewayBinary, logger),
		summary.NewGenerator(nil),
		audit.NewTrail(logger),
	)

	sweeper := trash.NewSweeper(trashMgr, &trash.SweeperConfig{
		OnCleanup: func(count int) {
			if logger != nil {
				logger.Info("trash sweep removed expired sessions", "count", count)
			}
		},
		OnError: func(err error) {
			if logger != nil {
				logger.Error("trash sweep failed", "error", err)
			}
		},
	})

	handler := ui.Handler(svc, &ui.Config{
		APIKeys:       cfg.APIKeys,
		ReadOnly:      cfg.ReadOnly,
		CORSOrigins:   cfg.CORSOrigins,
		AutoRefreshMS: cfg.AutoRefreshMS,
		Logger:        logger,
	})

	return &App{
		Config:  cfg,
		Store:   st,
		Trash:   trashMgr,
		Sweeper: sweeper,
		Service: svc,
		Handler: handler,
	}
}
