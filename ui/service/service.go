package service

import (
	"time"

	"github.com/openclaw/brainsurgeon/audit"
	"github.com/openclaw/brainsurgeon/gateway"
	"github.com/openclaw/brainsurgeon/prune"
	"github.com/openclaw/brainsurgeon/store"
	"github.com/openclaw/brainsurgeon/summary"
	"github.com/openclaw/brainsurgeon/trash"
)

// Service provides session management operations for the HTTP layer. It
// aggregates the engines and routes every operation through the audit
// trail.
type Service struct {
	store     *store.Store
	pruner    *prune.Engine
	trash     *trash.Manager
	gateway   *gateway.Restarter
	summaries *summary.Generator
	audit     *audit.Trail

	now func() time.Time
}

// New creates a new Service over the given engines. A nil summaries
// generator uses the default policy; a nil audit trail discards events.
func New(s *store.Store, pruner *prune.Engine, t *trash.Manager, g *gateway.Restarter, summaries *summary.Generator, trail *audit.Trail) *Service {
	if summaries == nil {
		summaries = summary.NewGenerator(nil)
	}
	if trail == nil {
		trail = audit.NewTrail(nil)
	}
	return &Service{
		store:     s,
		pruner:    pruner,
		trash:     t,
		gateway:   g,
		summaries: summaries,
		audit:     trail,
		now:       time.Now,
	}
}

// Store returns the underlying session store.
func (s *Service) Store() *store.Store {
	return s.store
}

// Agents lists the agents that have session directories.
func (s *Service) Agents() []string {
	return s.store.Agents()
}
