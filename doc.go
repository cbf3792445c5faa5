// Package brainsurgeon provides surgical inspection and editing of OpenClaw
// agent session logs.
//
// BrainSurgeon reads the JSONL conversation files OpenClaw writes under
// <root>/agents/<agent>/sessions/ and exposes them through a small HTTP API
// and server-rendered summary pages. It never talks to a model provider; all
// analysis works directly on the persisted records.
//
// # Key Features
//
//   - Session listing and per-entry detail with token and tool statistics
//   - Markdown summaries generated from the raw conversation records
//   - Context pruning that redacts bulky tool results in place
//   - Soft delete with a retention-based trash and child-session cascade
//   - Direct entry editing with atomic index-preserving rewrites
//
// # Quick Start
//
// Load configuration and wire the application:
//
//	cfg, err := brainsurgeon.LoadConfig("brainsurgeon.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app := brainsurgeon.NewApp(cfg, logger)
//	app.Sweeper.Start(ctx)
//	http.ListenAndServe(cfg.ListenAddr, app.Handler)
//
// The cmd/brainsurgeond command packages this wiring behind a CLI with
// graceful shutdown and a one-shot trash cleanup subcommand.
//
// # Layout Compatibility
//
// BrainSurgeon treats the on-disk layout as a contract shared with the
// OpenClaw gateway: session files stay where the gateway wrote them, the
// per-agent sessions.json index keeps its schema, and trashed sessions move
// to <root>/trash with a .meta.json sidecar describing how to restore them.
package brainsurgeon
