// Package api provides the REST endpoints for BrainSurgeon.
//
// The API layer exposes the session engine over JSON for programmatic
// and UI access.
//
// # Endpoints
//
// Service:
//   - GET /config - UI configuration (refresh interval, readonly mode)
//   - GET /agents - List agents with session directories
//   - POST /restart - Trigger an OpenClaw gateway restart
//
// Sessions:
//   - GET /sessions - List sessions (optionally ?agent=)
//   - GET /sessions/{agent}/{id} - Session detail
//   - GET /sessions/{agent}/{id}/summary - Pre-deletion digest
//   - DELETE /sessions/{agent}/{id} - Soft-delete into trash (cascades)
//   - POST /sessions/{agent}/{id}/prune - Redact tool content
//   - PUT /sessions/{agent}/{id}/entries/{index} - Replace one record
//
// Trash:
//   - GET /trash - List trashed sessions
//   - DELETE /trash/{agent}/{id} - Permanent delete
//   - POST /trash/{agent}/{id}/restore - Restore to original path
//   - POST /trash/cleanup - Remove expired entries
//
// Authentication uses the X-API-Key header when keys are configured.
// Destructive endpoints are rejected in read-only mode.
package api
