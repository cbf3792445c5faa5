// Package service provides the shared business logic for the
// BrainSurgeon HTTP layer.
//
// The service layer is HTTP-agnostic and used by both the REST API and
// the rendered summary pages. It aggregates the engines (store, prune,
// trash, gateway, summary) and routes destructive operations through
// the audit trail.
package service
