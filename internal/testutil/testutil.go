// Package testutil provides on-disk fixtures for session layout tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// NewRoot creates a temporary OpenClaw root with an agents directory.
func NewRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "agents"), 0o755); err != nil {
		t.Fatalf("create agents dir: %v", err)
	}
	return root
}

// SessionPath returns the canonical log path for a session under root.
func SessionPath(root, agent, sessionID string) string {
	return filepath.Join(root, "agents", agent, "sessions", sessionID+".jsonl")
}

// WriteSession writes a session log from JSONL lines and returns its path.
func WriteSession(t *testing.T, root, agent, sessionID string, lines ...string) string {
	t.Helper()
	path := SessionPath(root, agent, sessionID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create sessions dir: %v", err)
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return path
}

// WriteIndex writes an agent's sessions.json from the given entries.
func WriteIndex(t *testing.T, root, agent string, entries map[string]map[string]any) {
	t.Helper()
	path := filepath.Join(root, "agents", agent, "sessions", "sessions.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create sessions dir: %v", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		t.Fatalf("marshal index: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
}

// ReadFile reads a file and fails the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
