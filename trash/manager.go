// Package trash implements the soft-delete lifecycle for session files:
// move-to-trash with cascading child deletion, listing, restoration, and
// timed expiry. Each trashed data file carries a same-stem .meta.json
// sidecar recording where it came from and when it expires.
package trash

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/openclaw/brainsurgeon/store"
)

// Logger is the minimal logging interface used by the trash package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Default configuration values.
const (
	// DefaultRetention is how long a trashed session is kept before the
	// expiry sweep removes it.
	DefaultRetention = 14 * 24 * time.Hour
)

// trashStampLayout is the collision-avoiding timestamp embedded in trash
// file names: {agent}_{session_id}_{stamp}.jsonl.
const trashStampLayout = "20060102_150405"

const metaSuffix = ".meta.json"

// Config holds configuration for the trash manager.
type Config struct {
	// Dir is the directory holding trashed files and their sidecars.
	// Default: <store root>/trash
	Dir string

	// Retention is how long trashed sessions are kept before expiry.
	// Default: 14 days
	Retention time.Duration

	// Now returns the current time. Default: time.Now. Tests override
	// this to drive expiry deterministically.
	Now func() time.Time
}

// ApplyDefaults fills in zero values with defaults. The store root is
// needed to derive the default trash directory.
func (c *Config) ApplyDefaults(root string) {
	if c.Dir == "" {
		c.Dir = filepath.Join(root, "trash")
	}
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Meta is the sidecar metadata written next to every trashed data file.
type Meta struct {
	OriginalAgent     string `json:"original_agent"`
	OriginalSessionID string `json:"original_session_id"`
	OriginalPath      string `json:"original_path"`
	TrashedAt         string `json:"trashed_at"`
	ExpiresAt         string `json:"expires_at"`
	ParentSessionID   string `json:"parent_session_id,omitempty"`
}

// DeleteResult reports the outcome of a soft delete.
type DeleteResult struct {
	Deleted      bool   `json:"deleted"`
	ID           string `json:"id"`
	MovedToTrash bool   `json:"moved_to_trash"`
}

// RestoreResult reports the outcome of a restore.
type RestoreResult struct {
	Restored bool   `json:"restored"`
	ID       string `json:"id"`
	Path     string `json:"path"`
}

// Manager orchestrates the trash lifecycle. State machine per session
// file: ACTIVE -> TRASHED -> {RESTORED(->ACTIVE) | PURGED}; expiry is
// checked lazily during Cleanup, never stored.
type Manager struct {
	store  *store.Store
	config *Config
	logger Logger
}

// NewManager creates a trash manager backed by the given store.
func NewManager(s *store.Store, config *Config, logger Logger) *Manager {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults(s.Root())
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{store: s, config: config, logger: logger}
}

// Dir returns the trash directory.
func (m *Manager) Dir() string {
	return m.config.Dir
}

// SoftDelete moves a session file into the trash and writes its sidecar,
// then cascades to every index entry whose session id or recorded parent
// matches the target. The index is rewritten once after the cascade; an
// unreadable index skips the cascade rather than failing the delete.
func (m *Manager) SoftDelete(agent, sessionID string) (*DeleteResult, error) {
	if err := os.MkdirAll(m.config.Dir, 0o755); err != nil {
		return nil, WrapError("soft_delete", m.config.Dir, err)
	}

	moved := false
	path := m.store.SessionPath(agent, sessionID)
	if _, err := os.Stat(path); err == nil {
		if err := m.trashFile(agent, sessionID, path, ""); err != nil {
			return nil, err
		}
		moved = true
	}

	idx, err := m.store.ReadIndex(agent)
	if err != nil {
		// Advisory metadata only. A missing or corrupt index means no
		// cascade, not a failed delete.
		if !os.IsNotExist(err) {
			m.logger.Warn("unreadable session index, skipping cascade", "agent", agent, "error", err)
		}
		return &DeleteResult{Deleted: true, ID: sessionID, MovedToTrash: moved}, nil
	}

	changed := false
	for key, entry := range idx {
		sid := entry.SessionID()
		if sid != sessionID && entry.ParentSessionID() != sessionID {
			continue
		}
		if sid != "" && sid != sessionID {
			childPath := m.store.SessionPath(agent, sid)
			if _, err := os.Stat(childPath); err == nil {
				if err := m.trashFile(agent, sid, childPath, sessionID); err != nil {
					m.logger.Error("cascade trash failed", "agent", agent, "session", sid, "error", err)
					continue
				}
				moved = true
			}
		}
		delete(idx, key)
		changed = true
	}
	if changed {
		if err := m.store.SaveIndex(agent, idx); err != nil {
			m.logger.Error("index rewrite failed after cascade", "agent", agent, "error", err)
		}
	}

	m.logger.Info("session moved to trash", "agent", agent, "session", sessionID, "cascaded", changed)
	return &DeleteResult{Deleted: true, ID: sessionID, MovedToTrash: moved}, nil
}

// trashFile moves one data file into the trash and writes its sidecar.
// parentID is set on cascaded children only.
func (m *Manager) trashFile(agent, sessionID, path, parentID string) error {
	now := m.config.Now()
	stem := agent + "_" + sessionID + "_" + now.Format(trashStampLayout)
	dest := filepath.Join(m.config.Dir, stem+".jsonl")

	if err := moveFile(path, dest); err != nil {
		return WrapError("soft_delete", path, err)
	}

	meta := Meta{
		OriginalAgent:     agent,
		OriginalSessionID: sessionID,
		OriginalPath:      path,
		TrashedAt:         now.UTC().Format(time.RFC3339Nano),
		ExpiresAt:         now.UTC().Add(m.config.Retention).Format(time.RFC3339Nano),
		ParentSessionID:   parentID,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return WrapError("soft_delete", dest, err)
	}
	metaPath := filepath.Join(m.config.Dir, stem+metaSuffix)
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return WrapError("soft_delete", metaPath, err)
	}
	return nil
}

// List returns the parsed sidecar metadata of every trashed session,
// most recently trashed first. Corrupt sidecars are skipped.
func (m *Manager) List() ([]Meta, error) {
	matches, err := filepath.Glob(filepath.Join(m.config.Dir, "*"+metaSuffix))
	if err != nil {
		return nil, WrapError("list", m.config.Dir, err)
	}

	metas := make([]Meta, 0, len(matches))
	for _, path := range matches {
		meta, err := readMeta(path)
		if err != nil {
			m.logger.Warn("skipping corrupt trash sidecar", "path", path, "error", err)
			continue
		}
		metas = append(metas, meta)
	}
	sort.SliceStable(metas, func(i, j int) bool {
		return parseTrashTime(metas[i].TrashedAt).After(parseTrashTime(metas[j].TrashedAt))
	})
	return metas, nil
}

// PermanentDelete removes every trashed data file and sidecar for the
// given session. It reports whether any data file was found.
func (m *Manager) PermanentDelete(agent, sessionID string) (bool, error) {
	prefix := filepath.Join(m.config.Dir, agent+"_"+sessionID+"_")

	files, err := filepath.Glob(prefix + "*.jsonl")
	if err != nil {
		return false, WrapError("permanent_delete", m.config.Dir, err)
	}
	deleted := false
	for _, path := range files {
		if err := os.Remove(path); err != nil {
			return deleted, WrapError("permanent_delete", path, err)
		}
		deleted = true
	}

	sidecars, err := filepath.Glob(prefix + "*" + metaSuffix)
	if err != nil {
		return deleted, WrapError("permanent_delete", m.config.Dir, err)
	}
	for _, path := range sidecars {
		if err := os.Remove(path); err != nil {
			return deleted, WrapError("permanent_delete", path, err)
		}
	}

	m.logger.Info("session permanently deleted", "agent", agent, "session", sessionID, "found", deleted)
	return deleted, nil
}

// Restore copies a trashed session back to its original path. If the
// session was trashed more than once, the copy with the most recent
// trashed_at wins. The original path comes from the sidecar, falling
// back to the canonical store path when the sidecar is unreadable. The
// trash copies are removed best-effort afterwards; a permission failure
// there does not fail the restore.
func (m *Manager) Restore(agent, sessionID string) (*RestoreResult, error) {
	candidates, err := filepath.Glob(filepath.Join(m.config.Dir, agent+"_"+sessionID+"_*.jsonl"))
	if err != nil {
		return nil, WrapError("restore", m.config.Dir, err)
	}
	// Sidecar names differ only in suffix, so .meta.json data files never
	// match the .jsonl glob.
	if len(candidates) == 0 {
		return nil, ErrNotInTrash
	}

	trashPath := m.pickNewest(candidates)
	metaPath := strings.TrimSuffix(trashPath, ".jsonl") + metaSuffix

	originalPath := m.store.SessionPath(agent, sessionID)
	if meta, err := readMeta(metaPath); err == nil && meta.OriginalPath != "" {
		originalPath = meta.OriginalPath
	}

	if err := os.MkdirAll(filepath.Dir(originalPath), 0o755); err != nil {
		return nil, WrapError("restore", originalPath, err)
	}
	// Copy rather than rename so a read-only trash directory (owned by
	// another user) cannot block the restore.
	if err := copyFile(trashPath, originalPath); err != nil {
		return nil, WrapError("restore", trashPath, err)
	}

	if err := os.Remove(trashPath); err == nil {
		if err := os.Remove(metaPath); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("could not remove trash sidecar", "path", metaPath, "error", err)
		}
	} else {
		m.logger.Warn("could not remove trash copy", "path", trashPath, "error", err)
	}

	m.reindexRestored(agent, sessionID)

	m.logger.Info("session restored from trash", "agent", agent, "session", sessionID, "path", originalPath)
	return &RestoreResult{Restored: true, ID: sessionID, Path: originalPath}, nil
}

// pickNewest resolves duplicate trash copies by sidecar trashed_at,
// falling back to the timestamp embedded in the file name.
func (m *Manager) pickNewest(candidates []string) string {
	if len(candidates) == 1 {
		return candidates[0]
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ti := trashedAtOf(candidates[i])
		tj := trashedAtOf(candidates[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return candidates[i] > candidates[j]
	})
	return candidates[0]
}

func trashedAtOf(dataPath string) time.Time {
	meta, err := readMeta(strings.TrimSuffix(dataPath, ".jsonl") + metaSuffix)
	if err != nil {
		return time.Time{}
	}
	return parseTrashTime(meta.TrashedAt)
}

// parseTrashTime parses a sidecar timestamp, accepting both nanosecond
// and second precision. Unparsable values sort as the zero time.
func parseTrashTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}

// reindexRestored re-appends a minimal index entry for a restored
// session when the index exists but no longer mentions it.
func (m *Manager) reindexRestored(agent, sessionID string) {
	idx, err := m.store.ReadIndex(agent)
	if err != nil {
		return
	}
	for _, entry := range idx {
		if entry.SessionID() == sessionID {
			return
		}
	}
	label := sessionID
	if len(label) > 8 {
		label = label[:8]
	}
	idx[sessionID] = store.Entry{
		"sessionId": sessionID,
		"label":     label,
		"agentId":   agent,
		"createdAt": m.config.Now().UTC().Format(time.RFC3339Nano),
		"restored":  true,
	}
	if err := m.store.SaveIndex(agent, idx); err != nil {
		m.logger.Warn("could not re-add restored session to index", "agent", agent, "session", sessionID, "error", err)
	}
}

// Cleanup deletes every trashed pair whose expires_at has passed and
// returns how many were removed. Unparsable sidecars are skipped and do
// not count as cleaned.
func (m *Manager) Cleanup() (int, error) {
	matches, err := filepath.Glob(filepath.Join(m.config.Dir, "*"+metaSuffix))
	if err != nil {
		return 0, WrapError("cleanup", m.config.Dir, err)
	}

	now := m.config.Now()
	cleaned := 0
	for _, metaPath := range matches {
		meta, err := readMeta(metaPath)
		if err != nil {
			continue
		}
		expires := parseTrashTime(meta.ExpiresAt)
		if expires.IsZero() || !expires.Before(now) {
			continue
		}

		dataPath := strings.TrimSuffix(metaPath, metaSuffix) + ".jsonl"
		if err := os.Remove(dataPath); err != nil && !os.IsNotExist(err) {
			m.logger.Error("could not remove expired trash file", "path", dataPath, "error", err)
			continue
		}
		if err := os.Remove(metaPath); err != nil {
			m.logger.Error("could not remove expired trash sidecar", "path", metaPath, "error", err)
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		m.logger.Info("expired trash cleaned", "count", cleaned)
	}
	return cleaned, nil
}

func readMeta(path string) (Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// trash directory lives on a different filesystem.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
