package store

import "errors"

// ErrSessionNotFound is returned when a session's log file does not exist.
// File existence is authoritative for session existence; the index entry is
// advisory metadata only.
var ErrSessionNotFound = errors.New("session not found")
