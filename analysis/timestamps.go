package analysis

import (
	"time"

	"github.com/openclaw/brainsurgeon/record"
)

// Timestamps is the time range of a session.
type Timestamps struct {
	// Created is the timestamp string of the first record carrying one.
	Created string

	// Updated is the timestamp string of the last record carrying one.
	Updated string

	// DurationMinutes is updated minus created in fractional minutes, nil
	// when either bound is absent or fails to parse.
	DurationMinutes *float64
}

// SessionTimestamps scans records in order and returns the session's time
// range. Unparsable timestamps degrade to the raw strings with a nil
// duration; the call itself never fails.
func SessionTimestamps(records []record.Record) Timestamps {
	var ts Timestamps
	for i := range records {
		if records[i].Timestamp == "" {
			continue
		}
		if ts.Created == "" {
			ts.Created = records[i].Timestamp
		}
		ts.Updated = records[i].Timestamp
	}
	if ts.Created == "" || ts.Updated == "" {
		return ts
	}

	start, err := ParseTimestamp(ts.Created)
	if err != nil {
		return ts
	}
	end, err := ParseTimestamp(ts.Updated)
	if err != nil {
		return ts
	}
	minutes := end.Sub(start).Minutes()
	ts.DurationMinutes = &minutes
	return ts
}

// IsStale reports whether a session whose last activity is updated has been
// inactive for strictly more than StaleAfter at time now. An empty or
// unparsable timestamp is never stale.
func IsStale(updated string, now time.Time) bool {
	if updated == "" {
		return false
	}
	t, err := ParseTimestamp(updated)
	if err != nil {
		return false
	}
	return now.Sub(t) > StaleAfter
}

// timestampLayouts are tried in order. Session logs normally carry RFC 3339
// but older runtimes emitted zone-less local timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp string from a session log.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
