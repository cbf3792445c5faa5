package summary

import "strings"

// Policy holds the heuristic vocabularies the generator matches against.
// The defaults reflect what the OpenClaw runtime actually emits; tests can
// substitute minimal fixtures.
type Policy struct {
	// NoiseIndicators are case-insensitive substrings that mark a text as
	// automated noise: heartbeats, rate-limit notices, compaction chatter.
	NoiseIndicators []string

	// ActionKeywords mark an assistant text as describing a concrete action.
	ActionKeywords []string

	// FileKeywords mark a user text as a file operation request worth
	// scanning for file paths.
	FileKeywords []string

	// FileExtensions are recognized source-file suffixes for path detection.
	FileExtensions []string
}

// DefaultPolicy returns the production heuristic vocabularies.
func DefaultPolicy() *Policy {
	return &Policy{
		NoiseIndicators: []string{
			"heartbeat",
			"HEARTBEAT_OK",
			"checking token",
			"context compacted",
			"compacted (",
			"tokens:",
			"token count",
			"system: [",
			"[system]",
			"you've been rate limited",
			"rate limit",
			"compacting context",
			"continue on your open tasks",
		},
		ActionKeywords: []string{
			"implement", "build", "create", "fix", "add", "update",
			"deploy", "configure", "refactor", "integrate", "optimize",
		},
		FileKeywords: []string{
			"create", "write", "edit", "modify", "fix", "build",
		},
		FileExtensions: []string{
			".py", ".js", ".ts", ".html", ".css", ".json", ".md",
			".yml", ".yaml", ".sh", ".txt",
		},
	}
}

// IsNoise reports whether text is automated noise. Empty or absent text
// always counts as noise.
func (p *Policy) IsNoise(text string) bool {
	if text == "" {
		return true
	}
	lower := strings.ToLower(text)
	for _, indicator := range p.NoiseIndicators {
		if strings.Contains(lower, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}

// hasActionKeyword reports whether text mentions any action keyword,
// case-insensitively.
func (p *Policy) hasActionKeyword(text string) bool {
	return containsAnyFold(text, p.ActionKeywords)
}

// hasFileKeyword reports whether text mentions any file-operation keyword,
// case-insensitively.
func (p *Policy) hasFileKeyword(text string) bool {
	return containsAnyFold(text, p.FileKeywords)
}

// hasFileExtension reports whether the token contains a recognized
// source-file extension.
func (p *Policy) hasFileExtension(token string) bool {
	for _, ext := range p.FileExtensions {
		if strings.Contains(token, ext) {
			return true
		}
	}
	return false
}

func containsAnyFold(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
