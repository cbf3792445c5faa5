package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/openclaw/brainsurgeon/summary"
)

// The markdown converter and HTML sanitizer never change after
// construction and are safe to share across requests.
var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
	sanitizer    *bluemonday.Policy
)

func initRendering() {
	markdownConv = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	sanitizer = bluemonday.UGCPolicy()
}

// RenderSummary converts a session digest into sanitized HTML.
func RenderSummary(agent, sessionID string, sum *summary.Summary) (template.HTML, error) {
	markdownOnce.Do(initRendering)

	var buf bytes.Buffer
	if err := markdownConv.Convert([]byte(summaryMarkdown(agent, sessionID, sum)), &buf); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// summaryMarkdown lays the digest out as markdown for conversion.
func summaryMarkdown(agent, sessionID string, sum *summary.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Session %s\n\n", sessionID)
	duration := "unknown"
	if sum.DurationEstimate != nil {
		duration = fmt.Sprintf("%.1f min", *sum.DurationEstimate)
	}
	fmt.Fprintf(&b, "**Agent:** %s · **Type:** %s · **Duration:** %s\n\n",
		agent, sum.SessionType, duration)
	fmt.Fprintf(&b, "%d messages (%d from the user, %d meaningful), %d tool calls.\n\n",
		sum.MessageCount, sum.UserMessages, sum.MeaningfulMessages, sum.ToolCalls)
	if sum.HasGitCommits {
		b.WriteString("This session made git commits.\n\n")
	}

	writeList(&b, "Models used", sum.ModelsUsed)
	writeList(&b, "Tools used", sum.ToolsUsed)
	writeList(&b, "User requests", sum.UserRequests)
	writeList(&b, "Key actions", sum.KeyActions)
	writeList(&b, "Thinking insights", sum.ThinkingInsights)
	writeList(&b, "Files created", sum.FilesCreated)
	writeList(&b, "Files modified", sum.FilesModified)
	writeList(&b, "Errors", sum.Errors)

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
