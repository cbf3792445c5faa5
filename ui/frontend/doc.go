// Package frontend renders session summaries as HTML for human review
// before deletion.
//
// The digest is assembled as markdown, converted with goldmark, and
// sanitized with bluemonday before it reaches the browser.
//
// # Routes
//
//   - GET /sessions/{agent}/{id}/summary - Rendered summary page
package frontend
