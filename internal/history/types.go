// Package history keeps a SQLite log of linted messages so recurring
// failures can be searched and counted across runs.
package history

import "time"

// MessageRecord is one linted message.
type MessageRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Header    string    `json:"header"`
	Preset    string    `json:"preset"`
	Valid     bool      `json:"valid"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	CreatedAt time.Time `json:"created_at"`
	Problems  []Problem `json:"problems,omitempty"`
}

// Problem is one failed rule of a recorded message.
type Problem struct {
	Rule    string `json:"rule"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SearchQuery filters recorded messages.
type SearchQuery struct {
	// Text performs full-text search on the message header
	Text string
	// Rule keeps messages that failed this rule
	Rule string
	// Source filters by source (commit hash prefix, file or "stdin")
	Source string
	// Preset filters by rule set name
	Preset string
	// InvalidOnly keeps messages with errors
	InvalidOnly bool
	// Since filters by creation date
	Since time.Time
	// Until filters by creation date
	Until time.Time
	// Limit restricts result count
	Limit int
	// Offset for pagination
	Offset int
}

// SearchResult contains search results with metadata.
type SearchResult struct {
	Records    []MessageRecord `json:"records"`
	TotalCount int64           `json:"total_count"`
}

// Stats contains aggregate statistics from the history database.
type Stats struct {
	Runs     int64       `json:"runs"`
	Messages int64       `json:"messages"`
	Invalid  int64       `json:"invalid"`
	Errors   int64       `json:"errors"`
	Warnings int64       `json:"warnings"`
	TopRules []RuleCount `json:"top_rules,omitempty"`
}

// RuleCount is how often a rule failed.
type RuleCount struct {
	Rule  string `json:"rule"`
	Level string `json:"level"`
	Count int64  `json:"count"`
}
