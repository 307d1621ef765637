package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JNZader/gocommitlint/internal/report"
)

// Store provides SQLite-based lint history storage.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// StoreConfig configures the history store.
type StoreConfig struct {
	// Path is the SQLite database file path
	Path string
}

// NewStore opens the database at cfg.Path, creating it and its directory
// when missing.
func NewStore(cfg StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	store := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *Store) migrate() error {
	migrations := []string{
		// created_at is Unix nanoseconds so range filters compare numerically.
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			source TEXT NOT NULL,
			header TEXT NOT NULL,
			preset TEXT NOT NULL,
			valid BOOLEAN NOT NULL,
			errors INTEGER NOT NULL DEFAULT 0,
			warnings INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS problems (
			message_id INTEGER NOT NULL,
			rule TEXT NOT NULL,
			level TEXT NOT NULL,
			text TEXT NOT NULL
		)`,

		// Full-text search on headers
		`CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
			header,
			content='messages',
			content_rowid='id'
		)`,

		`CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
			INSERT INTO messages_fts(rowid, header) VALUES (new.id, new.header);
		END`,

		`CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
			INSERT INTO messages_fts(messages_fts, rowid, header) VALUES ('delete', old.id, old.header);
		END`,

		`CREATE INDEX IF NOT EXISTS idx_messages_run ON messages(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_source ON messages(source)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_problems_message ON problems(message_id)`,
		`CREATE INDEX IF NOT EXISTS idx_problems_rule ON problems(rule)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// RecordBatch saves every entry of batch under runID in one transaction
// and returns the stored records.
func (s *Store) RecordBatch(ctx context.Context, runID string, batch *report.Batch) ([]MessageRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	msgStmt, err := tx.PrepareContext(ctx, `INSERT INTO messages (
		run_id, source, header, preset, valid, errors, warnings, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer msgStmt.Close()

	problemStmt, err := tx.PrepareContext(ctx, `INSERT INTO problems (message_id, rule, level, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer problemStmt.Close()

	now := s.now()
	records := make([]MessageRecord, 0, len(batch.Entries))
	for _, e := range batch.Entries {
		rec := MessageRecord{
			RunID:     runID,
			Source:    e.Source,
			Header:    header(e.Report.Input),
			Preset:    batch.Preset,
			Valid:     e.Report.Valid,
			Errors:    len(e.Report.Errors),
			Warnings:  len(e.Report.Warnings),
			CreatedAt: now,
		}

		result, err := msgStmt.ExecContext(ctx,
			rec.RunID, rec.Source, rec.Header, rec.Preset, rec.Valid,
			rec.Errors, rec.Warnings, rec.CreatedAt.UnixNano(),
		)
		if err != nil {
			return nil, fmt.Errorf("inserting message: %w", err)
		}
		rec.ID, _ = result.LastInsertId()

		for _, p := range e.Report.Problems() {
			problem := Problem{Rule: p.Name, Level: p.Level.String(), Message: p.Message}
			if _, err := problemStmt.ExecContext(ctx, rec.ID, problem.Rule, problem.Level, problem.Message); err != nil {
				return nil, fmt.Errorf("inserting problem: %w", err)
			}
			rec.Problems = append(rec.Problems, problem)
		}

		records = append(records, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}
	return records, nil
}

// Search returns recorded messages matching q, newest first.
func (s *Store) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	var args []any
	var conditions []string

	if q.Text != "" {
		conditions = append(conditions, "m.id IN (SELECT rowid FROM messages_fts WHERE messages_fts MATCH ?)")
		args = append(args, ftsPhrase(q.Text))
	}
	if q.Rule != "" {
		conditions = append(conditions, "m.id IN (SELECT message_id FROM problems WHERE rule = ?)")
		args = append(args, q.Rule)
	}
	if q.Source != "" {
		conditions = append(conditions, "m.source LIKE ?")
		args = append(args, q.Source+"%")
	}
	if q.Preset != "" {
		conditions = append(conditions, "m.preset = ?")
		args = append(args, q.Preset)
	}
	if q.InvalidOnly {
		conditions = append(conditions, "m.valid = FALSE")
	}
	if !q.Since.IsZero() {
		conditions = append(conditions, "m.created_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if !q.Until.IsZero() {
		conditions = append(conditions, "m.created_at <= ?")
		args = append(args, q.Until.UnixNano())
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM messages m " + whereClause //nolint:gosec // Query built with parameterized args
	var totalCount int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("counting results: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	//nolint:gosec // Query built with parameterized args, whereClause uses placeholders
	selectQuery := `
		SELECT id, run_id, source, header, preset, valid, errors, warnings, created_at
		FROM messages m
		` + whereClause + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	records := make([]MessageRecord, 0)
	for rows.Next() {
		var r MessageRecord
		var created int64
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Source, &r.Header, &r.Preset,
			&r.Valid, &r.Errors, &r.Warnings, &created,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	rows.Close()

	for i := range records {
		problems, err := s.problems(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Problems = problems
	}

	return &SearchResult{Records: records, TotalCount: totalCount}, nil
}

func (s *Store) problems(ctx context.Context, messageID int64) ([]Problem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rule, level, text FROM problems WHERE message_id = ? ORDER BY rowid`, messageID)
	if err != nil {
		return nil, fmt.Errorf("querying problems: %w", err)
	}
	defer rows.Close()

	var problems []Problem
	for rows.Next() {
		var p Problem
		if err := rows.Scan(&p.Rule, &p.Level, &p.Message); err != nil {
			return nil, fmt.Errorf("scanning problem: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

// GetStats returns aggregate statistics. TopRules holds at most limit
// rules, most frequent first.
func (s *Store) GetStats(ctx context.Context, limit int) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT run_id), COUNT(*),
		       COALESCE(SUM(CASE WHEN valid THEN 0 ELSE 1 END), 0),
		       COALESCE(SUM(errors), 0), COALESCE(SUM(warnings), 0)
		FROM messages
	`).Scan(&stats.Runs, &stats.Messages, &stats.Invalid, &stats.Errors, &stats.Warnings); err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}

	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule, level, COUNT(*) AS cnt
		FROM problems
		GROUP BY rule, level
		ORDER BY cnt DESC, rule
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying rule counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rc RuleCount
		if err := rows.Scan(&rc.Rule, &rc.Level, &rc.Count); err != nil {
			return nil, fmt.Errorf("scanning rule count: %w", err)
		}
		stats.TopRules = append(stats.TopRules, rc)
	}
	return stats, rows.Err()
}

// Prune deletes messages older than maxAge and returns how many were removed.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM problems WHERE message_id IN (SELECT id FROM messages WHERE created_at < ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("pruning problems: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning messages: %w", err)
	}
	n, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ftsPhrase quotes text as a single FTS5 phrase so punctuation such as the
// parentheses and colon of a commit header is not read as query syntax.
func ftsPhrase(text string) string {
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}

func header(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
