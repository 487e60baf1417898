// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/wordsprint/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is a fixed-width UTC layout, so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// wordKey groups outcomes by their source word. Rows written before the
// word column existed fall back to the target.
const wordKey = "COALESCE(NULLIF(word, ''), target)"

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			words INTEGER NOT NULL,
			correct_words INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			formula TEXT NOT NULL,
			wordlist_path TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_words (
			session_id INTEGER NOT NULL,
			idx INTEGER NOT NULL,
			word TEXT NOT NULL DEFAULT '',
			target TEXT NOT NULL,
			typed TEXT NOT NULL,
			correct INTEGER NOT NULL,
			PRIMARY KEY (session_id, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_words_target ON session_words(target);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return s.ensureColumn("session_words", "word", `ALTER TABLE session_words ADD COLUMN word TEXT NOT NULL DEFAULT ''`)
}

// ensureColumn runs alter when table lacks column.
func (s *Store) ensureColumn(table, column, alter string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	found := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			_ = rows.Close()
			return err
		}
		if name == column {
			found = true
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if found {
		return nil
	}
	_, err = s.db.Exec(alter)
	return err
}

// InsertSession stores a completed session and its per-word outcomes.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, words []model.WordOutcome) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (uuid, started_at, ended_at, lang, words, correct_words, total_chars, duration_ms, wpm, accuracy, formula, wordlist_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UUID,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.Lang,
		rec.Words,
		rec.CorrectWords,
		rec.TotalChars,
		rec.DurationMs,
		rec.WPM,
		rec.Accuracy,
		rec.Formula,
		rec.WordListPath,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(words) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO session_words (session_id, idx, word, target, typed, correct)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, w := range words {
			if _, err = stmt.ExecContext(ctx, id, w.Index, w.Word, w.Target, w.Typed, boolToInt(w.Correct)); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetMissedWords aggregates word outcomes over the most recent sessions.
func (s *Store) GetMissedWords(ctx context.Context, window int, lang string) ([]model.WordAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR lang = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT ` + wordKey + ` AS w, SUM(correct) AS correct, SUM(1 - correct) AS missed
	FROM session_words
	JOIN recent_sessions r ON r.id = session_id
	GROUP BY w`

	rows, err := s.db.QueryContext(ctx, query, lang, lang, window)
	if err != nil {
		return nil, err
	}
	return scanWordAggregates(rows)
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, words, correct_words, total_chars, duration_ms, wpm, accuracy
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Words, &agg.CorrectWords, &agg.TotalChars, &agg.DurationMs, &agg.WPM, &agg.Accuracy); err != nil {
			return nil, err
		}
		parsed, err := parseTime(endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListWordAggregatesForSessions aggregates word outcomes across sessions.
func (s *Store) ListWordAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.WordAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s AS w, SUM(correct) AS correct, SUM(1 - correct) AS missed
		FROM session_words
		WHERE session_id IN (%s)
		GROUP BY w`, wordKey, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanWordAggregates(rows)
}

func scanWordAggregates(rows *sql.Rows) ([]model.WordAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Correct, &agg.Missed); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime also accepts RFC3339 text written by earlier versions.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
