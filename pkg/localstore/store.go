// Package localstore is the embedded SQLite store used when the remote
// gateways are unreachable: mirrored dashboard preferences, call-activity
// history, and resume metadata live here.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kovon-io/go-insights/components/dashboard"
)

// ErrDuplicate reports a unique-constraint violation on insert.
var ErrDuplicate = errors.New("localstore: duplicate key")

// Store wraps a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("localstore: open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("localstore: enable foreign keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    document TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    record_id TEXT NOT NULL,
    disposition TEXT NOT NULL,
    notes TEXT,
    next_call_date TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_activity_record ON activity_log(record_id);

CREATE TABLE IF NOT EXISTS resumes (
    user_id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    file_name TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("localstore: apply schema: %w", err)
	}
	return nil
}

// Preferences implements dashboard.PreferenceFallback.
func (s *Store) Preferences(ctx context.Context, key string) (dashboard.Preferences, bool, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM preferences WHERE key = ?`, key).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.Preferences{}, false, nil
	}
	if err != nil {
		return dashboard.Preferences{}, false, fmt.Errorf("localstore: load preferences %s: %w", key, err)
	}
	var prefs dashboard.Preferences
	if err := json.Unmarshal([]byte(document), &prefs); err != nil {
		return dashboard.Preferences{}, false, fmt.Errorf("localstore: decode preferences %s: %w", key, err)
	}
	return prefs, true, nil
}

// SavePreferences implements dashboard.PreferenceFallback.
func (s *Store) SavePreferences(ctx context.Context, key string, prefs dashboard.Preferences) error {
	document, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("localstore: encode preferences %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO preferences (key, document, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET document = excluded.document, updated_at = CURRENT_TIMESTAMP`,
		key, string(document))
	if err != nil {
		return fmt.Errorf("localstore: save preferences %s: %w", key, err)
	}
	return nil
}

// ActivityEntry is one stored call-activity record.
type ActivityEntry struct {
	ID           string
	RecordID     string
	Disposition  string
	Notes        string
	NextCallDate string
	CreatedAt    time.Time
}

// AppendActivity stores one activity entry. The entry's CreatedAt is
// persisted with nanosecond precision so same-second appends keep their
// order; a zero CreatedAt falls back to now.
func (s *Store) AppendActivity(ctx context.Context, entry ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO activity_log (id, record_id, disposition, notes, next_call_date, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RecordID, entry.Disposition, entry.Notes, entry.NextCallDate,
		createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("localstore: append activity: %w", err)
	}
	return nil
}

// ActivityHistory returns a record's activity entries, newest first.
// Entries sharing a timestamp fall back to insertion order, newest first.
func (s *Store) ActivityHistory(ctx context.Context, recordID string) ([]ActivityEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, record_id, disposition, notes, next_call_date, created_at
FROM activity_log WHERE record_id = ? ORDER BY created_at DESC, rowid DESC`, recordID)
	if err != nil {
		return nil, fmt.Errorf("localstore: load activity %s: %w", recordID, err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var entry ActivityEntry
		var notes, nextCall sql.NullString
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.RecordID, &entry.Disposition, &notes, &nextCall, &createdAt); err != nil {
			return nil, fmt.Errorf("localstore: scan activity: %w", err)
		}
		entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("localstore: parse activity timestamp: %w", err)
		}
		entry.Notes = notes.String
		entry.NextCallDate = nextCall.String
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ResumeRecord is the stored metadata for one generated resume.
type ResumeRecord struct {
	UserID    string
	URL       string
	FileName  string
	UpdatedAt time.Time
}

// InsertResume stores metadata for a user's resume. A second insert for the
// same user fails with ErrDuplicate; callers fall back to UpdateResume.
func (s *Store) InsertResume(ctx context.Context, rec ResumeRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO resumes (user_id, url, file_name) VALUES (?, ?, ?)`,
		rec.UserID, rec.URL, rec.FileName)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: resume for %s", ErrDuplicate, rec.UserID)
		}
		return fmt.Errorf("localstore: insert resume %s: %w", rec.UserID, err)
	}
	return nil
}

// UpdateResume replaces the stored metadata for a user's resume.
func (s *Store) UpdateResume(ctx context.Context, rec ResumeRecord) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE resumes SET url = ?, file_name = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		rec.URL, rec.FileName, rec.UserID)
	if err != nil {
		return fmt.Errorf("localstore: update resume %s: %w", rec.UserID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("localstore: update resume %s: %w", rec.UserID, err)
	}
	if affected == 0 {
		return fmt.Errorf("localstore: update resume %s: no such row", rec.UserID)
	}
	return nil
}

// Resume returns the stored metadata for a user, if present.
func (s *Store) Resume(ctx context.Context, userID string) (ResumeRecord, bool, error) {
	var rec ResumeRecord
	err := s.db.QueryRowContext(ctx, `
SELECT user_id, url, file_name, updated_at FROM resumes WHERE user_id = ?`, userID).
		Scan(&rec.UserID, &rec.URL, &rec.FileName, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ResumeRecord{}, false, nil
	}
	if err != nil {
		return ResumeRecord{}, false, fmt.Errorf("localstore: load resume %s: %w", userID, err)
	}
	return rec, true, nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite surfaces constraint failures in the message.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
