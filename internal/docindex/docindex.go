// Package docindex maintains a SQLite index of document content so
// per-keystroke search does not rescan every document body. The index is
// derived data: it is rebuilt lazily from the store the first time a PIN
// is queried and updated incrementally on document writes. Losing it
// costs nothing but a rebuild.
package docindex

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/schemapad/schemapad/internal/model"
)

// Index is the SQLite handle. Safe for concurrent use; database/sql
// serializes access.
type Index struct {
	db *sql.DB
}

// Open opens or creates the index at path. Use ":memory:" for an
// ephemeral index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open doc index: %w", err)
	}

	ix := &Index{db: db}
	if err := ix.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

func (ix *Index) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS doc_content (
		pin      TEXT NOT NULL,
		doc_id   TEXT NOT NULL,
		content  TEXT NOT NULL,
		PRIMARY KEY (pin, doc_id)
	);
	`
	if _, err := ix.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize doc index schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// IndexDocument upserts one document's content.
func (ix *Index) IndexDocument(pin string, doc model.Document) error {
	_, err := ix.db.Exec(
		`INSERT INTO doc_content (pin, doc_id, content) VALUES (?, ?, ?)
		 ON CONFLICT (pin, doc_id) DO UPDATE SET content = excluded.content`,
		pin, doc.ID, strings.ToLower(doc.Content),
	)
	if err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	return nil
}

// RemoveDocument drops one document from the index.
func (ix *Index) RemoveDocument(pin, docID string) error {
	if _, err := ix.db.Exec(`DELETE FROM doc_content WHERE pin = ? AND doc_id = ?`, pin, docID); err != nil {
		return fmt.Errorf("remove document %s: %w", docID, err)
	}
	return nil
}

// ReindexPIN replaces a PIN's entries wholesale from current store state.
func (ix *Index) ReindexPIN(pin string, documents map[string]model.Document) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reindex: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM doc_content WHERE pin = ?`, pin); err != nil {
		return fmt.Errorf("clear pin %s: %w", pin, err)
	}
	for id, doc := range documents {
		if _, err := tx.Exec(
			`INSERT INTO doc_content (pin, doc_id, content) VALUES (?, ?, ?)`,
			pin, id, strings.ToLower(doc.Content),
		); err != nil {
			return fmt.Errorf("index document %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reindex: %w", err)
	}
	return nil
}

// Indexed reports whether the PIN has any entries at all, which is how
// the server decides if a lazy rebuild is needed.
func (ix *Index) Indexed(pin string) (bool, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM doc_content WHERE pin = ?`, pin).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count pin %s: %w", pin, err)
	}
	return n > 0, nil
}

// PinMatcher scopes MatchingDocs to one PIN, satisfying the search
// engine's ContentMatcher interface.
func (ix *Index) PinMatcher(pin string) PinMatcher {
	return PinMatcher{ix: ix, pin: pin}
}

// PinMatcher is a per-PIN view of the index.
type PinMatcher struct {
	ix  *Index
	pin string
}

// MatchingDocs returns the ids of documents whose content contains the
// query as a case-insensitive substring.
func (m PinMatcher) MatchingDocs(query string) (map[string]bool, error) {
	pattern := "%" + escapeLikePattern(strings.ToLower(query)) + "%"
	rows, err := m.ix.db.Query(
		`SELECT doc_id FROM doc_content WHERE pin = ? AND content LIKE ? ESCAPE '\'`,
		m.pin, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("query doc index: %w", err)
	}
	defer rows.Close()

	hits := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan doc index row: %w", err)
		}
		hits[id] = true
	}
	return hits, rows.Err()
}

// escapeLikePattern escapes special characters for LIKE pattern matching.
func escapeLikePattern(s string) string {
	// Escape backslash first, then % and _
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
