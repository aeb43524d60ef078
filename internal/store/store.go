// Package store persists workspace state on disk. Each PIN owns one JSON
// file holding both halves of its workspace: sketched databases keyed by
// id at the top level, plus "documents" and "doc_folders" keys for the
// docs side. Share tokens live in a single global shares.json.
//
// Reads are forgiving: a missing, corrupt, or foreign-shaped file loads
// as empty state so the rest of the system degrades to "no results"
// instead of failing. Writes are atomic (write-then-rename) and
// last-write-wins; there is no cross-file transactionality.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/natefinch/atomic"

	"github.com/schemapad/schemapad/internal/model"
)

const (
	sharesFilename = "shares.json"

	// docFoldersKey and documentsKey are reserved top-level keys in a
	// PIN file; everything else is treated as a database id.
	docFoldersKey = "doc_folders"
	documentsKey  = "documents"
)

// validPIN guards the PIN-to-filename mapping against path tricks.
var validPIN = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Store reads and writes per-PIN workspace files under a data directory.
type Store struct {
	dataDir string
}

// New creates the data directory if needed and returns a Store.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

// DataDir returns the directory this store writes into.
func (s *Store) DataDir() string { return s.dataDir }

// ValidPIN reports whether pin is safe to map onto a filename.
func ValidPIN(pin string) bool { return validPIN.MatchString(pin) }

func (s *Store) pinPath(pin string) string {
	return filepath.Join(s.dataDir, pin+".json")
}

// readRaw loads a PIN file as a raw key map. Any failure yields an empty
// map.
func (s *Store) readRaw(pin string) map[string]json.RawMessage {
	raw := map[string]json.RawMessage{}
	if !ValidPIN(pin) {
		return raw
	}
	data, err := os.ReadFile(s.pinPath(pin))
	if err != nil {
		return raw
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[string]json.RawMessage{}
	}
	return raw
}

func (s *Store) writeRaw(pin string, raw map[string]json.RawMessage) error {
	if !ValidPIN(pin) {
		return fmt.Errorf("invalid pin %q", pin)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize workspace: %w", err)
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(s.pinPath(pin), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write workspace file: %w", err)
	}
	return nil
}

// LoadSchemas returns the databases of a PIN's workspace. Malformed
// database entries are skipped rather than failing the load.
func (s *Store) LoadSchemas(pin string) map[string]model.Database {
	raw := s.readRaw(pin)
	dbs := map[string]model.Database{}

	for key, val := range raw {
		if key == docFoldersKey || key == documentsKey {
			continue
		}
		var db model.Database
		if err := json.Unmarshal(val, &db); err != nil {
			continue
		}
		if db.ID == "" || db.Name == "" {
			continue
		}
		if db.Tables == nil {
			db.Tables = map[string]model.Table{}
		}
		for tid, t := range db.Tables {
			if t.Columns == nil {
				t.Columns = map[string]model.Column{}
				db.Tables[tid] = t
			}
		}
		if db.Links == nil {
			db.Links = map[string]model.Link{}
		}
		if db.Diagram == nil {
			db.Diagram = map[string]interface{}{}
		}
		dbs[key] = db
	}
	return dbs
}

// SaveSchemas writes the databases of a PIN's workspace, preserving the
// docs keys already in the file.
func (s *Store) SaveSchemas(pin string, dbs map[string]model.Database) error {
	existing := s.readRaw(pin)

	raw := map[string]json.RawMessage{}
	if v, ok := existing[docFoldersKey]; ok {
		raw[docFoldersKey] = v
	}
	if v, ok := existing[documentsKey]; ok {
		raw[documentsKey] = v
	}
	for id, db := range dbs {
		data, err := json.Marshal(db)
		if err != nil {
			return fmt.Errorf("serialize database %s: %w", id, err)
		}
		raw[id] = data
	}
	return s.writeRaw(pin, raw)
}

// LoadDocs returns the folder and document maps of a PIN's workspace.
func (s *Store) LoadDocs(pin string) (map[string]model.DocFolder, map[string]model.Document) {
	raw := s.readRaw(pin)

	folders := map[string]model.DocFolder{}
	if v, ok := raw[docFoldersKey]; ok {
		if err := json.Unmarshal(v, &folders); err != nil {
			folders = map[string]model.DocFolder{}
		}
	}

	documents := map[string]model.Document{}
	if v, ok := raw[documentsKey]; ok {
		if err := json.Unmarshal(v, &documents); err != nil {
			documents = map[string]model.Document{}
		}
	}
	for id, d := range documents {
		if d.Notes == nil {
			d.Notes = map[string]model.DocNote{}
			documents[id] = d
		}
	}
	return folders, documents
}

// SaveDocs writes the docs side of a PIN's workspace, preserving the
// database keys already in the file.
func (s *Store) SaveDocs(pin string, folders map[string]model.DocFolder, documents map[string]model.Document) error {
	raw := s.readRaw(pin)

	foldersData, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("serialize folders: %w", err)
	}
	documentsData, err := json.Marshal(documents)
	if err != nil {
		return fmt.Errorf("serialize documents: %w", err)
	}
	raw[docFoldersKey] = foldersData
	raw[documentsKey] = documentsData
	return s.writeRaw(pin, raw)
}

// LoadShares returns the global share-token map.
func (s *Store) LoadShares() map[string]model.DocShare {
	shares := map[string]model.DocShare{}
	data, err := os.ReadFile(filepath.Join(s.dataDir, sharesFilename))
	if err != nil {
		return shares
	}
	if err := json.Unmarshal(data, &shares); err != nil {
		return map[string]model.DocShare{}
	}
	return shares
}

// SaveShares writes the global share-token map.
func (s *Store) SaveShares(shares map[string]model.DocShare) error {
	data, err := json.MarshalIndent(shares, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize shares: %w", err)
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(filepath.Join(s.dataDir, sharesFilename), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write shares file: %w", err)
	}
	return nil
}
