// Package testutil provides reusable fixtures for Schemapad tests.
package testutil

import (
	"testing"

	"github.com/schemapad/schemapad/internal/model"
	"github.com/schemapad/schemapad/internal/store"
)

// Workspace is a seeded per-PIN data directory backed by a real store.
type Workspace struct {
	t         *testing.T
	Store     *store.Store
	DataDir   string
	PIN       string
	folders   map[string]model.DocFolder
	documents map[string]model.Document
	databases map[string]model.Database
}

// NewWorkspace creates an empty workspace in a temp directory.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()

	dataDir := t.TempDir()
	st, err := store.New(dataDir)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return &Workspace{
		t:         t,
		Store:     st,
		DataDir:   dataDir,
		PIN:       "1234",
		folders:   map[string]model.DocFolder{},
		documents: map[string]model.Document{},
		databases: map[string]model.Database{},
	}
}

// WithFolder adds a folder. parentID may be empty for the root.
func (w *Workspace) WithFolder(id, name, parentID string) *Workspace {
	w.folders[id] = model.DocFolder{ID: id, Name: name, ParentID: optional(parentID)}
	return w
}

// WithDocument adds a document. parentID may be empty for the root.
func (w *Workspace) WithDocument(id, name, parentID, content string) *Workspace {
	w.documents[id] = model.NewDocument(id, name, optional(parentID), content)
	return w
}

// WithDatabase adds a database shaped as name -> table name -> column
// names. Ids are derived from the names so tests can refer to them.
func (w *Workspace) WithDatabase(id, name string, tables map[string][]string) *Workspace {
	db := model.NewDatabase(id, name)
	for tableName, columns := range tables {
		table := model.NewTable(id+"-"+tableName, tableName)
		for i, colName := range columns {
			colID := table.ID + "-" + colName
			table.Columns[colID] = model.Column{ID: colID, Name: colName, Datatype: "TEXT", IsNullable: true, Order: i}
		}
		db.Tables[table.ID] = table
	}
	w.databases[id] = db
	return w
}

// Build persists the configured state and returns the workspace.
func (w *Workspace) Build() *Workspace {
	w.t.Helper()

	if err := w.Store.SaveDocs(w.PIN, w.folders, w.documents); err != nil {
		w.t.Fatalf("seed docs: %v", err)
	}
	if err := w.Store.SaveSchemas(w.PIN, w.databases); err != nil {
		w.t.Fatalf("seed schemas: %v", err)
	}
	return w
}

func optional(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
