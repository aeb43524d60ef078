// Package refindex builds and caches the entity snapshots that reference
// resolution and search read from: the folder/document tree and the
// database/table/column schema. Snapshots are fetched once, cached for
// the session, and only ever replaced wholesale; a failed fetch degrades
// to an empty snapshot so downstream consumers see "no results" instead
// of an error.
package refindex

// Folder is the minimal folder shape from /api/docs/state.
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// DocumentMeta is the minimal document shape from /api/docs/state
// (no content).
type DocumentMeta struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	UpdatedAt float64 `json:"updated_at"`
}

// DocsSnapshot is an immutable-after-load copy of the docs side.
type DocsSnapshot struct {
	Folders   map[string]Folder
	Documents map[string]DocumentMeta
}

// NewDocsSnapshot returns an empty snapshot with non-nil maps.
func NewDocsSnapshot() *DocsSnapshot {
	return &DocsSnapshot{
		Folders:   map[string]Folder{},
		Documents: map[string]DocumentMeta{},
	}
}

// SchemaColumn is the minimal column shape from /api/state.
type SchemaColumn struct {
	Name string `json:"name"`
}

// SchemaTable is the minimal table shape from /api/state.
type SchemaTable struct {
	Name    string                  `json:"name"`
	Columns map[string]SchemaColumn `json:"columns"`
}

// SchemaDatabase is the minimal database shape from /api/state.
type SchemaDatabase struct {
	Name   string                 `json:"name"`
	Tables map[string]SchemaTable `json:"tables"`
}

// SchemaSnapshot is an immutable-after-load copy of the schema side.
type SchemaSnapshot struct {
	Databases map[string]SchemaDatabase
}

// NewSchemaSnapshot returns an empty snapshot with a non-nil map.
func NewSchemaSnapshot() *SchemaSnapshot {
	return &SchemaSnapshot{Databases: map[string]SchemaDatabase{}}
}
