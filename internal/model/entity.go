// Package model defines the core data types shared across Schemapad:
// the referenceable entity union surfaced by search, and the schema and
// document records persisted per PIN.
package model

import "encoding/json"

// Kind discriminates the entity union.
type Kind string

// Entity kinds. These values appear on the wire in /api/search results
// and inside encoded reference tokens, so they are stable.
const (
	KindDoc      Kind = "doc"
	KindHeading  Kind = "heading"
	KindDatabase Kind = "database"
	KindTable    Kind = "table"
	KindColumn   Kind = "column"
)

// Entity is any referenceable object: a document, a heading inside a
// document, a database, a table, or a column. Concrete variants carry
// exactly the identifying fields their kind needs; consumers type-switch
// rather than probing optional fields.
type Entity interface {
	// EntityKind returns the variant tag.
	EntityKind() Kind

	// DisplayName returns the human-readable name used for matching
	// and rendering (document name, heading text, db/table/column name).
	DisplayName() string
}

// DocEntity references a document by id.
type DocEntity struct {
	Type     Kind    `json:"type"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// NewDocEntity builds a doc entity with the tag filled in.
func NewDocEntity(id, name string, parentID *string) DocEntity {
	return DocEntity{Type: KindDoc, ID: id, Name: name, ParentID: parentID}
}

func (e DocEntity) EntityKind() Kind    { return KindDoc }
func (e DocEntity) DisplayName() string { return e.Name }

// HeadingEntity references a markdown heading inside a document.
// DocName is carried alongside so grouping can label the owning document
// even when the document itself is not part of the result set.
type HeadingEntity struct {
	Type     Kind    `json:"type"`
	DocID    string  `json:"doc_id"`
	Heading  string  `json:"heading"`
	DocName  string  `json:"doc_name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// NewHeadingEntity builds a heading entity with the tag filled in.
func NewHeadingEntity(docID, heading, docName string, parentID *string) HeadingEntity {
	return HeadingEntity{Type: KindHeading, DocID: docID, Heading: heading, DocName: docName, ParentID: parentID}
}

func (e HeadingEntity) EntityKind() Kind    { return KindHeading }
func (e HeadingEntity) DisplayName() string { return e.Heading }

// DatabaseEntity references a sketched database.
type DatabaseEntity struct {
	Type Kind   `json:"type"`
	DBID string `json:"db_id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// NewDatabaseEntity builds a database entity with the tag filled in.
func NewDatabaseEntity(dbID, name, slug string) DatabaseEntity {
	return DatabaseEntity{Type: KindDatabase, DBID: dbID, Name: name, Slug: slug}
}

func (e DatabaseEntity) EntityKind() Kind    { return KindDatabase }
func (e DatabaseEntity) DisplayName() string { return e.Name }

// TableEntity references a table within a database.
type TableEntity struct {
	Type    Kind   `json:"type"`
	DBID    string `json:"db_id"`
	TableID string `json:"table_id"`
	Name    string `json:"name"`
	Slug    string `json:"slug,omitempty"`
}

// NewTableEntity builds a table entity with the tag filled in.
func NewTableEntity(dbID, tableID, name, slug string) TableEntity {
	return TableEntity{Type: KindTable, DBID: dbID, TableID: tableID, Name: name, Slug: slug}
}

func (e TableEntity) EntityKind() Kind    { return KindTable }
func (e TableEntity) DisplayName() string { return e.Name }

// ColumnEntity references a column within a table. Label is the
// "<table>.<column>" form users type when searching for columns.
type ColumnEntity struct {
	Type     Kind   `json:"type"`
	DBID     string `json:"db_id"`
	TableID  string `json:"table_id"`
	ColumnID string `json:"column_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	Label    string `json:"label,omitempty"`
}

// NewColumnEntity builds a column entity with the tag filled in.
func NewColumnEntity(dbID, tableID, columnID, name, slug, label string) ColumnEntity {
	return ColumnEntity{Type: KindColumn, DBID: dbID, TableID: tableID, ColumnID: columnID, Name: name, Slug: slug, Label: label}
}

func (e ColumnEntity) EntityKind() Kind    { return KindColumn }
func (e ColumnEntity) DisplayName() string { return e.Name }

// GenericEntity preserves results whose type tag this build does not
// recognize. The chooser files these under the documents bucket rather
// than dropping them.
type GenericEntity struct {
	Type Kind   `json:"type"`
	Name string `json:"name,omitempty"`
}

func (e GenericEntity) EntityKind() Kind    { return e.Type }
func (e GenericEntity) DisplayName() string { return e.Name }

// DecodeEntity parses one tagged search result. Unknown tags decode to a
// GenericEntity; only malformed JSON returns ok=false.
func DecodeEntity(raw json.RawMessage) (Entity, bool) {
	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}

	switch probe.Type {
	case KindDoc:
		var e DocEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, false
		}
		return e, true
	case KindHeading:
		var e HeadingEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, false
		}
		return e, true
	case KindDatabase:
		var e DatabaseEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, false
		}
		return e, true
	case KindTable:
		var e TableEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, false
		}
		return e, true
	case KindColumn:
		var e ColumnEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, false
		}
		return e, true
	default:
		var e GenericEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, false
		}
		return e, true
	}
}

// DecodeEntities parses a slice of tagged results, skipping malformed
// elements rather than failing the batch.
func DecodeEntities(raws []json.RawMessage) []Entity {
	out := make([]Entity, 0, len(raws))
	for _, raw := range raws {
		if e, ok := DecodeEntity(raw); ok {
			out = append(out, e)
		}
	}
	return out
}
