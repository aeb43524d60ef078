package model

// ForeignRef marks a column as referencing another table's column.
type ForeignRef struct {
	TableID  string `json:"table_id"`
	ColumnID string `json:"column_id"`
	Note     string `json:"note"`
}

// Column is a sketched column definition.
type Column struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Datatype   string      `json:"datatype"`
	IsPrimary  bool        `json:"is_primary"`
	IsNullable bool        `json:"is_nullable"`
	Default    *string     `json:"default"`
	Note       string      `json:"note"`
	ForeignRef *ForeignRef `json:"foreign_ref"`

	// Order controls display position within the table; new columns get
	// max(existing)+1 so they appear at the bottom.
	Order int `json:"order"`
}

// Table is a sketched table holding columns keyed by column id.
type Table struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Note    string            `json:"note"`
	Columns map[string]Column `json:"columns"`
}

// Link is a freeform annotation edge between two schema elements
// (table or column endpoints on either side).
type Link struct {
	ID       string `json:"id"`
	FromType string `json:"from_type"` // "table" or "column"
	FromID   string `json:"from_id"`
	ToType   string `json:"to_type"`
	ToID     string `json:"to_id"`
	Note     string `json:"note"`
}

// Database is one sketched database: tables, links, and an opaque
// diagram blob owned by the front end.
type Database struct {
	ID      string                 `json:"id"`
	Name    string                 `json:"name"`
	Note    string                 `json:"note"`
	Tables  map[string]Table       `json:"tables"`
	Links   map[string]Link        `json:"links"`
	Diagram map[string]interface{} `json:"diagram"`
}

// NewDatabase creates an empty database with the given id and name.
func NewDatabase(id, name string) Database {
	return Database{
		ID:      id,
		Name:    name,
		Tables:  map[string]Table{},
		Links:   map[string]Link{},
		Diagram: map[string]interface{}{},
	}
}

// NewTable creates an empty table with the given id and name.
func NewTable(id, name string) Table {
	return Table{ID: id, Name: name, Columns: map[string]Column{}}
}

// NextColumnOrder returns the order value a newly added column should
// take so it sorts after every existing column.
func (t Table) NextColumnOrder() int {
	next := 0
	for _, c := range t.Columns {
		if c.Order >= next {
			next = c.Order + 1
		}
	}
	return next
}
