// Package search implements the entity search engine: permissive,
// case-insensitive substring matching over every referenceable entity in
// a workspace. Matching never fails; the worst outcome of any upstream
// problem is fewer results.
package search

import (
	"sort"
	"strings"

	"github.com/schemapad/schemapad/internal/model"
	"github.com/schemapad/schemapad/internal/parser"
	"github.com/schemapad/schemapad/internal/slugs"
)

// DocEntry is one document prepared for matching: lowercased name plus
// extracted headings. Content itself is not retained; substring matches
// against content go through a ContentMatcher.
type DocEntry struct {
	ID        string
	Name      string
	LowerName string
	ParentID  *string
	Headings  []parser.Heading
}

// ColumnEntry is one column prepared for matching.
type ColumnEntry struct {
	ID    string
	Name  string
	Slug  string
	Label string // "<table>.<column>" in slug form
	Order int
}

// TableEntry is one table prepared for matching.
type TableEntry struct {
	ID      string
	Name    string
	Slug    string
	Columns []ColumnEntry
}

// DBEntry is one database prepared for matching.
type DBEntry struct {
	ID     string
	Name   string
	Slug   string
	Tables []TableEntry
}

// Corpus is the immutable matching input built from one load of
// workspace state. Entries are pre-sorted so a given (query, corpus)
// pair always produces the same result list.
type Corpus struct {
	Documents []DocEntry
	Databases []DBEntry
}

// BuildCorpus prepares workspace state for matching: headings are
// extracted from document markdown, schema names are slugged, and
// everything is sorted case-insensitively by name (columns by their
// declared order) for deterministic output.
func BuildCorpus(documents map[string]model.Document, dbs map[string]model.Database) *Corpus {
	c := &Corpus{}

	for _, d := range documents {
		c.Documents = append(c.Documents, DocEntry{
			ID:        d.ID,
			Name:      d.Name,
			LowerName: strings.ToLower(d.Name),
			ParentID:  d.ParentID,
			Headings:  parser.ExtractHeadings(d.Content),
		})
	}
	sortByName(c.Documents, func(e DocEntry) (string, string) { return e.Name, e.ID })

	for id, db := range dbs {
		entry := DBEntry{ID: id, Name: db.Name, Slug: slugs.NameSlug(db.Name)}
		for tid, t := range db.Tables {
			tableEntry := TableEntry{ID: tid, Name: t.Name, Slug: slugs.NameSlug(t.Name)}
			for cid, col := range t.Columns {
				colSlug := slugs.NameSlug(col.Name)
				tableEntry.Columns = append(tableEntry.Columns, ColumnEntry{
					ID:    cid,
					Name:  col.Name,
					Slug:  colSlug,
					Label: slugs.ColumnLabel(tableEntry.Slug, colSlug),
					Order: col.Order,
				})
			}
			sort.Slice(tableEntry.Columns, func(i, j int) bool {
				a, b := tableEntry.Columns[i], tableEntry.Columns[j]
				if a.Order != b.Order {
					return a.Order < b.Order
				}
				return a.ID < b.ID
			})
			entry.Tables = append(entry.Tables, tableEntry)
		}
		sortByName(entry.Tables, func(e TableEntry) (string, string) { return e.Name, e.ID })
		c.Databases = append(c.Databases, entry)
	}
	sortByName(c.Databases, func(e DBEntry) (string, string) { return e.Name, e.ID })

	return c
}

// sortByName orders entries case-insensitively by name, breaking ties by
// id so ordering is total.
func sortByName[T any](items []T, key func(T) (name, id string)) {
	sort.Slice(items, func(i, j int) bool {
		ni, ii := key(items[i])
		nj, ij := key(items[j])
		li, lj := strings.ToLower(ni), strings.ToLower(nj)
		if li != lj {
			return li < lj
		}
		return ii < ij
	})
}
