package chooser

import (
	"sort"
	"strings"

	"github.com/schemapad/schemapad/internal/model"
)

// SectionID identifies one of the three result buckets.
type SectionID int

const (
	SectionDocs SectionID = iota
	SectionDatabases
	SectionSchema
)

// Section titles shown in the header row.
const (
	titleDocs      = "Documents & Headings"
	titleDatabases = "Databases"
	titleSchema    = "Tables & Columns"
)

// ViewTree is what Render produces: plain data the terminal (or any
// other frontend) can draw without re-deriving grouping.
type ViewTree struct {
	Phase    Phase
	Query    string
	Sections []Section
}

// Section is one collapsible bucket. Count is the number of result
// entities filed here, not the number of rows: synthesized parents are
// not counted.
type Section struct {
	ID       SectionID
	Title    string
	Count    int
	Expanded bool
	Rows     []Row
}

// Row is one pickable line. Entity is never nil: synthesized parents
// carry a stand-in entity so picking them still resolves to something
// referenceable. Picking a row must never bubble to its ancestors.
type Row struct {
	Entity      model.Entity
	Label       string
	Detail      string // document path, empty elsewhere
	Synthesized bool
	Children    []Row
}

// buildTree partitions results into the three buckets and applies the
// grouping rules: headings nest under their document, columns under
// their table under their database, with placeholder parents
// synthesized wherever the parent entity is missing from the result
// set.
func buildTree(results []model.Entity, info SnapshotInfo, collapsed map[SectionID]bool) ViewTree {
	var (
		docBucket    []model.Entity
		dbBucket     []model.DatabaseEntity
		schemaBucket []model.Entity
	)
	for _, e := range results {
		switch v := e.(type) {
		case model.DocEntity, model.HeadingEntity:
			docBucket = append(docBucket, e)
		case model.DatabaseEntity:
			dbBucket = append(dbBucket, v)
		case model.TableEntity, model.ColumnEntity:
			schemaBucket = append(schemaBucket, e)
		default:
			// Unrecognized kinds file under documents rather than
			// vanishing.
			docBucket = append(docBucket, e)
		}
	}

	tree := ViewTree{}
	if len(docBucket) > 0 {
		tree.Sections = append(tree.Sections, Section{
			ID:       SectionDocs,
			Title:    titleDocs,
			Count:    len(docBucket),
			Expanded: !collapsed[SectionDocs],
			Rows:     buildDocRows(docBucket, info),
		})
	}
	if len(dbBucket) > 0 {
		tree.Sections = append(tree.Sections, Section{
			ID:       SectionDatabases,
			Title:    titleDatabases,
			Count:    len(dbBucket),
			Expanded: !collapsed[SectionDatabases],
			Rows:     buildDatabaseRows(dbBucket),
		})
	}
	if len(schemaBucket) > 0 {
		tree.Sections = append(tree.Sections, Section{
			ID:       SectionSchema,
			Title:    titleSchema,
			Count:    len(schemaBucket),
			Expanded: !collapsed[SectionSchema],
			Rows:     buildSchemaRows(schemaBucket, dbBucket, info),
		})
	}
	return tree
}

type docGroup struct {
	id          string
	doc         model.DocEntity
	synthesized bool
	headings    []model.HeadingEntity
}

// buildDocRows groups headings under their owning document. A heading
// whose document is not itself a result gets a synthesized parent named
// after the heading's doc_name, or "(Document)" when even that is
// missing. Entities of unknown kind become flat rows after the groups.
func buildDocRows(bucket []model.Entity, info SnapshotInfo) []Row {
	groups := map[string]*docGroup{}
	var order []string
	var extras []Row

	ensure := func(docID string) *docGroup {
		g, ok := groups[docID]
		if !ok {
			g = &docGroup{id: docID, synthesized: true}
			groups[docID] = g
			order = append(order, docID)
		}
		return g
	}

	for _, e := range bucket {
		switch v := e.(type) {
		case model.DocEntity:
			g := ensure(v.ID)
			g.doc = v
			g.synthesized = false
		case model.HeadingEntity:
			g := ensure(v.DocID)
			g.headings = append(g.headings, v)
		default:
			label := e.DisplayName()
			if label == "" {
				label = string(e.EntityKind())
			}
			extras = append(extras, Row{Entity: e, Label: label})
		}
	}

	for _, id := range order {
		g := groups[id]
		if g.synthesized {
			name := "(Document)"
			for _, h := range g.headings {
				if h.DocName != "" {
					name = h.DocName
					break
				}
			}
			g.doc = model.NewDocEntity(id, name, nil)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]], groups[order[j]]
		an, bn := strings.ToLower(a.doc.Name), strings.ToLower(b.doc.Name)
		if an != bn {
			return an < bn
		}
		return a.id < b.id
	})

	rows := make([]Row, 0, len(order)+len(extras))
	for _, id := range order {
		g := groups[id]
		row := Row{
			Entity:      g.doc,
			Label:       g.doc.Name,
			Detail:      info.DocPath(g.id),
			Synthesized: g.synthesized,
		}
		for _, h := range g.headings {
			row.Children = append(row.Children, Row{Entity: h, Label: h.Heading})
		}
		rows = append(rows, row)
	}
	return append(rows, extras...)
}

func buildDatabaseRows(bucket []model.DatabaseEntity) []Row {
	dbs := append([]model.DatabaseEntity(nil), bucket...)
	sort.SliceStable(dbs, func(i, j int) bool {
		an, bn := strings.ToLower(dbs[i].Name), strings.ToLower(dbs[j].Name)
		if an != bn {
			return an < bn
		}
		return dbs[i].DBID < dbs[j].DBID
	})

	rows := make([]Row, 0, len(dbs))
	for _, db := range dbs {
		rows = append(rows, Row{Entity: db, Label: db.Name})
	}
	return rows
}

type tableGroup struct {
	id          string
	table       model.TableEntity
	synthesized bool
	columns     []model.ColumnEntity
}

type dbGroup struct {
	id          string
	entity      model.DatabaseEntity
	synthesized bool
	tables      map[string]*tableGroup
	tableOrder  []string
}

// buildSchemaRows forms the DB -> Table -> Column tree. Database
// entities from the result set are merged in as named group heads;
// otherwise the group head is synthesized from the snapshot, falling
// back to "(DB <id>)" / "(Table <id>)" when the snapshot does not know
// the referenced parent either.
func buildSchemaRows(bucket []model.Entity, dbEnts []model.DatabaseEntity, info SnapshotInfo) []Row {
	groups := map[string]*dbGroup{}
	var order []string

	ensureDB := func(dbID string) *dbGroup {
		g, ok := groups[dbID]
		if !ok {
			g = &dbGroup{id: dbID, synthesized: true, tables: map[string]*tableGroup{}}
			groups[dbID] = g
			order = append(order, dbID)
		}
		return g
	}
	ensureTable := func(g *dbGroup, tableID string) *tableGroup {
		t, ok := g.tables[tableID]
		if !ok {
			t = &tableGroup{id: tableID, synthesized: true}
			g.tables[tableID] = t
			g.tableOrder = append(g.tableOrder, tableID)
		}
		return t
	}

	for _, e := range bucket {
		switch v := e.(type) {
		case model.TableEntity:
			t := ensureTable(ensureDB(v.DBID), v.TableID)
			t.table = v
			t.synthesized = false
		case model.ColumnEntity:
			t := ensureTable(ensureDB(v.DBID), v.TableID)
			t.columns = append(t.columns, v)
		}
	}

	// Database results name the groups they correspond to.
	for _, db := range dbEnts {
		if g, ok := groups[db.DBID]; ok {
			g.entity = db
			g.synthesized = false
		}
	}
	for _, id := range order {
		g := groups[id]
		if g.synthesized {
			name, ok := info.DatabaseName(g.id)
			if !ok {
				name = "(DB " + g.id + ")"
			}
			g.entity = model.NewDatabaseEntity(g.id, name, "")
		}
		for _, tid := range g.tableOrder {
			t := g.tables[tid]
			if t.synthesized {
				name, ok := info.TableName(g.id, t.id)
				if !ok {
					name = "(Table " + t.id + ")"
				}
				t.table = model.NewTableEntity(g.id, t.id, name, "")
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]], groups[order[j]]
		an, bn := strings.ToLower(a.entity.Name), strings.ToLower(b.entity.Name)
		if an != bn {
			return an < bn
		}
		return a.id < b.id
	})

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		g := groups[id]

		sort.SliceStable(g.tableOrder, func(i, j int) bool {
			a, b := g.tables[g.tableOrder[i]], g.tables[g.tableOrder[j]]
			an, bn := strings.ToLower(a.table.Name), strings.ToLower(b.table.Name)
			if an != bn {
				return an < bn
			}
			return a.id < b.id
		})

		dbRow := Row{Entity: g.entity, Label: g.entity.Name, Synthesized: g.synthesized}
		for _, tid := range g.tableOrder {
			t := g.tables[tid]
			tableRow := Row{Entity: t.table, Label: t.table.Name, Synthesized: t.synthesized}
			for _, c := range t.columns {
				tableRow.Children = append(tableRow.Children, Row{Entity: c, Label: c.Name})
			}
			dbRow.Children = append(dbRow.Children, tableRow)
		}
		rows = append(rows, dbRow)
	}
	return rows
}
