package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/schemapad/schemapad/internal/model"
)

func (s *Server) createDatabase(w http.ResponseWriter, r *http.Request, pin string) {
	fields := readBody(r)
	name := "New Database"
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		name = strings.TrimSpace(v)
	}

	dbs := s.store.LoadSchemas(pin)
	db := model.NewDatabase(model.NewID(), name)
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "database": db})
}

func (s *Server) updateDatabase(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}

	fields := readBody(r)
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		db.Name = strings.TrimSpace(v)
	}
	if v, ok := stringField(fields, "note"); ok {
		db.Note = v
	}
	if raw, present := fields["diagram"]; present {
		var diagram map[string]interface{}
		if err := json.Unmarshal(raw, &diagram); err == nil && diagram != nil {
			db.Diagram = diagram
		}
	}

	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "database": db})
}

func (s *Server) deleteDatabase(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	dbID := r.PathValue("db")
	if _, ok := dbs[dbID]; !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	delete(dbs, dbID)
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (s *Server) createTable(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}

	fields := readBody(r)
	name := "New Table"
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		name = strings.TrimSpace(v)
	}

	table := model.NewTable(model.NewID(), name)
	db.Tables[table.ID] = table
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "table": table})
}

func (s *Server) updateTable(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	table, ok := db.Tables[r.PathValue("table")]
	if !ok {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}

	fields := readBody(r)
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		table.Name = strings.TrimSpace(v)
	}
	if v, ok := stringField(fields, "note"); ok {
		table.Note = v
	}

	db.Tables[table.ID] = table
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "table": table})
}

func (s *Server) deleteTable(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	tableID := r.PathValue("table")
	table, ok := db.Tables[tableID]
	if !ok {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}

	// Links referencing the table or any of its columns go with it.
	colIDs := map[string]bool{}
	for id := range table.Columns {
		colIDs[id] = true
	}
	for id, l := range db.Links {
		tableRef := (l.FromType == "table" && l.FromID == tableID) || (l.ToType == "table" && l.ToID == tableID)
		colRef := (l.FromType == "column" && colIDs[l.FromID]) || (l.ToType == "column" && colIDs[l.ToID])
		if tableRef || colRef {
			delete(db.Links, id)
		}
	}
	delete(db.Tables, tableID)

	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// decodeForeignRef validates a foreign_ref payload; refs missing either
// endpoint id are dropped rather than stored half-formed.
func decodeForeignRef(raw json.RawMessage) *model.ForeignRef {
	var fr model.ForeignRef
	if err := json.Unmarshal(raw, &fr); err != nil {
		return nil
	}
	if fr.TableID == "" || fr.ColumnID == "" {
		return nil
	}
	return &fr
}

func (s *Server) createColumn(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	table, ok := db.Tables[r.PathValue("table")]
	if !ok {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}

	fields := readBody(r)
	col := model.Column{
		ID:         model.NewID(),
		Name:       "column",
		Datatype:   "TEXT",
		IsNullable: true,
		Order:      table.NextColumnOrder(),
	}
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		col.Name = strings.TrimSpace(v)
	}
	if v, ok := stringField(fields, "datatype"); ok {
		col.Datatype = v
	}
	if v, ok := boolField(fields, "is_primary"); ok {
		col.IsPrimary = v
	}
	if v, ok := boolField(fields, "is_nullable"); ok {
		col.IsNullable = v
	}
	if v, ok := stringField(fields, "default"); ok {
		col.Default = &v
	}
	if v, ok := stringField(fields, "note"); ok {
		col.Note = v
	}
	if raw, present := fields["foreign_ref"]; present {
		col.ForeignRef = decodeForeignRef(raw)
	}

	table.Columns[col.ID] = col
	db.Tables[table.ID] = table
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "column": col})
}

func (s *Server) updateColumn(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	table, ok := db.Tables[r.PathValue("table")]
	if !ok {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}
	col, ok := table.Columns[r.PathValue("column")]
	if !ok {
		writeError(w, http.StatusNotFound, "column not found")
		return
	}

	fields := readBody(r)
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		col.Name = strings.TrimSpace(v)
	}
	if v, ok := stringField(fields, "datatype"); ok {
		col.Datatype = v
	}
	if v, ok := boolField(fields, "is_primary"); ok {
		col.IsPrimary = v
	}
	if v, ok := boolField(fields, "is_nullable"); ok {
		col.IsNullable = v
	}
	if raw, present := fields["default"]; present {
		var v *string
		if err := json.Unmarshal(raw, &v); err == nil {
			col.Default = v
		}
	}
	if v, ok := stringField(fields, "note"); ok {
		col.Note = v
	}
	if raw, present := fields["foreign_ref"]; present {
		if string(raw) == "null" {
			col.ForeignRef = nil
		} else if fr := decodeForeignRef(raw); fr != nil {
			col.ForeignRef = fr
		}
	}
	if raw, present := fields["order"]; present {
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			col.Order = n
		}
	}

	table.Columns[col.ID] = col
	db.Tables[table.ID] = table
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "column": col})
}

func (s *Server) deleteColumn(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	table, ok := db.Tables[r.PathValue("table")]
	if !ok {
		writeError(w, http.StatusNotFound, "table not found")
		return
	}
	colID := r.PathValue("column")
	if _, ok := table.Columns[colID]; !ok {
		writeError(w, http.StatusNotFound, "column not found")
		return
	}

	for id, l := range db.Links {
		if (l.FromType == "column" && l.FromID == colID) || (l.ToType == "column" && l.ToID == colID) {
			delete(db.Links, id)
		}
	}
	delete(table.Columns, colID)

	db.Tables[table.ID] = table
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// duplicateDatabase deep-copies a database under fresh ids. Foreign refs
// and links are remapped onto the new ids; refs pointing outside the
// source database keep their original target.
func (s *Server) duplicateDatabase(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	src, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}

	dup := model.NewDatabase(model.NewID(), src.Name+" (copy)")
	dup.Note = src.Note

	tableIDMap := map[string]string{}
	colIDMap := map[string]string{}

	type pendingRef struct {
		tableID  string
		columnID string
		ref      model.ForeignRef
	}
	var pending []pendingRef

	for oldTID, t := range src.Tables {
		newTable := model.NewTable(model.NewID(), t.Name)
		newTable.Note = t.Note
		tableIDMap[oldTID] = newTable.ID
		for oldCID, c := range t.Columns {
			newCol := c
			newCol.ID = model.NewID()
			newCol.ForeignRef = nil
			colIDMap[oldCID] = newCol.ID
			newTable.Columns[newCol.ID] = newCol
			if c.ForeignRef != nil {
				pending = append(pending, pendingRef{tableID: newTable.ID, columnID: newCol.ID, ref: *c.ForeignRef})
			}
		}
		dup.Tables[newTable.ID] = newTable
	}

	for _, p := range pending {
		mappedTable, tOK := tableIDMap[p.ref.TableID]
		mappedCol, cOK := colIDMap[p.ref.ColumnID]
		if !tOK || !cOK {
			continue
		}
		table := dup.Tables[p.tableID]
		col := table.Columns[p.columnID]
		col.ForeignRef = &model.ForeignRef{TableID: mappedTable, ColumnID: mappedCol, Note: p.ref.Note}
		table.Columns[p.columnID] = col
		dup.Tables[p.tableID] = table
	}

	for _, l := range src.Links {
		newLink := l
		newLink.ID = model.NewID()
		switch l.FromType {
		case "table":
			if mapped, ok := tableIDMap[l.FromID]; ok {
				newLink.FromID = mapped
			}
		case "column":
			if mapped, ok := colIDMap[l.FromID]; ok {
				newLink.FromID = mapped
			}
		}
		switch l.ToType {
		case "table":
			if mapped, ok := tableIDMap[l.ToID]; ok {
				newLink.ToID = mapped
			}
		case "column":
			if mapped, ok := colIDMap[l.ToID]; ok {
				newLink.ToID = mapped
			}
		}
		dup.Links[newLink.ID] = newLink
	}

	dbs[dup.ID] = dup
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "database": dup})
}

func (s *Server) createLink(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}

	fields := readBody(r)
	link := model.Link{ID: model.NewID(), FromType: "table", ToType: "table"}
	if v, ok := stringField(fields, "from_type"); ok {
		link.FromType = v
	}
	if v, ok := stringField(fields, "to_type"); ok {
		link.ToType = v
	}
	link.FromID, _ = stringField(fields, "from_id")
	link.ToID, _ = stringField(fields, "to_id")
	if v, ok := stringField(fields, "note"); ok {
		link.Note = v
	}
	if link.FromID == "" || link.ToID == "" {
		writeError(w, http.StatusBadRequest, "missing link endpoints")
		return
	}

	db.Links[link.ID] = link
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "link": link})
}

func (s *Server) updateLink(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	link, ok := db.Links[r.PathValue("link")]
	if !ok {
		writeError(w, http.StatusNotFound, "link not found")
		return
	}

	fields := readBody(r)
	if v, ok := stringField(fields, "note"); ok {
		link.Note = v
	}

	db.Links[link.ID] = link
	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "link": link})
}

func (s *Server) deleteLink(w http.ResponseWriter, r *http.Request, pin string) {
	dbs := s.store.LoadSchemas(pin)
	db, ok := dbs[r.PathValue("db")]
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	linkID := r.PathValue("link")
	if _, ok := db.Links[linkID]; !ok {
		writeError(w, http.StatusNotFound, "link not found")
		return
	}
	delete(db.Links, linkID)

	dbs[db.ID] = db
	if err := s.store.SaveSchemas(pin, dbs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
