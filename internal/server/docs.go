package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/schemapad/schemapad/internal/model"
)

func (s *Server) createFolder(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)

	fields := readBody(r)
	name := "New Folder"
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		name = strings.TrimSpace(v)
	}
	parentID, ok := optionalParent(fields, "parent_id")
	if !ok || (parentID != nil && !folderExists(folders, *parentID)) {
		writeError(w, http.StatusBadRequest, "unknown parent folder")
		return
	}

	folder := model.DocFolder{ID: model.NewID(), Name: name, ParentID: parentID}
	folders[folder.ID] = folder
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "folder": folder})
}

func (s *Server) updateFolder(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)
	folder, ok := folders[r.PathValue("folder")]
	if !ok {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}

	fields := readBody(r)
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		folder.Name = strings.TrimSpace(v)
	}
	if _, present := fields["parent_id"]; present {
		parentID, ok := optionalParent(fields, "parent_id")
		if !ok || (parentID != nil && !folderExists(folders, *parentID)) {
			writeError(w, http.StatusBadRequest, "unknown parent folder")
			return
		}
		folder.ParentID = parentID
	}

	folders[folder.ID] = folder
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "folder": folder})
}

func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)
	folderID := r.PathValue("folder")
	if _, ok := folders[folderID]; !ok {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}

	for _, d := range documents {
		if d.ParentID != nil && *d.ParentID == folderID {
			writeError(w, http.StatusBadRequest, "folder not empty")
			return
		}
	}
	for id, f := range folders {
		if id != folderID && f.ParentID != nil && *f.ParentID == folderID {
			writeError(w, http.StatusBadRequest, "folder not empty")
			return
		}
	}

	delete(folders, folderID)
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (s *Server) createDoc(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)

	fields := readBody(r)
	name := "Untitled"
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		name = strings.TrimSpace(v)
	}
	parentID, ok := optionalParent(fields, "parent_id")
	if !ok || (parentID != nil && !folderExists(folders, *parentID)) {
		writeError(w, http.StatusBadRequest, "unknown parent folder")
		return
	}
	content := "# " + name + "\n\nStart writing...\n"
	if v, ok := stringField(fields, "content"); ok && v != "" {
		content = v
	}

	doc := model.NewDocument(model.NewID(), name, parentID, content)
	doc.UpdatedAt = now()
	documents[doc.ID] = doc
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.indexDoc(pin, doc)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "document": doc})
}

func (s *Server) getDoc(w http.ResponseWriter, r *http.Request, pin string) {
	_, documents := s.store.LoadDocs(pin)
	doc, ok := documents[r.PathValue("doc")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "document": doc})
}

func (s *Server) updateDoc(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)
	doc, ok := documents[r.PathValue("doc")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	fields := readBody(r)
	touched := false
	if v, ok := stringField(fields, "name"); ok && strings.TrimSpace(v) != "" {
		doc.Name = strings.TrimSpace(v)
		touched = true
	}
	if _, present := fields["parent_id"]; present {
		parentID, ok := optionalParent(fields, "parent_id")
		if !ok || (parentID != nil && !folderExists(folders, *parentID)) {
			writeError(w, http.StatusBadRequest, "unknown parent folder")
			return
		}
		doc.ParentID = parentID
		touched = true
	}
	if v, ok := stringField(fields, "content"); ok {
		doc.Content = v
		touched = true
	}
	if touched {
		doc.UpdatedAt = now()
	}

	documents[doc.ID] = doc
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.indexDoc(pin, doc)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "document": doc})
}

func (s *Server) deleteDoc(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)
	docID := r.PathValue("doc")
	if _, ok := documents[docID]; !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	delete(documents, docID)
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.docs != nil {
		if err := s.docs.RemoveDocument(pin, docID); err != nil {
			s.log.Warn("doc index remove failed", "doc", docID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (s *Server) getNotes(w http.ResponseWriter, r *http.Request, pin string) {
	_, documents := s.store.LoadDocs(pin)
	doc, ok := documents[r.PathValue("doc")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "notes": doc.Notes})
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)
	doc, ok := documents[r.PathValue("doc")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	note, ok := noteFromBody(readBody(r))
	if !ok {
		writeError(w, http.StatusBadRequest, "note text required")
		return
	}
	doc.Notes[note.ID] = note
	doc.UpdatedAt = now()

	documents[doc.ID] = doc
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "note": note})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)
	doc, ok := documents[r.PathValue("doc")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	noteID := r.PathValue("note")
	if _, ok := doc.Notes[noteID]; !ok {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	delete(doc.Notes, noteID)
	doc.UpdatedAt = now()

	documents[doc.ID] = doc
	if err := s.store.SaveDocs(pin, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// noteFromBody builds a DocNote from a request body. Line numbers default
// to 1; ok is false when the note text is missing or blank.
func noteFromBody(fields map[string]json.RawMessage) (model.DocNote, bool) {
	text, _ := stringField(fields, "text")
	text = strings.TrimSpace(text)
	if text == "" {
		return model.DocNote{}, false
	}

	startLine := 1
	if raw, present := fields["start_line"]; present {
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			startLine = n
		}
	}
	endLine := startLine
	if raw, present := fields["end_line"]; present {
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			endLine = n
		}
	}
	author, _ := stringField(fields, "author")

	return model.DocNote{
		ID:        model.NewID(),
		StartLine: startLine,
		EndLine:   endLine,
		Text:      text,
		Author:    strings.TrimSpace(author),
		CreatedAt: now(),
	}, true
}

// optionalParent reads a nullable parent_id field. ok is false only when
// the field is present but not a string or null.
func optionalParent(fields map[string]json.RawMessage, key string) (*string, bool) {
	raw, present := fields[key]
	if !present || string(raw) == "null" {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	if s == "" {
		return nil, true
	}
	return &s, true
}

func folderExists(folders map[string]model.DocFolder, id string) bool {
	_, ok := folders[id]
	return ok
}

// indexDoc keeps the content index in step with a document write. Index
// failures are logged and otherwise ignored; search degrades rather than
// the write failing.
func (s *Server) indexDoc(pin string, doc model.Document) {
	if s.docs == nil {
		return
	}
	if err := s.docs.IndexDocument(pin, doc); err != nil {
		s.log.Warn("doc index update failed", "doc", doc.ID, "error", err)
	}
}
