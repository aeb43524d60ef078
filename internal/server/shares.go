package server

import (
	"net/http"

	"github.com/schemapad/schemapad/internal/model"
)

func (s *Server) shareDoc(w http.ResponseWriter, r *http.Request, pin string) {
	_, documents := s.store.LoadDocs(pin)
	docID := r.PathValue("doc")
	if _, ok := documents[docID]; !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	shares := s.store.LoadShares()
	token := model.NewID()
	shares[token] = model.DocShare{ID: token, PIN: pin, Kind: model.ShareKindDoc, TargetID: docID, CreatedAt: now()}
	if err := s.store.SaveShares(shares); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "token": token, "url": "/s/d/" + token})
}

func (s *Server) shareFolder(w http.ResponseWriter, r *http.Request, pin string) {
	folders, _ := s.store.LoadDocs(pin)
	folderID := r.PathValue("folder")
	if _, ok := folders[folderID]; !ok {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}

	shares := s.store.LoadShares()
	token := model.NewID()
	shares[token] = model.DocShare{ID: token, PIN: pin, Kind: model.ShareKindFolder, TargetID: folderID, CreatedAt: now()}
	if err := s.store.SaveShares(shares); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "token": token, "url": "/s/f/" + token})
}

// sharedContext resolves a share token to its share record and the
// owning PIN's docs state.
func (s *Server) sharedContext(token string) (model.DocShare, map[string]model.DocFolder, map[string]model.Document, bool) {
	shares := s.store.LoadShares()
	share, ok := shares[token]
	if !ok {
		return model.DocShare{}, nil, nil, false
	}
	folders, documents := s.store.LoadDocs(share.PIN)
	return share, folders, documents, true
}

// folderSubtree collects the ids of root and every folder below it. The
// walk is iterative and tracks visited ids, so a malformed tree with a
// cycle cannot loop.
func folderSubtree(folders map[string]model.DocFolder, root string) map[string]bool {
	subtree := map[string]bool{}
	pending := []string{root}
	for len(pending) > 0 {
		id := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if subtree[id] {
			continue
		}
		subtree[id] = true
		for fid, f := range folders {
			if f.ParentID != nil && *f.ParentID == id && !subtree[fid] {
				pending = append(pending, fid)
			}
		}
	}
	return subtree
}

// docInSubtree reports whether a document lives under the shared root.
func docInSubtree(doc model.Document, subtree map[string]bool, root string) bool {
	if doc.ParentID == nil {
		return false
	}
	return subtree[*doc.ParentID] || *doc.ParentID == root
}

// sharedDocsState serves the folder-share variant of /api/docs/state:
// only the shared subtree's folders and their documents.
func (s *Server) sharedDocsState(w http.ResponseWriter, r *http.Request) {
	share, folders, documents, ok := s.sharedContext(r.PathValue("token"))
	if !ok || share.Kind != model.ShareKindFolder {
		writeError(w, http.StatusNotFound, "share not found")
		return
	}

	subtree := folderSubtree(folders, share.TargetID)

	outFolders := map[string]model.DocFolder{}
	for id := range subtree {
		if f, ok := folders[id]; ok {
			outFolders[id] = f
		}
	}
	outDocs := map[string]docMeta{}
	for id, d := range documents {
		if docInSubtree(d, subtree, share.TargetID) {
			outDocs[id] = docMeta{ID: d.ID, Name: d.Name, ParentID: d.ParentID, UpdatedAt: d.UpdatedAt}
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"folders":   outFolders,
		"documents": outDocs,
		"root":      share.TargetID,
	})
}

// sharedResolveDoc answers whether a document is reachable through a
// share token, and at what URL.
func (s *Server) sharedResolveDoc(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	share, folders, documents, ok := s.sharedContext(token)
	if !ok {
		writeError(w, http.StatusNotFound, "share not found")
		return
	}
	doc, ok := documents[r.PathValue("doc")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	allowed := false
	var url interface{}
	switch share.Kind {
	case model.ShareKindFolder:
		subtree := folderSubtree(folders, share.TargetID)
		allowed = docInSubtree(doc, subtree, share.TargetID)
		if allowed {
			url = "/s/f/" + token + "/d/" + doc.ID
		}
	case model.ShareKindDoc:
		allowed = share.TargetID == doc.ID
		if allowed {
			url = "/s/d/" + token
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "allowed": allowed, "url": url})
}

// sharedAddNote lets share readers annotate documents they can see. The
// note lands in the owning PIN's workspace.
func (s *Server) sharedAddNote(w http.ResponseWriter, r *http.Request) {
	share, folders, documents, ok := s.sharedContext(r.PathValue("token"))
	if !ok {
		writeError(w, http.StatusNotFound, "share not found")
		return
	}
	doc, ok := documents[r.PathValue("doc")]
	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if share.Kind == model.ShareKindFolder {
		subtree := folderSubtree(folders, share.TargetID)
		if !docInSubtree(doc, subtree, share.TargetID) {
			writeError(w, http.StatusForbidden, "document not in shared folder")
			return
		}
	}

	note, ok := noteFromBody(readBody(r))
	if !ok {
		writeError(w, http.StatusBadRequest, "note text required")
		return
	}
	doc.Notes[note.ID] = note
	doc.UpdatedAt = now()

	documents[doc.ID] = doc
	if err := s.store.SaveDocs(share.PIN, folders, documents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "note": note})
}
