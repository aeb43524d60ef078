package server

import (
	"net/http"

	"github.com/schemapad/schemapad/internal/search"
)

// docMeta is the content-free document shape of /api/docs/state.
type docMeta struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	UpdatedAt float64 `json:"updated_at"`
}

// schemaState serves GET /api/state: the PIN's databases keyed by id.
func (s *Server) schemaState(w http.ResponseWriter, r *http.Request, pin string) {
	writeJSON(w, http.StatusOK, s.store.LoadSchemas(pin))
}

// docsState serves GET /api/docs/state: folders plus document metadata,
// without document content.
func (s *Server) docsState(w http.ResponseWriter, r *http.Request, pin string) {
	folders, documents := s.store.LoadDocs(pin)

	metas := map[string]docMeta{}
	for id, d := range documents {
		metas[id] = docMeta{ID: d.ID, Name: d.Name, ParentID: d.ParentID, UpdatedAt: d.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"folders":   folders,
		"documents": metas,
	})
}

// searchHandler serves GET /api/search?q=. State is loaded fresh per
// request; the engine's determinism and result cap come from the search
// package.
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request, pin string) {
	query := r.URL.Query().Get("q")
	_, documents := s.store.LoadDocs(pin)
	dbs := s.store.LoadSchemas(pin)

	var matcher search.ContentMatcher
	if s.docs != nil {
		// Lazy rebuild: the first search after a restart repopulates the
		// content index from the store.
		if indexed, err := s.docs.Indexed(pin); err == nil && !indexed {
			if err := s.docs.ReindexPIN(pin, documents); err != nil {
				s.log.Warn("doc index rebuild failed", "error", err)
			}
		}
		matcher = s.docs.PinMatcher(pin)
	}

	engine := search.NewEngine(search.BuildCorpus(documents, dbs), matcher)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"results": engine.Search(query),
	})
}
