// Package server implements the Schemapad HTTP API: per-PIN workspace
// state, schema and document CRUD, sharing, and the search endpoint the
// chooser consumes. Workspaces are identified by a PIN cookie; there is
// no further authentication. All responses are JSON.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/schemapad/schemapad/internal/docindex"
	"github.com/schemapad/schemapad/internal/refindex"
	"github.com/schemapad/schemapad/internal/store"
)

// Server holds the handlers' shared dependencies. The document content
// index is optional: without it search degrades to name and heading
// matching.
type Server struct {
	store *store.Store
	docs  *docindex.Index
	log   *slog.Logger
	mux   *http.ServeMux
}

// New creates a server over the given store. docs and logger may be nil.
func New(st *store.Store, docs *docindex.Index, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{store: st, docs: docs, log: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Schema side.
	s.mux.HandleFunc("POST /api/databases", s.withPIN(s.createDatabase))
	s.mux.HandleFunc("PATCH /api/databases/{db}", s.withPIN(s.updateDatabase))
	s.mux.HandleFunc("DELETE /api/databases/{db}", s.withPIN(s.deleteDatabase))
	s.mux.HandleFunc("POST /api/databases/{db}/duplicate", s.withPIN(s.duplicateDatabase))
	s.mux.HandleFunc("POST /api/databases/{db}/tables", s.withPIN(s.createTable))
	s.mux.HandleFunc("PATCH /api/databases/{db}/tables/{table}", s.withPIN(s.updateTable))
	s.mux.HandleFunc("DELETE /api/databases/{db}/tables/{table}", s.withPIN(s.deleteTable))
	s.mux.HandleFunc("POST /api/databases/{db}/tables/{table}/columns", s.withPIN(s.createColumn))
	s.mux.HandleFunc("PATCH /api/databases/{db}/tables/{table}/columns/{column}", s.withPIN(s.updateColumn))
	s.mux.HandleFunc("DELETE /api/databases/{db}/tables/{table}/columns/{column}", s.withPIN(s.deleteColumn))
	s.mux.HandleFunc("POST /api/databases/{db}/links", s.withPIN(s.createLink))
	s.mux.HandleFunc("PATCH /api/databases/{db}/links/{link}", s.withPIN(s.updateLink))
	s.mux.HandleFunc("DELETE /api/databases/{db}/links/{link}", s.withPIN(s.deleteLink))

	// Docs side.
	s.mux.HandleFunc("POST /api/docs/folders", s.withPIN(s.createFolder))
	s.mux.HandleFunc("PATCH /api/docs/folders/{folder}", s.withPIN(s.updateFolder))
	s.mux.HandleFunc("DELETE /api/docs/folders/{folder}", s.withPIN(s.deleteFolder))
	s.mux.HandleFunc("POST /api/docs", s.withPIN(s.createDoc))
	s.mux.HandleFunc("GET /api/docs/{doc}", s.withPIN(s.getDoc))
	s.mux.HandleFunc("PATCH /api/docs/{doc}", s.withPIN(s.updateDoc))
	s.mux.HandleFunc("DELETE /api/docs/{doc}", s.withPIN(s.deleteDoc))
	s.mux.HandleFunc("GET /api/docs/{doc}/notes", s.withPIN(s.getNotes))
	s.mux.HandleFunc("POST /api/docs/{doc}/notes", s.withPIN(s.addNote))
	s.mux.HandleFunc("DELETE /api/docs/{doc}/notes/{note}", s.withPIN(s.deleteNote))

	// Sharing.
	s.mux.HandleFunc("POST /api/docs/{doc}/share", s.withPIN(s.shareDoc))
	s.mux.HandleFunc("POST /api/docs/folders/{folder}/share", s.withPIN(s.shareFolder))
	s.mux.HandleFunc("GET /api/shared/f/{token}/state", s.sharedDocsState)
	s.mux.HandleFunc("GET /api/shared/resolve/{token}/doc/{doc}", s.sharedResolveDoc)
	s.mux.HandleFunc("POST /api/shared/d/{token}/{doc}/notes", s.sharedAddNote)

	// Read-only state and search, consumed by refindex and the chooser.
	s.mux.HandleFunc("GET /api/state", s.withPIN(s.schemaState))
	s.mux.HandleFunc("GET /api/docs/state", s.withPIN(s.docsState))
	s.mux.HandleFunc("GET /api/search", s.withPIN(s.searchHandler))
}

// Handler returns the server's handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// withPIN extracts and validates the workspace PIN cookie before
// delegating. Requests without a usable PIN get a 401.
func (s *Server) withPIN(h func(w http.ResponseWriter, r *http.Request, pin string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refindex.PinCookie)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "PIN required")
			return
		}
		if !store.ValidPIN(cookie.Value) {
			writeError(w, http.StatusUnauthorized, "invalid PIN")
			return
		}
		h(w, r, cookie.Value)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"ok": false, "error": msg})
}

// readBody decodes a JSON request body into a field map so PATCH
// handlers can distinguish "absent" from "null". An empty or missing
// body reads as no fields.
func readBody(r *http.Request) map[string]json.RawMessage {
	fields := map[string]json.RawMessage{}
	if r.Body == nil {
		return fields
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return map[string]json.RawMessage{}
	}
	return fields
}

// stringField extracts a string field from a decoded body. ok is false
// when the field is absent or not a string.
func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, present := fields[key]
	if !present {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// boolField extracts a bool field from a decoded body.
func boolField(fields map[string]json.RawMessage, key string) (bool, bool) {
	raw, present := fields[key]
	if !present {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// now returns the current time as fractional seconds since the epoch,
// the timestamp format stored in workspace files.
func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
