package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/schemapad/schemapad/internal/docindex"
	"github.com/schemapad/schemapad/internal/refindex"
	"github.com/schemapad/schemapad/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	ix, err := docindex.Open(":memory:")
	if err != nil {
		t.Fatalf("open doc index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(st, ix, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// call performs one JSON request with the PIN cookie and decodes the
// response body into a generic map.
func call(t *testing.T, ts *httptest.Server, method, path, pin string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if pin != "" {
		req.AddCookie(&http.Cookie{Name: refindex.PinCookie, Value: pin})
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, decoded
}

func objField(t *testing.T, m map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	obj, ok := m[key].(map[string]interface{})
	if !ok {
		t.Fatalf("expected object field %q in %v", key, m)
	}
	return obj
}

func idOf(t *testing.T, m map[string]interface{}, key string) string {
	t.Helper()
	return objField(t, m, key)["id"].(string)
}

func TestPINRequired(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/state"},
		{http.MethodGet, "/api/docs/state"},
		{http.MethodGet, "/api/search?q=x"},
		{http.MethodPost, "/api/databases"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			status, body := call(t, ts, p.method, p.path, "", nil)
			if status != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", status)
			}
			if ok, _ := body["ok"].(bool); ok {
				t.Errorf("expected ok=false, got %v", body)
			}
		})
	}

	t.Run("path-breaking PIN rejected", func(t *testing.T) {
		status, _ := call(t, ts, http.MethodGet, "/api/state", "../etc", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})
}

func TestSchemaCRUD(t *testing.T) {
	ts := newTestServer(t)
	pin := "1234"

	_, created := call(t, ts, http.MethodPost, "/api/databases", pin, map[string]string{"name": "Shop"})
	dbID := idOf(t, created, "database")

	_, tableResp := call(t, ts, http.MethodPost, "/api/databases/"+dbID+"/tables", pin, map[string]string{"name": "Orders"})
	tableID := idOf(t, tableResp, "table")

	_, colResp := call(t, ts, http.MethodPost,
		"/api/databases/"+dbID+"/tables/"+tableID+"/columns", pin,
		map[string]interface{}{"name": "user_id", "datatype": "INTEGER", "is_primary": true})
	colID := idOf(t, colResp, "column")

	t.Run("column defaults", func(t *testing.T) {
		col := objField(t, colResp, "column")
		if col["datatype"] != "INTEGER" {
			t.Errorf("datatype = %v, want INTEGER", col["datatype"])
		}
		if col["is_primary"] != true {
			t.Errorf("is_primary = %v, want true", col["is_primary"])
		}
		if col["is_nullable"] != true {
			t.Errorf("is_nullable = %v, want the default true", col["is_nullable"])
		}
		if col["order"] != float64(0) {
			t.Errorf("order = %v, want 0", col["order"])
		}
	})

	t.Run("second column appends", func(t *testing.T) {
		_, resp := call(t, ts, http.MethodPost,
			"/api/databases/"+dbID+"/tables/"+tableID+"/columns", pin,
			map[string]string{"name": "total"})
		if got := objField(t, resp, "column")["order"]; got != float64(1) {
			t.Errorf("order = %v, want 1", got)
		}
	})

	t.Run("rename keeps old name on blank", func(t *testing.T) {
		_, resp := call(t, ts, http.MethodPatch, "/api/databases/"+dbID, pin, map[string]string{"name": "  "})
		if got := objField(t, resp, "database")["name"]; got != "Shop" {
			t.Errorf("name = %v, want Shop", got)
		}
	})

	t.Run("state shape", func(t *testing.T) {
		status, state := call(t, ts, http.MethodGet, "/api/state", pin, nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		db := objField(t, state, dbID)
		tables := objField(t, db, "tables")
		if _, ok := tables[tableID]; !ok {
			t.Errorf("table %s missing from state", tableID)
		}
	})

	t.Run("table delete removes column links", func(t *testing.T) {
		_, linkResp := call(t, ts, http.MethodPost, "/api/databases/"+dbID+"/links", pin,
			map[string]string{"from_type": "column", "from_id": colID, "to_type": "table", "to_id": tableID})
		linkID := idOf(t, linkResp, "link")

		status, _ := call(t, ts, http.MethodDelete, "/api/databases/"+dbID+"/tables/"+tableID, pin, nil)
		if status != http.StatusOK {
			t.Fatalf("delete table status = %d, want 200", status)
		}

		_, state := call(t, ts, http.MethodGet, "/api/state", pin, nil)
		links := objField(t, objField(t, state, dbID), "links")
		if _, ok := links[linkID]; ok {
			t.Errorf("link %s survived table delete", linkID)
		}
	})

	t.Run("missing targets are 404", func(t *testing.T) {
		status, _ := call(t, ts, http.MethodDelete, "/api/databases/nope", pin, nil)
		if status != http.StatusNotFound {
			t.Errorf("status = %d, want 404", status)
		}
	})
}

func TestDuplicateDatabaseRemapsRefs(t *testing.T) {
	ts := newTestServer(t)
	pin := "1234"

	_, dbResp := call(t, ts, http.MethodPost, "/api/databases", pin, map[string]string{"name": "Shop"})
	dbID := idOf(t, dbResp, "database")

	_, usersResp := call(t, ts, http.MethodPost, "/api/databases/"+dbID+"/tables", pin, map[string]string{"name": "users"})
	usersID := idOf(t, usersResp, "table")
	_, ordersResp := call(t, ts, http.MethodPost, "/api/databases/"+dbID+"/tables", pin, map[string]string{"name": "orders"})
	ordersID := idOf(t, ordersResp, "table")

	_, idColResp := call(t, ts, http.MethodPost,
		"/api/databases/"+dbID+"/tables/"+usersID+"/columns", pin, map[string]string{"name": "id"})
	idColID := idOf(t, idColResp, "column")

	call(t, ts, http.MethodPost,
		"/api/databases/"+dbID+"/tables/"+ordersID+"/columns", pin,
		map[string]interface{}{
			"name":        "user_id",
			"foreign_ref": map[string]string{"table_id": usersID, "column_id": idColID},
		})

	_, dupResp := call(t, ts, http.MethodPost, "/api/databases/"+dbID+"/duplicate", pin, nil)
	dup := objField(t, dupResp, "database")

	if got := dup["name"]; got != "Shop (copy)" {
		t.Errorf("name = %v, want \"Shop (copy)\"", got)
	}
	if dup["id"] == dbID {
		t.Error("duplicate reused the source database id")
	}

	// The copied foreign ref must point at copied ids, not the originals.
	tables := objField(t, dup, "tables")
	var checked bool
	for newTID, rawTable := range tables {
		table := rawTable.(map[string]interface{})
		for newCID, rawCol := range table["columns"].(map[string]interface{}) {
			col := rawCol.(map[string]interface{})
			fr, ok := col["foreign_ref"].(map[string]interface{})
			if !ok {
				continue
			}
			checked = true
			if fr["table_id"] == usersID || fr["column_id"] == idColID {
				t.Errorf("foreign ref on %s.%s still points at source ids: %v", newTID, newCID, fr)
			}
			if _, ok := tables[fr["table_id"].(string)]; !ok {
				t.Errorf("foreign ref targets unknown table %v", fr["table_id"])
			}
		}
	}
	if !checked {
		t.Error("no foreign ref found in duplicated database")
	}
}

func TestDocsCRUD(t *testing.T) {
	ts := newTestServer(t)
	pin := "abcd"

	_, folderResp := call(t, ts, http.MethodPost, "/api/docs/folders", pin, map[string]string{"name": "Design"})
	folderID := idOf(t, folderResp, "folder")

	_, docResp := call(t, ts, http.MethodPost, "/api/docs", pin,
		map[string]interface{}{"name": "User Guide", "parent_id": folderID})
	docID := idOf(t, docResp, "document")

	t.Run("default content", func(t *testing.T) {
		doc := objField(t, docResp, "document")
		if doc["content"] != "# User Guide\n\nStart writing...\n" {
			t.Errorf("content = %q", doc["content"])
		}
	})

	t.Run("unknown parent is 400", func(t *testing.T) {
		status, _ := call(t, ts, http.MethodPost, "/api/docs", pin,
			map[string]interface{}{"name": "x", "parent_id": "nope"})
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("update touches timestamp", func(t *testing.T) {
		before := objField(t, docResp, "document")["updated_at"].(float64)
		_, updated := call(t, ts, http.MethodPatch, "/api/docs/"+docID, pin,
			map[string]string{"content": "# User Guide\n\n## Usage\n\nDetails.\n"})
		after := objField(t, updated, "document")["updated_at"].(float64)
		if after < before {
			t.Errorf("updated_at went backwards: %v -> %v", before, after)
		}
	})

	t.Run("non-empty folder cannot be deleted", func(t *testing.T) {
		status, _ := call(t, ts, http.MethodDelete, "/api/docs/folders/"+folderID, pin, nil)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
	})

	t.Run("notes", func(t *testing.T) {
		status, noteResp := call(t, ts, http.MethodPost, "/api/docs/"+docID+"/notes", pin,
			map[string]interface{}{"start_line": 3, "text": "clarify this", "author": "sam"})
		if status != http.StatusOK {
			t.Fatalf("add note status = %d, want 200", status)
		}
		note := objField(t, noteResp, "note")
		if note["end_line"] != float64(3) {
			t.Errorf("end_line = %v, want the start line 3", note["end_line"])
		}

		status, _ = call(t, ts, http.MethodPost, "/api/docs/"+docID+"/notes", pin,
			map[string]string{"text": "   "})
		if status != http.StatusBadRequest {
			t.Errorf("blank note status = %d, want 400", status)
		}
	})

	t.Run("docs state omits content", func(t *testing.T) {
		_, state := call(t, ts, http.MethodGet, "/api/docs/state", pin, nil)
		doc, ok := objField(t, state, "documents")[docID].(map[string]interface{})
		if !ok {
			t.Fatalf("document %s missing from docs state", docID)
		}
		if _, ok := doc["content"]; ok {
			t.Error("docs state leaked document content")
		}
		if doc["name"] != "User Guide" {
			t.Errorf("name = %v, want User Guide", doc["name"])
		}
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := call(t, ts, http.MethodDelete, "/api/docs/"+docID, pin, nil)
		if status != http.StatusOK {
			t.Fatalf("delete status = %d, want 200", status)
		}
		status, _ = call(t, ts, http.MethodGet, "/api/docs/"+docID, pin, nil)
		if status != http.StatusNotFound {
			t.Errorf("get after delete status = %d, want 404", status)
		}
	})
}

func TestShares(t *testing.T) {
	ts := newTestServer(t)
	pin := "9999"

	_, rootResp := call(t, ts, http.MethodPost, "/api/docs/folders", pin, map[string]string{"name": "Public"})
	rootID := idOf(t, rootResp, "folder")
	_, subResp := call(t, ts, http.MethodPost, "/api/docs/folders", pin,
		map[string]interface{}{"name": "Drafts", "parent_id": rootID})
	subID := idOf(t, subResp, "folder")

	_, inResp := call(t, ts, http.MethodPost, "/api/docs", pin,
		map[string]interface{}{"name": "Inside", "parent_id": subID})
	insideID := idOf(t, inResp, "document")
	_, outResp := call(t, ts, http.MethodPost, "/api/docs", pin, map[string]string{"name": "Outside"})
	outsideID := idOf(t, outResp, "document")

	_, shareResp := call(t, ts, http.MethodPost, "/api/docs/folders/"+rootID+"/share", pin, nil)
	token, _ := shareResp["token"].(string)
	if token == "" {
		t.Fatalf("no share token in %v", shareResp)
	}

	t.Run("shared state scoped to subtree", func(t *testing.T) {
		// No PIN cookie: shares are resolvable by token alone.
		status, state := call(t, ts, http.MethodGet, "/api/shared/f/"+token+"/state", "", nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		docs := objField(t, state, "documents")
		if _, ok := docs[insideID]; !ok {
			t.Errorf("document inside the shared subtree missing")
		}
		if _, ok := docs[outsideID]; ok {
			t.Errorf("document outside the shared subtree leaked")
		}
		if state["root"] != rootID {
			t.Errorf("root = %v, want %s", state["root"], rootID)
		}
	})

	t.Run("resolve allows subtree only", func(t *testing.T) {
		_, allowed := call(t, ts, http.MethodGet,
			fmt.Sprintf("/api/shared/resolve/%s/doc/%s", token, insideID), "", nil)
		if allowed["allowed"] != true {
			t.Errorf("inside doc not allowed: %v", allowed)
		}
		_, denied := call(t, ts, http.MethodGet,
			fmt.Sprintf("/api/shared/resolve/%s/doc/%s", token, outsideID), "", nil)
		if denied["allowed"] != false {
			t.Errorf("outside doc allowed: %v", denied)
		}
	})

	t.Run("shared note lands in owner workspace", func(t *testing.T) {
		status, _ := call(t, ts, http.MethodPost,
			fmt.Sprintf("/api/shared/d/%s/%s/notes", token, insideID), "",
			map[string]string{"text": "from a reader"})
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		_, notes := call(t, ts, http.MethodGet, "/api/docs/"+insideID+"/notes", pin, nil)
		if len(objField(t, notes, "notes")) != 1 {
			t.Errorf("note did not reach the owner's workspace: %v", notes)
		}
	})
}

func TestSearchEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	pin := "4242"

	call(t, ts, http.MethodPost, "/api/docs", pin,
		map[string]string{"name": "User Guide", "content": "# User Guide\n\n## Usage\n\nHow to use it.\n"})
	call(t, ts, http.MethodPost, "/api/docs", pin,
		map[string]string{"name": "Roadmap", "content": "# Roadmap\n\nNothing relevant.\n"})

	_, dbResp := call(t, ts, http.MethodPost, "/api/databases", pin, map[string]string{"name": "Shop"})
	dbID := idOf(t, dbResp, "database")
	_, tblResp := call(t, ts, http.MethodPost, "/api/databases/"+dbID+"/tables", pin, map[string]string{"name": "users"})
	tblID := idOf(t, tblResp, "table")
	call(t, ts, http.MethodPost,
		"/api/databases/"+dbID+"/tables/"+tblID+"/columns", pin, map[string]string{"name": "user_name"})
	call(t, ts, http.MethodPost,
		"/api/databases/"+dbID+"/tables/"+tblID+"/columns", pin, map[string]string{"name": "total"})

	results := func(q string) []map[string]interface{} {
		t.Helper()
		status, resp := call(t, ts, http.MethodGet, "/api/search?q="+q, pin, nil)
		if status != http.StatusOK {
			t.Fatalf("search %q status = %d, want 200", q, status)
		}
		raw, ok := resp["results"].([]interface{})
		if !ok {
			t.Fatalf("search %q: no results array in %v", q, resp)
		}
		out := make([]map[string]interface{}, len(raw))
		for i, r := range raw {
			out[i] = r.(map[string]interface{})
		}
		return out
	}

	t.Run("use matches across entity kinds", func(t *testing.T) {
		got := results("use")
		kinds := map[string]int{}
		for _, r := range got {
			kinds[r["type"].(string)]++
		}
		// "User Guide" doc, "Usage" heading, "users" table, "user_name"
		// column (also matching via "users.user-name" label).
		for _, want := range []string{"doc", "heading", "table", "column"} {
			if kinds[want] == 0 {
				t.Errorf("no %s result for \"use\": %v", want, got)
			}
		}
		if kinds["database"] != 0 {
			t.Errorf("database matched \"use\": %v", got)
		}
		for _, r := range got {
			if r["type"] == "doc" && r["name"] == "Roadmap" {
				t.Error("unrelated document matched \"use\"")
			}
		}
	})

	t.Run("content match", func(t *testing.T) {
		got := results("relevant")
		if len(got) != 1 || got[0]["name"] != "Roadmap" {
			t.Errorf("content search = %v, want just Roadmap", got)
		}
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		got := results("")
		if len(got) == 0 {
			t.Error("empty query returned no results on a populated workspace")
		}
	})

	t.Run("case-insensitive", func(t *testing.T) {
		if len(results("USE")) != len(results("use")) {
			t.Error("matching is case-sensitive")
		}
	})
}

func TestSnapshotClientAgainstServer(t *testing.T) {
	ts := newTestServer(t)
	pin := "7777"

	_, folderResp := call(t, ts, http.MethodPost, "/api/docs/folders", pin, map[string]string{"name": "Specs"})
	folderID := idOf(t, folderResp, "folder")
	_, docResp := call(t, ts, http.MethodPost, "/api/docs", pin,
		map[string]interface{}{"name": "Checkout", "parent_id": folderID})
	docID := idOf(t, docResp, "document")

	client := refindex.NewClientWithHTTP(ts.URL, pin, ts.Client())
	cache := refindex.NewCache(client)
	ctx := context.Background()

	if got := cache.ResolveDocPath(ctx, docID); got != "Specs / Checkout" {
		t.Errorf("ResolveDocPath = %q, want \"Specs / Checkout\"", got)
	}
	if got := cache.ResolveDocPath(ctx, "missing"); got != "" {
		t.Errorf("ResolveDocPath(missing) = %q, want \"\"", got)
	}
}
