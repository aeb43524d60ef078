package refindex

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	docs       *DocsSnapshot
	schema     *SchemaSnapshot
	err        error
	docsCalls  int
	stateCalls int
}

func (f *fakeSource) FetchDocsState(ctx context.Context) (*DocsSnapshot, error) {
	f.docsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *fakeSource) FetchSchemaState(ctx context.Context) (*SchemaSnapshot, error) {
	f.stateCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.schema, nil
}

func strPtr(s string) *string { return &s }

func docsFixture() *DocsSnapshot {
	snap := NewDocsSnapshot()
	snap.Folders["f1"] = Folder{ID: "f1", Name: "Specs"}
	snap.Folders["f2"] = Folder{ID: "f2", Name: "Drafts", ParentID: strPtr("f1")}
	snap.Documents["d1"] = DocumentMeta{ID: "d1", Name: "Intro", ParentID: strPtr("f2")}
	snap.Documents["d2"] = DocumentMeta{ID: "d2", Name: "Loose"}
	return snap
}

func TestCacheLoadsOnceAfterSuccess(t *testing.T) {
	src := &fakeSource{docs: docsFixture(), schema: NewSchemaSnapshot()}
	cache := NewCache(src)
	ctx := context.Background()

	first := cache.Docs(ctx)
	second := cache.Docs(ctx)
	if first != second {
		t.Error("expected cached snapshot pointer to be reused")
	}
	if src.docsCalls != 1 {
		t.Errorf("expected 1 fetch, got %d", src.docsCalls)
	}

	cache.Schema(ctx)
	cache.Schema(ctx)
	if src.stateCalls != 1 {
		t.Errorf("expected 1 schema fetch, got %d", src.stateCalls)
	}
}

func TestCacheFailureDegradesAndRetries(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	cache := NewCache(src)
	ctx := context.Background()

	snap := cache.Docs(ctx)
	if snap == nil || len(snap.Documents) != 0 {
		t.Fatalf("expected empty snapshot on failure, got %+v", snap)
	}

	// A later call retries once the source recovers.
	src.err = nil
	src.docs = docsFixture()
	snap = cache.Docs(ctx)
	if len(snap.Documents) != 2 {
		t.Errorf("expected recovered snapshot, got %d documents", len(snap.Documents))
	}
	if src.docsCalls != 2 {
		t.Errorf("expected 2 fetches, got %d", src.docsCalls)
	}
}

func TestCacheInvalidate(t *testing.T) {
	src := &fakeSource{docs: docsFixture(), schema: NewSchemaSnapshot()}
	cache := NewCache(src)
	ctx := context.Background()

	cache.Docs(ctx)
	cache.Invalidate()
	cache.Docs(ctx)
	if src.docsCalls != 2 {
		t.Errorf("expected refetch after Invalidate, got %d fetches", src.docsCalls)
	}
}

func TestResolveDocPath(t *testing.T) {
	snap := docsFixture()

	if got := snap.ResolveDocPath("d1"); got != "Specs / Drafts / Intro" {
		t.Errorf("got %q, want %q", got, "Specs / Drafts / Intro")
	}
	if got := snap.ResolveDocPath("d2"); got != "Loose" {
		t.Errorf("got %q, want %q", got, "Loose")
	}
	if got := snap.ResolveDocPath("nope"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestResolveDocPathMissingFolder(t *testing.T) {
	snap := NewDocsSnapshot()
	snap.Documents["d1"] = DocumentMeta{ID: "d1", Name: "Orphan", ParentID: strPtr("gone")}

	if got := snap.ResolveDocPath("d1"); got != "Orphan" {
		t.Errorf("got %q, want %q", got, "Orphan")
	}
}

func TestResolveDocPathFolderCycle(t *testing.T) {
	snap := NewDocsSnapshot()
	snap.Folders["a"] = Folder{ID: "a", Name: "A", ParentID: strPtr("b")}
	snap.Folders["b"] = Folder{ID: "b", Name: "B", ParentID: strPtr("a")}
	snap.Documents["d1"] = DocumentMeta{ID: "d1", Name: "Trapped", ParentID: strPtr("a")}

	// Must terminate; the bounded walk yields at most maxFolderHops parts.
	got := snap.ResolveDocPath("d1")
	if got == "" {
		t.Fatal("expected non-empty path")
	}
	if len(got) > maxFolderHops*4+len("Trapped")+10 {
		t.Errorf("path unexpectedly long: %d chars", len(got))
	}
}
