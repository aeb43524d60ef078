package refindex

import (
	"context"
	"strings"
	"sync"
)

// maxFolderHops bounds parent-chain walks. The folder tree is supplied
// by an external collaborator and may contain cycles; resolution must
// terminate regardless.
const maxFolderHops = 50

// Source supplies the two snapshots. Client implements it; tests and
// local (in-process) callers provide their own.
type Source interface {
	FetchDocsState(ctx context.Context) (*DocsSnapshot, error)
	FetchSchemaState(ctx context.Context) (*SchemaSnapshot, error)
}

// Cache lazily loads and retains the two entity snapshots for the
// session. A successful fetch is cached until Invalidate; a failed fetch
// returns an empty snapshot without caching it, so the next call retries.
// Replacement is a wholesale pointer swap: readers never observe a
// half-updated snapshot.
type Cache struct {
	mu     sync.Mutex
	source Source
	docs   *DocsSnapshot
	schema *SchemaSnapshot
}

// NewCache creates a cache over the given source.
func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// Docs returns the docs snapshot, fetching it on first use. Never nil.
func (c *Cache) Docs(ctx context.Context) *DocsSnapshot {
	c.mu.Lock()
	cached := c.docs
	c.mu.Unlock()
	if cached != nil {
		return cached
	}

	snap, err := c.source.FetchDocsState(ctx)
	if err != nil || snap == nil {
		return NewDocsSnapshot()
	}

	c.mu.Lock()
	c.docs = snap
	c.mu.Unlock()
	return snap
}

// Schema returns the schema snapshot, fetching it on first use. Never nil.
func (c *Cache) Schema(ctx context.Context) *SchemaSnapshot {
	c.mu.Lock()
	cached := c.schema
	c.mu.Unlock()
	if cached != nil {
		return cached
	}

	snap, err := c.source.FetchSchemaState(ctx)
	if err != nil || snap == nil {
		return NewSchemaSnapshot()
	}

	c.mu.Lock()
	c.schema = snap
	c.mu.Unlock()
	return snap
}

// Invalidate drops both snapshots; the next read refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.docs = nil
	c.schema = nil
	c.mu.Unlock()
}

// ResolveDocPath returns the document's location as folder names joined
// root-to-leaf with " / ", ending in the document's own name. Unknown
// documents resolve to "". The walk gives up after maxFolderHops so a
// malformed (cyclic) folder tree cannot hang resolution.
func (c *Cache) ResolveDocPath(ctx context.Context, docID string) string {
	snap := c.Docs(ctx)
	return snap.ResolveDocPath(docID)
}

// DatabaseName looks a database's display name up in the schema snapshot.
func (c *Cache) DatabaseName(ctx context.Context, dbID string) (string, bool) {
	db, ok := c.Schema(ctx).Databases[dbID]
	if !ok {
		return "", false
	}
	return db.Name, true
}

// TableName looks a table's display name up in the schema snapshot.
func (c *Cache) TableName(ctx context.Context, dbID, tableID string) (string, bool) {
	db, ok := c.Schema(ctx).Databases[dbID]
	if !ok {
		return "", false
	}
	table, ok := db.Tables[tableID]
	if !ok {
		return "", false
	}
	return table.Name, true
}

// ResolveDocPath is the snapshot-level implementation; see
// Cache.ResolveDocPath.
func (s *DocsSnapshot) ResolveDocPath(docID string) string {
	doc, ok := s.Documents[docID]
	if !ok {
		return ""
	}

	var parts []string
	parentID := doc.ParentID
	for hops := 0; parentID != nil && hops < maxFolderHops; hops++ {
		folder, ok := s.Folders[*parentID]
		if !ok {
			break
		}
		parts = append(parts, folder.Name)
		parentID = folder.ParentID
	}

	// parts were collected leaf-to-root; reverse into display order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	parts = append(parts, doc.Name)
	return strings.Join(parts, " / ")
}
