package cli

import (
	"context"
	"fmt"

	"github.com/schemapad/schemapad/internal/chooser"
	"github.com/schemapad/schemapad/internal/model"
	"github.com/schemapad/schemapad/internal/refindex"
	"github.com/schemapad/schemapad/internal/search"
	"github.com/schemapad/schemapad/internal/store"
)

// workspace is the resolved view of one PIN's data, backed either by a
// running server (client mode) or by the local data directory (--local).
type workspace struct {
	pin    string
	search chooser.SearchFunc
	cache  *refindex.Cache
}

// openWorkspace wires up the search function and snapshot cache for the
// selected mode.
func openWorkspace() (*workspace, error) {
	pin, err := resolvedPIN()
	if err != nil {
		return nil, err
	}

	if localFlag {
		dataDir, err := cfg.DataDir()
		if err != nil {
			return nil, err
		}
		st, err := store.New(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open data directory: %w", err)
		}

		// State is loaded once per invocation; a CLI run is one session.
		_, documents := st.LoadDocs(pin)
		dbs := st.LoadSchemas(pin)
		engine := search.NewEngine(search.BuildCorpus(documents, dbs), nil)

		return &workspace{
			pin: pin,
			search: func(ctx context.Context, query string) ([]model.Entity, error) {
				return engine.Search(query), nil
			},
			cache: refindex.NewCache(storeSource{store: st, pin: pin}),
		}, nil
	}

	client := refindex.NewClient(resolvedURL(), pin)
	return &workspace{pin: pin, search: client.Search, cache: refindex.NewCache(client)}, nil
}

// info adapts the snapshot cache to the chooser's grouping interface.
func (w *workspace) info(ctx context.Context) chooser.SnapshotInfo {
	return cacheInfo{ctx: ctx, cache: w.cache}
}

type cacheInfo struct {
	ctx   context.Context
	cache *refindex.Cache
}

func (i cacheInfo) DocPath(docID string) string {
	return i.cache.ResolveDocPath(i.ctx, docID)
}

func (i cacheInfo) DatabaseName(dbID string) (string, bool) {
	return i.cache.DatabaseName(i.ctx, dbID)
}

func (i cacheInfo) TableName(dbID, tableID string) (string, bool) {
	return i.cache.TableName(i.ctx, dbID, tableID)
}

// storeSource serves snapshots straight from the local store, the
// in-process counterpart of the HTTP client.
type storeSource struct {
	store *store.Store
	pin   string
}

func (s storeSource) FetchDocsState(ctx context.Context) (*refindex.DocsSnapshot, error) {
	folders, documents := s.store.LoadDocs(s.pin)

	snap := refindex.NewDocsSnapshot()
	for id, f := range folders {
		snap.Folders[id] = refindex.Folder{ID: f.ID, Name: f.Name, ParentID: f.ParentID}
	}
	for id, d := range documents {
		snap.Documents[id] = refindex.DocumentMeta{ID: d.ID, Name: d.Name, ParentID: d.ParentID, UpdatedAt: d.UpdatedAt}
	}
	return snap, nil
}

func (s storeSource) FetchSchemaState(ctx context.Context) (*refindex.SchemaSnapshot, error) {
	snap := refindex.NewSchemaSnapshot()
	for id, db := range s.store.LoadSchemas(s.pin) {
		tables := map[string]refindex.SchemaTable{}
		for tid, t := range db.Tables {
			columns := map[string]refindex.SchemaColumn{}
			for cid, c := range t.Columns {
				columns[cid] = refindex.SchemaColumn{Name: c.Name}
			}
			tables[tid] = refindex.SchemaTable{Name: t.Name, Columns: columns}
		}
		snap.Databases[id] = refindex.SchemaDatabase{Name: db.Name, Tables: tables}
	}
	return snap, nil
}
