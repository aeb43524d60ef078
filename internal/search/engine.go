package search

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/schemapad/schemapad/internal/model"
)

const (
	// maxResults caps a single search response.
	maxResults = 50

	queryCacheSize = 128
)

// ContentMatcher answers "which documents contain this substring?".
// Implementations must treat the query case-insensitively. The sqlite
// docindex implements this; a nil matcher disables content matching.
type ContentMatcher interface {
	MatchingDocs(query string) (map[string]bool, error)
}

// Engine matches a query against one immutable Corpus. Construct a new
// Engine whenever the underlying state changes; the query cache is
// scoped to the corpus it was built with.
type Engine struct {
	corpus  *Corpus
	content ContentMatcher
	cache   *lru.Cache[string, []model.Entity]
}

// NewEngine builds an engine over the corpus. content may be nil.
func NewEngine(corpus *Corpus, content ContentMatcher) *Engine {
	cache, err := lru.New[string, []model.Entity](queryCacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(err)
	}
	return &Engine{corpus: corpus, content: content, cache: cache}
}

// Search returns entities whose display name (or slug, for schema
// entities, or content, for documents) contains the query,
// case-insensitively. The empty query matches everything, which is how
// the chooser populates its initial view. Search never fails: a broken
// content matcher just means no content-based hits.
func (e *Engine) Search(query string) []model.Entity {
	q := strings.ToLower(strings.TrimSpace(query))

	if cached, ok := e.cache.Get(q); ok {
		return cached
	}

	var contentHits map[string]bool
	if q != "" && e.content != nil {
		if hits, err := e.content.MatchingDocs(q); err == nil {
			contentHits = hits
		}
	}

	results := make([]model.Entity, 0, 16)
	full := func() bool { return len(results) >= maxResults }

	for _, d := range e.corpus.Documents {
		if full() {
			break
		}
		if strings.Contains(d.LowerName, q) || (q != "" && contentHits[d.ID]) {
			results = append(results, model.NewDocEntity(d.ID, d.Name, d.ParentID))
		}
		for _, h := range d.Headings {
			if full() {
				break
			}
			if strings.Contains(strings.ToLower(h.Text), q) {
				results = append(results, model.NewHeadingEntity(d.ID, h.Text, d.Name, d.ParentID))
			}
		}
	}

	for _, db := range e.corpus.Databases {
		if full() {
			break
		}
		if strings.Contains(db.Slug, q) {
			results = append(results, model.NewDatabaseEntity(db.ID, db.Name, db.Slug))
		}
		for _, t := range db.Tables {
			if full() {
				break
			}
			if strings.Contains(t.Slug, q) {
				results = append(results, model.NewTableEntity(db.ID, t.ID, t.Name, t.Slug))
			}
			for _, col := range t.Columns {
				if full() {
					break
				}
				if strings.Contains(col.Slug, q) || strings.Contains(col.Label, q) {
					results = append(results, model.NewColumnEntity(db.ID, t.ID, col.ID, col.Name, col.Slug, col.Label))
				}
			}
		}
	}

	e.cache.Add(q, results)
	return results
}
