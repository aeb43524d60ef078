// Package preview turns encoded reference tokens into short
// human-readable labels for hover tooltips. Resolution is total: a
// malformed token, a dangling reference, or an unloadable snapshot all
// degrade to an empty or generic label, never an error. The document
// renderer must not be breakable by a stale token.
package preview

import (
	"context"
	"html"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/schemapad/schemapad/internal/refindex"
	"github.com/schemapad/schemapad/internal/reftoken"
)

const memoSize = 256

// Resolver computes preview labels against the cached entity snapshots.
type Resolver struct {
	cache *refindex.Cache
	memo  *lru.Cache[string, string]
}

// NewResolver creates a resolver over the snapshot cache.
func NewResolver(cache *refindex.Cache) *Resolver {
	memo, err := lru.New[string, string](memoSize)
	if err != nil {
		panic(err)
	}
	return &Resolver{cache: cache, memo: memo}
}

// Invalidate drops both the memoized previews and the underlying
// snapshots, forcing fresh resolution on next use.
func (r *Resolver) Invalidate() {
	r.memo.Purge()
	r.cache.Invalidate()
}

// Preview resolves one token to its label. Unparseable tokens yield "".
func (r *Resolver) Preview(ctx context.Context, token string) string {
	if cached, ok := r.memo.Get(token); ok {
		return cached
	}

	label := r.resolve(ctx, token)
	r.memo.Add(token, label)
	return label
}

func (r *Resolver) resolve(ctx context.Context, token string) string {
	tok, ok := reftoken.Parse(token)
	if !ok {
		return ""
	}

	switch tok.Tag {
	case reftoken.TagDoc:
		if path := r.cache.ResolveDocPath(ctx, tok.DocID); path != "" {
			return path
		}
		return "Document " + tok.DocID

	case reftoken.TagDB:
		if db, ok := r.cache.Schema(ctx).Databases[tok.DBID]; ok {
			return db.Name
		}
		return "DB: " + tok.DBID

	case reftoken.TagTable:
		db, dbOK := r.cache.Schema(ctx).Databases[tok.DBID]
		if dbOK {
			if table, ok := db.Tables[tok.TableID]; ok {
				return "Table: " + db.Name + " / " + table.Name
			}
			return "Table @ " + db.Name
		}
		return "Table: " + tok.TableID

	case reftoken.TagCol:
		db, dbOK := r.cache.Schema(ctx).Databases[tok.DBID]
		if dbOK {
			// The column's own name is deliberately left out: the
			// compact preview names the container, not the leaf.
			if table, ok := db.Tables[tok.TableID]; ok {
				return "Column @ " + db.Name + " > " + table.Name
			}
			return "Column @ " + db.Name
		}
		return "Column"
	}

	return ""
}

// refTag matches any tag carrying a data-ref attribute.
var refTag = regexp.MustCompile(`<[^>]*\bdata-ref="[^"]*"[^>]*>`)

// dataRefAttr extracts the token from a matched tag.
var dataRefAttr = regexp.MustCompile(`\bdata-ref="([^"]*)"`)

// titleAttr strips a previously injected title so annotation is
// idempotent.
var titleAttr = regexp.MustCompile(`\s*\btitle="[^"]*"`)

// AnnotateHTML scans a rendered HTML fragment for elements carrying a
// data-ref attribute and injects the resolved preview as a title
// attribute. Elements whose token does not resolve are left without a
// tooltip. Safe to call repeatedly and on partial fragments.
func (r *Resolver) AnnotateHTML(ctx context.Context, fragment string) string {
	return refTag.ReplaceAllStringFunc(fragment, func(tag string) string {
		m := dataRefAttr.FindStringSubmatch(tag)
		if m == nil {
			return tag
		}

		label := r.Preview(ctx, m[1])
		stripped := titleAttr.ReplaceAllString(tag, "")
		if label == "" {
			return stripped
		}

		insert := ` title="` + html.EscapeString(label) + `"`
		if strings.HasSuffix(stripped, "/>") {
			return strings.TrimSuffix(stripped, "/>") + insert + "/>"
		}
		return strings.TrimSuffix(stripped, ">") + insert + ">"
	})
}
