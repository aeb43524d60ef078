package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/schemapad/schemapad/internal/model"
)

func fixtureState() (map[string]model.Document, map[string]model.Database) {
	documents := map[string]model.Document{
		"d1": model.NewDocument("d1", "User Guide", nil, "# Intro\n\n## Useful Tips\n"),
		"d2": model.NewDocument("d2", "Changelog", nil, "# History\n\nnothing here\n"),
	}

	db := model.NewDatabase("db1", "Shop")
	users := model.NewTable("t1", "Users")
	users.Columns["c1"] = model.Column{ID: "c1", Name: "id", Order: 0}
	users.Columns["c2"] = model.Column{ID: "c2", Name: "email", Order: 1}
	orders := model.NewTable("t2", "Orders")
	orders.Columns["c3"] = model.Column{ID: "c3", Name: "user_id", Order: 0}
	db.Tables["t1"] = users
	db.Tables["t2"] = orders

	return documents, map[string]model.Database{"db1": db}
}

func newFixtureEngine() *Engine {
	documents, dbs := fixtureState()
	return NewEngine(BuildCorpus(documents, dbs), nil)
}

func kinds(results []model.Entity) []string {
	out := make([]string, len(results))
	for i, e := range results {
		out[i] = fmt.Sprintf("%s:%s", e.EntityKind(), e.DisplayName())
	}
	return out
}

func TestSearchEmptyQueryReturnsEverything(t *testing.T) {
	e := newFixtureEngine()

	results := e.Search("")
	if len(results) == 0 {
		t.Fatal("empty query on a non-empty corpus must return results")
	}

	// 2 docs + 3 headings + 1 db + 2 tables + 3 columns.
	if len(results) != 11 {
		t.Errorf("expected 11 results, got %d: %v", len(results), kinds(results))
	}
}

func TestSearchSubstring(t *testing.T) {
	e := newFixtureEngine()

	results := e.Search("use")
	// Tables sort by name, so the Orders column precedes the Users table.
	want := []string{
		"doc:User Guide",
		"heading:Useful Tips",
		"column:user_id", // matches via slug and the orders.user_id label
		"table:Users",
	}
	if diff := cmp.Diff(want, kinds(results)); diff != "" {
		t.Errorf("search(\"use\") mismatch (-want +got):\n%s", diff)
	}

	// Case-insensitive.
	if diff := cmp.Diff(kinds(e.Search("USE")), kinds(results)); diff != "" {
		t.Errorf("case sensitivity leaked (-upper +lower):\n%s", diff)
	}

	// Unrelated query excludes the entity.
	for _, k := range kinds(e.Search("zzzunrelated")) {
		t.Errorf("unexpected result %s for unrelated query", k)
	}
}

func TestSearchColumnLabel(t *testing.T) {
	e := newFixtureEngine()

	results := e.Search("orders.user")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %v", kinds(results))
	}
	col, ok := results[0].(model.ColumnEntity)
	if !ok {
		t.Fatalf("expected ColumnEntity, got %T", results[0])
	}
	if col.Label != "orders.user_id" {
		t.Errorf("label = %q, want %q", col.Label, "orders.user_id")
	}
}

func TestSearchDeterministic(t *testing.T) {
	documents, dbs := fixtureState()

	// Two independently built engines over the same state must agree
	// exactly, regardless of map iteration order.
	a := NewEngine(BuildCorpus(documents, dbs), nil)
	b := NewEngine(BuildCorpus(documents, dbs), nil)
	for _, q := range []string{"", "use", "e", "orders"} {
		if diff := cmp.Diff(kinds(a.Search(q)), kinds(b.Search(q))); diff != "" {
			t.Errorf("nondeterministic results for %q:\n%s", q, diff)
		}
	}
}

type staticMatcher struct {
	hits map[string]bool
	err  error
}

func (m staticMatcher) MatchingDocs(string) (map[string]bool, error) { return m.hits, m.err }

func TestSearchContentMatches(t *testing.T) {
	documents, dbs := fixtureState()
	corpus := BuildCorpus(documents, dbs)

	e := NewEngine(corpus, staticMatcher{hits: map[string]bool{"d2": true}})
	results := e.Search("nothing")

	found := false
	for _, r := range results {
		if d, ok := r.(model.DocEntity); ok && d.ID == "d2" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected content hit for d2, got %v", kinds(results))
	}

	// Content matching never applies to the empty query.
	e2 := NewEngine(BuildCorpus(documents, dbs), staticMatcher{hits: map[string]bool{"d2": true}})
	if got := len(e2.Search("")); got != 11 {
		t.Errorf("empty query result count = %d, want 11", got)
	}
}

func TestSearchContentMatcherFailure(t *testing.T) {
	documents, dbs := fixtureState()
	e := NewEngine(BuildCorpus(documents, dbs), staticMatcher{err: errors.New("index offline")})

	// Name matching still works when the content index is down.
	results := e.Search("changelog")
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %v", kinds(results))
	}
}

func TestSearchResultCap(t *testing.T) {
	documents := map[string]model.Document{}
	for i := 0; i < 80; i++ {
		id := fmt.Sprintf("d%03d", i)
		documents[id] = model.NewDocument(id, fmt.Sprintf("Common Doc %03d", i), nil, "")
	}

	e := NewEngine(BuildCorpus(documents, nil), nil)
	if got := len(e.Search("common")); got != maxResults {
		t.Errorf("expected %d results, got %d", maxResults, got)
	}
}
