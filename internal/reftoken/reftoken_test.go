package reftoken

import (
	"testing"

	"github.com/schemapad/schemapad/internal/model"
)

func TestRoundTrip(t *testing.T) {
	tokens := []Token{
		Doc("d42", ""),
		Doc("d42", "getting-started"),
		DB("db1"),
		Table("db1", "t9"),
		Col("db1", "t9", "c3"),
	}

	for _, tok := range tokens {
		encoded := tok.Encode()
		decoded, ok := Parse(encoded)
		if !ok {
			t.Errorf("Parse(%q) failed", encoded)
			continue
		}
		if decoded != tok {
			t.Errorf("round trip %q: got %+v, want %+v", encoded, decoded, tok)
		}
	}
}

func TestEncodeForms(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Doc("abc", ""), "doc:abc"},
		{Doc("abc", "intro"), "doc:abc#intro"},
		{DB("d1"), "db:d1"},
		{Table("d1", "t1"), "table:d1:t1"},
		{Col("d1", "t1", "c1"), "col:d1:t1:c1"},
	}

	for _, tt := range tests {
		if got := tt.tok.Encode(); got != tt.want {
			t.Errorf("Encode(%+v) = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	malformed := []string{
		"",
		"doc",
		"doc:",
		"doc:#anchor",
		"doc:abc#",
		"db:",
		"db:a:b",
		"table:d1",
		"table:d1:",
		"table::t1",
		"table:d1:t1:extra",
		"col:d1:t1",
		"col:d1:t1:",
		"col:d1::c1",
		"col:d1:t1:c1:x",
		"row:d1:t1",
		"not a token",
		"::::",
	}

	for _, s := range malformed {
		if tok, ok := Parse(s); ok {
			t.Errorf("Parse(%q) = %+v, want failure", s, tok)
		}
	}
}

func TestFromEntity(t *testing.T) {
	tests := []struct {
		entity model.Entity
		want   string
	}{
		{model.NewDocEntity("d1", "Spec", nil), "doc:d1"},
		{model.NewHeadingEntity("d1", "Getting Started", "Spec", nil), "doc:d1#getting-started"},
		{model.NewDatabaseEntity("db1", "Shop", "shop"), "db:db1"},
		{model.NewTableEntity("db1", "t1", "Orders", "orders"), "table:db1:t1"},
		{model.NewColumnEntity("db1", "t1", "c1", "age", "age", "orders.age"), "col:db1:t1:c1"},
	}

	for _, tt := range tests {
		tok, ok := FromEntity(tt.entity)
		if !ok {
			t.Errorf("FromEntity(%+v) failed", tt.entity)
			continue
		}
		if got := tok.Encode(); got != tt.want {
			t.Errorf("FromEntity(%+v).Encode() = %q, want %q", tt.entity, got, tt.want)
		}
	}

	if _, ok := FromEntity(model.GenericEntity{Type: "mystery"}); ok {
		t.Error("expected no token for unknown entity kind")
	}
}
