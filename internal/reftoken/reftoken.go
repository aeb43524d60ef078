// Package reftoken encodes and decodes the compact reference tokens
// embedded in document text.
//
// Token grammar (colon-delimited, tagged):
//
//	doc:<docId>
//	doc:<docId>#<anchor>
//	db:<dbId>
//	table:<dbId>:<tableId>
//	col:<dbId>:<tableId>:<colId>
//
// Tokens are opaque strings at the UI boundary. Decoding is total: any
// string that does not match the grammar yields ok=false, never a panic,
// so a stale or hand-edited token can never break rendering.
package reftoken

import (
	"strings"

	"github.com/schemapad/schemapad/internal/model"
	"github.com/schemapad/schemapad/internal/slugs"
)

// Tag identifies the token variant.
type Tag string

// Token tags. These are wire-stable.
const (
	TagDoc   Tag = "doc"
	TagDB    Tag = "db"
	TagTable Tag = "table"
	TagCol   Tag = "col"
)

// Token is a decoded reference. Only the fields implied by Tag are set.
type Token struct {
	Tag      Tag
	DocID    string
	Anchor   string // optional heading anchor, doc tokens only
	DBID     string
	TableID  string
	ColumnID string
}

// Doc builds a doc token; anchor may be empty.
func Doc(docID, anchor string) Token {
	return Token{Tag: TagDoc, DocID: docID, Anchor: anchor}
}

// DB builds a database token.
func DB(dbID string) Token {
	return Token{Tag: TagDB, DBID: dbID}
}

// Table builds a table token.
func Table(dbID, tableID string) Token {
	return Token{Tag: TagTable, DBID: dbID, TableID: tableID}
}

// Col builds a column token.
func Col(dbID, tableID, columnID string) Token {
	return Token{Tag: TagCol, DBID: dbID, TableID: tableID, ColumnID: columnID}
}

// Encode renders the token in its canonical string form.
func (t Token) Encode() string {
	switch t.Tag {
	case TagDoc:
		if t.Anchor != "" {
			return "doc:" + t.DocID + "#" + t.Anchor
		}
		return "doc:" + t.DocID
	case TagDB:
		return "db:" + t.DBID
	case TagTable:
		return "table:" + t.DBID + ":" + t.TableID
	case TagCol:
		return "col:" + t.DBID + ":" + t.TableID + ":" + t.ColumnID
	default:
		return ""
	}
}

// Parse decodes a token string. ok is false for unrecognized tags, wrong
// arity, or empty id segments.
func Parse(s string) (Token, bool) {
	tag, rest, found := strings.Cut(s, ":")
	if !found || rest == "" {
		return Token{}, false
	}

	switch Tag(tag) {
	case TagDoc:
		docID, anchor, hasAnchor := strings.Cut(rest, "#")
		if docID == "" || strings.Contains(docID, ":") {
			return Token{}, false
		}
		if hasAnchor && anchor == "" {
			return Token{}, false
		}
		return Token{Tag: TagDoc, DocID: docID, Anchor: anchor}, true

	case TagDB:
		if strings.Contains(rest, ":") {
			return Token{}, false
		}
		return Token{Tag: TagDB, DBID: rest}, true

	case TagTable:
		parts := strings.Split(rest, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return Token{}, false
		}
		return Token{Tag: TagTable, DBID: parts[0], TableID: parts[1]}, true

	case TagCol:
		parts := strings.Split(rest, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return Token{}, false
		}
		return Token{Tag: TagCol, DBID: parts[0], TableID: parts[1], ColumnID: parts[2]}, true
	}

	return Token{}, false
}

// FromEntity builds the token for a search result. Headings encode as a
// doc token carrying the heading's slug anchor. ok is false for kinds
// that have no token form.
func FromEntity(e model.Entity) (Token, bool) {
	switch v := e.(type) {
	case model.DocEntity:
		return Doc(v.ID, ""), true
	case model.HeadingEntity:
		return Doc(v.DocID, slugs.HeadingSlug(v.Heading)), true
	case model.DatabaseEntity:
		return DB(v.DBID), true
	case model.TableEntity:
		return Table(v.DBID, v.TableID), true
	case model.ColumnEntity:
		return Col(v.DBID, v.TableID, v.ColumnID), true
	}
	return Token{}, false
}
