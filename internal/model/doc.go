package model

// DocFolder is a node in the document folder tree. ParentID is nil for
// top-level folders. The tree is not validated here; traversals bound
// their depth instead of trusting it to be acyclic.
type DocFolder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// DocNote is an inline annotation anchored to a line range of a document.
type DocNote struct {
	ID        string  `json:"id"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Text      string  `json:"text"`
	Author    string  `json:"author"`
	CreatedAt float64 `json:"created_at"`
}

// Document is a freeform markdown document. ParentID points at a
// DocFolder, or nil for the root.
type Document struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ParentID  *string            `json:"parent_id"`
	Content   string             `json:"content"`
	Notes     map[string]DocNote `json:"notes"`
	UpdatedAt float64            `json:"updated_at"`
}

// NewDocument creates a document with an empty note map.
func NewDocument(id, name string, parentID *string, content string) Document {
	return Document{ID: id, Name: name, ParentID: parentID, Content: content, Notes: map[string]DocNote{}}
}

// ShareKind distinguishes what a share token points at.
const (
	ShareKindDoc    = "doc"
	ShareKindFolder = "folder"
)

// DocShare grants read access to a document or folder subtree via an
// unguessable token. The owning PIN is recorded so shared edits land in
// the right workspace.
type DocShare struct {
	ID        string  `json:"id"`
	PIN       string  `json:"pin"`
	Kind      string  `json:"kind"` // ShareKindDoc or ShareKindFolder
	TargetID  string  `json:"target_id"`
	CreatedAt float64 `json:"created_at"`
}
