package refindex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schemapad/schemapad/internal/model"
)

const (
	// PinCookie is the session cookie carrying the workspace PIN.
	PinCookie = "spd_pin"

	requestTimeout = 15 * time.Second
)

// Client performs the read-only state fetches against a running
// Schemapad server. It is the transport behind Cache and the remote
// search used by the chooser.
type Client struct {
	baseURL    string
	pin        string
	httpClient *http.Client
}

// NewClient creates a client for the given server base URL and PIN.
func NewClient(baseURL, pin string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pin:        pin,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithHTTP creates a client with a caller-supplied http.Client
// (used by tests against httptest servers).
func NewClientWithHTTP(baseURL, pin string, httpClient *http.Client) *Client {
	c := NewClient(baseURL, pin)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: PinCookie, Value: c.pin})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// FetchDocsState reads GET /api/docs/state.
func (c *Client) FetchDocsState(ctx context.Context) (*DocsSnapshot, error) {
	var payload struct {
		OK        bool                    `json:"ok"`
		Folders   map[string]Folder       `json:"folders"`
		Documents map[string]DocumentMeta `json:"documents"`
	}
	if err := c.get(ctx, "/api/docs/state", &payload); err != nil {
		return nil, err
	}
	if !payload.OK {
		return nil, fmt.Errorf("fetch /api/docs/state: server reported not ok")
	}

	snap := NewDocsSnapshot()
	for id, f := range payload.Folders {
		snap.Folders[id] = f
	}
	for id, d := range payload.Documents {
		snap.Documents[id] = d
	}
	return snap, nil
}

// FetchSchemaState reads GET /api/state.
func (c *Client) FetchSchemaState(ctx context.Context) (*SchemaSnapshot, error) {
	databases := map[string]SchemaDatabase{}
	if err := c.get(ctx, "/api/state", &databases); err != nil {
		return nil, err
	}

	snap := NewSchemaSnapshot()
	for id, db := range databases {
		if db.Tables == nil {
			db.Tables = map[string]SchemaTable{}
		}
		snap.Databases[id] = db
	}
	return snap, nil
}

// FetchDocument reads one full document (content included) by id.
func (c *Client) FetchDocument(ctx context.Context, docID string) (model.Document, error) {
	var payload struct {
		OK       bool           `json:"ok"`
		Document model.Document `json:"document"`
	}
	if err := c.get(ctx, "/api/docs/"+url.PathEscape(docID), &payload); err != nil {
		return model.Document{}, err
	}
	if !payload.OK {
		return model.Document{}, fmt.Errorf("fetch document %s: server reported not ok", docID)
	}
	return payload.Document, nil
}

// Search reads GET /api/search?q=. Malformed results are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]model.Entity, error) {
	var payload struct {
		OK      bool              `json:"ok"`
		Results []json.RawMessage `json:"results"`
	}
	path := "/api/search?q=" + url.QueryEscape(query)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	if !payload.OK {
		return nil, fmt.Errorf("fetch /api/search: server reported not ok")
	}
	return model.DecodeEntities(payload.Results), nil
}
