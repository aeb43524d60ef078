// Package chooser implements the grouped entity picker: a small state
// machine driven by open/keystroke/pick events, and a pure Render that
// turns the current state into a section/row tree. Rendering knows
// nothing about terminals or DOMs; internal/ui draws the tree.
package chooser

import (
	"context"
	"sync"

	"github.com/schemapad/schemapad/internal/model"
)

// Phase is the chooser lifecycle state.
type Phase int

const (
	// Closed: not visible, no pending work.
	Closed Phase = iota
	// Loading: opened, first search not yet applied.
	Loading
	// Idle: results applied and rendered, waiting for input.
	Idle
)

// SearchFunc performs one search. Implementations may go over the wire;
// failures surface as an empty result list, never as a chooser error.
type SearchFunc func(ctx context.Context, query string) ([]model.Entity, error)

// PickFunc receives the chosen entity. Called exactly once per open.
type PickFunc func(model.Entity)

// SnapshotInfo supplies display metadata for grouping: document paths
// and names for synthesized parent rows. refindex.Cache satisfies it
// through a thin adapter; tests use fakes.
type SnapshotInfo interface {
	DocPath(docID string) string
	DatabaseName(dbID string) (string, bool)
	TableName(dbID, tableID string) (string, bool)
}

// emptyInfo is used when no snapshot metadata is available; everything
// falls back to placeholder labels.
type emptyInfo struct{}

func (emptyInfo) DocPath(string) string { return "" }

func (emptyInfo) DatabaseName(string) (string, bool) { return "", false }

func (emptyInfo) TableName(string, string) (string, bool) { return "", false }

// Chooser is the picker state machine. Methods are safe for concurrent
// use; search responses may arrive from any goroutine.
type Chooser struct {
	mu     sync.Mutex
	search SearchFunc
	onPick PickFunc
	info   SnapshotInfo

	phase      Phase
	query      string
	results    []model.Entity
	seq        uint64 // latest issued search
	appliedSeq uint64 // latest applied response
	collapsed  map[SectionID]bool
	picked     bool
}

// New creates a closed chooser. info may be nil.
func New(search SearchFunc, onPick PickFunc, info SnapshotInfo) *Chooser {
	if info == nil {
		info = emptyInfo{}
	}
	return &Chooser{search: search, onPick: onPick, info: info}
}

// Open transitions to Loading and issues the initial empty-query search.
// It returns the sequence number and query the driver must run (see
// RunSearch). Opening an already-open chooser re-issues the search.
func (c *Chooser) Open() (seq uint64, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.phase = Loading
	c.picked = false
	c.query = ""
	c.results = nil
	c.collapsed = map[SectionID]bool{
		SectionDocs:      false,
		SectionDatabases: true,
		SectionSchema:    true,
	}
	c.seq++
	return c.seq, c.query
}

// SetQuery records a new filter string and issues a search for it.
// Returns the directive for the driver.
func (c *Chooser) SetQuery(query string) (seq uint64, q string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	c.seq++
	return c.seq, query
}

// ApplyResults installs a completed search response. Responses are
// tagged with the sequence number of the request that produced them; a
// response older than one already applied is discarded, so a slow early
// search can never overwrite a newer one. Returns whether the response
// was applied.
func (c *Chooser) ApplyResults(seq uint64, results []model.Entity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == Closed {
		return false
	}
	if seq <= c.appliedSeq {
		return false
	}
	c.appliedSeq = seq
	c.results = results
	c.phase = Idle
	return true
}

// RunSearch executes a search directive and applies its response. A
// synchronous driver calls it inline; an event-loop host may run it in
// a goroutine, relying on ApplyResults' sequencing.
func (c *Chooser) RunSearch(ctx context.Context, seq uint64, query string) {
	results, err := c.search(ctx, query)
	if err != nil {
		results = nil
	}
	c.ApplyResults(seq, results)
}

// Toggle flips a section between expanded and collapsed.
func (c *Chooser) Toggle(id SectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.collapsed != nil {
		c.collapsed[id] = !c.collapsed[id]
	}
}

// Pick selects one entity: the callback fires exactly once and the
// chooser closes. Picks after the first (or on a closed chooser) are
// ignored.
func (c *Chooser) Pick(e model.Entity) {
	c.mu.Lock()
	if c.phase == Closed || c.picked {
		c.mu.Unlock()
		return
	}
	c.picked = true
	c.phase = Closed
	onPick := c.onPick
	c.mu.Unlock()

	if onPick != nil {
		onPick(e)
	}
}

// Close abandons the chooser without picking.
func (c *Chooser) Close() {
	c.mu.Lock()
	c.phase = Closed
	c.mu.Unlock()
}

// CurrentPhase returns the current lifecycle state.
func (c *Chooser) CurrentPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Render builds the view tree for the current state.
func (c *Chooser) Render() ViewTree {
	c.mu.Lock()
	phase := c.phase
	query := c.query
	results := c.results
	collapsed := map[SectionID]bool{}
	for k, v := range c.collapsed {
		collapsed[k] = v
	}
	c.mu.Unlock()

	tree := buildTree(results, c.info, collapsed)
	tree.Phase = phase
	tree.Query = query
	return tree
}
