package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/poller"
	"github.com/huangsam/gitpick/schema"
)

// liveQuery is an open query kept between gather calls. mu serializes
// Gather and Close on the underlying query.
type liveQuery struct {
	mu      sync.Mutex
	closed  bool
	id      string
	source  schema.SourceName
	root    string
	pattern string
	matcher Matcher
	limit   int
	query   Query
}

// Session keeps at most one open query per source so that streaming sources
// can be gathered in several calls. Opening a new query on a source closes
// the previous one.
type Session struct {
	mu       sync.Mutex
	registry *Registry
	bySource map[schema.SourceName]*liveQuery
	byID     map[string]*liveQuery
}

// NewSession creates an empty session over the registry.
func NewSession(reg *Registry) *Session {
	return &Session{
		registry: reg,
		bySource: make(map[schema.SourceName]*liveQuery),
		byID:     make(map[string]*liveQuery),
	}
}

// Start opens a query and returns its first batch of candidates.
func (s *Session) Start(ctx context.Context, cfg *contract.Config, name schema.SourceName, args []string, sink poller.MessageSink) (*schema.PickResult, error) {
	src, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	m, err := resolveMatcher(cfg, src)
	if err != nil {
		return nil, err
	}

	qc := NewQueryContext(cfg, args, sink)
	q, err := src.Open(ctx, qc)
	if err != nil {
		return nil, err
	}

	lq := &liveQuery{
		id:      qc.ID.String(),
		source:  name,
		root:    qc.Root,
		pattern: qc.Pattern,
		matcher: m,
		limit:   cfg.Limit,
		query:   q,
	}

	s.mu.Lock()
	if prev, ok := s.bySource[name]; ok {
		s.closeLocked(prev)
	}
	s.bySource[name] = lq
	s.byID[lq.id] = lq
	s.mu.Unlock()

	return s.gather(ctx, lq)
}

// Continue returns the next batch of a pending query.
func (s *Session) Continue(ctx context.Context, id string) (*schema.PickResult, error) {
	s.mu.Lock()
	lq, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no open query '%s'", id)
	}
	return s.gather(ctx, lq)
}

// gather runs one gather call and closes the query once it is complete.
func (s *Session) gather(ctx context.Context, lq *liveQuery) (*schema.PickResult, error) {
	start := time.Now()
	lq.mu.Lock()
	if lq.closed {
		lq.mu.Unlock()
		return nil, fmt.Errorf("query '%s' is closed", lq.id)
	}
	candidates, more, err := lq.query.Gather(ctx)
	done := err != nil || !more
	if done {
		lq.closeQuery()
	}
	lq.mu.Unlock()

	// s.mu is never taken while lq.mu is held
	if done {
		s.Close(lq.id)
	}
	if err != nil {
		return nil, err
	}
	return &schema.PickResult{
		QueryID:    lq.id,
		Source:     lq.source,
		Root:       lq.root,
		Pattern:    lq.pattern,
		Matcher:    lq.matcher.Name(),
		Candidates: FilterCandidates(lq.matcher, candidates, lq.pattern, lq.limit),
		Total:      len(candidates),
		Pending:    more,
		Duration:   time.Since(start),
	}, nil
}

// Close closes the query with the given id. Unknown ids are ignored.
func (s *Session) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lq, ok := s.byID[id]; ok {
		s.closeLocked(lq)
	}
}

// CloseAll closes every open query.
func (s *Session) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lq := range s.byID {
		s.closeLocked(lq)
	}
}

// Open lists the ids of open queries.
func (s *Session) Open() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids
}

// closeQuery closes the underlying query once. lq.mu must be held.
func (lq *liveQuery) closeQuery() {
	if !lq.closed {
		lq.closed = true
		lq.query.Close()
	}
}

func (s *Session) closeLocked(lq *liveQuery) {
	lq.mu.Lock()
	lq.closeQuery()
	lq.mu.Unlock()
	delete(s.byID, lq.id)
	if cur, ok := s.bySource[lq.source]; ok && cur == lq {
		delete(s.bySource, lq.source)
	}
}
