// Package core has core logic for gathering candidates and running actions.
package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/poller"
	"github.com/huangsam/gitpick/schema"
)

// ActionDeps holds what an action run needs besides its configuration.
// Journal may be nil to skip recording.
type ActionDeps struct {
	Editor  contract.EditorGateway
	Git     contract.GitClient
	Journal contract.JournalStore
}

// GatherAll drains a query until it reports nothing more pending.
func GatherAll(ctx context.Context, q Query) ([]schema.Candidate, error) {
	var all []schema.Candidate
	for {
		candidates, more, err := q.Gather(ctx)
		all = append(all, candidates...)
		if err != nil {
			return all, err
		}
		if !more {
			return all, nil
		}
	}
}

// resolveMatcher picks the configured matcher or the source default.
func resolveMatcher(cfg *contract.Config, src Source) (Matcher, error) {
	name := cfg.Matcher
	if name == "" {
		name = src.DefaultMatcher()
	}
	return NewMatcher(name)
}

// FilterCandidates applies the matcher and the result limit. A limit of 0 keeps everything.
func FilterCandidates(m Matcher, candidates []schema.Candidate, pattern string, limit int) []schema.Candidate {
	filtered := m.Filter(candidates, pattern)
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// ExecuteSource gathers every candidate of a source and filters them by the input pattern.
// It serves as the main entry point for the source commands.
func ExecuteSource(ctx context.Context, cfg *contract.Config, reg *Registry, name schema.SourceName, args []string, sink poller.MessageSink) (*schema.PickResult, error) {
	start := time.Now()
	src, err := reg.Get(name)
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
	defer q.Close()

	candidates, err := GatherAll(ctx, q)
	if err != nil {
		return nil, err
	}

	return &schema.PickResult{
		QueryID:    qc.ID.String(),
		Source:     name,
		Root:       qc.Root,
		Pattern:    qc.Pattern,
		Matcher:    m.Name(),
		Candidates: FilterCandidates(m, candidates, qc.Pattern, cfg.Limit),
		Total:      len(candidates),
		Duration:   time.Since(start),
	}, nil
}

// CandidateKey returns the text that selects a candidate as an action target.
func CandidateKey(c schema.Candidate) string {
	switch c.Source {
	case schema.GitBranchSource:
		return c.Branch
	case schema.GitStatusSource:
		return contract.RelativePath(c.Root, c.Path)
	case schema.GitLogSource:
		return c.Commit
	case schema.GitChangedSource:
		return strconv.Itoa(c.Line)
	case schema.GitFilesSource:
		if c.Path != "" {
			return contract.RelativePath(c.Root, c.Path)
		}
		return c.Object
	default:
		return c.Word
	}
}

// SelectTargets resolves keys to candidates in key order. Sources that can
// build targets from keys skip gathering.
func SelectTargets(ctx context.Context, src Source, qc *QueryContext, keys []string) ([]schema.Candidate, error) {
	if len(keys) == 0 {
		return nil, ErrNoTargets
	}

	if resolver, ok := src.(TargetResolver); ok {
		targets := make([]schema.Candidate, 0, len(keys))
		for _, key := range keys {
			target, ok := resolver.ResolveTarget(qc, key)
			if !ok {
				break
			}
			targets = append(targets, target)
		}
		if len(targets) == len(keys) {
			return targets, nil
		}
	}

	q, err := src.Open(ctx, qc)
	if err != nil {
		return nil, err
	}
	defer q.Close()
	candidates, err := GatherAll(ctx, q)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]schema.Candidate, len(candidates))
	for _, c := range candidates {
		key := CandidateKey(c)
		if _, seen := byKey[key]; !seen {
			byKey[key] = c
		}
	}

	targets := make([]schema.Candidate, 0, len(keys))
	var missing []string
	for _, key := range keys {
		c, ok := byKey[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		targets = append(targets, c)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("no %s candidate for %s", src.Name(), strings.Join(missing, ", "))
	}
	return targets, nil
}

// ExecuteAction runs an action of a source's kind on the candidates selected
// by keys and records the outcome in the journal.
func ExecuteAction(ctx context.Context, cfg *contract.Config, reg *Registry, deps ActionDeps, name schema.SourceName, action string, keys []string, args []string) (*schema.ActionResult, error) {
	src, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	kind := src.Kind()
	if !kind.Has(action) {
		return nil, fmt.Errorf("unknown action '%s' for %s. must be %s", action, name, strings.Join(kind.Actions(), ", "))
	}

	qc := NewQueryContext(cfg, args, deps.Editor.Message)
	targets, err := SelectTargets(ctx, src, qc, keys)
	if err != nil {
		return nil, err
	}

	resolved := kind.Resolve(action)
	result := &schema.ActionResult{
		ID:      uuid.NewString(),
		Kind:    name,
		Action:  resolved,
		Targets: keys,
		Status:  schema.ActionOK,
		Persist: kind.IsPersist(resolved),
		Redraw:  kind.IsRedraw(resolved),
	}

	runErr := kind.Do(ctx, resolved, &ActionContext{Targets: targets, Editor: deps.Editor, Git: deps.Git})
	switch {
	case errors.Is(runErr, ErrActionSkipped):
		result.Status = schema.ActionSkipped
		result.Redraw = false
	case runErr != nil:
		result.Status = schema.ActionFailed
		result.Message = runErr.Error()
	}

	recordAction(deps.Journal, result, qc.Root)

	if result.Status == schema.ActionFailed {
		return result, runErr
	}
	return result, nil
}

// recordAction writes the outcome to the journal. Journal failures never fail the action.
func recordAction(journal contract.JournalStore, result *schema.ActionResult, root string) {
	if journal == nil {
		return
	}
	entry := schema.JournalEntry{
		ID:       result.ID,
		Kind:     result.Kind,
		Action:   result.Action,
		Target:   strings.Join(result.Targets, " "),
		Root:     root,
		Status:   result.Status,
		Message:  result.Message,
		RecordAt: time.Now().UTC(),
	}
	if err := journal.Record(entry); err != nil {
		contract.LogWarn("Cannot record action", err)
	}
}
