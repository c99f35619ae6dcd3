package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/huangsam/gitpick/core"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/editor"
	"github.com/huangsam/gitpick/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	reg     *core.Registry
	session *core.Session
	git     contract.GitClient
	journal contract.JournalStore
}

// pickResponse is a pick result with keyed candidates and the messages emitted while gathering.
type pickResponse struct {
	*schema.PickResult
	Candidates []keyedCandidate `json:"candidates"`
	Messages   []string         `json:"messages,omitempty"`
}

type keyedCandidate struct {
	Key string `json:"key"`
	schema.EnrichedCandidate
}

// messageLog collects sink messages; continued queries may write from another call.
type messageLog struct {
	mu   sync.Mutex
	msgs []string
}

func (l *messageLog) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *messageLog) drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	msgs := l.msgs
	l.msgs = nil
	return msgs
}

// requestConfig clones the base config with the per-request location overrides.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if cwd := request.GetString("cwd", ""); cwd != "" {
		abs, err := filepath.Abs(cwd)
		if err != nil {
			return nil, err
		}
		cfg.Cwd = abs
		cfg.RepoPath = ""
		if root, ok := contract.FindRepositoryRoot(abs); ok {
			cfg.RepoPath = root
		}
	}
	if buf := request.GetString("buffer", ""); buf != "" {
		if !filepath.IsAbs(buf) {
			buf = filepath.Join(cfg.Cwd, buf)
		}
		cfg.Buffer = filepath.Clean(buf)
	}
	return cfg, nil
}

func toJSONResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func newPickResponse(result *schema.PickResult, msgs []string) pickResponse {
	enriched := schema.EnrichCandidates(result.Candidates)
	keyed := make([]keyedCandidate, len(enriched))
	for i, c := range enriched {
		keyed[i] = keyedCandidate{Key: core.CandidateKey(c.Candidate), EnrichedCandidate: c}
	}
	return pickResponse{PickResult: result, Candidates: keyed, Messages: msgs}
}

func (h *toolHandler) handlePickCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cwd: %v", err)), nil
	}
	cfg.Input = request.GetString("input", "")
	if m := request.GetString("matcher", ""); m != "" {
		cfg.Matcher = schema.MatcherName(m)
		if _, ok := schema.ValidMatchers[cfg.Matcher]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid matcher '%s'", m)), nil
		}
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.Limit = l
	}

	name := schema.SourceName(request.GetString("source", ""))
	log := &messageLog{}
	result, err := h.session.Start(ctx, cfg, name, request.GetStringSlice("args", nil), log.add)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pick failed: %v", err)), nil
	}
	return toJSONResult(newPickResponse(result, log.drain())), nil
}

func (h *toolHandler) handleContinueCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("query_id", "")
	if id == "" {
		return mcp.NewToolResultError("query_id is required"), nil
	}
	result, err := h.session.Continue(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("continue failed: %v", err)), nil
	}
	return toJSONResult(newPickResponse(result, nil)), nil
}

func (h *toolHandler) handleCloseQuery(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("query_id", "")
	if id == "" {
		return mcp.NewToolResultError("query_id is required"), nil
	}
	h.session.Close(id)
	return mcp.NewToolResultText(fmt.Sprintf("closed %s", id)), nil
}

func (h *toolHandler) handleListActions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := h.reg.Get(schema.SourceName(request.GetString("source", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := src.Kind()
	return toJSONResult(map[string]any{
		"kind":    src.Name(),
		"default": kind.Resolve("default"),
		"actions": kind.Actions(),
	}), nil
}

func (h *toolHandler) handleRunAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cwd: %v", err)), nil
	}
	targets := request.GetStringSlice("targets", nil)
	if len(targets) == 0 {
		return mcp.NewToolResultError("targets is required"), nil
	}
	action := request.GetString("action", "default")

	// Prompts are answered from the request only; anything unanswered takes its default.
	var script bytes.Buffer
	gw := editor.NewScriptGateway(&script, nil, nil, request.GetStringSlice("answers", nil), editor.State{WindowID: cfg.WindowID, PreviewBuffer: cfg.Preview})
	deps := core.ActionDeps{Editor: gw, Git: h.git, Journal: h.journal}

	name := schema.SourceName(request.GetString("source", ""))
	result, err := core.ExecuteAction(ctx, cfg, h.reg, deps, name, action, targets, request.GetStringSlice("args", nil))
	if result == nil {
		return mcp.NewToolResultError(fmt.Sprintf("action failed: %v", err)), nil
	}

	response := struct {
		*schema.ActionResult
		Script string `json:"script"`
	}{ActionResult: result, Script: script.String()}
	if err != nil {
		jsonData, _ := json.MarshalIndent(response, "", "  ")
		return mcp.NewToolResultError(string(jsonData)), nil
	}
	return toJSONResult(response), nil
}

func (h *toolHandler) handleGetHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.journal == nil {
		return mcp.NewToolResultError("action journal is disabled"), nil
	}
	entries, err := h.journal.List(request.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	if entries == nil {
		entries = []schema.JournalEntry{}
	}
	return toJSONResult(entries), nil
}
