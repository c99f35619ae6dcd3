// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gitpick/core"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var sourceNames = []string{"gitbranch", "gitstatus", "gitlog", "gitchanged", "gitfiles"}

// NewMCPServer initializes and configures the gitpick MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, reg *core.Registry, client contract.GitClient, journal contract.JournalStore) *server.MCPServer {
	s, _ := newServer(baseCfg, reg, client, journal)
	return s
}

// newServer also returns the handler so the caller can stop live queries on shutdown.
func newServer(baseCfg *contract.Config, reg *core.Registry, client contract.GitClient, journal contract.JournalStore) (*server.MCPServer, *toolHandler) {
	s := server.NewMCPServer(
		"Gitpick Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		reg:     reg,
		session: core.NewSession(reg),
		git:     client,
		journal: journal,
	}

	// --- 1. Tool: pick_candidates ---
	s.AddTool(mcp.NewTool("pick_candidates",
		mcp.WithDescription("Gather candidates from a git source, filtered by a pattern. Streaming sources may return a query_id with pending=true."),
		mcp.WithString("source", mcp.Description("Candidate source."), mcp.Required(), mcp.Enum(sourceNames...)),
		mcp.WithString("cwd", mcp.Description("Working directory inside the repository (defaults to the server directory).")),
		mcp.WithString("buffer", mcp.Description("Absolute path of the file being edited.")),
		mcp.WithString("input", mcp.Description("Pattern used to filter candidates.")),
		mcp.WithString("matcher", mcp.Description("Matcher used for the pattern."), mcp.Enum("matcher_fuzzy", "matcher_regexp")),
		mcp.WithArray("args", mcp.Description("Source arguments, e.g. ['all'] for gitlog or a ref for gitfiles."), mcp.WithStringItems()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of candidates returned.")),
	), h.handlePickCandidates)

	// --- 2. Tool: continue_candidates ---
	s.AddTool(mcp.NewTool("continue_candidates",
		mcp.WithDescription("Gather the next batch of a pending query."),
		mcp.WithString("query_id", mcp.Description("Query id returned by pick_candidates."), mcp.Required()),
	), h.handleContinueCandidates)

	// --- 3. Tool: close_query ---
	s.AddTool(mcp.NewTool("close_query",
		mcp.WithDescription("Stop a pending query and its git process."),
		mcp.WithString("query_id", mcp.Description("Query id returned by pick_candidates."), mcp.Required()),
	), h.handleCloseQuery)

	// --- 4. Tool: list_actions ---
	s.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("List the actions available for the candidates of a source."),
		mcp.WithString("source", mcp.Description("Candidate source."), mcp.Required(), mcp.Enum(sourceNames...)),
	), h.handleListActions)

	// --- 5. Tool: run_action ---
	s.AddTool(mcp.NewTool("run_action",
		mcp.WithDescription("Run an action on candidates selected by key. Returns the result and the Vim script to source."),
		mcp.WithString("source", mcp.Description("Candidate source."), mcp.Required(), mcp.Enum(sourceNames...)),
		mcp.WithString("action", mcp.Description("Action name, or 'default'.")),
		mcp.WithArray("targets", mcp.Description("Candidate keys as returned in the key field."), mcp.Required(), mcp.WithStringItems()),
		mcp.WithArray("answers", mcp.Description("Answers to the action prompts, in order."), mcp.WithStringItems()),
		mcp.WithString("cwd", mcp.Description("Working directory inside the repository.")),
		mcp.WithString("buffer", mcp.Description("Absolute path of the file being edited.")),
		mcp.WithArray("args", mcp.Description("Source arguments used to resolve targets."), mcp.WithStringItems()),
	), h.handleRunAction)

	// --- 6. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("List recorded action runs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries returned.")),
	), h.handleGetHistory)

	return s, h
}

// StartMCPServer starts the gitpick MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, reg *core.Registry, client contract.GitClient, journal contract.JournalStore) error {
	s, h := newServer(baseCfg, reg, client, journal)
	defer h.session.CloseAll()
	return server.ServeStdio(s)
}
