// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the snippet store to LLM tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/index"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/snippetservice"
)

// FormatURI is the resource describing the snippet format.
const FormatURI = "markit://format"

// Server wraps the MCP server with markit tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *snippetservice.Service
	db     index.SnippetIndex
	loader index.Loader
	logger *slog.Logger
}

// New creates an MCP server with all markit tools registered. The service
// must resolve names without a Selector: there is nobody to ask.
func New(svc *snippetservice.Service, db index.SnippetIndex, loader index.Loader, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, db: db, loader: loader, logger: logger}

	s.mcp = server.NewMCPServer(
		"markit",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_snippets",
		mcp.WithDescription("List saved snippets, optionally only those carrying a tag."),
		mcp.WithString("tag", mcp.Description("Optional tag, compared ignoring case")),
	), s.listSnippets)

	// Without an index there is no search tool.
	if db != nil {
		s.mcp.AddTool(mcp.NewTool("search_snippets",
			mcp.WithDescription("Full-text search through snippet names, descriptions, content and tags."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search terms; all must match")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
		), s.searchSnippets)
	}

	s.mcp.AddTool(mcp.NewTool("show_snippet",
		mcp.WithDescription("Return one snippet as JSON. A partial name works when it matches a single snippet."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snippet name or unique part of it")),
	), s.showSnippet)

	s.mcp.AddTool(mcp.NewTool("save_snippet",
		mcp.WithDescription("Save a new snippet. Fails when the name is taken, ignoring case. "+
			"Read the markit://format resource or get_snippet_format first."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Unique single-line name")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text or shell command")),
		mcp.WithString("description", mcp.Description("One-line summary")),
		mcp.WithBoolean("executable", mcp.Description("true when content is a shell command")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	), s.saveSnippet)

	s.mcp.AddTool(mcp.NewTool("get_snippet_format",
		mcp.WithDescription("Returns the snippet record format and naming rules."),
	), s.getSnippetFormat)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Snippet Format",
			mcp.WithResourceDescription("Fields and rules of a markit snippet."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// Listen serves MCP over in and out until ctx is done or in reaches EOF.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError reports user errors as plain messages and logs everything else.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	if !apperr.IsUserError(err) {
		s.logger.Error("mcp tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(apperr.Message(err))
}

func (s *Server) listSnippets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snippets, err := s.svc.List(ctx, snippetservice.ListOptions{Tag: req.GetString("tag", "")})
	if err != nil {
		return s.toolError("list_snippets", err), nil
	}
	return jsonResult(snippets)
}

func (s *Server) searchSnippets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := index.Sync(s.db, s.loader, s.logger); err != nil {
		return s.toolError("search_snippets", err), nil
	}
	results, err := s.db.Search(query, req.GetInt("limit", 20))
	if err != nil {
		return s.toolError("search_snippets", err), nil
	}
	return jsonResult(results)
}

func (s *Server) showSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sn, err := s.svc.Show(ctx, name)
	if err != nil {
		return s.toolError("show_snippet", err), nil
	}
	return jsonResult(sn)
}

func (s *Server) saveSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sn, err := s.svc.Save(ctx, models.Fields{
		Name:        name,
		Description: req.GetString("description", ""),
		Content:     content,
		Executable:  req.GetBool("executable", false),
		Tags:        models.ParseTags(req.GetString("tags", "")),
	})
	if err != nil {
		return s.toolError("save_snippet", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", sn.Name)), nil
}

func (s *Server) getSnippetFormat(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SnippetFormatContract), nil
}

func (s *Server) readFormatResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     SnippetFormatContract,
		},
	}, nil
}
