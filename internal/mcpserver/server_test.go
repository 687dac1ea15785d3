package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/markit/internal/index"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/snippetservice"
	"github.com/starford/markit/internal/storage"
	"github.com/starford/markit/internal/testutil"
)

func testServer(t *testing.T, seed ...models.Snippet) (*Server, *storage.FS) {
	t.Helper()
	clock := testutil.NewClock()
	store := testutil.TestStore(t, clock, seed...)

	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := snippetservice.New(store, snippetservice.WithClock(clock.Now), snippetservice.WithLogger(logger))
	return New(svc, db, store, "test", logger), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_snippets":
		result, err = srv.listSnippets(ctx, req)
	case "search_snippets":
		result, err = srv.searchSnippets(ctx, req)
	case "show_snippet":
		result, err = srv.showSnippet(ctx, req)
	case "save_snippet":
		result, err = srv.saveSnippet(ctx, req)
	case "get_snippet_format":
		result, err = srv.getSnippetFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSaveAndShowSnippet(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "save_snippet", map[string]any{
		"name":       "deploy",
		"content":    "make deploy",
		"executable": true,
		"tags":       "prod, ci",
	})
	if r.IsError || resultText(r) != "saved: deploy" {
		t.Fatalf("save result = %q", resultText(r))
	}

	r = callTool(t, srv, "show_snippet", map[string]any{"name": "dep"})
	if r.IsError {
		t.Fatalf("show error: %s", resultText(r))
	}
	var sn models.Snippet
	if err := json.Unmarshal([]byte(resultText(r)), &sn); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sn.Name != "deploy" || !sn.Executable || len(sn.Tags) != 2 {
		t.Errorf("snippet = %+v", sn)
	}

	backups, _ := store.Backups()
	if len(backups) != 1 {
		t.Errorf("backups = %d, want 1", len(backups))
	}
}

func TestSaveSnippetDuplicate(t *testing.T) {
	srv, _ := testServer(t, testutil.Snippet("deploy"))
	r := callTool(t, srv, "save_snippet", map[string]any{"name": "DEPLOY", "content": "x"})
	if !r.IsError || !strings.Contains(resultText(r), "already exists") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestSaveSnippetMissingContent(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "save_snippet", map[string]any{"name": "x"})
	if !r.IsError {
		t.Error("expected error for missing content")
	}
}

func TestShowSnippetAmbiguous(t *testing.T) {
	srv, _ := testServer(t, testutil.Snippet("db-backup"), testutil.Snippet("db-restore"))
	r := callTool(t, srv, "show_snippet", map[string]any{"name": "db"})
	if !r.IsError || !strings.Contains(resultText(r), "db-backup, db-restore") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestShowSnippetMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "show_snippet", map[string]any{"name": "nope"})
	if !r.IsError {
		t.Error("expected error for missing snippet")
	}
}

func TestListSnippets(t *testing.T) {
	srv, _ := testServer(t, testutil.Snippet("a", "prod"), testutil.Snippet("b", "dev"))

	r := callTool(t, srv, "list_snippets", map[string]any{})
	var all []models.Snippet
	if err := json.Unmarshal([]byte(resultText(r)), &all); err != nil || len(all) != 2 {
		t.Fatalf("list = %q, %v", resultText(r), err)
	}

	r = callTool(t, srv, "list_snippets", map[string]any{"tag": "PROD"})
	var tagged []models.Snippet
	if err := json.Unmarshal([]byte(resultText(r)), &tagged); err != nil || len(tagged) != 1 || tagged[0].Name != "a" {
		t.Errorf("tagged = %q, %v", resultText(r), err)
	}
}

func TestSearchSnippetsSyncsIndex(t *testing.T) {
	srv, _ := testServer(t, testutil.Snippet("deploy"))

	_ = callTool(t, srv, "save_snippet", map[string]any{"name": "dump", "content": "pg_dump uniqueword"})

	r := callTool(t, srv, "search_snippets", map[string]any{"query": "uniqueword"})
	if r.IsError {
		t.Fatalf("search error: %s", resultText(r))
	}
	var hits []index.SearchResult
	if err := json.Unmarshal([]byte(resultText(r)), &hits); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "dump" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestSnippetFormat(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_snippet_format", nil)
	if !strings.Contains(resultText(r), "executable") {
		t.Error("format contract missing fields")
	}

	contents, err := srv.readFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != FormatURI {
		t.Errorf("resource content = %+v", contents[0])
	}
}

func TestSearchToolNeedsIndex(t *testing.T) {
	clock := testutil.NewClock()
	store := testutil.TestStore(t, clock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := snippetservice.New(store, snippetservice.WithLogger(logger))

	srv := New(svc, nil, store, "test", logger)
	tools := srv.MCPServer().ListTools()
	if _, ok := tools["search_snippets"]; ok {
		t.Error("search_snippets registered without an index")
	}
	if _, ok := tools["show_snippet"]; !ok {
		t.Error("show_snippet missing")
	}
}
