package mcpserver

// SnippetFormatContract describes the snippet record for LLM consumers.
const SnippetFormatContract = `# markit snippet format

A snippet is a named, reusable piece of text or a shell command.

| Field        | Type            | Notes |
|--------------|-----------------|-------|
| name         | string          | REQUIRED. Unique ignoring case, single line, at most 128 characters. |
| description  | string          | Optional one-line summary shown in listings. |
| content      | string          | The text or command itself. May span several lines. |
| executable   | bool            | true when content is a shell command that ` + "`markit run`" + ` may execute. |
| tags         | list of strings | Optional labels, compared ignoring case. |
| created_at   | RFC 3339 time   | Set by markit on save; never changes. |
| updated_at   | RFC 3339 time   | Set by markit on every edit. |

## Rules

1. Names are unique ignoring case: saving "Deploy" fails when "deploy" exists.
2. Look a snippet up with ` + "`show_snippet`" + `; a partial name works when it matches exactly one snippet.
3. Pass tags to ` + "`save_snippet`" + ` as a comma-separated string: ` + "`prod, ci`" + `.
4. Every change is preceded by a full backup of the store, so nothing is lost.

## Example

` + "```" + `yaml
snippets:
  - name: deploy
    description: ship the current branch to production
    content: make deploy ENV=prod
    executable: true
    tags:
      - prod
    created_at: 2025-01-15T09:30:00Z
    updated_at: 2025-01-15T09:30:00Z
` + "```" + `
`
