package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/markit/internal/apperr"
	"github.com/starford/markit/internal/models"
	"github.com/starford/markit/internal/render"
	"github.com/starford/markit/internal/resolve"
	"github.com/starford/markit/internal/snippetservice"
	pkgconfig "github.com/starford/markit/pkg/config"
)

// DefaultDirName is the store directory under the home directory.
const DefaultDirName = ".markit"

var errUsage = errors.New("usage")

// Main runs the command line and returns the process exit code.
func Main(ctx context.Context, args []string, opts ...Option) int {
	cmd := NewCommand(opts...)
	err := cmd.Run(ctx, args)
	return ReportError(cmd.Writer, err)
}

// ReportError prints the outcome of a failed command to w and returns the
// exit code. A cancelled selection is a normal outcome.
func ReportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr cli.ExitCoder
	switch {
	case errors.Is(err, apperr.ErrSelectionCancelled):
		fmt.Fprintln(w, "Cancelled.")
		return 0
	case errors.As(err, &exitErr):
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(w, msg)
		}
		return exitErr.ExitCode()
	case apperr.IsUserError(err):
		fmt.Fprintln(w, apperr.Message(err))
		return 1
	case errors.Is(err, errUsage), errors.Is(err, ErrIndexDisabled):
		fmt.Fprintln(w, err.Error())
		return 1
	default:
		slog.Error("command failed", slog.String("error", err.Error()))
		return 1
	}
}

// NewCommand builds the markit command tree. Every action loads the
// config and builds a fresh App.
func NewCommand(opts ...Option) *cli.Command {
	base := &application{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(base)
	}

	with := func(fn func(context.Context, *cli.Command, *App) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			app, err := appFromCommand(cmd, base.config, opts)
			if err != nil {
				return err
			}
			slog.SetDefault(app.logger)
			return fn(ctx, cmd, app)
		}
	}

	return &cli.Command{
		Name:      "markit",
		Usage:     "Save, find and run the commands and snippets you keep forgetting",
		Version:   base.version,
		Reader:    base.stdin,
		Writer:    base.stdout,
		ErrWriter: base.stderr,
		// Exit codes are decided by ReportError.
		ExitErrHandler:  func(context.Context, *cli.Command, error) {},
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "~/" + DefaultDirName + "/config.yaml",
				Sources:     cli.EnvVars("MARKIT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Directory holding the snippet store and its backups",
				Sources: cli.EnvVars("MARKIT_DIR"),
			},
			&cli.BoolFlag{
				Name:  "fuzzy",
				Usage: "Match names by fuzzy ranking instead of substring",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Save a new snippet, prompting for fields not given as flags",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "One-line summary"},
					&cli.StringFlag{Name: "content", Usage: "Snippet text, - reads standard input"},
					&cli.BoolFlag{Name: "from-clipboard", Usage: "Take the content from the clipboard"},
					&cli.BoolFlag{Name: "exec", Aliases: []string{"x"}, Usage: "Content is a shell command"},
					&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Tag, repeatable or comma-separated"},
					&cli.BoolFlag{Name: "no-input", Usage: "Never prompt; missing fields stay empty"},
				},
				Action: with(saveAction),
			},
			{
				Name:  "list",
				Usage: "List snippets",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Only snippets with this tag"},
					&cli.StringFlag{Name: "where", Aliases: []string{"w"}, Usage: "Filter expression, e.g. 'executable && \"git\" in tags'"},
				},
				Action: with(listAction),
			},
			{
				Name:      "find",
				Usage:     "List snippets whose name matches",
				ArgsUsage: "<query>",
				Action:    with(findAction),
			},
			{
				Name:      "show",
				Usage:     "Show one snippet",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "plain", Usage: "Disable syntax highlighting"},
				},
				Action: with(showAction),
			},
			{
				Name:      "run",
				Usage:     "Run an executable snippet with the shell",
				ArgsUsage: "<name>",
				Action:    with(runAction),
			},
			{
				Name:      "copy",
				Usage:     "Copy a snippet's content to the clipboard",
				ArgsUsage: "<name>",
				Action:    with(copyAction),
			},
			{
				Name:      "edit",
				Usage:     "Edit a snippet in $EDITOR",
				ArgsUsage: "<name>",
				Action:    with(editAction),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a snippet",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Do not ask for confirmation"},
				},
				Action: with(deleteAction),
			},
			{
				Name:      "export",
				Usage:     "Write all snippets to a store file",
				ArgsUsage: "<path>",
				Action:    with(exportAction),
			},
			{
				Name:      "import",
				Usage:     "Add the snippets of a store file whose names are new",
				ArgsUsage: "<path>",
				Action:    with(importAction),
			},
			{
				Name:   "backups",
				Usage:  "List backups, most recent first",
				Action: with(backupsAction),
			},
			{
				Name:      "restore",
				Usage:     "Replace the store with a backup",
				ArgsUsage: "[id]",
				Action:    with(restoreAction),
			},
			{
				Name:      "search",
				Usage:     "Full-text search through all snippet fields",
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Maximum number of hits"},
				},
				Action: with(searchAction),
			},
			{
				Name:   "mcp",
				Usage:  "Serve snippets to LLM tools over MCP stdio",
				Action: with(mcpAction),
			},
		},
	}
}

// appFromCommand loads the config unless one was given and applies the
// root flags to it.
func appFromCommand(cmd *cli.Command, cfg *Config, opts []Option) (*App, error) {
	if cfg == nil {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Bool("fuzzy") {
		cfg.Resolve.Matcher = resolve.MatcherFuzzy
	}
	return NewApp(append(append([]Option{}, opts...), WithConfig(cfg))...)
}

func loadConfig(cmd *cli.Command) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locate home directory: %w", err)
	}
	defaultDir := filepath.Join(home, DefaultDirName)
	cfg := NewDefaultConfig(defaultDir)
	defaultIndex := cfg.Index.Path

	path := cmd.String("config")
	if path == "" {
		if err := pkgconfig.LoadOptional(filepath.Join(defaultDir, "config.yaml"), cfg); err != nil {
			return nil, err
		}
	} else if err := pkgconfig.Load(path, cfg); err != nil {
		return nil, err
	}

	if dir := cmd.String("dir"); dir != "" {
		cfg.Store.Dir = dir
		if cfg.Index.Path == defaultIndex {
			cfg.Index.Path = filepath.Join(dir, "index.db")
		}
	}
	return cfg, nil
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	arg := strings.TrimSpace(cmd.Args().First())
	if arg == "" {
		return "", fmt.Errorf("%w: markit %s <%s>", errUsage, cmd.Name, name)
	}
	return arg, nil
}

func saveAction(ctx context.Context, cmd *cli.Command, app *App) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	if err := app.svc.CheckName(ctx, name); err != nil {
		return err
	}

	f := models.Fields{Name: name}
	var given snippetservice.Given
	if cmd.Bool("no-input") {
		given = snippetservice.GivenDescription | snippetservice.GivenContent |
			snippetservice.GivenExecutable | snippetservice.GivenTags
	}
	if cmd.IsSet("description") {
		f.Description = cmd.String("description")
		given |= snippetservice.GivenDescription
	}
	switch {
	case cmd.IsSet("content"):
		f.Content = cmd.String("content")
		if f.Content == "-" {
			data, err := io.ReadAll(app.stdin)
			if err != nil {
				return apperr.IO("read standard input", err)
			}
			f.Content = strings.TrimRight(string(data), "\r\n")
		}
		given |= snippetservice.GivenContent
	case cmd.Bool("from-clipboard"):
		text, err := app.clipboard.ReadAll()
		if err != nil {
			return err
		}
		f.Content = text
		given |= snippetservice.GivenContent
	}
	if cmd.IsSet("exec") {
		f.Executable = cmd.Bool("exec")
		given |= snippetservice.GivenExecutable
	}
	if cmd.IsSet("tag") {
		for _, t := range cmd.StringSlice("tag") {
			f.Tags = append(f.Tags, models.ParseTags(t)...)
		}
		given |= snippetservice.GivenTags
	}

	if f, err = app.svc.Fill(ctx, f, given); err != nil {
		return err
	}
	sn, err := app.svc.Save(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Saved snippet %q.\n", sn.Name)
	return nil
}

func listAction(ctx context.Context, cmd *cli.Command, app *App) error {
	opts := snippetservice.ListOptions{Tag: cmd.String("tag"), Where: cmd.String("where")}
	snippets, err := app.svc.List(ctx, opts)
	if err != nil {
		return err
	}
	if len(snippets) == 0 {
		if opts.Where != "" {
			fmt.Fprintln(app.stdout, "No snippets match.")
		} else {
			fmt.Fprintln(app.stdout, "No snippets saved yet.")
		}
		return nil
	}
	return render.Table(app.stdout, snippets)
}

func findAction(ctx context.Context, cmd *cli.Command, app *App) error {
	query, err := requireArg(cmd, "query")
	if err != nil {
		return err
	}
	snippets, err := app.svc.Find(ctx, query)
	if err != nil {
		return err
	}
	return render.Table(app.stdout, snippets)
}

func showAction(ctx context.Context, cmd *cli.Command, app *App) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	sn, err := app.svc.Show(ctx, name)
	if err != nil {
		return err
	}
	return render.Detail(app.stdout, sn, !cmd.Bool("plain") && isTerminal(app.stdout))
}

func runAction(ctx context.Context, cmd *cli.Command, app *App) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	sn, code, err := app.svc.Run(ctx, name)
	if err != nil {
		return err
	}
	if code != 0 {
		app.logger.Info("snippet exited", slog.String("name", sn.Name), slog.Int("status", code))
		return cli.Exit("", code)
	}
	return nil
}

func copyAction(ctx context.Context, cmd *cli.Command, app *App) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	sn, err := app.svc.Copy(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Copied %q to the clipboard.\n", sn.Name)
	return nil
}

func editAction(ctx context.Context, cmd *cli.Command, app *App) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	sn, err := app.svc.Edit(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Updated snippet %q.\n", sn.Name)
	return nil
}

func deleteAction(ctx context.Context, cmd *cli.Command, app *App) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	sn, err := app.svc.Delete(ctx, name, cmd.Bool("force"))
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Deleted snippet %q.\n", sn.Name)
	return nil
}

func exportAction(ctx context.Context, cmd *cli.Command, app *App) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}
	n, err := app.svc.Export(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Exported %d snippet(s) to %s.\n", n, path)
	return nil
}

func importAction(ctx context.Context, cmd *cli.Command, app *App) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}
	res, err := app.svc.Import(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Imported %d new snippet(s) from %s.\n", len(res.Added), path)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(app.stdout, "Skipped %d: %s\n", len(res.Skipped), strings.Join(res.Skipped, ", "))
	}
	return nil
}

func backupsAction(ctx context.Context, _ *cli.Command, app *App) error {
	backups, err := app.svc.Backups(ctx)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(app.stdout, "No backups yet.")
		return nil
	}
	return render.Backups(app.stdout, backups)
}

func restoreAction(ctx context.Context, cmd *cli.Command, app *App) error {
	id, err := app.svc.Restore(ctx, strings.TrimSpace(cmd.Args().First()))
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Restored backup %s.\n", id)
	return nil
}

func searchAction(ctx context.Context, cmd *cli.Command, app *App) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: markit search <text>", errUsage)
	}
	results, err := app.Search(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(app.stdout, "No matches.")
		return nil
	}
	return render.SearchResults(app.stdout, results)
}

func mcpAction(ctx context.Context, _ *cli.Command, app *App) error {
	return app.ServeMCP(ctx)
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
