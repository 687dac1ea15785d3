package resolve

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/starford/markit/internal/models"
)

// Filter is a compiled boolean expression over snippet fields, e.g.
//
//	executable && "prod" in tags
//	name startsWith "git-" && updated_at > now() - duration("24h")
type Filter struct {
	src     string
	program *exprvm.Program
}

// CompileFilter compiles src. The variables in scope are name, description,
// content, executable, tags, created_at and updated_at, next to the expr builtins.
func CompileFilter(src string) (*Filter, error) {
	if src == "" {
		return nil, fmt.Errorf("resolve: filter expression must not be empty")
	}
	program, err := exprlang.Compile(src,
		exprlang.Env(environment(models.Snippet{Tags: []string{}})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("resolve: compile filter %q: %w", src, err)
	}
	return &Filter{src: src, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.src
}

// Match evaluates the filter against one snippet.
func (f *Filter) Match(sn models.Snippet) (bool, error) {
	out, err := exprlang.Run(f.program, environment(sn))
	if err != nil {
		return false, fmt.Errorf("resolve: evaluate filter %q on %q: %w", f.src, sn.Name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the snippets for which the filter holds, in input order.
func (f *Filter) Apply(snippets []models.Snippet) ([]models.Snippet, error) {
	out := []models.Snippet{}
	for _, sn := range snippets {
		ok, err := f.Match(sn)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, sn)
		}
	}
	return out, nil
}

func environment(sn models.Snippet) map[string]any {
	tags := sn.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"name":        sn.Name,
		"description": sn.Description,
		"content":     sn.Content,
		"executable":  sn.Executable,
		"tags":        tags,
		"created_at":  sn.CreatedAt,
		"updated_at":  sn.UpdatedAt,
	}
}
