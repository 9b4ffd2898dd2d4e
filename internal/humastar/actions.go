package humastar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Action is a state-dependent hypermedia action link.
// Response bodies implement the Actor interface to emit conditional
// RFC 8288 Link headers with method and title extension parameters.
//
// Example Link header output:
//
//	</api/v1/view/items/12>; rel="delete"; method="DELETE"; title="Delete Drill"
type Action struct {
	Rel    string // IANA rel or custom (e.g., "edit", "delete")
	Href   string // target URL
	Method string // HTTP method: POST, PUT, DELETE, etc.
	Title  string // optional human-readable label
}

// Actor is implemented by response bodies that provide state-dependent actions.
type Actor interface {
	Actions() []Action
}

// LinkHeader formats the action as an RFC 8288 Link header value
// with method and title extension parameters.
func (a Action) LinkHeader() string {
	h := fmt.Sprintf(`<%s>; rel="%s"`, a.Href, a.Rel)
	if a.Method != "" {
		h += fmt.Sprintf(`; method="%s"`, a.Method)
	}
	if a.Title != "" {
		h += fmt.Sprintf(`; title="%s"`, strings.ReplaceAll(a.Title, `"`, `'`))
	}
	return h
}

// ActionTransformer returns a Huma Transformer that appends a Link header
// for every action of a response body implementing Actor.
func ActionTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		if a, ok := v.(Actor); ok {
			for _, action := range a.Actions() {
				ctx.AppendHeader("Link", action.LinkHeader())
			}
		}
		return v, nil
	}
}

// ActionDef is a reusable action template. Pattern is a route path with a
// single {id} parameter, as registered with Huma.
type ActionDef struct {
	Rel     string
	Pattern string
	Method  string
	Title   string // may contain %s for the resource name
}

// ActionsFor generates concrete actions from defs for one resource.
func ActionsFor(id int, name string, defs []ActionDef) []Action {
	actions := make([]Action, len(defs))
	for i, d := range defs {
		title := d.Title
		if strings.Contains(title, "%s") {
			title = fmt.Sprintf(title, name)
		}
		actions[i] = Action{
			Rel:    d.Rel,
			Href:   Expand(d.Pattern, id),
			Method: d.Method,
			Title:  title,
		}
	}
	return actions
}

// Expand substitutes id for the {id} parameter of a route path.
func Expand(pattern string, id int) string {
	return strings.Replace(pattern, "{id}", strconv.Itoa(id), 1)
}
