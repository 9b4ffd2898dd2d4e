// routes.go: reverse mapping from OpenAPI operations to page template routes.
//
// Routes collects operation ids and their paths for one tag, so page
// templates look up {{index .Routes "submit-form"}} instead of hardcoding
// URLs that the handlers register.
package humastar

import (
	"slices"

	"github.com/danielgtaylor/huma/v2"
)

// Routes maps operation id → path for every operation tagged tag.
func Routes(api huma.API, tag string) map[string]string {
	routes := map[string]string{}

	paths := api.OpenAPI().Paths
	for path, item := range paths {
		for _, op := range []*huma.Operation{item.Get, item.Post, item.Put, item.Patch, item.Delete} {
			if op == nil || op.OperationID == "" {
				continue
			}
			if tag != "" && !slices.Contains(op.Tags, tag) {
				continue
			}
			routes[op.OperationID] = path
		}
	}
	return routes
}

// OperationID returns an operation handler that sets a stable id.
func OperationID(id string) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		o.OperationID = id
	}
}
