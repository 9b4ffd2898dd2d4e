package view

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
)

// bulkDone closes the bulk panel and empties its text.
var bulkDone = map[string]any{"bulktext": "", "_bulkopen": false}

// BulkCatalog adds catalog lines (name,tags,quantity,description,link) in one request.
func (h *Handler) BulkCatalog(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	text := signals.String("bulktext")

	return h.dispatch("bulk-catalog", input.Session, partBoard|partList|partNotice, mapview.ActionBulk,
		func(ctx context.Context, c *mapview.Controller, sse humastar.SSE) error {
			if _, err := c.BulkCatalog(ctx, text); err != nil {
				return err
			}
			sse.Signals(bulkDone)
			return nil
		}), nil
}

// BulkPlaced adds positioned lines one by one. The text stays in the panel
// when any line fails so it can be corrected.
func (h *Handler) BulkPlaced(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	text := signals.String("bulktext")

	return h.dispatch("bulk-placed", input.Session, partBoard|partList|partNotice, mapview.ActionBulk,
		func(ctx context.Context, c *mapview.Controller, sse humastar.SSE) error {
			report, err := c.BulkPlaced(ctx, text)
			if len(report.Failed()) == 0 && err == nil {
				sse.Signals(bulkDone)
			}
			return err
		}), nil
}
