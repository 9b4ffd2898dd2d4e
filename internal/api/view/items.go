package view

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// Search filters the current map's items by the query and searchtype signals.
func (h *Handler) Search(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	query := signals.String("query")
	typ := mapclient.ParseSearchType(signals.String("searchtype"))

	return h.dispatch("search-items", input.Session, partBoard|partList|partForm|partNotice, "",
		func(ctx context.Context, c *mapview.Controller, _ humastar.SSE) error {
			return c.Search(ctx, query, typ)
		}), nil
}

// Hover highlights an item's marker. Only the board is redrawn so the list
// under the pointer stays put.
func (h *Handler) Hover(ctx context.Context, input *ItemInput) (*huma.StreamResponse, error) {
	return h.dispatch("hover-item", input.Session, partBoard, "",
		func(_ context.Context, c *mapview.Controller, _ humastar.SSE) error {
			c.Hover(input.ID)
			return nil
		}), nil
}

// Unhover drops the marker highlight.
func (h *Handler) Unhover(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	return h.dispatch("unhover-item", input.Session, partBoard, "",
		func(_ context.Context, c *mapview.Controller, _ humastar.SSE) error {
			c.Unhover()
			return nil
		}), nil
}

// DeleteItem deletes an item through the inventory API.
func (h *Handler) DeleteItem(ctx context.Context, input *ItemInput) (*huma.StreamResponse, error) {
	return h.dispatch("delete-item", input.Session, partBoard|partList|partForm|partNotice, mapview.ActionDelete,
		func(ctx context.Context, c *mapview.Controller, sse humastar.SSE) error {
			editing := c.Snapshot().Form
			if err := c.Delete(ctx, input.ID); err != nil {
				return err
			}
			if editing.Mode == mapview.FormEdit && editing.ItemID == input.ID {
				sse.Signals(ResetFieldSignals())
			}
			sse.DispatchCustomEvent("item-changed", map[string]any{
				"action": "deleted", "id": input.ID,
			})
			return nil
		}), nil
}
