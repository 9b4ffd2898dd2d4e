package view

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
)

// ListMaps fills the map selector. It redraws the whole view so a reloaded
// page picks up a session that already has a map selected.
func (h *Handler) ListMaps(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	return h.dispatch("list-maps", input.Session, partAll, "",
		func(ctx context.Context, c *mapview.Controller, _ humastar.SSE) error {
			return c.LoadMaps(ctx)
		}), nil
}

// SelectMap switches to the map in the mapid signal; 0 clears the view.
func (h *Handler) SelectMap(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	id := signals.Int("mapid")

	return h.dispatch("select-map", input.Session, partAll, "",
		func(ctx context.Context, c *mapview.Controller, sse humastar.SSE) error {
			if err := c.SelectMap(ctx, id); err != nil {
				return err
			}
			// the previous map and its search stay on failure
			reset := ResetFieldSignals()
			reset["query"] = ""
			sse.Signals(reset)
			return nil
		}), nil
}

// Resize records the rendered canvas width.
func (h *Handler) Resize(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	width := signals.Float("canvaswidth")

	return h.dispatch("resize", input.Session, partBoard|partForm, "",
		func(_ context.Context, c *mapview.Controller, _ humastar.SSE) error {
			c.Resize(width)
			return nil
		}), nil
}

// BackdropLoaded reports the backdrop's natural size once the browser has it.
func (h *Handler) BackdropLoaded(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	w, hgt := signals.Float("naturalw"), signals.Float("naturalh")

	return h.dispatch("backdrop-loaded", input.Session, partBoard|partForm, "",
		func(_ context.Context, c *mapview.Controller, _ humastar.SSE) error {
			c.BackdropLoaded(w, hgt)
			return nil
		}), nil
}

// BackdropFailed reports that the backdrop could not be loaded.
func (h *Handler) BackdropFailed(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	return h.dispatch("backdrop-failed", input.Session, partBoard|partNotice, "",
		func(_ context.Context, c *mapview.Controller, _ humastar.SSE) error {
			c.BackdropFailed()
			return nil
		}), nil
}
