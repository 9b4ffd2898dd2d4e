package view

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-floormap/internal/events"
	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
	"github.com/joeblew999/plat-floormap/internal/session"
)

// Events streams changes made by other sessions to the map this session is
// viewing. The stream stays open until the client goes away.
func (h *Handler) Events(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			ctrl, id, created := h.sessions.Get(input.Session)
			if created {
				humaCtx.AppendHeader("Set-Cookie", session.Cookie(id, h.sessions.TTL()).String())
			}
			sse := humastar.NewSSE(humaCtx)
			if h.bus == nil {
				return
			}

			ch := h.bus.Subscribe()
			defer h.bus.Unsubscribe(ch)

			ctx := humaCtx.Context()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-ch:
					if !ok {
						return
					}
					h.applyEvent(ctx, ctrl, sse, ev)
				}
			}
		},
	}, nil
}

func (h *Handler) applyEvent(ctx context.Context, c *mapview.Controller, sse humastar.SSE, ev events.Event) {
	if ev.Origin == c.Origin() || ev.MapID != c.Snapshot().MapID() {
		return
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	err := c.ReloadItems(ctx)
	h.metrics.ObserveIntent("remote-change", err)
	h.log.Debug().Err(err).Int("map_id", ev.MapID).Str("action", ev.Action).Str("origin", ev.Origin).Msg("reloaded after remote change")

	h.render(sse, c.View(), partBoard|partList|partForm|partNotice)
	sse.DispatchCustomEvent("item-changed", map[string]any{
		"action": ev.Action, "id": ev.ItemID, "map_id": ev.MapID,
	})
}
