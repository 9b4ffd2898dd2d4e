package view

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
)

// clickEvent is a canvas click as captured by the map-board fragment.
type clickEvent struct {
	Pointer mapview.Pointer
	Canvas  mapview.Canvas
	Window  orb.Point
}

func parseClick(s humastar.Signals) clickEvent {
	return clickEvent{
		Pointer: mapview.Pointer{ClientX: s.Float("clickx"), ClientY: s.Float("clicky")},
		Canvas: mapview.Canvas{
			Rect:    mapview.ScreenRect(s.Float("rectleft"), s.Float("recttop"), s.Float("rectwidth"), s.Float("rectheight")),
			Backing: orb.Point{s.Float("backingw"), s.Float("backingh")},
		},
		Window: orb.Point{s.Float("winw"), s.Float("winh")},
	}
}

// Click selects a location, or moves the item being edited.
func (h *Handler) Click(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	ev := parseClick(signals)

	return h.dispatch("canvas-click", input.Session, partBoard|partList|partForm|partNotice, "",
		func(_ context.Context, c *mapview.Controller, _ humastar.SSE) error {
			if f := c.Snapshot().Form; f.Open() {
				c.SetFields(ParseFieldSignals(signals, f.Fields.Warnings))
			}
			return c.Click(ev.Pointer, ev.Canvas, ev.Window)
		}), nil
}
