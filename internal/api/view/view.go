// Package view contains the Datastar SSE handlers for the floor-plan map view.
//
// Every intent looks up the caller's controller by session cookie, applies
// the intent, and re-renders the fragments the intent can affect from a
// fresh snapshot.
package view

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"github.com/joeblew999/plat-floormap/internal/bulk"
	"github.com/joeblew999/plat-floormap/internal/events"
	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
	"github.com/joeblew999/plat-floormap/internal/metrics"
	"github.com/joeblew999/plat-floormap/internal/session"
	"github.com/joeblew999/plat-floormap/internal/templates"
)

// Base is the path prefix of every view operation.
const Base = "/api/v1/view"

// Tag groups the view operations in the OpenAPI document.
const Tag = "view"

// Route paths.
const (
	PathMaps           = Base + "/maps"
	PathSelectMap      = Base + "/maps/select"
	PathResize         = Base + "/resize"
	PathBackdropLoaded = Base + "/backdrop/loaded"
	PathBackdropFailed = Base + "/backdrop/failed"
	PathClick          = Base + "/canvas/click"
	PathOpenForm       = Base + "/form/open"
	PathEditForm       = Base + "/form/edit/{id}"
	PathCancelForm     = Base + "/form/cancel"
	PathClearForm      = Base + "/form/clear"
	PathSubmit         = Base + "/form/submit"
	PathImage          = Base + "/form/image"
	PathSearch         = Base + "/items/search"
	PathHover          = Base + "/items/hover/{id}"
	PathUnhover        = Base + "/items/unhover"
	PathItem           = Base + "/items/{id}"
	PathBulkCatalog    = Base + "/bulk/catalog"
	PathBulkPlaced     = Base + "/bulk/placed"
	PathEvents         = Base + "/events"
	PathScene          = Base + "/scene"
)

// Config wires a Handler.
type Config struct {
	Renderer *templates.Renderer
	Sessions *session.Store
	Bus      *events.Bus
	Metrics  *metrics.Metrics // may be nil
	Logger   zerolog.Logger
	Timeout  time.Duration // per-intent gateway deadline, 0 for none
	Now      func() time.Time
}

// Handler serves the map view intents.
type Handler struct {
	humastar.Handler
	sessions *session.Store
	bus      *events.Bus
	metrics  *metrics.Metrics
	log      zerolog.Logger
	timeout  time.Duration
	now      func() time.Time
}

// New creates a view handler.
func New(cfg Config) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		Handler:  humastar.Handler{Renderer: cfg.Renderer},
		sessions: cfg.Sessions,
		bus:      cfg.Bus,
		metrics:  cfg.Metrics,
		log:      cfg.Logger,
		timeout:  cfg.Timeout,
		now:      now,
	}
}

// SessionInput carries the session cookie.
type SessionInput struct {
	Session string `cookie:"floormap_session" doc:"Map view session id"`
}

// IntentInput is an intent with Datastar signals.
type IntentInput struct {
	SessionInput
	humastar.SignalsInput
}

// ItemInput is an intent addressed at one item.
type ItemInput struct {
	SessionInput
	ID int `path:"id" doc:"Item ID"`
}

// RegisterRoutes registers every view operation.
func (h *Handler) RegisterRoutes(api huma.API) {
	op := func(id string) []func(*huma.Operation) {
		return []func(*huma.Operation){huma.OperationTags(Tag), humastar.OperationID(id)}
	}

	huma.Post(api, PathMaps, h.ListMaps, op("list-maps")...)
	huma.Post(api, PathSelectMap, h.SelectMap, op("select-map")...)
	huma.Post(api, PathResize, h.Resize, op("resize")...)
	huma.Post(api, PathBackdropLoaded, h.BackdropLoaded, op("backdrop-loaded")...)
	huma.Post(api, PathBackdropFailed, h.BackdropFailed, op("backdrop-failed")...)
	huma.Post(api, PathClick, h.Click, op("canvas-click")...)

	huma.Post(api, PathOpenForm, h.OpenForm, op("open-form")...)
	huma.Post(api, PathEditForm, h.EditForm, op("edit-form")...)
	huma.Post(api, PathCancelForm, h.CancelForm, op("cancel-form")...)
	huma.Post(api, PathClearForm, h.ClearForm, op("clear-form")...)
	huma.Post(api, PathSubmit, h.Submit, op("submit-form")...)
	huma.Post(api, PathImage, h.AttachImage, append(op("attach-image"), func(o *huma.Operation) {
		o.MaxBodyBytes = maxImageBytes + 64<<10
	})...)

	huma.Post(api, PathSearch, h.Search, op("search-items")...)
	huma.Post(api, PathHover, h.Hover, op("hover-item")...)
	huma.Post(api, PathUnhover, h.Unhover, op("unhover-item")...)
	huma.Delete(api, PathItem, h.DeleteItem, op("delete-item")...)

	huma.Post(api, PathBulkCatalog, h.BulkCatalog, op("bulk-catalog")...)
	huma.Post(api, PathBulkPlaced, h.BulkPlaced, op("bulk-placed")...)

	huma.Get(api, PathEvents, h.Events, op("events")...)
	huma.Get(api, PathScene, h.Scene, op("scene")...)
}

// part selects the fragments an intent re-renders.
type part uint8

const (
	partMaps part = 1 << iota
	partBoard
	partList
	partForm
	partNotice

	partAll = partMaps | partBoard | partList | partForm | partNotice
)

// intentFunc applies one intent to a session's controller.
type intentFunc func(ctx context.Context, c *mapview.Controller, sse humastar.SSE) error

// dispatch runs fn against the caller's controller and streams the re-rendered
// parts. A non-empty busy action brackets the call with that action's busy
// signal.
func (h *Handler) dispatch(intent, sessionID string, parts part, busy string, fn intentFunc) *huma.StreamResponse {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			ctrl, id, created := h.sessions.Get(sessionID)
			if created {
				// an expired or unknown session starts over; redraw everything
				humaCtx.AppendHeader("Set-Cookie", session.Cookie(id, h.sessions.TTL()).String())
				parts = partAll
			}
			sse := humastar.NewSSE(humaCtx)

			ctx := humaCtx.Context()
			if h.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, h.timeout)
				defer cancel()
			}
			if busy != "" {
				sse.Busy(busy, true)
				defer sse.Busy(busy, false)
			}

			start := time.Now()
			err := fn(ctx, ctrl, sse)
			h.metrics.ObserveIntent(intent, err)
			h.logIntent(intent, id, err, time.Since(start))

			h.render(sse, ctrl.View(), parts)
		},
	}
}

func (h *Handler) logIntent(intent, sessionID string, err error, d time.Duration) {
	ev := h.log.Debug()
	switch {
	case err == nil:
	case isValidation(err):
		ev = h.log.Info()
	default:
		ev = h.log.Warn()
	}
	ev.Err(err).Str("intent", intent).Str("session", sessionID).Dur("took", d).Msg("view intent")
}

func isValidation(err error) bool {
	for _, target := range []error{
		mapview.ErrNoMap, mapview.ErrNoLocation, mapview.ErrNoName, mapview.ErrNotReady,
		mapview.ErrNotPrivileged, mapview.ErrBusy, mapview.ErrFormClosed, mapview.ErrItemNotFound,
		bulk.ErrNoValidItems,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// render patches the selected fragments and syncs the mapid signal.
func (h *Handler) render(sse humastar.SSE, v mapview.View, parts part) {
	if parts&partMaps != 0 {
		sse.Patch(h.RenderSelect("Select a map", mapOptions(v.State)), "#map-select")
		sse.Signals(map[string]any{"mapid": strconv.Itoa(v.State.MapID())})
	}
	if parts&partBoard != 0 {
		sse.Patch(h.fragment("map-board", boardData(v)), "#map-board")
	}
	if parts&partList != 0 {
		sse.Patch(h.fragment("item-list", listData(v)), "#item-list")
	}
	if parts&partForm != 0 {
		sse.Patch(h.fragment("item-form", formData(v.State)), "#item-form")
	}
	if parts&partNotice != 0 {
		sse.Patch(h.fragment("notice", noticeData(v.Notice, h.now())), "#notice")
	}
}

func (h *Handler) fragment(name string, data any) string {
	html, err := h.Renderer.Render(name, data)
	if err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("render failed")
		return ""
	}
	return html
}
