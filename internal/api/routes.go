// Package api defines the Huma JSON routes that sit beside the map view.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// Version is reported by /health and /api/v1/info.
const Version = "0.1.0"

// Prober checks that the inventory API answers.
type Prober func(ctx context.Context) error

// Info is the static part of /api/v1/info.
type Info struct {
	Upstream string
	ReadOnly bool
	Sessions func() int
}

// Types

type HealthInput struct {
	Deep bool `query:"deep" doc:"Also check that the inventory API answers"`
}

type HealthBody struct {
	Status   string `json:"status" doc:"Health status" example:"ok"`
	Version  string `json:"version" doc:"API version" example:"0.1.0"`
	Upstream string `json:"upstream,omitempty" doc:"Inventory API status when deep is set" example:"ok"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	Upstream string   `json:"upstream" doc:"Inventory API base URL"`
	ReadOnly bool     `json:"read_only" doc:"Whether editing is disabled"`
	Sessions int      `json:"sessions" doc:"Live map view sessions"`
	Features []string `json:"features" doc:"Available features"`
}

// APIHandler holds the JSON handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	info   Info
	prober Prober
}

func NewAPIHandler(info Info, prober Prober) *APIHandler {
	return &APIHandler{info: info, prober: prober}
}

// RegisterRoutes registers every JSON route on api.
func RegisterRoutes(api huma.API, h *APIHandler) {
	huma.AutoRegister(api, h)
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterInfo registers the service info route.
func (h *APIHandler) RegisterInfo(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *HealthInput) (*struct{ Body HealthBody }, error) {
	body := HealthBody{Status: "ok", Version: Version}
	if input.Deep && h.prober != nil {
		if err := h.prober(ctx); err != nil {
			return nil, huma.Error503ServiceUnavailable("inventory API unavailable", err)
		}
		body.Upstream = "ok"
	}
	return &struct{ Body HealthBody }{Body: body}, nil
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	sessions := 0
	if h.info.Sessions != nil {
		sessions = h.info.Sessions()
	}
	features := []string{"map-view", "search", "bulk-entry", "live-updates"}
	if !h.info.ReadOnly {
		features = append(features, "editing")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "floormap",
		Version:  Version,
		Upstream: h.info.Upstream,
		ReadOnly: h.info.ReadOnly,
		Sessions: sessions,
		Features: features,
	}}, nil
}
