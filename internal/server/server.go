package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/zerolog"

	"github.com/joeblew999/plat-floormap/internal/api"
	"github.com/joeblew999/plat-floormap/internal/api/view"
	"github.com/joeblew999/plat-floormap/internal/events"
	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
	"github.com/joeblew999/plat-floormap/internal/metrics"
	"github.com/joeblew999/plat-floormap/internal/session"
	"github.com/joeblew999/plat-floormap/internal/templates"
	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// DefaultDatastarURL is the client bundle the page loads.
const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Config holds the server configuration.
type Config struct {
	Host           string
	Port           string
	APIURL         string // inventory API base URL
	ReadOnly       bool
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	TemplatesDir   string // optional directory containing fragments/, for template editing
	DatastarURL    string
	Logger         zerolog.Logger
	HTTPClient     *http.Client // optional, for the inventory API
}

// Server is the floormap HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	renderer *templates.Renderer
	client   *mapclient.Client
	sessions *session.Store
	bus      *events.Bus
	metrics  *metrics.Metrics
	log      zerolog.Logger
	routes   map[string]string
}

// New creates a new floormap server.
func New(cfg Config) (*Server, error) {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.DatastarURL == "" {
		cfg.DatastarURL = DefaultDatastarURL
	}

	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("floormap API", api.Version)
	humaConfig.Info.Description = "Floor-plan map view: inventory items pinned on a backdrop image, driven over Datastar SSE."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers,
		api.LinkTransformer(),
		humastar.ActionTransformer(),
	)

	humaAPI := humago.New(mux, humaConfig)

	renderer, err := newRenderer(cfg.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	m := metrics.New()
	opts := []mapclient.Option{
		mapclient.WithLogger(cfg.Logger),
		mapclient.WithObserver(m),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, mapclient.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, mapclient.WithTimeout(cfg.RequestTimeout))
	}
	client := mapclient.New(cfg.APIURL, opts...)

	bus := events.NewBus()
	sessions := session.NewStore(cfg.SessionTTL, func(id string) *mapview.Controller {
		return mapview.New(client, mapview.Options{
			Logger:     cfg.Logger.With().Str("session", id).Logger(),
			Bus:        bus,
			Origin:     id,
			Privileged: !cfg.ReadOnly,
		})
	}, m)

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		renderer: renderer,
		client:   client,
		sessions: sessions,
		bus:      bus,
		metrics:  m,
		log:      cfg.Logger,
	}
	s.registerRoutes()
	return s, nil
}

func newRenderer(dir string) (*templates.Renderer, error) {
	if dir != "" {
		return templates.NewFromDir(dir)
	}
	return templates.New()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Sessions exposes the session store.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

func (s *Server) registerRoutes() {
	// Register Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, api.NewAPIHandler(api.Info{
		Upstream: s.client.BaseURL(),
		ReadOnly: s.config.ReadOnly,
		Sessions: s.sessions.Len,
	}, func(ctx context.Context) error {
		_, err := s.client.ListMaps(ctx)
		return err
	}))

	// Register map view SSE routes using Huma + Datastar SDK
	view.New(view.Config{
		Renderer: s.renderer,
		Sessions: s.sessions,
		Bus:      s.bus,
		Metrics:  s.metrics,
		Logger:   s.log,
		Timeout:  s.config.RequestTimeout,
	}).RegisterRoutes(s.humaAPI)
	s.routes = humastar.Routes(s.humaAPI, view.Tag)

	s.mux.Handle("/metrics", s.metrics.Handler())

	// Page routes
	s.mux.HandleFunc("/", s.handlePage)
}
