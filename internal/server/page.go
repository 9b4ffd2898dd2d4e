package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/joeblew999/plat-floormap/internal/api/view"
	"github.com/joeblew999/plat-floormap/internal/bulk"
	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
	"github.com/joeblew999/plat-floormap/internal/session"
	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// PageData feeds the page template.
type PageData struct {
	Title         string
	DatastarURL   string
	Signals       string
	Routes        map[string]string
	SearchTypes   []humastar.SelectOptionData
	Privileged    bool
	CatalogHeader string
	PlacedHeader  string
}

var searchTypes = []struct {
	Type  mapclient.SearchType
	Label string
}{
	{mapclient.SearchAll, "All fields"},
	{mapclient.SearchName, "Name"},
	{mapclient.SearchTags, "Tags"},
	{mapclient.SearchZone, "Zone"},
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if dir := s.config.TemplatesDir; dir != "" {
		// pick up template edits on every page load
		if err := s.renderer.Reload(dir); err != nil {
			s.log.Warn().Err(err).Str("dir", dir).Msg("reload templates")
		}
	}

	id := ""
	if c, err := r.Cookie(session.CookieName); err == nil {
		id = c.Value
	}
	ctrl, id, created := s.sessions.Get(id)
	if created {
		http.SetCookie(w, session.Cookie(id, s.sessions.TTL()))
	}
	st := ctrl.Snapshot()

	signals, err := json.Marshal(pageSignals(st))
	if err != nil {
		s.log.Error().Err(err).Msg("encode page signals")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	opts := make([]humastar.SelectOptionData, len(searchTypes))
	for i, t := range searchTypes {
		opts[i] = humastar.SelectOptionData{Value: string(t.Type), Label: t.Label, Selected: t.Type == st.SearchType}
	}

	html, err := s.renderer.Render("page", PageData{
		Title:         "Floor map",
		DatastarURL:   s.config.DatastarURL,
		Signals:       string(signals),
		Routes:        s.routes,
		SearchTypes:   opts,
		Privileged:    st.Privileged,
		CatalogHeader: bulk.SchemaCatalog.Header(),
		PlacedHeader:  bulk.SchemaPlaced.Header(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(html))
}

// pageSignals seeds every signal the fragments bind or read.
func pageSignals(st mapview.State) map[string]any {
	sig := view.ResetFieldSignals()
	for k, v := range map[string]any{
		"mapid":       strconv.Itoa(st.MapID()),
		"query":       st.Query,
		"searchtype":  string(st.SearchType),
		"canvaswidth": 0,
		"naturalw":    0,
		"naturalh":    0,
		"clickx":      0,
		"clicky":      0,
		"rectleft":    0,
		"recttop":     0,
		"rectwidth":   0,
		"rectheight":  0,
		"backingw":    0,
		"backingh":    0,
		"winw":        0,
		"winh":        0,
		"bulkmode":    "catalog",
		"bulktext":    "",
		"_bulkopen":   false,
	} {
		sig[k] = v
	}
	for _, action := range []string{mapview.ActionSubmit, mapview.ActionDelete, mapview.ActionBulk} {
		sig[humastar.BusySignal(action)] = false
	}
	return sig
}
