package view

import (
	"strconv"
	"time"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
)

// BoardData feeds the map-board fragment.
type BoardData struct {
	HasMap    bool
	Probe     bool // load the backdrop off-screen to learn its natural size
	Failed    bool
	MapName   string
	Scene     mapview.Scene
	LoadedURL string
	FailedURL string
	ClickURL  string
}

// ListData feeds the item-list fragment.
type ListData struct {
	Rows   []RowData
	Query  string
	HasMap bool
}

// RowData is one item-row with its intent URLs.
type RowData struct {
	mapview.Row
	HoverURL   string
	UnhoverURL string
	EditURL    string
	DeleteURL  string
}

// WarningOption is one warning checkbox of the form.
type WarningOption struct {
	Signal string
	Label  string
}

// FormData feeds the item-form fragment.
type FormData struct {
	Open      bool
	Edit      bool
	Left      float64
	Top       float64
	ImageName string
	ImageURL  string
	SubmitURL string
	CancelURL string
	Warnings  []WarningOption
}

// NoticeData feeds the notice fragment.
type NoticeData struct {
	Kind      mapview.NoticeKind
	Message   string
	TTLMillis int64
}

func mapOptions(st mapview.State) []humastar.SelectOptionData {
	opts := make([]humastar.SelectOptionData, len(st.Maps))
	for i, m := range st.Maps {
		opts[i] = humastar.SelectOptionData{
			Value:    strconv.Itoa(m.ID),
			Label:    m.Name,
			Selected: m.ID == st.MapID(),
		}
	}
	return opts
}

func boardData(v mapview.View) BoardData {
	d := BoardData{
		HasMap:    v.State.Map != nil,
		Scene:     v.Scene,
		LoadedURL: PathBackdropLoaded,
		FailedURL: PathBackdropFailed,
		ClickURL:  PathClick,
	}
	if v.State.Map != nil {
		d.MapName = v.State.Map.Name
		d.Probe = v.State.Backdrop == mapview.BackdropPending && v.Scene.Backdrop != ""
		d.Failed = v.State.Backdrop == mapview.BackdropFailed
	}
	return d
}

func listData(v mapview.View) ListData {
	rows := make([]RowData, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = RowData{
			Row:        r,
			HoverURL:   humastar.Expand(PathHover, r.ID),
			UnhoverURL: PathUnhover,
			EditURL:    humastar.Expand(PathEditForm, r.ID),
			DeleteURL:  humastar.Expand(PathItem, r.ID),
		}
	}
	return ListData{Rows: rows, Query: v.State.Query, HasMap: v.State.Map != nil}
}

func formData(st mapview.State) FormData {
	f := st.Form
	if !f.Open() {
		return FormData{}
	}
	d := FormData{
		Open:      true,
		Edit:      f.Mode == mapview.FormEdit,
		Left:      f.Position.X(),
		Top:       f.Position.Y(),
		ImageURL:  PathImage,
		SubmitURL: PathSubmit,
		CancelURL: PathCancelForm,
		Warnings:  warningOptions(f.Fields.Warnings),
	}
	if f.Image != nil {
		d.ImageName = f.Image.Filename
	}
	return d
}

// warningOptions lists the known warnings, then any other code the item
// carries that can be bound as a signal.
func warningOptions(current []string) []WarningOption {
	opts := make([]WarningOption, 0, len(mapview.WarningCodes))
	for _, b := range mapview.WarningCodes {
		sig, _ := warningSignal(b.Code)
		opts = append(opts, WarningOption{Signal: sig, Label: b.Label})
	}
	for _, code := range current {
		if mapview.WarningBadge(code).Known {
			continue
		}
		if sig, ok := warningSignal(code); ok {
			opts = append(opts, WarningOption{Signal: sig, Label: code})
		}
	}
	return opts
}

func noticeData(n *mapview.Notice, now time.Time) *NoticeData {
	if n == nil {
		return nil
	}
	left := n.Expires.Sub(now)
	if left <= 0 {
		return nil
	}
	return &NoticeData{Kind: n.Kind, Message: n.Message, TTLMillis: left.Milliseconds()}
}
