// Package mapclient is a typed client for the inventory REST API that owns
// maps and items. floormap never stores items itself; every mutation goes
// through this client and every read replaces the caller's copy wholesale.
package mapclient

import (
	"fmt"
	"strings"
)

// DefaultItemColor is the marker color the inventory API assigns when none is given.
const DefaultItemColor = "red"

// MapSummary is one entry of GET /api/maps.
type MapSummary struct {
	ID   int    `json:"id" doc:"Map identifier" example:"1"`
	Name string `json:"name" doc:"Display name" example:"iLab"`
}

// Map is the metadata returned by GET /api/maps/{id}.
// Width and Height are the backdrop's intrinsic pixel size; the API may
// leave them zero, in which case the browser reports the natural size.
type Map struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	SVGPath         string  `json:"svg_path" doc:"Backdrop image path (vector or raster)" example:"/static/maps/main.svg"`
	BackgroundColor string  `json:"background_color" doc:"CSS background color" example:"white"`
	Width           float64 `json:"width" doc:"Native backdrop width in pixels"`
	Height          float64 `json:"height" doc:"Native backdrop height in pixels"`
}

// Item is a pinned inventory item. X and Y are in the backdrop's native pixel space.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Tags        string  `json:"tags"`
	X           float64 `json:"x_coord"`
	Y           float64 `json:"y_coord"`
	MapID       int     `json:"map_id"`
	Quantity    int     `json:"quantity"`
	Color       string  `json:"color,omitempty"`
	Zone        string  `json:"zone,omitempty"`
	Warning     string  `json:"warning,omitempty"`
	Description string  `json:"description,omitempty"`
	Link        string  `json:"link,omitempty"`
	ImagePath   string  `json:"image_path,omitempty"`
}

// normalize fills API defaults for fields older records leave empty.
func (it *Item) normalize() {
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
}

// TagList splits the comma-separated tag string, dropping blanks.
func (it Item) TagList() []string {
	return SplitList(it.Tags)
}

// WarningList splits the comma-separated warning codes, dropping blanks.
func (it Item) WarningList() []string {
	return SplitList(it.Warning)
}

// SplitList splits a comma-separated field and trims each element.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Upload is an image attached to a create or update request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ItemInput is the payload for POST /api/items.
type ItemInput struct {
	Name        string  `json:"name"`
	Tags        string  `json:"tags"`
	X           float64 `json:"x_coord"`
	Y           float64 `json:"y_coord"`
	MapID       int     `json:"map_id"`
	Quantity    int     `json:"quantity"`
	Color       string  `json:"color"`
	Zone        string  `json:"zone"`
	Warning     string  `json:"warning"`
	Description string  `json:"description"`
	Link        string  `json:"link"`

	// Image switches the request to multipart when set.
	Image *Upload `json:"-"`
}

// ItemPatch is the payload for PUT /api/items/{id}. Nil fields are not sent,
// so a patch carrying only Image is an image-only update.
type ItemPatch struct {
	Name        *string
	Tags        *string
	X           *float64
	Y           *float64
	Quantity    *int
	Color       *string
	Zone        *string
	Warning     *string
	Description *string
	Link        *string
	Image       *Upload
}

// Empty reports whether the patch would send nothing.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Tags == nil && p.X == nil && p.Y == nil &&
		p.Quantity == nil && p.Color == nil && p.Zone == nil && p.Warning == nil &&
		p.Description == nil && p.Link == nil && p.Image == nil
}

// fields returns the multipart text fields of the patch.
func (p ItemPatch) fields() map[string]string {
	f := map[string]string{}
	str := func(k string, v *string) {
		if v != nil {
			f[k] = *v
		}
	}
	str("name", p.Name)
	str("tags", p.Tags)
	str("color", p.Color)
	str("zone", p.Zone)
	str("warning", p.Warning)
	str("description", p.Description)
	str("link", p.Link)
	if p.X != nil {
		f["x_coord"] = formatFloat(*p.X)
	}
	if p.Y != nil {
		f["y_coord"] = formatFloat(*p.Y)
	}
	if p.Quantity != nil {
		f["quantity"] = fmt.Sprintf("%d", *p.Quantity)
	}
	return f
}

// CatalogEntry is one element of the POST /api/bulk_items payload.
// The API places bulk items at (0,0) with default color.
type CatalogEntry struct {
	Name        string `json:"name"`
	Tags        string `json:"tags"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// SearchType scopes a free-text search.
type SearchType string

const (
	SearchAll  SearchType = "all"
	SearchName SearchType = "name"
	SearchTags SearchType = "tags"
	SearchZone SearchType = "zone"
)

// ParseSearchType maps a UI value to a SearchType, defaulting to SearchAll.
func ParseSearchType(s string) SearchType {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case SearchName, SearchTags, SearchZone:
		return t
	default:
		return SearchAll
	}
}

// SearchQuery is the input of GET /api/search.
type SearchQuery struct {
	Query string
	Type  SearchType
	MapID int
}
