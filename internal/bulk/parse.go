// Package bulk parses comma-separated bulk entry text into item payloads.
package bulk

import (
	"errors"
	"strconv"
	"strings"

	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// ErrNoValidItems is returned by Require when parsing produced nothing.
var ErrNoValidItems = errors.New("no valid items found")

// Field names a position in a bulk line.
type Field int

const (
	FieldName Field = iota
	FieldTags
	FieldX
	FieldY
	FieldColor
	FieldZone
	FieldQuantity
	FieldWarning
	FieldDescription
	FieldLink
)

// Schema is the ordered list of fields a line is split into.
type Schema []Field

var (
	// SchemaCatalog is "name, tags, quantity, description, link".
	// Entries land at the origin and are positioned later.
	SchemaCatalog = Schema{FieldName, FieldTags, FieldQuantity, FieldDescription, FieldLink}

	// SchemaPlaced is "name, tags, x, y, color, zone, quantity, warning, description, link".
	SchemaPlaced = Schema{FieldName, FieldTags, FieldX, FieldY, FieldColor, FieldZone, FieldQuantity, FieldWarning, FieldDescription, FieldLink}
)

// Header returns the schema as a comma-separated header, for placeholders and help text.
func (s Schema) Header() string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = fieldNames[f]
	}
	return strings.Join(names, ",")
}

var fieldNames = map[Field]string{
	FieldName:        "name",
	FieldTags:        "tags",
	FieldX:           "x",
	FieldY:           "y",
	FieldColor:       "color",
	FieldZone:        "zone",
	FieldQuantity:    "quantity",
	FieldWarning:     "warning",
	FieldDescription: "description",
	FieldLink:        "link",
}

// Entry is one parsed line. Line is 1-based in the original text.
type Entry struct {
	Line        int
	Name        string
	Tags        string
	X           float64
	Y           float64
	Color       string
	Zone        string
	Quantity    int
	Warning     string
	Description string
	Link        string
}

// Parse splits text into lines and each line into the schema's fields.
// Every field is trimmed, quantity falls back to 1 and coordinates to 0 when
// they do not parse, missing trailing fields are empty and extra fields are
// ignored. Lines with an empty name are dropped.
func Parse(text string, schema Schema) []Entry {
	var entries []Entry
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		parts := strings.Split(line, ",")
		e := Entry{Line: i + 1, Quantity: 1}
		for pos, field := range schema {
			if pos >= len(parts) {
				break
			}
			e.set(field, strings.TrimSpace(parts[pos]))
		}
		if e.Name == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Require returns ErrNoValidItems for an empty parse result.
func Require(entries []Entry) error {
	if len(entries) == 0 {
		return ErrNoValidItems
	}
	return nil
}

func (e *Entry) set(f Field, v string) {
	switch f {
	case FieldName:
		e.Name = v
	case FieldTags:
		e.Tags = v
	case FieldX:
		e.X = parseFloat(v)
	case FieldY:
		e.Y = parseFloat(v)
	case FieldColor:
		e.Color = v
	case FieldZone:
		e.Zone = v
	case FieldQuantity:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			e.Quantity = n
		}
	case FieldWarning:
		e.Warning = v
	case FieldDescription:
		e.Description = v
	case FieldLink:
		e.Link = v
	}
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// Catalog converts entries to the bulk_items payload.
func Catalog(entries []Entry) []mapclient.CatalogEntry {
	out := make([]mapclient.CatalogEntry, len(entries))
	for i, e := range entries {
		out[i] = mapclient.CatalogEntry{
			Name:        e.Name,
			Tags:        e.Tags,
			Quantity:    e.Quantity,
			Description: e.Description,
			Link:        e.Link,
		}
	}
	return out
}

// Input converts one entry to a create payload on mapID.
func (e Entry) Input(mapID int) mapclient.ItemInput {
	color := e.Color
	if color == "" {
		color = mapclient.DefaultItemColor
	}
	return mapclient.ItemInput{
		Name:        e.Name,
		Tags:        e.Tags,
		X:           e.X,
		Y:           e.Y,
		MapID:       mapID,
		Quantity:    e.Quantity,
		Color:       color,
		Zone:        e.Zone,
		Warning:     e.Warning,
		Description: e.Description,
		Link:        e.Link,
	}
}
