package view

import (
	"slices"
	"sort"
	"strings"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
)

// Form field signal names, bound by the item-form fragment.
const (
	sigName        = "itemname"
	sigTags        = "itemtags"
	sigColor       = "itemcolor"
	sigZone        = "itemzone"
	sigQuantity    = "itemquantity"
	sigDescription = "itemdescription"
	sigLink        = "itemlink"

	warnPrefix = "warn"
)

// warningSignal is the checkbox signal for a warning code. Codes that are not
// plain lowercase alphanumerics cannot be bound and are carried through as-is.
func warningSignal(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return "", false
		}
	}
	return warnPrefix + code, true
}

// ParseFieldSignals reads the form inputs. current is the form's warning list,
// which fixes the order of codes that stay checked and keeps codes that have
// no checkbox.
func ParseFieldSignals(s humastar.Signals, current []string) mapview.Fields {
	return mapview.Fields{
		Name:        s.String(sigName),
		Tags:        s.String(sigTags),
		Color:       s.String(sigColor),
		Zone:        s.String(sigZone),
		Quantity:    s.Int(sigQuantity),
		Warnings:    parseWarnings(s, current),
		Description: s.String(sigDescription),
		Link:        s.String(sigLink),
	}
}

func parseWarnings(s humastar.Signals, current []string) []string {
	var out []string
	for _, code := range current {
		sig, ok := warningSignal(code)
		if !ok || s.Bool(sig) {
			out = append(out, code)
		}
	}
	for _, b := range mapview.WarningCodes {
		if sig, _ := warningSignal(b.Code); s.Bool(sig) && !slices.Contains(out, b.Code) {
			out = append(out, b.Code)
		}
	}
	var extra []string
	for key := range s {
		code, ok := strings.CutPrefix(key, warnPrefix)
		if !ok || !s.Bool(key) || slices.Contains(out, code) {
			continue
		}
		if _, bindable := warningSignal(code); bindable {
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// FieldSignals pushes f into the form inputs. Every known warning is sent so
// unchecked boxes clear.
func FieldSignals(f mapview.Fields) map[string]any {
	quantity := f.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	sig := map[string]any{
		sigName:        f.Name,
		sigTags:        f.Tags,
		sigColor:       f.Color,
		sigZone:        f.Zone,
		sigQuantity:    quantity,
		sigDescription: f.Description,
		sigLink:        f.Link,
	}
	for _, b := range mapview.WarningCodes {
		name, _ := warningSignal(b.Code)
		sig[name] = slices.Contains(f.Warnings, b.Code)
	}
	for _, code := range f.Warnings {
		if name, ok := warningSignal(code); ok {
			sig[name] = true
		}
	}
	return sig
}

// ResetFieldSignals clears the form inputs to their defaults.
func ResetFieldSignals() map[string]any {
	return FieldSignals(mapview.DefaultFields())
}
