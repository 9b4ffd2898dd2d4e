package mapview

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// Badge is a rendered warning icon.
type Badge struct {
	Code  string
	Label string
	Known bool
}

// Warning codes the form offers as checkboxes, in display order.
var WarningCodes = []Badge{
	{Code: "hot", Label: "Hot surface", Known: true},
	{Code: "sharp", Label: "Sharp edges", Known: true},
	{Code: "laser", Label: "Laser radiation", Known: true},
	{Code: "electric", Label: "Electrical hazard", Known: true},
	{Code: "eye", Label: "Eye protection required", Known: true},
	{Code: "ear", Label: "Hearing protection required", Known: true},
	{Code: "chemical", Label: "Chemical hazard", Known: true},
	{Code: "heavy", Label: "Heavy lifting", Known: true},
}

// WarningBadge resolves a code; unknown codes are shown verbatim.
func WarningBadge(code string) Badge {
	for _, b := range WarningCodes {
		if b.Code == code {
			return b
		}
	}
	return Badge{Code: code, Label: code}
}

// Row is one entry in the item list panel.
type Row struct {
	ID           int
	Name         string
	Quantity     int
	ShowQuantity bool
	Zone         string
	Color        string
	Tags         []string
	Warnings     []Badge
	Editable     bool
	Highlighted  bool
	Editing      bool
}

// ListRows builds the list panel from state. Items are already sorted on
// load; ListRows sorts a copy again so the order holds for any State.
func ListRows(st State) []Row {
	items := append([]mapclient.Item(nil), st.Items...)
	sortItems(items)

	rows := make([]Row, 0, len(items))
	for _, it := range items {
		r := Row{
			ID:           it.ID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			ShowQuantity: it.Quantity != 1,
			Zone:         it.Zone,
			Color:        it.Color,
			Tags:         it.TagList(),
			Editable:     st.Privileged,
			Highlighted:  it.ID == st.HoverID,
			Editing:      st.Form.Mode == FormEdit && st.Form.ItemID == it.ID,
		}
		for _, code := range it.WarningList() {
			r.Warnings = append(r.Warnings, WarningBadge(code))
		}
		rows = append(rows, r)
	}
	return rows
}

// sortItems orders items by case-folded name, then id for ties.
func sortItems(items []mapclient.Item) {
	fold := cases.Fold()
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := fold.String(items[i].Name), fold.String(items[j].Name)
		if ki != kj {
			return ki < kj
		}
		return items[i].ID < items[j].ID
	})
}
