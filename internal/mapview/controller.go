package mapview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/joeblew999/plat-floormap/internal/bulk"
	"github.com/joeblew999/plat-floormap/internal/events"
	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// Validation and state errors. Each maps to a user-facing notice.
var (
	ErrNoMap         = errors.New("no map selected")
	ErrNoLocation    = errors.New("no location selected")
	ErrNoName        = errors.New("item name is required")
	ErrNotReady      = errors.New("map image not ready")
	ErrNotPrivileged = errors.New("editing is disabled")
	ErrBusy          = errors.New("request already in progress")
	ErrFormClosed    = errors.New("form is not open")
	ErrItemNotFound  = errors.New("item not found")
)

// Busy action keys.
const (
	ActionSubmit = "submit"
	ActionDelete = "delete"
	ActionBulk   = "bulk"
)

// bulkConcurrency bounds concurrent creates in placed bulk entry.
const bulkConcurrency = 4

// hitTolerance is the extra click slop around a marker in rendered pixels.
const hitTolerance = 3.0

// Gateway is the subset of the inventory API the view needs.
type Gateway interface {
	ListMaps(ctx context.Context) ([]mapclient.MapSummary, error)
	GetMap(ctx context.Context, id int) (mapclient.Map, error)
	ListItems(ctx context.Context, mapID int) ([]mapclient.Item, error)
	SearchItems(ctx context.Context, q mapclient.SearchQuery) ([]mapclient.Item, error)
	CreateItem(ctx context.Context, in mapclient.ItemInput) (mapclient.Item, error)
	UpdateItem(ctx context.Context, id int, p mapclient.ItemPatch) (mapclient.Item, error)
	DeleteItem(ctx context.Context, id int) (string, error)
	BulkCreate(ctx context.Context, mapID int, entries []mapclient.CatalogEntry) (int, error)
}

// Publisher receives item mutation events.
type Publisher interface {
	Publish(events.Event)
}

// Options configures a Controller.
type Options struct {
	Logger     zerolog.Logger
	Bus        Publisher
	Origin     string // session id stamped on published events
	Privileged bool
	Now        func() time.Time
}

// Controller owns one session's State. All methods are safe for concurrent
// use; gateway calls run without holding the state lock, and responses to
// superseded loads are dropped.
type Controller struct {
	gw     Gateway
	log    zerolog.Logger
	bus    Publisher
	origin string
	now    func() time.Time

	mu      sync.Mutex
	st      State
	mapSeq  uint64
	itemSeq uint64
	busy    map[string]bool
}

// New creates a controller with an empty state.
func New(gw Gateway, opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		gw:     gw,
		log:    opts.Logger,
		bus:    opts.Bus,
		origin: opts.Origin,
		now:    now,
		st: State{
			Privileged: opts.Privileged,
			SearchType: mapclient.SearchAll,
			Form:       closedForm(),
		},
		busy: map[string]bool{},
	}
}

// Origin returns the session id the controller publishes as.
func (c *Controller) Origin() string {
	return c.origin
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.clone()
}

// View is everything a full redraw needs.
type View struct {
	State  State
	Scene  Scene
	Rows   []Row
	Notice *Notice
}

// View renders the current state.
func (c *Controller) View() View {
	st := c.Snapshot()
	sc := Render(st)
	if st.Map != nil && !sc.Ready {
		c.log.Debug().Int("map_id", st.Map.ID).Msg("scene not ready: backdrop size or canvas width unknown")
	}
	return View{
		State:  st,
		Scene:  sc,
		Rows:   ListRows(st),
		Notice: st.ActiveNotice(c.now()),
	}
}

// LoadMaps refreshes the map selector.
func (c *Controller) LoadMaps(ctx context.Context) error {
	maps, err := c.gw.ListMaps(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked("Failed to load maps", err)
		return err
	}
	c.st.Maps = maps
	return nil
}

// SelectMap switches to map id. id 0 clears the view. On failure the
// previous map stays active.
func (c *Controller) SelectMap(ctx context.Context, id int) error {
	c.mu.Lock()
	c.mapSeq++
	seq := c.mapSeq
	if id == 0 {
		c.itemSeq++
		c.st.Map = nil
		c.st.Items = nil
		c.st.Query = ""
		c.st.Selected = nil
		c.st.HoverID = 0
		c.st.Form = closedForm()
		c.st.Backdrop = BackdropNone
		c.st.rescale()
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	m, err := c.gw.GetMap(ctx, id)

	c.mu.Lock()
	if seq != c.mapSeq {
		c.mu.Unlock()
		c.log.Debug().Int("map_id", id).Msg("dropping superseded map response")
		return nil
	}
	if err != nil {
		c.failLocked("Failed to load map", err)
		c.mu.Unlock()
		return err
	}
	c.st.Map = &m
	c.st.Items = nil
	c.st.Query = ""
	c.st.Selected = nil
	c.st.HoverID = 0
	c.st.Form = closedForm()
	c.st.Backdrop = BackdropPending
	c.st.rescale()
	c.mu.Unlock()

	return c.ReloadItems(ctx)
}

// Resize records the rendered canvas width and rescales everything.
func (c *Controller) Resize(width float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !finitePositive(width) {
		return
	}
	c.st.Viewport.Width = width
	c.st.rescale()
	if c.st.Form.Open() {
		c.st.Form.Position = formPosition(&c.st)
	}
}

// BackdropLoaded records the image's natural size, used when the API does
// not provide native dimensions.
func (c *Controller) BackdropLoaded(naturalW, naturalH float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Map == nil {
		return
	}
	if !finitePositive(c.st.Map.Width) || !finitePositive(c.st.Map.Height) {
		if finitePositive(naturalW) && finitePositive(naturalH) {
			c.st.Map.Width, c.st.Map.Height = naturalW, naturalH
		}
	}
	c.st.Backdrop = BackdropReady
	c.st.rescale()
}

// BackdropFailed surfaces an image load error; the session stays usable.
func (c *Controller) BackdropFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Map == nil {
		return
	}
	c.st.Backdrop = BackdropFailed
	c.failLocked("Failed to load map image", fmt.Errorf("backdrop %q did not load", c.st.Map.SVGPath))
}

// ReloadItems replaces the collection from the API, honouring the active search.
func (c *Controller) ReloadItems(ctx context.Context) error {
	c.mu.Lock()
	if c.st.Map == nil {
		c.st.Items = nil
		c.mu.Unlock()
		return nil
	}
	c.itemSeq++
	seq, mapID := c.itemSeq, c.st.Map.ID
	q := mapclient.SearchQuery{Query: c.st.Query, Type: c.st.SearchType, MapID: mapID}
	c.mu.Unlock()

	var (
		items []mapclient.Item
		err   error
	)
	if q.Query == "" {
		items, err = c.gw.ListItems(ctx, mapID)
	} else {
		items, err = c.gw.SearchItems(ctx, q)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.itemSeq || c.st.MapID() != mapID {
		c.log.Debug().Int("map_id", mapID).Uint64("seq", seq).Msg("dropping stale item response")
		return nil
	}
	if err != nil {
		c.failLocked("Failed to load items", err)
		return err
	}
	sortItems(items)
	c.st.Items = items
	c.reconcileFormLocked()
	return nil
}

// reconcileFormLocked keeps an open edit consistent with a fresh collection:
// the local move is re-applied, and a vanished item closes the form.
func (c *Controller) reconcileFormLocked() {
	if c.st.Form.Mode != FormEdit {
		return
	}
	it, ok := c.st.ItemByID(c.st.Form.ItemID)
	if !ok {
		c.st.Form = closedForm()
		c.st.Selected = nil
		c.noticeLocked(NoticeInfo, "The item being edited was removed")
		return
	}
	if c.st.Form.moved && c.st.Selected != nil {
		if p, ok := toNative(*c.st.Selected, c.st.Scale); ok {
			it.X, it.Y = p.X(), p.Y()
		}
	}
}

// Search runs a free-text search scoped to the current map. An empty query
// goes back to the full list.
func (c *Controller) Search(ctx context.Context, query string, typ mapclient.SearchType) error {
	c.mu.Lock()
	if c.st.Map == nil {
		c.failLocked("Please select a map first", ErrNoMap)
		c.mu.Unlock()
		return ErrNoMap
	}
	c.st.Query = strings.TrimSpace(query)
	c.st.SearchType = typ
	c.mu.Unlock()
	return c.ReloadItems(ctx)
}

// Click handles a pointer click on the canvas.
// In edit mode it moves the bound item locally; otherwise it sets the
// selected location, and highlights a marker under the pointer if any.
func (c *Controller) Click(p Pointer, canvas Canvas, window orb.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.st.Layout = Layout{Canvas: canvas.Rect, Window: window}
	if c.st.Map == nil {
		c.failLocked("Please select a map first", ErrNoMap)
		return ErrNoMap
	}
	native, ok := ToImageSpace(p, canvas, c.st.Scale)
	if !ok {
		return ErrNotReady
	}
	rendered, _ := ToRenderedSpace(native, c.st.Scale)

	switch c.st.Form.Mode {
	case FormEdit:
		it, found := c.st.ItemByID(c.st.Form.ItemID)
		if !found {
			c.st.Form = closedForm()
			c.st.Selected = nil
			return ErrItemNotFound
		}
		it.X, it.Y = native.X(), native.Y()
		c.st.Form.moved = true
		c.st.Selected = &rendered
		c.st.Form.Position = formPosition(&c.st)
		c.noticeLocked(NoticeInfo, "Location updated. Click Update to save the new position")
	case FormCreate:
		c.st.Selected = &rendered
		c.st.Form.Position = formPosition(&c.st)
	default:
		c.st.Selected = &rendered
		c.st.HoverID = 0
		if m, hit := HitTest(Render(c.st).Markers, rendered, hitTolerance); hit {
			c.st.HoverID = m.ItemID
		}
	}
	return nil
}

// OpenCreate opens the form in create mode at the selected location.
func (c *Controller) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.st.Privileged {
		return c.rejectLocked(ErrNotPrivileged)
	}
	if c.st.Map == nil {
		return c.rejectLocked(ErrNoMap)
	}
	if c.st.Selected == nil {
		return c.rejectLocked(ErrNoLocation)
	}
	c.revertMoveLocked()
	c.st.Form = Form{Mode: FormCreate, Fields: DefaultFields()}
	c.st.Form.Position = formPosition(&c.st)
	return nil
}

// OpenEdit opens the form pre-filled from item id and selects its position.
func (c *Controller) OpenEdit(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.st.Privileged {
		return c.rejectLocked(ErrNotPrivileged)
	}
	it, ok := c.st.ItemByID(id)
	if !ok {
		return c.rejectLocked(ErrItemNotFound)
	}
	c.revertMoveLocked()
	it, _ = c.st.ItemByID(id)

	fields := FieldsFromItem(*it)
	c.st.Form = Form{
		Mode:     FormEdit,
		ItemID:   id,
		Fields:   fields,
		Original: fields.clone(),
		origin:   orb.Point{it.X, it.Y},
	}
	c.st.Selected = nil
	if p, ok := ToRenderedSpace(orb.Point{it.X, it.Y}, c.st.Scale); ok {
		c.st.Selected = &p
	}
	c.st.HoverID = id
	c.st.Form.Position = formPosition(&c.st)
	return nil
}

// Cancel closes the form, discarding a local move and the selection.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revertMoveLocked()
	c.st.Form = closedForm()
	c.st.Selected = nil
}

// Clear is Cancel plus dropping the highlight and the current notice.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revertMoveLocked()
	c.st.Form = closedForm()
	c.st.Selected = nil
	c.st.HoverID = 0
	c.st.Notice = nil
}

func (c *Controller) revertMoveLocked() {
	f := c.st.Form
	if f.Mode != FormEdit || !f.moved {
		return
	}
	if it, ok := c.st.ItemByID(f.ItemID); ok {
		it.X, it.Y = f.origin.X(), f.origin.Y()
	}
}

// AttachImage stores an image to send with the next submit.
func (c *Controller) AttachImage(img mapclient.Upload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.st.Form.Open() {
		return c.rejectLocked(ErrFormClosed)
	}
	c.st.Form.Image = &img
	c.noticeLocked(NoticeInfo, fmt.Sprintf("Image %q attached", img.Filename))
	return nil
}

// SetFields records the form inputs without submitting, so a redraw keeps them.
func (c *Controller) SetFields(f Fields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Form.Open() {
		c.st.Form.Fields = f.normalized()
	}
}

// Submit validates and saves the form. Validation failures never reach the
// gateway. On success the form closes and the items reload; on failure the
// form keeps its values.
func (c *Controller) Submit(ctx context.Context, f Fields) error {
	c.mu.Lock()
	if !c.st.Privileged {
		err := c.rejectLocked(ErrNotPrivileged)
		c.mu.Unlock()
		return err
	}
	if c.st.Form.Open() {
		c.st.Form.Fields = f.normalized()
	}
	if c.st.Map == nil {
		err := c.rejectLocked(ErrNoMap)
		c.mu.Unlock()
		return err
	}
	if c.st.Selected == nil {
		err := c.rejectLocked(ErrNoLocation)
		c.mu.Unlock()
		return err
	}
	fields := f.normalized()
	if fields.Name == "" {
		err := c.rejectLocked(ErrNoName)
		c.mu.Unlock()
		return err
	}
	native, ok := toNative(*c.st.Selected, c.st.Scale)
	if !ok {
		err := c.rejectLocked(ErrNotReady)
		c.mu.Unlock()
		return err
	}
	if err := c.beginLocked(ActionSubmit); err != nil {
		c.mu.Unlock()
		return err
	}
	if !c.st.Form.Open() {
		c.st.Form = Form{Mode: FormCreate, Fields: fields}
	}
	form := c.st.Form.clone()
	mapID := c.st.Map.ID
	c.mu.Unlock()
	defer c.end(ActionSubmit)

	var (
		err    error
		itemID int
		action string
	)
	if form.Mode == FormEdit {
		action, itemID = "updated", form.ItemID
		patch := editPatch(form, native)
		if patch.Empty() {
			c.mu.Lock()
			c.st.Form = closedForm()
			c.st.Selected = nil
			c.noticeLocked(NoticeInfo, "Nothing to update")
			c.mu.Unlock()
			return nil
		}
		_, err = c.gw.UpdateItem(ctx, form.ItemID, patch)
	} else {
		action = "created"
		var created mapclient.Item
		created, err = c.gw.CreateItem(ctx, createInput(fields, mapID, native, form.Image))
		itemID = created.ID
	}

	c.mu.Lock()
	if err != nil {
		if form.Mode == FormEdit {
			c.failLocked("Failed to update item", err)
		} else {
			c.failLocked("Failed to add item", err)
		}
		c.mu.Unlock()
		return err
	}
	c.st.Form = closedForm()
	c.st.Selected = nil
	if action == "created" {
		c.noticeLocked(NoticeSuccess, fmt.Sprintf("Item %q added", fields.Name))
	} else {
		c.noticeLocked(NoticeSuccess, fmt.Sprintf("Item %q updated", fields.Name))
	}
	c.mu.Unlock()

	c.publish(events.Event{MapID: mapID, Action: action, ItemID: itemID})
	return c.ReloadItems(ctx)
}

// Delete removes item id through the gateway and reloads. The cached
// collection is left alone until the reload confirms the server state.
func (c *Controller) Delete(ctx context.Context, id int) error {
	c.mu.Lock()
	if !c.st.Privileged {
		err := c.rejectLocked(ErrNotPrivileged)
		c.mu.Unlock()
		return err
	}
	if err := c.beginLocked(ActionDelete); err != nil {
		c.mu.Unlock()
		return err
	}
	mapID := c.st.MapID()
	name := ""
	if it, ok := c.st.ItemByID(id); ok {
		name = it.Name
	}
	c.mu.Unlock()
	defer c.end(ActionDelete)

	if _, err := c.gw.DeleteItem(ctx, id); err != nil {
		c.mu.Lock()
		c.failLocked("Failed to delete item", err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.st.Form.Mode == FormEdit && c.st.Form.ItemID == id {
		c.st.Form = closedForm()
		c.st.Selected = nil
	}
	if c.st.HoverID == id {
		c.st.HoverID = 0
	}
	if name != "" {
		c.noticeLocked(NoticeSuccess, fmt.Sprintf("Item %q deleted", name))
	} else {
		c.noticeLocked(NoticeSuccess, "Item deleted")
	}
	c.mu.Unlock()

	c.publish(events.Event{MapID: mapID, Action: "deleted", ItemID: id})
	return c.ReloadItems(ctx)
}

// Hover highlights item id on the canvas.
func (c *Controller) Hover(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.st.ItemByID(id); ok {
		c.st.HoverID = id
	}
}

// Unhover drops the highlight, except for the item being edited.
func (c *Controller) Unhover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.Form.Mode == FormEdit {
		c.st.HoverID = c.st.Form.ItemID
		return
	}
	c.st.HoverID = 0
}

// BulkCatalog parses catalog text and adds it with one bulk request.
func (c *Controller) BulkCatalog(ctx context.Context, text string) (int, error) {
	entries := bulk.Parse(text, bulk.SchemaCatalog)
	mapID, err := c.startBulk(entries)
	if err != nil {
		return 0, err
	}
	defer c.end(ActionBulk)

	added, err := c.gw.BulkCreate(ctx, mapID, bulk.Catalog(entries))
	c.mu.Lock()
	if err != nil {
		c.failLocked("Error processing bulk entry. Please check your data and try again", err)
		c.mu.Unlock()
		return 0, err
	}
	c.noticeLocked(NoticeSuccess, fmt.Sprintf("Added %d items", added))
	c.mu.Unlock()

	c.publish(events.Event{MapID: mapID, Action: "bulk"})
	return added, c.ReloadItems(ctx)
}

// BulkOutcome is the result of one placed entry.
type BulkOutcome struct {
	Line int
	Name string
	ID   int
	Err  error
}

// BulkReport aggregates a placed bulk submission.
type BulkReport struct {
	Outcomes []BulkOutcome
}

// Added counts successful entries.
func (r BulkReport) Added() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the failed entries in input order.
func (r BulkReport) Failed() []BulkOutcome {
	var out []BulkOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Summary is the notice text for the report.
func (r BulkReport) Summary() string {
	failed := r.Failed()
	if len(failed) == 0 {
		return fmt.Sprintf("Added %d items", r.Added())
	}
	parts := make([]string, len(failed))
	for i, o := range failed {
		parts[i] = fmt.Sprintf("line %d (%s): %v", o.Line, o.Name, o.Err)
	}
	return fmt.Sprintf("Added %d of %d items; failed %s", r.Added(), len(r.Outcomes), strings.Join(parts, "; "))
}

// BulkPlaced parses positioned entries and creates each one concurrently.
// Every entry is attempted; the report says which ones failed.
func (c *Controller) BulkPlaced(ctx context.Context, text string) (BulkReport, error) {
	entries := bulk.Parse(text, bulk.SchemaPlaced)
	mapID, err := c.startBulk(entries)
	if err != nil {
		return BulkReport{}, err
	}
	defer c.end(ActionBulk)

	report := BulkReport{Outcomes: make([]BulkOutcome, len(entries))}
	var g errgroup.Group
	g.SetLimit(bulkConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			created, err := c.gw.CreateItem(ctx, e.Input(mapID))
			report.Outcomes[i] = BulkOutcome{Line: e.Line, Name: e.Name, ID: created.ID, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	c.mu.Lock()
	if failed := report.Failed(); len(failed) > 0 {
		c.log.Warn().Int("map_id", mapID).Int("failed", len(failed)).Int("total", len(entries)).Msg("bulk entry partially failed")
		c.noticeLocked(NoticeError, report.Summary())
	} else {
		c.noticeLocked(NoticeSuccess, report.Summary())
	}
	c.mu.Unlock()

	var reloadErr error
	if report.Added() > 0 {
		c.publish(events.Event{MapID: mapID, Action: "bulk"})
		reloadErr = c.ReloadItems(ctx)
	}
	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("bulk entry: %d of %d failed: %w", len(failed), len(entries), failed[0].Err)
	}
	return report, reloadErr
}

func (c *Controller) startBulk(entries []bulk.Entry) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.st.Privileged {
		return 0, c.rejectLocked(ErrNotPrivileged)
	}
	if c.st.Map == nil {
		return 0, c.rejectLocked(ErrNoMap)
	}
	if err := bulk.Require(entries); err != nil {
		return 0, c.rejectLocked(err)
	}
	if err := c.beginLocked(ActionBulk); err != nil {
		return 0, err
	}
	return c.st.Map.ID, nil
}

// Busy reports whether action is in flight.
func (c *Controller) Busy(action string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[action]
}

func (c *Controller) beginLocked(action string) error {
	if c.busy[action] {
		return c.rejectLocked(ErrBusy)
	}
	c.busy[action] = true
	return nil
}

func (c *Controller) end(action string) {
	c.mu.Lock()
	delete(c.busy, action)
	c.mu.Unlock()
}

func (c *Controller) publish(e events.Event) {
	if c.bus == nil {
		return
	}
	e.Origin = c.origin
	c.bus.Publish(e)
}

// rejectLocked surfaces a validation error and returns it.
func (c *Controller) rejectLocked(err error) error {
	c.log.Debug().Err(err).Msg("intent rejected")
	c.noticeLocked(NoticeError, NoticeText(err))
	return err
}

// failLocked logs a gateway or load failure and surfaces it.
func (c *Controller) failLocked(msg string, err error) {
	c.log.Error().Err(err).Int("map_id", c.st.MapID()).Msg(msg)
	var apiErr *mapclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = msg + ": " + apiErr.Message
	}
	c.noticeLocked(NoticeError, msg)
}

func (c *Controller) noticeLocked(kind NoticeKind, msg string) {
	c.st.Notice = &Notice{Kind: kind, Message: msg, Expires: c.now().Add(NoticeTTL)}
}

// NoticeText is the banner text for a validation error.
func NoticeText(err error) string {
	switch {
	case errors.Is(err, ErrNoMap):
		return "Please select a map first"
	case errors.Is(err, ErrNoLocation):
		return "Please select a location on the map first"
	case errors.Is(err, ErrNoName):
		return "Please enter an item name"
	case errors.Is(err, ErrNotReady):
		return "The map is still loading, try again in a moment"
	case errors.Is(err, ErrNotPrivileged):
		return "Editing is disabled on this server"
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish"
	case errors.Is(err, ErrFormClosed):
		return "Open the item form before attaching an image"
	case errors.Is(err, ErrItemNotFound):
		return "That item is no longer on this map"
	case errors.Is(err, bulk.ErrNoValidItems):
		return "No valid items found"
	default:
		return err.Error()
	}
}
