package mapview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-floormap/internal/bulk"
	"github.com/joeblew999/plat-floormap/internal/events"
	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// fakeGateway is an in-memory inventory API.
type fakeGateway struct {
	mu       sync.Mutex
	maps     map[int]mapclient.Map
	items    map[int][]mapclient.Item
	nextID   int
	calls    []string
	created  []mapclient.ItemInput
	patches  map[int]mapclient.ItemPatch
	catalog  []mapclient.CatalogEntry
	searches []mapclient.SearchQuery

	failDelete error
	failCreate map[string]error

	listHook   func(mapID int)
	createHook func(name string)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		maps: map[int]mapclient.Map{
			1: {ID: 1, Name: "Ground", SVGPath: "/static/ground.svg", Width: 1000, Height: 500},
			2: {ID: 2, Name: "First", SVGPath: "/static/first.png"},
		},
		items: map[int][]mapclient.Item{
			1: {
				{ID: 11, Name: "wrench", X: 300, Y: 100, MapID: 1, Quantity: 1, Color: "red"},
				{ID: 12, Name: "Drill", X: 100, Y: 200, MapID: 1, Quantity: 2, Color: "red", Tags: "tools"},
			},
			2: {{ID: 21, Name: "Lathe", X: 10, Y: 10, MapID: 2, Quantity: 1}},
		},
		nextID:     100,
		patches:    map[int]mapclient.ItemPatch{},
		failCreate: map[string]error{},
	}
}

func (g *fakeGateway) record(call string) {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) ListMaps(ctx context.Context) ([]mapclient.MapSummary, error) {
	g.record("list maps")
	return []mapclient.MapSummary{{ID: 1, Name: "Ground"}, {ID: 2, Name: "First"}}, nil
}

func (g *fakeGateway) GetMap(ctx context.Context, id int) (mapclient.Map, error) {
	g.record(fmt.Sprintf("get map %d", id))
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.maps[id]
	if !ok {
		return mapclient.Map{}, &mapclient.APIError{Op: "get map", Status: http.StatusNotFound, Message: "Map not found"}
	}
	return m, nil
}

func (g *fakeGateway) ListItems(ctx context.Context, mapID int) ([]mapclient.Item, error) {
	g.record(fmt.Sprintf("list items %d", mapID))
	if g.listHook != nil {
		g.listHook(mapID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]mapclient.Item(nil), g.items[mapID]...), nil
}

func (g *fakeGateway) SearchItems(ctx context.Context, q mapclient.SearchQuery) ([]mapclient.Item, error) {
	g.record("search items")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.searches = append(g.searches, q)
	var out []mapclient.Item
	for _, it := range g.items[q.MapID] {
		if it.Name == q.Query {
			out = append(out, it)
		}
	}
	return out, nil
}

func (g *fakeGateway) CreateItem(ctx context.Context, in mapclient.ItemInput) (mapclient.Item, error) {
	g.record("create item")
	if g.createHook != nil {
		g.createHook(in.Name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failCreate[in.Name]; err != nil {
		return mapclient.Item{}, err
	}
	g.nextID++
	it := mapclient.Item{
		ID: g.nextID, Name: in.Name, Tags: in.Tags, X: in.X, Y: in.Y, MapID: in.MapID,
		Quantity: in.Quantity, Color: in.Color, Zone: in.Zone, Warning: in.Warning,
	}
	g.created = append(g.created, in)
	g.items[in.MapID] = append(g.items[in.MapID], it)
	return it, nil
}

func (g *fakeGateway) UpdateItem(ctx context.Context, id int, p mapclient.ItemPatch) (mapclient.Item, error) {
	g.record(fmt.Sprintf("update item %d", id))
	g.mu.Lock()
	defer g.mu.Unlock()
	g.patches[id] = p
	for mapID, items := range g.items {
		for i := range items {
			it := &g.items[mapID][i]
			if it.ID != id {
				continue
			}
			if p.Name != nil {
				it.Name = *p.Name
			}
			if p.X != nil {
				it.X = *p.X
			}
			if p.Y != nil {
				it.Y = *p.Y
			}
			if p.Quantity != nil {
				it.Quantity = *p.Quantity
			}
			return *it, nil
		}
	}
	return mapclient.Item{}, &mapclient.APIError{Op: "update item", Status: http.StatusNotFound, Message: "Item not found"}
}

func (g *fakeGateway) DeleteItem(ctx context.Context, id int) (string, error) {
	g.record(fmt.Sprintf("delete item %d", id))
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failDelete != nil {
		return "", g.failDelete
	}
	for mapID, items := range g.items {
		for i, it := range items {
			if it.ID == id {
				g.items[mapID] = append(items[:i:i], items[i+1:]...)
				return "Item deleted", nil
			}
		}
	}
	return "", &mapclient.APIError{Op: "delete item", Status: http.StatusNotFound, Message: "Item not found"}
}

func (g *fakeGateway) BulkCreate(ctx context.Context, mapID int, entries []mapclient.CatalogEntry) (int, error) {
	g.record("bulk create")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.catalog = append(g.catalog, entries...)
	for _, e := range entries {
		g.nextID++
		g.items[mapID] = append(g.items[mapID], mapclient.Item{ID: g.nextID, Name: e.Name, MapID: mapID, Quantity: e.Quantity})
	}
	return len(entries), nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(e events.Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var (
	testCanvas = Canvas{Rect: ScreenRect(0, 0, 500, 250)}
	testWindow = orb.Point{1280, 900}
)

func newTestController(t *testing.T, gw *fakeGateway) (*Controller, *recordingBus, *clock) {
	t.Helper()
	bus := &recordingBus{}
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := New(gw, Options{Bus: bus, Origin: "sess-1", Privileged: true, Now: clk.now})
	return c, bus, clk
}

// onGround returns a controller showing map 1 at half scale.
func onGround(t *testing.T) (*Controller, *fakeGateway, *recordingBus, *clock) {
	t.Helper()
	gw := newFakeGateway()
	c, bus, clk := newTestController(t, gw)
	c.Resize(500)
	require.NoError(t, c.SelectMap(context.Background(), 1))
	c.BackdropLoaded(1000, 500)
	return c, gw, bus, clk
}

func itemNames(st State) []string {
	out := make([]string, len(st.Items))
	for i, it := range st.Items {
		out[i] = it.Name
	}
	return out
}

func click(t *testing.T, c *Controller, x, y float64) {
	t.Helper()
	require.NoError(t, c.Click(Pointer{ClientX: x, ClientY: y}, testCanvas, testWindow))
}

func TestController_SelectMap(t *testing.T) {
	c, _, _, _ := onGround(t)

	st := c.Snapshot()
	require.NotNil(t, st.Map)
	assert.Equal(t, 1, st.Map.ID)
	assert.Equal(t, Scale(0.5), st.Scale)
	assert.Equal(t, 250.0, st.Viewport.Height)
	assert.Equal(t, BackdropReady, st.Backdrop)
	assert.Equal(t, []string{"Drill", "wrench"}, itemNames(st))

	sc := c.View().Scene
	require.Len(t, sc.Markers, 2)
	assert.Equal(t, orb.Point{50, 100}, sc.Markers[0].At)
}

func TestController_SnapshotAccessors(t *testing.T) {
	c, _, _, _ := onGround(t)

	assert.Equal(t, 1, c.Snapshot().MapID())
	it, ok := c.Snapshot().ItemByID(11)
	require.True(t, ok)
	assert.Equal(t, "wrench", it.Name)
	_, ok = c.Snapshot().ItemByID(99)
	assert.False(t, ok)

	it.Name = "changed"
	again, _ := c.Snapshot().ItemByID(11)
	assert.Equal(t, "wrench", again.Name, "snapshots do not alias controller state")
}

func TestController_SelectNoneClears(t *testing.T) {
	c, _, _, _ := onGround(t)
	click(t, c, 10, 10)

	require.NoError(t, c.SelectMap(context.Background(), 0))

	st := c.Snapshot()
	assert.Nil(t, st.Map)
	assert.Empty(t, st.Items)
	assert.Nil(t, st.Selected)
	sc := c.View().Scene
	assert.Empty(t, sc.Markers)
	assert.False(t, sc.Ready)
}

func TestController_SelectMapFailureKeepsPrevious(t *testing.T) {
	c, _, _, _ := onGround(t)

	err := c.SelectMap(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, mapclient.IsNotFound(err))

	st := c.Snapshot()
	assert.Equal(t, 1, st.MapID())
	assert.Len(t, st.Items, 2)
	require.NotNil(t, st.Notice)
	assert.Equal(t, NoticeError, st.Notice.Kind)
	assert.Equal(t, "Failed to load map: Map not found", st.Notice.Message)
}

func TestController_BackdropSizeFromBrowser(t *testing.T) {
	gw := newFakeGateway()
	c, _, _ := newTestController(t, gw)
	c.Resize(600)
	require.NoError(t, c.SelectMap(context.Background(), 2))

	assert.False(t, c.View().Scene.Ready, "no native size yet")
	_, ok := ToImageSpace(Pointer{ClientX: 1, ClientY: 1}, testCanvas, c.Snapshot().Scale)
	assert.False(t, ok)

	c.BackdropLoaded(1200, 800)
	st := c.Snapshot()
	assert.Equal(t, Scale(0.5), st.Scale)
	assert.Equal(t, 400.0, st.Viewport.Height)
	assert.True(t, c.View().Scene.Ready)
}

func TestController_BackdropFailed(t *testing.T) {
	c, _, _, _ := onGround(t)
	c.BackdropFailed()

	st := c.Snapshot()
	assert.Equal(t, BackdropFailed, st.Backdrop)
	require.NotNil(t, st.Notice)
	assert.Equal(t, "Failed to load map image", st.Notice.Message)
}

func TestController_SubmitWithoutLocation(t *testing.T) {
	c, gw, _, _ := onGround(t)
	before := gw.callCount()

	err := c.Submit(context.Background(), Fields{Name: "Hammer"})
	require.ErrorIs(t, err, ErrNoLocation)
	assert.Equal(t, before, gw.callCount(), "no network call")

	st := c.Snapshot()
	require.NotNil(t, st.Notice)
	assert.Equal(t, "Please select a location on the map first", st.Notice.Message)
}

func TestController_SubmitWithoutMap(t *testing.T) {
	gw := newFakeGateway()
	c, _, _ := newTestController(t, gw)

	err := c.Submit(context.Background(), Fields{Name: "Hammer"})
	require.ErrorIs(t, err, ErrNoMap)
	assert.Zero(t, gw.callCount())
	assert.Equal(t, "Please select a map first", c.Snapshot().Notice.Message)
}

func TestController_SubmitEmptyName(t *testing.T) {
	c, gw, _, _ := onGround(t)
	click(t, c, 100, 50)
	require.NoError(t, c.OpenCreate())
	before := gw.callCount()

	require.ErrorIs(t, c.Submit(context.Background(), Fields{Name: "   "}), ErrNoName)
	assert.Equal(t, before, gw.callCount())
	assert.True(t, c.Snapshot().Form.Open(), "form stays open")
}

func TestController_OpenCreateNeedsLocation(t *testing.T) {
	c, _, _, _ := onGround(t)
	require.ErrorIs(t, c.OpenCreate(), ErrNoLocation)
	assert.False(t, c.Snapshot().Form.Open())
}

func TestController_CreateFlow(t *testing.T) {
	c, gw, bus, _ := onGround(t)
	click(t, c, 100, 50)

	st := c.Snapshot()
	require.NotNil(t, st.Selected)
	assert.Equal(t, orb.Point{100, 50}, *st.Selected)

	require.NoError(t, c.OpenCreate())
	assert.Equal(t, FormCreate, c.Snapshot().Form.Mode)

	err := c.Submit(context.Background(), Fields{Name: "Hammer", Tags: "tools", Warnings: []string{"heavy"}})
	require.NoError(t, err)

	require.Len(t, gw.created, 1)
	in := gw.created[0]
	assert.Equal(t, "Hammer", in.Name)
	assert.Equal(t, 200.0, in.X)
	assert.Equal(t, 100.0, in.Y)
	assert.Equal(t, 1, in.MapID)
	assert.Equal(t, 1, in.Quantity)
	assert.Equal(t, "red", in.Color)
	assert.Equal(t, "heavy", in.Warning)

	st = c.Snapshot()
	assert.False(t, st.Form.Open())
	assert.Nil(t, st.Selected)
	assert.Equal(t, DefaultFields(), st.Form.Fields)
	assert.Equal(t, []string{"Drill", "Hammer", "wrench"}, itemNames(st))
	assert.Equal(t, NoticeSuccess, st.Notice.Kind)

	require.Len(t, bus.events, 1)
	assert.Equal(t, events.Event{MapID: 1, Action: "created", ItemID: 101, Origin: "sess-1"}, bus.events[0])
}

func TestController_CreateFailureKeepsForm(t *testing.T) {
	c, gw, bus, _ := onGround(t)
	gw.failCreate["Hammer"] = &mapclient.APIError{Op: "create item", Status: 500, Message: "db locked"}
	click(t, c, 100, 50)
	require.NoError(t, c.OpenCreate())

	require.Error(t, c.Submit(context.Background(), Fields{Name: "Hammer", Zone: "B"}))

	st := c.Snapshot()
	assert.True(t, st.Form.Open())
	assert.Equal(t, "Hammer", st.Form.Fields.Name)
	assert.Equal(t, "B", st.Form.Fields.Zone)
	assert.NotNil(t, st.Selected)
	assert.Equal(t, "Failed to add item: db locked", st.Notice.Message)
	assert.Empty(t, bus.events)
	assert.False(t, c.Busy(ActionSubmit))
}

func TestController_EditFieldsKeepsPosition(t *testing.T) {
	c, gw, _, _ := onGround(t)
	require.NoError(t, c.OpenEdit(12))

	st := c.Snapshot()
	assert.Equal(t, FormEdit, st.Form.Mode)
	assert.Equal(t, 12, st.Form.ItemID)
	assert.Equal(t, "Drill", st.Form.Fields.Name)
	assert.Equal(t, 2, st.Form.Fields.Quantity)
	require.NotNil(t, st.Selected)
	assert.Equal(t, orb.Point{50, 100}, *st.Selected)

	f := st.Form.Fields
	f.Name = "Cordless drill"
	require.NoError(t, c.Submit(context.Background(), f))

	p := gw.patches[12]
	require.NotNil(t, p.Name)
	assert.Equal(t, "Cordless drill", *p.Name)
	assert.Nil(t, p.X)
	assert.Nil(t, p.Y)
	assert.Nil(t, p.Quantity)

	it, ok := c.Snapshot().ItemByID(12)
	require.True(t, ok)
	assert.Equal(t, "Cordless drill", it.Name)
	assert.Equal(t, 100.0, it.X)
	assert.Equal(t, 200.0, it.Y)
}

func TestController_EditMoveThenUpdate(t *testing.T) {
	c, gw, _, _ := onGround(t)
	require.NoError(t, c.OpenEdit(12))
	click(t, c, 200, 150)

	st := c.Snapshot()
	assert.True(t, st.Form.Moved())
	it, _ := st.ItemByID(12)
	assert.Equal(t, orb.Point{400, 300}, orb.Point{it.X, it.Y}, "moved locally")
	assert.Equal(t, NoticeInfo, st.Notice.Kind)
	_, persisted := gw.patches[12]
	assert.False(t, persisted, "not saved before update")

	require.NoError(t, c.Submit(context.Background(), st.Form.Fields))
	p := gw.patches[12]
	require.NotNil(t, p.X)
	assert.Equal(t, 400.0, *p.X)
	assert.Equal(t, 300.0, *p.Y)
	assert.Nil(t, p.Name)
}

func TestController_EditMoveThenCancelReverts(t *testing.T) {
	c, gw, _, _ := onGround(t)
	require.NoError(t, c.OpenEdit(12))
	click(t, c, 200, 150)
	c.Cancel()

	st := c.Snapshot()
	assert.False(t, st.Form.Open())
	assert.Nil(t, st.Selected)
	it, _ := st.ItemByID(12)
	assert.Equal(t, orb.Point{100, 200}, orb.Point{it.X, it.Y})
	assert.Empty(t, gw.patches)
}

func TestController_EditNothingChanged(t *testing.T) {
	c, gw, _, _ := onGround(t)
	require.NoError(t, c.OpenEdit(11))
	require.NoError(t, c.Submit(context.Background(), c.Snapshot().Form.Fields))

	assert.Empty(t, gw.patches)
	st := c.Snapshot()
	assert.False(t, st.Form.Open())
	assert.Equal(t, "Nothing to update", st.Notice.Message)
}

func TestController_AttachImageOnlyUpdate(t *testing.T) {
	c, gw, _, _ := onGround(t)
	require.ErrorIs(t, c.AttachImage(mapclient.Upload{Filename: "x.png"}), ErrFormClosed)

	require.NoError(t, c.OpenEdit(11))
	require.NoError(t, c.AttachImage(mapclient.Upload{Filename: "x.png", ContentType: "image/png", Data: []byte("png")}))
	require.NoError(t, c.Submit(context.Background(), c.Snapshot().Form.Fields))

	p := gw.patches[11]
	require.NotNil(t, p.Image)
	assert.Equal(t, "x.png", p.Image.Filename)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.X)
}

func TestController_ReloadDropsVanishedEdit(t *testing.T) {
	c, gw, _, _ := onGround(t)
	require.NoError(t, c.OpenEdit(11))

	gw.mu.Lock()
	gw.items[1] = gw.items[1][1:]
	gw.mu.Unlock()
	require.NoError(t, c.ReloadItems(context.Background()))

	st := c.Snapshot()
	assert.False(t, st.Form.Open())
	assert.Equal(t, "The item being edited was removed", st.Notice.Message)
}

func TestController_ReloadKeepsLocalMove(t *testing.T) {
	c, _, _, _ := onGround(t)
	require.NoError(t, c.OpenEdit(12))
	click(t, c, 200, 150)

	require.NoError(t, c.ReloadItems(context.Background()))
	it, _ := c.Snapshot().ItemByID(12)
	assert.Equal(t, orb.Point{400, 300}, orb.Point{it.X, it.Y})
}

func TestController_DeleteFailureLeavesItems(t *testing.T) {
	c, gw, bus, _ := onGround(t)
	gw.failDelete = &mapclient.APIError{Op: "delete item", Status: http.StatusNotFound, Message: "Item not found"}
	before := c.Snapshot().Items

	err := c.Delete(context.Background(), 11)
	require.Error(t, err)
	assert.True(t, mapclient.IsNotFound(err))

	st := c.Snapshot()
	assert.Equal(t, before, st.Items)
	require.NotNil(t, st.Notice)
	assert.Equal(t, NoticeError, st.Notice.Kind)
	assert.Equal(t, "Failed to delete item: Item not found", st.Notice.Message)
	assert.Empty(t, bus.events)
	assert.False(t, c.Busy(ActionDelete))
}

func TestController_Delete(t *testing.T) {
	c, _, bus, _ := onGround(t)
	require.NoError(t, c.OpenEdit(11))

	require.NoError(t, c.Delete(context.Background(), 11))

	st := c.Snapshot()
	assert.Equal(t, []string{"Drill"}, itemNames(st))
	assert.False(t, st.Form.Open(), "editing the deleted item closes the form")
	assert.Equal(t, `Item "wrench" deleted`, st.Notice.Message)
	require.Len(t, bus.events, 1)
	assert.Equal(t, "deleted", bus.events[0].Action)
}

func TestController_StaleItemResponseDropped(t *testing.T) {
	gw := newFakeGateway()
	c, _, _ := newTestController(t, gw)
	c.Resize(500)

	entered, release := make(chan struct{}), make(chan struct{})
	var once sync.Once
	gw.listHook = func(mapID int) {
		if mapID == 1 {
			once.Do(func() { close(entered) })
			<-release
		}
	}

	done := make(chan error, 1)
	go func() { done <- c.SelectMap(context.Background(), 1) }()
	<-entered

	require.NoError(t, c.SelectMap(context.Background(), 2))
	close(release)
	require.NoError(t, <-done)

	st := c.Snapshot()
	assert.Equal(t, 2, st.MapID())
	assert.Equal(t, []string{"Lathe"}, itemNames(st), "late map 1 items were dropped")
}

func TestController_SubmitBusy(t *testing.T) {
	c, gw, _, _ := onGround(t)
	click(t, c, 100, 50)
	require.NoError(t, c.OpenCreate())

	entered, release := make(chan struct{}), make(chan struct{})
	gw.createHook = func(string) {
		close(entered)
		<-release
	}

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), Fields{Name: "Hammer"}) }()
	<-entered

	assert.True(t, c.Busy(ActionSubmit))
	require.ErrorIs(t, c.Submit(context.Background(), Fields{Name: "Hammer"}), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Busy(ActionSubmit))
	assert.Len(t, gw.created, 1)
}

func TestController_Search(t *testing.T) {
	c, gw, _, _ := onGround(t)
	require.NoError(t, c.Search(context.Background(), " Drill ", mapclient.SearchName))

	st := c.Snapshot()
	assert.Equal(t, []string{"Drill"}, itemNames(st))
	require.Len(t, gw.searches, 1)
	assert.Equal(t, mapclient.SearchQuery{Query: "Drill", Type: mapclient.SearchName, MapID: 1}, gw.searches[0])

	// Reloads keep honouring the active query.
	require.NoError(t, c.ReloadItems(context.Background()))
	assert.Len(t, gw.searches, 2)

	require.NoError(t, c.Search(context.Background(), "", mapclient.SearchAll))
	assert.Len(t, c.Snapshot().Items, 2)
}

func TestController_ClickHighlightsMarker(t *testing.T) {
	c, _, _, _ := onGround(t)
	click(t, c, 51, 99)

	st := c.Snapshot()
	assert.Equal(t, 12, st.HoverID)
	require.NotNil(t, st.Selected)
}

func TestController_HoverUnhover(t *testing.T) {
	c, _, _, _ := onGround(t)
	c.Hover(11)
	assert.Equal(t, 11, c.View().Scene.Highlight.ItemID)
	c.Unhover()
	assert.Nil(t, c.View().Scene.Highlight)

	c.Hover(404)
	assert.Zero(t, c.Snapshot().HoverID)

	require.NoError(t, c.OpenEdit(12))
	c.Unhover()
	assert.Equal(t, 12, c.Snapshot().HoverID, "edited item stays highlighted")
}

func TestController_NoticeExpires(t *testing.T) {
	c, _, _, clk := onGround(t)
	_ = c.OpenCreate()
	require.NotNil(t, c.View().Notice)

	clk.t = clk.t.Add(NoticeTTL + time.Millisecond)
	assert.Nil(t, c.View().Notice)
}

func TestController_ReadOnly(t *testing.T) {
	gw := newFakeGateway()
	c := New(gw, Options{})
	require.NoError(t, c.SelectMap(context.Background(), 1))
	before := gw.callCount()

	assert.ErrorIs(t, c.OpenEdit(11), ErrNotPrivileged)
	assert.ErrorIs(t, c.Submit(context.Background(), Fields{Name: "x"}), ErrNotPrivileged)
	assert.ErrorIs(t, c.Delete(context.Background(), 11), ErrNotPrivileged)
	_, err := c.BulkCatalog(context.Background(), "Hammer")
	assert.ErrorIs(t, err, ErrNotPrivileged)
	assert.Equal(t, before, gw.callCount())
}

func TestController_BulkCatalog(t *testing.T) {
	c, gw, bus, _ := onGround(t)

	n, err := c.BulkCatalog(context.Background(), "Hammer,tools,2,A claw hammer,\n,tools,2\nTape,,x")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []mapclient.CatalogEntry{
		{Name: "Hammer", Tags: "tools", Quantity: 2, Description: "A claw hammer"},
		{Name: "Tape", Quantity: 1},
	}, gw.catalog)
	assert.Equal(t, "Added 2 items", c.Snapshot().Notice.Message)
	assert.Len(t, c.Snapshot().Items, 4)
	require.Len(t, bus.events, 1)
	assert.Equal(t, "bulk", bus.events[0].Action)
}

func TestController_BulkEmpty(t *testing.T) {
	c, gw, _, _ := onGround(t)
	before := gw.callCount()

	_, err := c.BulkCatalog(context.Background(), "\n , tools\n")
	require.ErrorIs(t, err, bulk.ErrNoValidItems)
	assert.Equal(t, before, gw.callCount())
	assert.Equal(t, "No valid items found", c.Snapshot().Notice.Message)
	assert.False(t, c.Busy(ActionBulk))
}

func TestController_BulkPlacedPartialFailure(t *testing.T) {
	c, gw, _, _ := onGround(t)
	gw.failCreate["Saw"] = errors.New("connection reset")

	text := "Vice,tools,10,20,blue\nSaw,tools,30,40\nClamp,,50,60,,B,3"
	report, err := c.BulkPlaced(context.Background(), text)
	require.Error(t, err)

	assert.Equal(t, 2, report.Added())
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].Line)
	assert.Equal(t, "Saw", failed[0].Name)

	st := c.Snapshot()
	assert.Equal(t, NoticeError, st.Notice.Kind)
	assert.Contains(t, st.Notice.Message, "Added 2 of 3 items")
	assert.Contains(t, st.Notice.Message, "line 2 (Saw)")
	assert.ElementsMatch(t, []string{"Clamp", "Drill", "Vice", "wrench"}, itemNames(st))

	var clamp mapclient.ItemInput
	for _, in := range gw.created {
		if in.Name == "Clamp" {
			clamp = in
		}
	}
	assert.Equal(t, 50.0, clamp.X)
	assert.Equal(t, "B", clamp.Zone)
	assert.Equal(t, 3, clamp.Quantity)
	assert.Equal(t, "red", clamp.Color)
}

func TestController_BulkPlaced(t *testing.T) {
	c, _, _, _ := onGround(t)
	report, err := c.BulkPlaced(context.Background(), "Vice,tools,10,20\nSaw,tools,30,40")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added())
	assert.Equal(t, "Added 2 items", c.Snapshot().Notice.Message)
}

func TestNoticeText(t *testing.T) {
	assert.Equal(t, "Please select a map first", NoticeText(ErrNoMap))
	assert.Equal(t, "Please select a location on the map first", NoticeText(fmt.Errorf("submit: %w", ErrNoLocation)))
	assert.Equal(t, "boom", NoticeText(errors.New("boom")))
}
