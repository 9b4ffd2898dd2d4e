package mapclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Observer receives one call per completed request. status is the HTTP
// status code, or "error" for transport failures.
type Observer interface {
	ObserveGatewayCall(op, status string, d time.Duration)
}

// Client talks to the inventory API. It never retries; callers decide.
type Client struct {
	baseURL  string
	http     *http.Client
	log      zerolog.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithObserver reports request outcomes, typically to Prometheus.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the API rooted at baseURL (e.g. http://127.0.0.1:5000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListMaps returns every map known to the API.
func (c *Client) ListMaps(ctx context.Context) ([]MapSummary, error) {
	var maps []MapSummary
	if err := c.do(ctx, "list maps", http.MethodGet, "/api/maps", nil, "", &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// GetMap returns one map's metadata.
func (c *Client) GetMap(ctx context.Context, id int) (Map, error) {
	var m Map
	if err := c.do(ctx, "get map", http.MethodGet, "/api/maps/"+strconv.Itoa(id), nil, "", &m); err != nil {
		return Map{}, err
	}
	if m.ID == 0 {
		m.ID = id
	}
	return m, nil
}

// ListItems returns the items of a map.
func (c *Client) ListItems(ctx context.Context, mapID int) ([]Item, error) {
	q := url.Values{"map_id": {strconv.Itoa(mapID)}}
	return c.items(ctx, "list items", "/api/items?"+q.Encode())
}

// SearchItems runs a free-text search scoped to a map.
func (c *Client) SearchItems(ctx context.Context, sq SearchQuery) ([]Item, error) {
	if sq.Type == "" {
		sq.Type = SearchAll
	}
	q := url.Values{
		"q":      {sq.Query},
		"type":   {string(sq.Type)},
		"map_id": {strconv.Itoa(sq.MapID)},
	}
	return c.items(ctx, "search items", "/api/search?"+q.Encode())
}

func (c *Client) items(ctx context.Context, op, path string) ([]Item, error) {
	var items []Item
	if err := c.do(ctx, op, http.MethodGet, path, nil, "", &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].normalize()
	}
	return items, nil
}

// CreateItem posts a new item. The request is JSON unless an image is attached.
func (c *Client) CreateItem(ctx context.Context, in ItemInput) (Item, error) {
	var (
		body        io.Reader
		contentType string
	)
	if in.Image == nil {
		data, err := json.Marshal(in)
		if err != nil {
			return Item{}, fmt.Errorf("create item: encode: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	} else {
		fields := map[string]string{
			"name":        in.Name,
			"tags":        in.Tags,
			"x_coord":     formatFloat(in.X),
			"y_coord":     formatFloat(in.Y),
			"map_id":      strconv.Itoa(in.MapID),
			"quantity":    strconv.Itoa(in.Quantity),
			"color":       in.Color,
			"zone":        in.Zone,
			"warning":     in.Warning,
			"description": in.Description,
			"link":        in.Link,
		}
		buf, ct, err := encodeMultipart(fields, in.Image)
		if err != nil {
			return Item{}, fmt.Errorf("create item: %w", err)
		}
		body, contentType = buf, ct
	}

	var created Item
	if err := c.do(ctx, "create item", http.MethodPost, "/api/items", body, contentType, &created); err != nil {
		return Item{}, err
	}
	created.normalize()
	return created, nil
}

// UpdateItem sends a partial multipart update.
func (c *Client) UpdateItem(ctx context.Context, id int, p ItemPatch) (Item, error) {
	buf, ct, err := encodeMultipart(p.fields(), p.Image)
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	var updated Item
	if err := c.do(ctx, "update item", http.MethodPut, "/api/items/"+strconv.Itoa(id), buf, ct, &updated); err != nil {
		return Item{}, err
	}
	updated.normalize()
	return updated, nil
}

// DeleteItem removes an item and returns the API's confirmation message.
func (c *Client) DeleteItem(ctx context.Context, id int) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, "delete item", http.MethodDelete, "/api/items/"+strconv.Itoa(id), nil, "", &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// BulkCreate adds catalog entries to a map in one request and returns the added count.
func (c *Client) BulkCreate(ctx context.Context, mapID int, entries []CatalogEntry) (int, error) {
	data, err := json.Marshal(struct {
		MapID int            `json:"map_id"`
		Items []CatalogEntry `json:"items"`
	}{mapID, entries})
	if err != nil {
		return 0, fmt.Errorf("bulk create: encode: %w", err)
	}
	var resp struct {
		AddedCount int `json:"added_count"`
	}
	if err := c.do(ctx, "bulk create", http.MethodPost, "/api/bulk_items", bytes.NewReader(data), "application/json", &resp); err != nil {
		return 0, err
	}
	return resp.AddedCount, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, "error", start)
		c.log.Warn().Err(err).Str("op", op).Str("method", method).Str("path", path).Msg("inventory request failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	c.observe(op, strconv.Itoa(resp.StatusCode), start)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode, Message: errorMessage(data)}
		c.log.Warn().Str("op", op).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("inventory request rejected")
		return apiErr
	}

	c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("inventory request")
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

func (c *Client) observe(op, status string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveGatewayCall(op, status, time.Since(start))
	}
}

// errorMessage extracts {"error": ...} or {"message": ...} from an error body,
// falling back to the trimmed text.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func encodeMultipart(fields map[string]string, img *Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if img != nil {
		h := make(textproto.MIMEHeader)
		name := img.Filename
		if name == "" {
			name = "image"
		}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, name))
		ct := img.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("write image: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
