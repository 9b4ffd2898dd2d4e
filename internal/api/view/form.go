package view

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-floormap/internal/humastar"
	"github.com/joeblew999/plat-floormap/internal/mapview"
	"github.com/joeblew999/plat-floormap/pkg/mapclient"
)

// maxImageBytes bounds an attached item image.
const maxImageBytes = 8 << 20

// OpenForm opens the add form at the selected location.
func (h *Handler) OpenForm(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	return h.dispatch("open-form", input.Session, partBoard|partForm|partNotice, "",
		func(_ context.Context, c *mapview.Controller, sse humastar.SSE) error {
			if err := c.OpenCreate(); err != nil {
				return err
			}
			sse.Signals(ResetFieldSignals())
			return nil
		}), nil
}

// EditForm opens the form pre-filled from an item.
func (h *Handler) EditForm(ctx context.Context, input *ItemInput) (*huma.StreamResponse, error) {
	return h.dispatch("edit-form", input.Session, partBoard|partList|partForm|partNotice, "",
		func(_ context.Context, c *mapview.Controller, sse humastar.SSE) error {
			if err := c.OpenEdit(input.ID); err != nil {
				return err
			}
			sse.Signals(FieldSignals(c.Snapshot().Form.Fields))
			return nil
		}), nil
}

// CancelForm closes the form and drops the selection.
func (h *Handler) CancelForm(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	return h.dispatch("cancel-form", input.Session, partBoard|partList|partForm, "",
		func(_ context.Context, c *mapview.Controller, sse humastar.SSE) error {
			c.Cancel()
			sse.Signals(ResetFieldSignals())
			return nil
		}), nil
}

// ClearForm closes the form and clears the selection, highlight and notice.
func (h *Handler) ClearForm(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	return h.dispatch("clear-form", input.Session, partBoard|partList|partForm|partNotice, "",
		func(_ context.Context, c *mapview.Controller, sse humastar.SSE) error {
			c.Clear()
			sse.Signals(ResetFieldSignals())
			return nil
		}), nil
}

// Submit saves the form. The inputs keep their values on failure.
func (h *Handler) Submit(ctx context.Context, input *IntentInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}

	return h.dispatch("submit-form", input.Session, partBoard|partList|partForm|partNotice, mapview.ActionSubmit,
		func(ctx context.Context, c *mapview.Controller, sse humastar.SSE) error {
			fields := ParseFieldSignals(signals, c.Snapshot().Form.Fields.Warnings)
			if err := c.Submit(ctx, fields); err != nil {
				return err
			}
			sse.Signals(ResetFieldSignals())
			return nil
		}), nil
}

// ImageInput is the multipart upload of an item image.
type ImageInput struct {
	SessionInput
	RawBody multipart.Form
}

// AttachImage keeps an image to send with the next submit.
func (h *Handler) AttachImage(ctx context.Context, input *ImageInput) (*huma.StreamResponse, error) {
	files := input.RawBody.File["image"]
	if len(files) == 0 {
		return nil, huma.Error400BadRequest("No image provided")
	}
	upload, err := readUpload(files[0])
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to read uploaded image", err)
	}

	return h.dispatch("attach-image", input.Session, partForm|partNotice, "",
		func(_ context.Context, c *mapview.Controller, _ humastar.SSE) error {
			return c.AttachImage(upload)
		}), nil
}

func readUpload(fh *multipart.FileHeader) (mapclient.Upload, error) {
	if fh.Size > maxImageBytes {
		return mapclient.Upload{}, fmt.Errorf("image %q is larger than %d bytes", fh.Filename, maxImageBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return mapclient.Upload{}, fmt.Errorf("open %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return mapclient.Upload{}, fmt.Errorf("read %q: %w", fh.Filename, err)
	}
	if len(data) > maxImageBytes {
		return mapclient.Upload{}, fmt.Errorf("image %q is larger than %d bytes", fh.Filename, maxImageBytes)
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return mapclient.Upload{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}
