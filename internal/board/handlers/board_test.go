package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"moodboard/internal/board/export"
	"moodboard/internal/board/models"
	"moodboard/internal/board/repository"
	"moodboard/internal/board/service"
)

type testBoard struct {
	app    *fiber.App
	assets *service.AssetStorage
}

func newTestBoard(t *testing.T, r export.Rasterizer) testBoard {
	t.Helper()

	repo := repository.NewPersistence(repository.NewMemory())
	registry := service.NewRegistry(repo)
	assets := service.NewAssetStorage(t.TempDir(), "/assets")
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	exporter := export.NewExporter(r, export.WithClock(clock))

	app := fiber.New()
	NewBoardHandler(registry, assets, exporter, 600, 400).Register(app)
	return testBoard{app: app, assets: assets}
}

func pngRasterizer() export.Rasterizer {
	return export.RasterizerFunc(func(context.Context, export.Surface, export.Options) ([]byte, error) {
		return []byte("png-bytes"), nil
	})
}

func (b testBoard) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := b.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status %d, want %d: %s", resp.StatusCode, want, body)
	}
}

func TestGetEmptyBoard(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())

	resp := b.do(t, http.MethodGet, "/boards/alice", nil)
	expectStatus(t, resp, http.StatusOK)

	board := decode[boardPayload](t, resp)
	if board.OwnerID != "alice" || len(board.Items) != 0 || board.Background != models.DefaultBackground {
		t.Fatalf("unexpected board %+v", board)
	}
}

func TestRejectsBadOwner(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())

	resp := b.do(t, http.MethodGet, "/boards/al.ice", nil)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestAddTextAndPatch(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())

	resp := b.do(t, http.MethodPost, "/boards/alice/texts", nil)
	expectStatus(t, resp, http.StatusCreated)
	rec := decode[models.Record](t, resp)
	if rec.Type != models.ItemText || rec.TextColor != models.DarkTextColor {
		t.Fatalf("unexpected text item %+v", rec)
	}

	resp = b.do(t, http.MethodPatch, "/boards/alice/items/"+rec.ID, map[string]any{"text": "hello", "fontSize": 2})
	expectStatus(t, resp, http.StatusOK)
	board := decode[boardPayload](t, resp)
	if len(board.Items) != 1 || board.Items[0].Text == nil || *board.Items[0].Text != "hello" {
		t.Fatalf("text not updated: %+v", board.Items)
	}
	if board.Items[0].FontSize != models.MinFontSize {
		t.Fatalf("font size %v, want %v", board.Items[0].FontSize, models.MinFontSize)
	}

	resp = b.do(t, http.MethodGet, "/boards/alice/items/"+rec.ID, nil)
	expectStatus(t, resp, http.StatusOK)
}

func TestUnknownItemMutationsAreNoOps(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())
	b.do(t, http.MethodPost, "/boards/alice/texts", nil).Body.Close()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPatch, "/boards/alice/items/ghost"},
		{http.MethodDelete, "/boards/alice/items/ghost"},
		{http.MethodPost, "/boards/alice/items/ghost/layer/front"},
	} {
		resp := b.do(t, tc.method, tc.path, map[string]any{})
		expectStatus(t, resp, http.StatusOK)
		if board := decode[boardPayload](t, resp); len(board.Items) != 1 {
			t.Fatalf("%s %s changed the board: %+v", tc.method, tc.path, board.Items)
		}
	}

	resp := b.do(t, http.MethodGet, "/boards/alice/items/ghost", nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestMalformedBodies(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())
	rec := decode[models.Record](t, b.do(t, http.MethodPost, "/boards/alice/texts", nil))

	req := httptest.NewRequest(http.MethodPatch, "/boards/alice/items/"+rec.ID, strings.NewReader("{"))
	resp, err := b.app.Test(req)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	expectStatus(t, resp, http.StatusBadRequest)

	resp = b.do(t, http.MethodPost, "/boards/alice/items/"+rec.ID+"/pointer", map[string]any{"phase": "hover"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = b.do(t, http.MethodPost, "/boards/alice/items/"+rec.ID+"/layer/sideways", nil)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = b.do(t, http.MethodPut, "/boards/alice/background", map[string]any{"color": "blue"})
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestPointerDragMovesItem(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())
	rec := decode[models.Record](t, b.do(t, http.MethodPost, "/boards/alice/texts", nil))
	path := "/boards/alice/items/" + rec.ID + "/pointer"

	// The text item sits at (40,40) and is 240x80; (150,80) is inside the
	// move zone.
	resp := b.do(t, http.MethodPost, path, map[string]any{"pointerId": 1, "x": 150, "y": 80, "phase": "down"})
	expectStatus(t, resp, http.StatusOK)
	down := decode[pointerResponse](t, resp)
	if !down.Handled || down.Outcome.State != "moving" || !down.Outcome.OpenEditor {
		t.Fatalf("unexpected down outcome %+v", down)
	}

	resp = b.do(t, http.MethodPost, path, map[string]any{"pointerId": 1, "x": 170, "y": 110, "phase": "move"})
	moved := decode[pointerResponse](t, resp)
	if moved.Item == nil || moved.Item.X != 60 || moved.Item.Y != 70 {
		t.Fatalf("unexpected move result %+v", moved)
	}

	b.do(t, http.MethodPost, path, map[string]any{"pointerId": 1, "x": 170, "y": 110, "phase": "up"}).Body.Close()

	board := decode[boardPayload](t, b.do(t, http.MethodGet, "/boards/alice", nil))
	if board.Items[0].X != 60 || board.Items[0].Y != 70 {
		t.Fatalf("drag not persisted: %+v", board.Items[0])
	}
}

func TestBoardPointerPicksItemUnderCursor(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())
	first := decode[models.Record](t, b.do(t, http.MethodPost, "/boards/alice/texts", nil))
	second := decode[models.Record](t, b.do(t, http.MethodPost, "/boards/alice/texts", nil))

	// Both overlap at (150,100); the later one is in front.
	resp := b.do(t, http.MethodPost, "/boards/alice/pointer", map[string]any{"pointerId": 2, "x": 150, "y": 100, "phase": "down"})
	got := decode[pointerResponse](t, resp)
	if got.ItemID != second.ID {
		t.Fatalf("picked %q, want %q (first was %q)", got.ItemID, second.ID, first.ID)
	}

	resp = b.do(t, http.MethodPost, "/boards/alice/pointer", map[string]any{"pointerId": 2, "x": 1000, "y": 700, "phase": "up"})
	if got := decode[pointerResponse](t, resp); got.ItemID != second.ID || !got.Handled {
		t.Fatalf("captured up not routed: %+v", got)
	}

	resp = b.do(t, http.MethodPost, "/boards/alice/pointer", map[string]any{"pointerId": 3, "x": 1000, "y": 700, "phase": "down"})
	if got := decode[pointerResponse](t, resp); got.Handled {
		t.Fatalf("empty space handled: %+v", got)
	}
}

func TestLayerAndBackground(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())
	first := decode[models.Record](t, b.do(t, http.MethodPost, "/boards/alice/texts", nil))
	b.do(t, http.MethodPost, "/boards/alice/texts", nil).Body.Close()

	board := decode[boardPayload](t, b.do(t, http.MethodPost, "/boards/alice/items/"+first.ID+"/layer/front", nil))
	if board.Items[len(board.Items)-1].ID != first.ID {
		t.Fatalf("item not brought to front: %+v", board.Items)
	}

	board = decode[boardPayload](t, b.do(t, http.MethodPut, "/boards/alice/background", map[string]any{"color": "#111111"}))
	if board.Background != "#111111" {
		t.Fatalf("background %q", board.Background)
	}

	third := decode[models.Record](t, b.do(t, http.MethodPost, "/boards/alice/texts", nil))
	if third.TextColor != models.LightTextColor {
		t.Fatalf("text on dark background colored %q", third.TextColor)
	}
}

func TestUploadImage(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "cat.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte("not really a png"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/boards/alice/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := b.app.Test(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	expectStatus(t, resp, http.StatusCreated)

	rec := decode[models.Record](t, resp)
	if rec.Type != models.ItemImage || !strings.HasPrefix(rec.ImageURL, "/assets/alice/") {
		t.Fatalf("unexpected image item %+v", rec)
	}
	path, ok := b.assets.Path(rec.ImageURL)
	if !ok {
		t.Fatalf("ref %q does not resolve", rec.ImageURL)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("asset not written: %v", err)
	}
	if filepath.Dir(path) != b.assets.OwnerDir("alice") {
		t.Fatalf("asset stored at %s", path)
	}
}

func TestUploadRejectsOtherFiles(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	fw.Write([]byte("hello"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/boards/alice/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := b.app.Test(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestExportDownload(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())

	resp := b.do(t, http.MethodGet, "/boards/alice/export", nil)
	expectStatus(t, resp, http.StatusOK)
	defer resp.Body.Close()

	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, "moodboard-2024-05-01.png") {
		t.Fatalf("content disposition %q", disposition)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if string(data) != "png-bytes" {
		t.Fatalf("body %q", data)
	}
}

func TestExportFailure(t *testing.T) {
	failing := export.RasterizerFunc(func(context.Context, export.Surface, export.Options) ([]byte, error) {
		return nil, errors.New("canvas unavailable")
	})
	b := newTestBoard(t, failing)

	resp := b.do(t, http.MethodGet, "/boards/alice/export", nil)
	expectStatus(t, resp, http.StatusBadGateway)
	if d := resp.Header.Get("Content-Disposition"); d != "" {
		t.Fatalf("failed export sent disposition %q", d)
	}
}

func TestSVGRendition(t *testing.T) {
	b := newTestBoard(t, pngRasterizer())
	b.do(t, http.MethodPost, "/boards/alice/texts", nil).Body.Close()

	resp := b.do(t, http.MethodGet, "/boards/alice/svg", nil)
	expectStatus(t, resp, http.StatusOK)
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Fatalf("content type %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), `width="600"`) || !strings.Contains(string(data), models.DefaultText) {
		t.Fatalf("unexpected svg:\n%s", data)
	}
}
