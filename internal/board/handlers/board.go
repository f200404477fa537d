package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/gofiber/fiber/v3"
	log "github.com/sirupsen/logrus"

	"moodboard/internal/board/export"
	"moodboard/internal/board/interaction"
	"moodboard/internal/board/layering"
	"moodboard/internal/board/models"
	"moodboard/internal/board/render"
	"moodboard/internal/board/service"
)

// ============================================================
// Board Handler
// ============================================================

type BoardHandler struct {
	boards   *service.Registry
	assets   *service.AssetStorage
	exporter *export.Exporter
	svg      *render.SVGRenderer
	width    float64
	height   float64
}

func NewBoardHandler(boards *service.Registry, assets *service.AssetStorage, exporter *export.Exporter, width, height float64) *BoardHandler {
	return &BoardHandler{
		boards:   boards,
		assets:   assets,
		exporter: exporter,
		svg:      render.NewSVGRenderer(),
		width:    width,
		height:   height,
	}
}

// Register mounts the board routes.
func (h *BoardHandler) Register(app *fiber.App) {
	app.Get("/boards/:owner", h.GetBoard)
	app.Get("/boards/:owner/items/:id", h.GetItem)
	app.Post("/boards/:owner/images", h.UploadImage)
	app.Post("/boards/:owner/texts", h.AddText)
	app.Patch("/boards/:owner/items/:id", h.UpdateItem)
	app.Delete("/boards/:owner/items/:id", h.RemoveItem)
	app.Post("/boards/:owner/pointer", h.DispatchPointer)
	app.Post("/boards/:owner/items/:id/pointer", h.Pointer)
	app.Post("/boards/:owner/items/:id/layer/:op", h.Layer)
	app.Put("/boards/:owner/background", h.SetBackground)
	app.Get("/boards/:owner/export", h.Export)
	app.Get("/boards/:owner/svg", h.SVG)
}

type boardPayload struct {
	OwnerID    string          `json:"ownerId"`
	Background string          `json:"background"`
	Items      []models.Record `json:"items"`
}

type pointerResponse struct {
	ItemID  string              `json:"itemId,omitempty"`
	Handled bool                `json:"handled"`
	Outcome interaction.Outcome `json:"outcome"`
	Item    *models.Record      `json:"item,omitempty"`
}

type backgroundRequest struct {
	Color string `json:"color"`
}

var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// owner validates the :owner path segment; it also names the directory
// uploads go to.
func (h *BoardHandler) owner(c fiber.Ctx) (string, bool) {
	owner := c.Params("owner")
	if !ownerPattern.MatchString(owner) {
		return "", false
	}
	c.Locals("owner", owner)
	return owner, true
}

func badOwner(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid owner id"})
}

// GetBoard returns the items in paint order and the background.
func (h *BoardHandler) GetBoard(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	var payload boardPayload
	h.boards.With(owner, func(s *service.Store) { payload = snapshot(s) })
	return c.JSON(payload)
}

func (h *BoardHandler) GetItem(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	var (
		it    models.BoardItem
		found bool
	)
	h.boards.With(owner, func(s *service.Store) { it, found = s.Item(c.Params("id")) })
	if !found {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	return c.JSON(models.ToRecord(it))
}

// UploadImage stores the multipart "file" and adds an image item showing it.
func (h *BoardHandler) UploadImage(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}
	if !service.Allowed(fileHeader.Filename) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "only png, jpeg, gif or webp allowed"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	ref, err := h.assets.SaveImage(owner, fileHeader.Filename, data)
	if err != nil {
		log.Errorf("[BOARD] %s: save image: %v", owner, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	var it models.BoardItem
	h.boards.With(owner, func(s *service.Store) { it = s.AddImage(ref) })
	return c.Status(http.StatusCreated).JSON(models.ToRecord(it))
}

func (h *BoardHandler) AddText(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	var it models.BoardItem
	h.boards.With(owner, func(s *service.Store) { it = s.AddText() })
	return c.Status(http.StatusCreated).JSON(models.ToRecord(it))
}

// UpdateItem applies an ItemPatch. Unknown ids leave the board untouched.
func (h *BoardHandler) UpdateItem(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	var patch service.ItemPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	var payload boardPayload
	h.boards.With(owner, func(s *service.Store) {
		s.Update(c.Params("id"), patch)
		payload = snapshot(s)
	})
	return c.JSON(payload)
}

func (h *BoardHandler) RemoveItem(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	var payload boardPayload
	h.boards.With(owner, func(s *service.Store) {
		s.Remove(c.Params("id"))
		payload = snapshot(s)
	})
	return c.JSON(payload)
}

// Pointer feeds one event to the controller of a specific item.
func (h *BoardHandler) Pointer(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	ev, err := parsePointer(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id := c.Params("id")
	var resp pointerResponse
	h.boards.With(owner, func(s *service.Store) {
		out, handled := s.HandlePointer(id, ev)
		resp = pointerResult(s, id, out, handled)
	})
	return c.JSON(resp)
}

// DispatchPointer feeds a board-level event: a pointer-down picks the
// front-most item under it, later events follow the captured pointer.
func (h *BoardHandler) DispatchPointer(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	ev, err := parsePointer(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var resp pointerResponse
	h.boards.With(owner, func(s *service.Store) {
		id, out, handled := s.DispatchPointer(ev)
		resp = pointerResult(s, id, out, handled)
	})
	return c.JSON(resp)
}

func (h *BoardHandler) Layer(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	op := layering.Op(c.Params("op"))
	if !op.Valid() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "layer op must be front, back, forward or backward"})
	}

	var payload boardPayload
	h.boards.With(owner, func(s *service.Store) {
		s.Reorder(op, c.Params("id"))
		payload = snapshot(s)
	})
	return c.JSON(payload)
}

func (h *BoardHandler) SetBackground(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	var req backgroundRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if !models.IsHexColor(req.Color) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "color must be #rgb or #rrggbb"})
	}

	var payload boardPayload
	h.boards.With(owner, func(s *service.Store) {
		s.SetBackground(req.Color)
		payload = snapshot(s)
	})
	return c.JSON(payload)
}

// Export sends the board as a PNG attachment. The board lock is held only
// while the items are copied.
func (h *BoardHandler) Export(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	surface, background := h.surface(owner)
	dl, ok := h.exporter.Export(c.Context(), surface, background)
	if !ok {
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "export failed"})
	}

	c.Attachment(dl.Filename)
	c.Set("Content-Type", dl.ContentType)
	return c.Send(dl.Data)
}

func (h *BoardHandler) SVG(c fiber.Ctx) error {
	owner, ok := h.owner(c)
	if !ok {
		return badOwner(c)
	}

	surface, background := h.surface(owner)
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(h.svg.Render(surface, background))
}

func (h *BoardHandler) surface(owner string) (export.Surface, string) {
	var (
		surface    export.Surface
		background string
	)
	h.boards.With(owner, func(s *service.Store) {
		surface = export.Surface{Items: s.Items(), Width: h.width, Height: h.height}
		background = s.Background()
	})
	return surface, background
}

// ============================================================
// Helpers
// ============================================================

func snapshot(s *service.Store) boardPayload {
	items := s.Items()
	records := make([]models.Record, 0, len(items))
	for _, it := range items {
		records = append(records, models.ToRecord(it))
	}
	return boardPayload{
		OwnerID:    s.OwnerID(),
		Background: s.Background(),
		Items:      records,
	}
}

func pointerResult(s *service.Store, id string, out interaction.Outcome, handled bool) pointerResponse {
	resp := pointerResponse{ItemID: id, Handled: handled, Outcome: out}
	if it, ok := s.Item(id); ok && handled {
		rec := models.ToRecord(it)
		resp.Item = &rec
	}
	return resp
}

var (
	errPointerJSON  = errors.New("invalid json")
	errPointerPhase = errors.New("phase must be down, move, up, cancel or leave")
)

func parsePointer(body []byte) (interaction.PointerEvent, error) {
	var ev interaction.PointerEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, errPointerJSON
	}
	if !ev.Phase.Valid() {
		return ev, errPointerPhase
	}
	return ev, nil
}
