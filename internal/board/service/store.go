package service

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"moodboard/internal/board/geometry"
	"moodboard/internal/board/interaction"
	"moodboard/internal/board/layering"
	"moodboard/internal/board/models"
	"moodboard/internal/board/repository"
)

// ============================================================
// Board Store
// ============================================================

// Store holds one owner's board: the ordered items and the background.
// Every mutation is written through to the repository before returning.
// A Store is not safe for concurrent use; Registry serializes access.
type Store struct {
	ownerID string
	repo    repository.Repository

	items      []models.BoardItem
	background string

	controllers map[string]*interaction.Controller
	captures    map[int]string

	newID func() string
	now   func() time.Time
}

type StoreOption func(*Store)

// WithIDs replaces the uuid item id generator.
func WithIDs(gen func() string) StoreOption {
	return func(s *Store) { s.newID = gen }
}

// WithClock is handed to every item controller.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore opens ownerID's board from repo.
func NewStore(ownerID string, repo repository.Repository, opts ...StoreOption) *Store {
	s := &Store{
		ownerID:     ownerID,
		repo:        repo,
		controllers: make(map[string]*interaction.Controller),
		captures:    make(map[int]string),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = repo.Load(ownerID)
	return s
}

func (s *Store) OwnerID() string { return s.ownerID }

// Items returns the board back-to-front.
func (s *Store) Items() []models.BoardItem {
	return append([]models.BoardItem(nil), s.items...)
}

func (s *Store) Item(id string) (models.BoardItem, bool) {
	if i := layering.IndexOf(s.items, id); i >= 0 {
		return s.items[i], true
	}
	return models.BoardItem{}, false
}

// ItemAt returns the front-most item under a board-space point.
func (s *Store) ItemAt(x, y float64) (models.BoardItem, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if geometry.Contains(s.items[i].Geometry(), x, y) {
			return s.items[i], true
		}
	}
	return models.BoardItem{}, false
}

// ============================================================
// Item lifecycle
// ============================================================

func (s *Store) AddImage(ref string) models.BoardItem {
	it := models.NewImage(s.newID(), ref, s.nextSlot())
	return s.add(it)
}

// AddText adds a text item colored for the current background.
func (s *Store) AddText() models.BoardItem {
	it := models.NewText(s.newID(), s.Background(), s.nextSlot())
	return s.add(it)
}

func (s *Store) add(it models.BoardItem) models.BoardItem {
	s.items = append(s.items, it)
	s.persist()
	log.Infof("[BOARD] %s: added %s item %s", s.ownerID, it.Type, it.ID)
	return it
}

// nextSlot cascades new items so they do not land exactly on top of each
// other.
func (s *Store) nextSlot() models.Point {
	offset := 40 + float64(len(s.items)%8)*24
	return models.Point{X: offset, Y: offset}
}

func (s *Store) Remove(id string) bool {
	i := layering.IndexOf(s.items, id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	delete(s.controllers, id)
	for pointerID, itemID := range s.captures {
		if itemID == id {
			delete(s.captures, pointerID)
		}
	}
	s.persist()
	log.Infof("[BOARD] %s: removed item %s", s.ownerID, id)
	return true
}

// ItemPatch edits an item's payload. Nil fields are left alone; fields of
// the other variant are ignored.
type ItemPatch struct {
	Text         *string  `json:"text,omitempty"`
	TextColor    *string  `json:"textColor,omitempty"`
	FontSize     *float64 `json:"fontSize,omitempty"`
	FontFamily   *string  `json:"fontFamily,omitempty"`
	ImageRef     *string  `json:"imageUrl,omitempty"`
	BorderRadius *float64 `json:"borderRadius,omitempty"`
}

func (s *Store) Update(id string, patch ItemPatch) (models.BoardItem, bool) {
	i := layering.IndexOf(s.items, id)
	if i < 0 {
		return models.BoardItem{}, false
	}

	it := s.items[i]
	if patch.BorderRadius != nil {
		it.BorderRadius = max(0, *patch.BorderRadius)
	}
	switch it.Type {
	case models.ItemText:
		if patch.Text != nil {
			it.Text = *patch.Text
		}
		if patch.TextColor != nil && models.IsHexColor(*patch.TextColor) {
			it.TextColor = *patch.TextColor
		}
		if patch.FontSize != nil {
			it.FontSize = max(models.MinFontSize, *patch.FontSize)
		}
		if patch.FontFamily != nil && *patch.FontFamily != "" {
			it.FontFamily = *patch.FontFamily
		}
	case models.ItemImage:
		if patch.ImageRef != nil && *patch.ImageRef != "" {
			it.ImageRef = *patch.ImageRef
		}
	}

	if it == s.items[i] {
		return it, true
	}
	s.items[i] = it
	s.persist()
	return it, true
}

// SetGeometry places an item. Dimensions are held at models.MinSize or
// above.
func (s *Store) SetGeometry(id string, g models.Geometry) {
	i := layering.IndexOf(s.items, id)
	if i < 0 {
		return
	}
	g.Width = max(models.MinSize, g.Width)
	g.Height = max(models.MinSize, g.Height)
	if s.items[i].Geometry() == g {
		return
	}
	s.items[i] = s.items[i].WithGeometry(g)
	s.persist()
}

// ============================================================
// Layering
// ============================================================

func (s *Store) BringToFront(id string) bool { return s.Reorder(layering.Front, id) }
func (s *Store) SendToBack(id string) bool   { return s.Reorder(layering.Back, id) }
func (s *Store) MoveForward(id string) bool  { return s.Reorder(layering.Forward, id) }
func (s *Store) MoveBackward(id string) bool { return s.Reorder(layering.Backward, id) }

// Reorder applies a layering op. Unknown ids and boundary moves are no-ops
// and write nothing.
func (s *Store) Reorder(op layering.Op, id string) bool {
	out, changed := layering.Apply(op, s.items, id)
	if !changed {
		return false
	}
	s.items = out
	s.persist()
	log.Debugf("[BOARD] %s: %s %s", s.ownerID, op, id)
	return true
}

// ============================================================
// Background
// ============================================================

// Background loads the color on first use.
func (s *Store) Background() string {
	if s.background == "" {
		s.background = s.repo.LoadBackground(s.ownerID)
	}
	return s.background
}

// SetBackground ignores values that are not hex colors.
func (s *Store) SetBackground(color string) bool {
	if !models.IsHexColor(color) {
		return false
	}
	if s.Background() == color {
		return true
	}
	s.background = color
	s.repo.SaveBackground(s.ownerID, color)
	return true
}

// ============================================================
// Pointer interaction
// ============================================================

// Controller returns the item's controller, creating it on first use.
func (s *Store) Controller(id string) (*interaction.Controller, bool) {
	if c, ok := s.controllers[id]; ok {
		return c, true
	}
	if layering.IndexOf(s.items, id) < 0 {
		return nil, false
	}
	c := interaction.New(id, s,
		interaction.WithClock(s.now),
		interaction.WithCapturer(itemCapture{store: s, itemID: id}))
	s.controllers[id] = c
	return c, true
}

// HandlePointer routes ev to the item's controller.
func (s *Store) HandlePointer(id string, ev interaction.PointerEvent) (interaction.Outcome, bool) {
	c, ok := s.Controller(id)
	if !ok {
		return interaction.Outcome{State: interaction.Idle}, false
	}
	return c.Handle(ev), true
}

// DispatchPointer routes a board-level event: captured pointers go to the
// item holding them, a fresh pointer-down goes to the front-most item under
// it. It returns the item id that handled the event, if any.
func (s *Store) DispatchPointer(ev interaction.PointerEvent) (string, interaction.Outcome, bool) {
	id, captured := s.captures[ev.PointerID]
	if !captured {
		if ev.Phase != interaction.PhaseDown {
			return "", interaction.Outcome{State: interaction.Idle}, false
		}
		it, ok := s.ItemAt(ev.X, ev.Y)
		if !ok {
			return "", interaction.Outcome{State: interaction.Idle}, false
		}
		id = it.ID
	}
	out, ok := s.HandlePointer(id, ev)
	return id, out, ok
}

// CapturedBy reports which item holds a pointer.
func (s *Store) CapturedBy(pointerID int) (string, bool) {
	id, ok := s.captures[pointerID]
	return id, ok
}

type itemCapture struct {
	store  *Store
	itemID string
}

// Capture takes the pointer over; an item still holding it from a lost up
// is cancelled first.
func (c itemCapture) Capture(pointerID int) {
	if prev, ok := c.store.captures[pointerID]; ok && prev != c.itemID {
		if ctl, ok := c.store.controllers[prev]; ok {
			ctl.Abort()
		}
	}
	c.store.captures[pointerID] = c.itemID
}

func (c itemCapture) Release(pointerID int) {
	if c.store.captures[pointerID] == c.itemID {
		delete(c.store.captures, pointerID)
	}
}

func (s *Store) persist() {
	s.repo.Save(s.ownerID, s.items)
}
