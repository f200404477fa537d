// Package interaction turns pointer events on a single board item into move
// and resize updates. Each item gets its own Controller; controllers of
// different items run independently.
package interaction

import (
	"time"

	log "github.com/sirupsen/logrus"

	"moodboard/internal/board/geometry"
	"moodboard/internal/board/models"
)

// ============================================================
// Pointer Events
// ============================================================

type Phase string

const (
	PhaseDown   Phase = "down"
	PhaseMove   Phase = "move"
	PhaseUp     Phase = "up"
	PhaseCancel Phase = "cancel"
	PhaseLeave  Phase = "leave"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseDown, PhaseMove, PhaseUp, PhaseCancel, PhaseLeave:
		return true
	}
	return false
}

// PointerEvent is a toolkit-neutral pointer sample. X and Y are in board
// space; Time may be zero, in which case the controller's clock is used.
type PointerEvent struct {
	PointerID int       `json:"pointerId"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Phase     Phase     `json:"phase"`
	Time      time.Time `json:"time"`
}

// Target is the board the controller manipulates.
type Target interface {
	Item(id string) (models.BoardItem, bool)
	BringToFront(id string) bool
	SetGeometry(id string, g models.Geometry)
}

// Capturer routes a pointer's later events to this controller even after it
// leaves the item's bounds.
type Capturer interface {
	Capture(pointerID int)
	Release(pointerID int)
}

// ============================================================
// Controller
// ============================================================

type State string

const (
	Idle     State = "idle"
	Moving   State = "moving"
	Resizing State = "resizing"
)

// Outcome reports what a single event did.
type Outcome struct {
	State      State           `json:"state"`
	Mode       geometry.Mode   `json:"mode,omitempty"`
	Tap        TapKind         `json:"tap,omitempty"`
	OpenEditor bool            `json:"openEditor"`
	Changed    bool            `json:"changed"`
	Geometry   models.Geometry `json:"geometry"`
}

type Controller struct {
	itemID  string
	target  Target
	capture Capturer
	now     func() time.Time

	state     State
	mode      geometry.Mode
	pointerID int
	startX    float64
	startY    float64
	startGeom models.Geometry

	taps TapDetector
}

type Option func(*Controller)

// WithCapturer sets the pointer-capture hook.
func WithCapturer(c Capturer) Option {
	return func(ctl *Controller) { ctl.capture = c }
}

// WithClock overrides time.Now for events that carry no timestamp.
func WithClock(now func() time.Time) Option {
	return func(ctl *Controller) { ctl.now = now }
}

func New(itemID string, target Target, opts ...Option) *Controller {
	c := &Controller{
		itemID: itemID,
		target: target,
		now:    time.Now,
		state:  Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) ItemID() string { return c.itemID }

func (c *Controller) State() State { return c.state }

// Active reports whether a pointer interaction is in progress.
func (c *Controller) Active() bool { return c.state != Idle }

// Handle feeds one pointer event through the state machine.
func (c *Controller) Handle(ev PointerEvent) Outcome {
	switch ev.Phase {
	case PhaseDown:
		return c.down(ev)
	case PhaseMove:
		return c.move(ev)
	case PhaseUp, PhaseCancel, PhaseLeave:
		return c.end(ev)
	}
	return c.outcome()
}

func (c *Controller) down(ev PointerEvent) Outcome {
	if c.Active() {
		if ev.PointerID != c.pointerID {
			// One pointer per item at a time.
			return c.outcome()
		}
		// The held pointer went down again, so its up was lost.
		log.Debugf("[BOARD] item %s pointer %d down while held, restarting", c.itemID, ev.PointerID)
		c.reset()
	}
	if _, ok := c.target.Item(c.itemID); !ok {
		return c.outcome()
	}

	at := ev.Time
	if at.IsZero() {
		at = c.now()
	}
	tap := c.taps.Tap(at)

	c.target.BringToFront(c.itemID)
	item, ok := c.target.Item(c.itemID)
	if !ok {
		return c.outcome()
	}

	if c.capture != nil {
		c.capture.Capture(ev.PointerID)
	}

	g := item.Geometry()
	c.pointerID = ev.PointerID
	c.startX, c.startY = ev.X, ev.Y
	c.mode = geometry.ResolveMode(ev.X-g.X, ev.Y-g.Y, g.Width, g.Height)

	if c.mode == geometry.Move {
		c.state = Moving
		g.X = max(0, g.X)
		g.Y = max(0, g.Y)
	} else {
		c.state = Resizing
	}
	c.startGeom = g

	log.Debugf("[BOARD] item %s pointer %d down: %s (%s tap)", c.itemID, ev.PointerID, c.mode, tap)

	out := c.outcome()
	out.Tap = tap
	out.OpenEditor = opensEditor(item.Type, tap)
	return out
}

func (c *Controller) move(ev PointerEvent) Outcome {
	if !c.Active() || ev.PointerID != c.pointerID {
		return c.outcome()
	}

	dx := ev.X - c.startX
	dy := ev.Y - c.startY

	var next models.Geometry
	if c.state == Moving {
		next = geometry.Translate(c.startGeom, dx, dy)
	} else {
		next = geometry.ComputeResize(c.mode, c.startGeom, dx, dy)
	}

	item, ok := c.target.Item(c.itemID)
	if !ok {
		// Removed mid-drag.
		c.reset()
		return c.outcome()
	}
	if item.Geometry() == next {
		return c.outcome()
	}

	c.target.SetGeometry(c.itemID, next)
	out := c.outcome()
	out.Changed = true
	out.Geometry = next
	return out
}

func (c *Controller) end(ev PointerEvent) Outcome {
	if !c.Active() || ev.PointerID != c.pointerID {
		return c.outcome()
	}
	if c.capture != nil {
		c.capture.Release(c.pointerID)
	}
	log.Debugf("[BOARD] item %s pointer %d %s", c.itemID, ev.PointerID, ev.Phase)
	c.reset()
	return c.outcome()
}

// Abort ends an interaction in progress as if it had been cancelled.
func (c *Controller) Abort() {
	if !c.Active() {
		return
	}
	c.end(PointerEvent{PointerID: c.pointerID, Phase: PhaseCancel})
}

func (c *Controller) reset() {
	c.state = Idle
	c.mode = ""
	c.pointerID = 0
}

func (c *Controller) outcome() Outcome {
	out := Outcome{State: c.state, Mode: c.mode}
	if item, ok := c.target.Item(c.itemID); ok {
		out.Geometry = item.Geometry()
	}
	return out
}

// opensEditor: images need a double tap, text opens on a single tap.
func opensEditor(t models.ItemType, tap TapKind) bool {
	switch t {
	case models.ItemImage:
		return tap == DoubleTap
	case models.ItemText:
		return tap == SingleTap
	}
	return false
}
