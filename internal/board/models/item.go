package models

// ============================================================
// Board Item
// ============================================================

type ItemType string

const (
	ItemImage ItemType = "image"
	ItemText  ItemType = "text"
)

const (
	MinSize             = 40.0
	DefaultBorderRadius = 8.0

	DefaultImageWidth  = 200.0
	DefaultImageHeight = 200.0
	DefaultTextWidth   = 240.0
	DefaultTextHeight  = 80.0

	DefaultFontSize   = 24.0
	MinFontSize       = 8.0
	DefaultFontFamily = "Inter, sans-serif"
	DefaultText       = "Tap to edit"
)

// Geometry is an item's box in board-local pixels, origin at the top-left.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoardItem is one element on the board. Image items carry ImageRef,
// text items carry the text payload; the other variant's fields stay empty.
type BoardItem struct {
	ID           string   `json:"id"`
	Type         ItemType `json:"type"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	BorderRadius float64  `json:"borderRadius"`

	ImageRef string `json:"imageUrl,omitempty"`

	Text       string  `json:"text,omitempty"`
	TextColor  string  `json:"textColor,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
}

func (it BoardItem) Geometry() Geometry {
	return Geometry{X: it.X, Y: it.Y, Width: it.Width, Height: it.Height}
}

func (it BoardItem) Position() Point {
	return Point{X: it.X, Y: it.Y}
}

// WithGeometry returns a copy of the item placed at g.
func (it BoardItem) WithGeometry(g Geometry) BoardItem {
	it.X, it.Y, it.Width, it.Height = g.X, g.Y, g.Width, g.Height
	return it
}

// NewImage builds an image item with default size and radius.
func NewImage(id, ref string, at Point) BoardItem {
	return BoardItem{
		ID:           id,
		Type:         ItemImage,
		X:            at.X,
		Y:            at.Y,
		Width:        DefaultImageWidth,
		Height:       DefaultImageHeight,
		BorderRadius: DefaultBorderRadius,
		ImageRef:     ref,
	}
}

// NewText builds a text item whose color contrasts with background.
func NewText(id, background string, at Point) BoardItem {
	return BoardItem{
		ID:           id,
		Type:         ItemText,
		X:            at.X,
		Y:            at.Y,
		Width:        DefaultTextWidth,
		Height:       DefaultTextHeight,
		BorderRadius: DefaultBorderRadius,
		Text:         DefaultText,
		TextColor:    TextColorFor(background),
		FontSize:     DefaultFontSize,
		FontFamily:   DefaultFontFamily,
	}
}
