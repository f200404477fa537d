package models

// ============================================================
// Persisted Record
// ============================================================

// Record is the stored shape of a board item. Variant fields are optional so
// an image record carries no text payload and vice versa.
type Record struct {
	ID           string   `json:"id"`
	Type         ItemType `json:"type"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Text         *string  `json:"text,omitempty"`
	TextColor    string   `json:"textColor,omitempty"`
	FontSize     float64  `json:"fontSize,omitempty"`
	FontFamily   string   `json:"fontFamily,omitempty"`
	BorderRadius *float64 `json:"borderRadius,omitempty"`
}

func ToRecord(it BoardItem) Record {
	radius := it.BorderRadius
	rec := Record{
		ID:           it.ID,
		Type:         it.Type,
		X:            it.X,
		Y:            it.Y,
		Width:        it.Width,
		Height:       it.Height,
		BorderRadius: &radius,
	}
	switch it.Type {
	case ItemImage:
		rec.ImageURL = it.ImageRef
	case ItemText:
		text := it.Text
		rec.Text = &text
		rec.TextColor = it.TextColor
		rec.FontSize = it.FontSize
		rec.FontFamily = it.FontFamily
	}
	return rec
}

// FromRecord rebuilds an item. Missing radius loads as the default and
// dimensions below MinSize are raised to it.
func FromRecord(rec Record) BoardItem {
	it := BoardItem{
		ID:           rec.ID,
		Type:         rec.Type,
		X:            rec.X,
		Y:            rec.Y,
		Width:        max(rec.Width, MinSize),
		Height:       max(rec.Height, MinSize),
		BorderRadius: DefaultBorderRadius,
		ImageRef:     rec.ImageURL,
		TextColor:    rec.TextColor,
		FontSize:     rec.FontSize,
		FontFamily:   rec.FontFamily,
	}
	if rec.BorderRadius != nil {
		it.BorderRadius = *rec.BorderRadius
	}
	if rec.Text != nil {
		it.Text = *rec.Text
	}
	return it
}

// Valid reports whether a decoded record can be placed on a board.
func (rec Record) Valid() bool {
	if rec.ID == "" {
		return false
	}
	return rec.Type == ItemImage || rec.Type == ItemText
}
