// Package layering reorders a board's items. Z-order is list position:
// index 0 draws at the back, the last item at the front. Every operation
// returns a permutation of its input and never mutates it.
package layering

import "moodboard/internal/board/models"

// IndexOf returns the position of id, or -1.
func IndexOf(items []models.BoardItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// BringToFront moves id to the end of the list.
func BringToFront(items []models.BoardItem, id string) ([]models.BoardItem, bool) {
	i := IndexOf(items, id)
	if i < 0 || i == len(items)-1 {
		return clone(items), false
	}
	out := make([]models.BoardItem, 0, len(items))
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	out = append(out, items[i])
	return out, true
}

// SendToBack moves id to the start of the list.
func SendToBack(items []models.BoardItem, id string) ([]models.BoardItem, bool) {
	i := IndexOf(items, id)
	if i <= 0 {
		return clone(items), false
	}
	out := make([]models.BoardItem, 0, len(items))
	out = append(out, items[i])
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out, true
}

// MoveForward swaps id with the item drawn just above it.
func MoveForward(items []models.BoardItem, id string) ([]models.BoardItem, bool) {
	i := IndexOf(items, id)
	if i < 0 || i == len(items)-1 {
		return clone(items), false
	}
	return swap(items, i, i+1), true
}

// MoveBackward swaps id with the item drawn just below it.
func MoveBackward(items []models.BoardItem, id string) ([]models.BoardItem, bool) {
	i := IndexOf(items, id)
	if i <= 0 {
		return clone(items), false
	}
	return swap(items, i, i-1), true
}

// Op names a layering operation as it arrives from a UI action.
type Op string

const (
	Front    Op = "front"
	Back     Op = "back"
	Forward  Op = "forward"
	Backward Op = "backward"
)

// Apply dispatches op. Unknown ops leave the order unchanged.
func Apply(op Op, items []models.BoardItem, id string) ([]models.BoardItem, bool) {
	switch op {
	case Front:
		return BringToFront(items, id)
	case Back:
		return SendToBack(items, id)
	case Forward:
		return MoveForward(items, id)
	case Backward:
		return MoveBackward(items, id)
	}
	return clone(items), false
}

func (op Op) Valid() bool {
	switch op {
	case Front, Back, Forward, Backward:
		return true
	}
	return false
}

func swap(items []models.BoardItem, i, j int) []models.BoardItem {
	out := clone(items)
	out[i], out[j] = out[j], out[i]
	return out
}

func clone(items []models.BoardItem) []models.BoardItem {
	return append([]models.BoardItem(nil), items...)
}
