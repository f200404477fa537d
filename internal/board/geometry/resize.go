package geometry

import "moodboard/internal/board/models"

// ============================================================
// Resize
// ============================================================

// ComputeResize applies a drag delta to start through the given handle. The
// edges opposite the handle stay where they were, including when a
// dimension is clamped to models.MinSize.
func ComputeResize(mode Mode, start models.Geometry, dx, dy float64) models.Geometry {
	out := start

	switch {
	case mode.west():
		out.Width = max(models.MinSize, start.Width-dx)
		out.X = start.X + start.Width - out.Width
	case mode.east():
		out.Width = max(models.MinSize, start.Width+dx)
	}

	switch {
	case mode.north():
		out.Height = max(models.MinSize, start.Height-dy)
		out.Y = start.Y + start.Height - out.Height
	case mode.south():
		out.Height = max(models.MinSize, start.Height+dy)
	}

	return out
}

// Translate moves start by the delta without changing its size.
func Translate(start models.Geometry, dx, dy float64) models.Geometry {
	start.X += dx
	start.Y += dy
	return start
}

// Contains reports whether a board-space point lies inside g.
func Contains(g models.Geometry, x, y float64) bool {
	return x >= g.X && x <= g.X+g.Width &&
		y >= g.Y && y <= g.Y+g.Height
}
