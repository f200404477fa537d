package geometry

// ============================================================
// Interaction Modes
// ============================================================

// Mode is what a pointer-down on an item will do: move it, or resize it
// from one of eight handles.
type Mode string

const (
	Move Mode = "move"
	N    Mode = "n"
	NE   Mode = "ne"
	E    Mode = "e"
	SE   Mode = "se"
	S    Mode = "s"
	SW   Mode = "sw"
	W    Mode = "w"
	NW   Mode = "nw"
)

// EdgeThreshold is the width of the resize band along each side, in pixels.
const EdgeThreshold = 20.0

func (m Mode) IsResize() bool {
	return m != Move && m != ""
}

func (m Mode) west() bool  { return m == W || m == NW || m == SW }
func (m Mode) east() bool  { return m == E || m == NE || m == SE }
func (m Mode) north() bool { return m == N || m == NE || m == NW }
func (m Mode) south() bool { return m == S || m == SE || m == SW }

// ============================================================
// Hit Testing
// ============================================================

// ResolveMode maps a point in item-local coordinates to a Mode. Corners are
// tested before single edges, so the overlap of two bands is a corner.
func ResolveMode(localX, localY, width, height float64) Mode {
	left := localX <= EdgeThreshold
	right := localX >= width-EdgeThreshold
	top := localY <= EdgeThreshold
	bottom := localY >= height-EdgeThreshold

	switch {
	case top && left:
		return NW
	case top && right:
		return NE
	case bottom && left:
		return SW
	case bottom && right:
		return SE
	case top:
		return N
	case bottom:
		return S
	case left:
		return W
	case right:
		return E
	}
	return Move
}
