package interaction

import "time"

// DoubleTapWindow is the longest gap between two pointer-downs on the same
// item that still counts as a double tap.
const DoubleTapWindow = 350 * time.Millisecond

type TapKind string

const (
	SingleTap TapKind = "single"
	DoubleTap TapKind = "double"
)

// TapDetector classifies pointer-downs on one item. The zero value is ready
// to use.
type TapDetector struct {
	last time.Time
}

// Tap records a pointer-down at now. A double tap clears the stored stamp so
// a third rapid tap starts over as a single tap.
func (d *TapDetector) Tap(now time.Time) TapKind {
	if !d.last.IsZero() && now.Sub(d.last) < DoubleTapWindow {
		d.last = time.Time{}
		return DoubleTap
	}
	d.last = now
	return SingleTap
}
