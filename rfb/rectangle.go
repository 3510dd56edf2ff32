package rfb

// ScreenRect is a rectangle of the desktop, always within its bounds.
// (0,0) is top-left.
type ScreenRect struct {
	X, Y, W, H uint16
}

// Area returns the pixel count of the rectangle.
func (r ScreenRect) Area() int { return int(r.W) * int(r.H) }
