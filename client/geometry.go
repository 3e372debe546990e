package client

import "github.com/BurntSushi/xgb/xproto"

// Resize sets the client's size to fit width and height as closely as its
// size hints allow, keeping anchor in place on screen.
//
// Min and max sizes are only enforced when they describe a valid range. The
// size is quantized to the client's resize increments on top of its base
// size; the size in increments is remembered as the logical size.
func (c *Client) Resize(anchor Corner, width, height int) {
	h := c.sizeHints
	bounded := h.Min.Width <= h.Max.Width && h.Min.Height <= h.Max.Height

	lw := quantize(width, h.Base.Width, h.Inc.Width, h.Min.Width, h.Max.Width, bounded)
	lh := quantize(height, h.Base.Height, h.Inc.Height, h.Min.Height, h.Max.Height, bounded)
	c.logical = Size{lw, lh}

	w := lw*h.Inc.Width + h.Base.Width
	ht := lh*h.Inc.Height + h.Base.Height

	dw, dh := c.geom.Width-w, c.geom.Height-ht
	switch anchor {
	case TopRight:
		c.geom.X += dw
	case BottomLeft:
		c.geom.Y += dh
	case BottomRight:
		c.geom.X += dw
		c.geom.Y += dh
	}
	c.geom.Width = w
	c.geom.Height = ht

	c.log.Debug("resized", "geom", c.geom, "logical", c.logical)
	c.frame.Adjust(c.layout())
}

// Move places the client at x, y. The frame applies the window gravity.
func (c *Client) Move(x, y int) {
	c.geom.X = x
	c.geom.Y = y
	c.frame.ApplyGravity(c.layout())
}

// ConfigureRequestEvent is a client's request to change its geometry or
// stacking. Mask holds xproto.ConfigWindow* bits.
type ConfigureRequestEvent struct {
	Window      xproto.Window
	Mask        uint16
	X, Y        int
	Width       int
	Height      int
	BorderWidth int
	Sibling     xproto.Window
	StackMode   byte
}

func (ConfigureRequestEvent) event() {}

// ConfigureRequest applies a configure request: border width, then size,
// then position, then stacking. Resize comes before move as EWMH demands,
// anchored according to the window gravity.
func (c *Client) ConfigureRequest(ev ConfigureRequestEvent) {
	m := ev.Mask

	if m&xproto.ConfigWindowBorderWidth != 0 {
		c.borderWidth = ev.BorderWidth
	}

	if m&(xproto.ConfigWindowWidth|xproto.ConfigWindowHeight) != 0 {
		w, h := c.geom.Width, c.geom.Height
		if m&xproto.ConfigWindowWidth != 0 {
			w = ev.Width
		}
		if m&xproto.ConfigWindowHeight != 0 {
			h = ev.Height
		}
		c.Resize(gravityCorner(c.sizeHints.Gravity), w, h)
	}

	if m&(xproto.ConfigWindowX|xproto.ConfigWindowY) != 0 {
		x, y := c.geom.X, c.geom.Y
		if m&xproto.ConfigWindowX != 0 {
			x = ev.X
		}
		if m&xproto.ConfigWindowY != 0 {
			y = ev.Y
		}
		c.Move(x, y)
	}

	if m&xproto.ConfigWindowStackMode != 0 {
		switch ev.StackMode {
		case xproto.StackModeBelow, xproto.StackModeBottomIf:
			c.mgr.Lower(c)
		default:
			c.mgr.Raise(c)
		}
	}
}

// quantize returns the number of increments above base that best fits size.
// When bounded, the result stays within [lo, hi] if any step does.
func quantize(size, base, inc, lo, hi int, bounded bool) int {
	if bounded {
		size = clamp(size, lo, hi)
	}
	n := floorDiv(size-base, inc)
	if bounded && base+n*inc < lo && base+(n+1)*inc <= hi {
		n++
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
