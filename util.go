package main

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xrect"

	"honnef.co/go/wmclient/client"
	"honnef.co/go/wmclient/config"
)

func abs(x int) int {
	if x >= 0 {
		return x
	}

	return -x
}

// must is for errors during startup that leave nothing to manage.
func must(err error) {
	if err == nil {
		return
	}

	panic(err)
}

func should(err error) {
	if err == nil {
		return
	}

	slog.Warn("ignoring error", "error", err)
}

func subtractGaps(sc xrect.Rect, gap config.Gap) xrect.Rect {
	out := xrect.New(sc.Pieces())
	out.XSet(out.X() + gap.Left)
	out.YSet(out.Y() + gap.Top)
	out.WidthSet(out.Width() - gap.Left - gap.Right)
	out.HeightSet(out.Height() - gap.Top - gap.Bottom)
	return out
}

// snapcalc returns how far to move an edge pair n0, n1 so that one of them
// lines up with e0 or e1, if either is within snapdist.
func snapcalc(n0, n1, e0, e1, snapdist int) int {
	var s0, s1 int

	if abs(e0-n0) <= snapdist {
		s0 = e0 - n0
	}

	if abs(e1-n1) <= snapdist {
		s1 = e1 - n1
	}

	switch {
	case s0 != 0 && s1 != 0:
		if abs(s0) < abs(s1) {
			return s0
		}
		return s1
	case s0 != 0:
		return s0
	default:
		return s1
	}
}

// gravityOffset is how far a window has to move so that the reference point
// of its gravity stays put when its border grows by d on every side. Static
// gravity keeps the client area itself in place.
func gravityOffset(g client.Gravity, d int) (dx, dy int) {
	var col, row int
	switch g {
	case xproto.GravityNorth:
		col, row = 1, 0
	case xproto.GravityNorthEast:
		col, row = 2, 0
	case xproto.GravityWest:
		col, row = 0, 1
	case xproto.GravityCenter, xproto.GravityStatic:
		col, row = 1, 1
	case xproto.GravityEast:
		col, row = 2, 1
	case xproto.GravitySouthWest:
		col, row = 0, 2
	case xproto.GravitySouth:
		col, row = 1, 2
	case xproto.GravitySouthEast:
		col, row = 2, 2
	}
	return -col * d, -row * d
}
