package main

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xrect"

	"honnef.co/go/wmclient/client"
	"honnef.co/go/wmclient/config"
)

func TestSnapcalc(t *testing.T) {
	var tests = []struct {
		n0, n1, e0, e1, snapdist int
		want                     int
	}{
		{5, 105, 0, 1000, 10, -5},
		{895, 995, 0, 1000, 10, 5},
		{3, 998, 0, 1000, 10, 2},
		{-2, 1005, 0, 1000, 10, 2},
		{100, 200, 0, 1000, 10, 0},
		{0, 100, 0, 1000, 10, 0},
		{5, 105, 0, 1000, 0, 0},
	}

	for _, tt := range tests {
		if got := snapcalc(tt.n0, tt.n1, tt.e0, tt.e1, tt.snapdist); got != tt.want {
			t.Errorf("snapcalc(%d, %d, %d, %d, %d) = %d, want %d",
				tt.n0, tt.n1, tt.e0, tt.e1, tt.snapdist, got, tt.want)
		}
	}
}

func TestSubtractGaps(t *testing.T) {
	screen := xrect.New(0, 0, 1920, 1080)
	got := subtractGaps(screen, config.Gap{Top: 20, Bottom: 10, Left: 4, Right: 6})
	x, y, w, h := got.Pieces()
	if x != 4 || y != 20 || w != 1910 || h != 1050 {
		t.Errorf("subtractGaps = %d %d %d %d, want 4 20 1910 1050", x, y, w, h)
	}
	if x, _, w, _ := screen.Pieces(); x != 0 || w != 1920 {
		t.Errorf("subtractGaps modified its argument")
	}
}

func TestGravityOffset(t *testing.T) {
	var tests = []struct {
		g      client.Gravity
		d      int
		dx, dy int
	}{
		{xproto.GravityNorthWest, 2, 0, 0},
		{xproto.GravityNorth, 2, -2, 0},
		{xproto.GravityNorthEast, 2, -4, 0},
		{xproto.GravityWest, 2, 0, -2},
		{xproto.GravityCenter, 2, -2, -2},
		{xproto.GravityEast, 2, -4, -2},
		{xproto.GravitySouthWest, 3, 0, -6},
		{xproto.GravitySouth, 3, -3, -6},
		{xproto.GravitySouthEast, 3, -6, -6},
		{xproto.GravityStatic, 1, -1, -1},
		{xproto.GravityNorthEast, -1, 2, 0},
		{xproto.GravityBitForget, 5, 0, 0},
	}

	for _, tt := range tests {
		dx, dy := gravityOffset(tt.g, tt.d)
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("gravityOffset(%d, %d) = %d, %d, want %d, %d", tt.g, tt.d, dx, dy, tt.dx, tt.dy)
		}
	}
}
