package client

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// AllDesktops is the desktop of a window that is shown on every desktop.
// On the wire it is 0xFFFFFFFF.
const AllDesktops = -1

const allDesktopsWire = 0xFFFFFFFF

type Geom struct {
	X, Y          int
	Width, Height int
}

type Size struct {
	Width, Height int
}

type Type int

const (
	TypeNormal Type = iota
	TypeDialog
	TypeMenu
	TypeToolbar
	TypeUtility
	TypeDesktop
	TypeDock
	TypeSplash
)

var typeNames = [...]string{
	TypeNormal:  "normal",
	TypeDialog:  "dialog",
	TypeMenu:    "menu",
	TypeToolbar: "toolbar",
	TypeUtility: "utility",
	TypeDesktop: "desktop",
	TypeDock:    "dock",
	TypeSplash:  "splash",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// typeAtoms lists the _NET_WM_WINDOW_TYPE values we understand.
var typeAtoms = []struct {
	name string
	typ  Type
}{
	{"_NET_WM_WINDOW_TYPE_DESKTOP", TypeDesktop},
	{"_NET_WM_WINDOW_TYPE_DOCK", TypeDock},
	{"_NET_WM_WINDOW_TYPE_TOOLBAR", TypeToolbar},
	{"_NET_WM_WINDOW_TYPE_MENU", TypeMenu},
	{"_NET_WM_WINDOW_TYPE_UTILITY", TypeUtility},
	{"_NET_WM_WINDOW_TYPE_SPLASH", TypeSplash},
	{"_NET_WM_WINDOW_TYPE_DIALOG", TypeDialog},
	{"_NET_WM_WINDOW_TYPE_NORMAL", TypeNormal},
}

// Gravity is an X window gravity (xproto.Gravity*).
type Gravity int

// Corner is the corner of a window that stays in place during a resize.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// gravityCorner picks the corner that a gravity keeps fixed.
func gravityCorner(g Gravity) Corner {
	switch g {
	case xproto.GravityNorthEast, xproto.GravityEast:
		return TopRight
	case xproto.GravitySouthWest, xproto.GravitySouth:
		return BottomLeft
	case xproto.GravitySouthEast:
		return BottomRight
	default:
		return TopLeft
	}
}

type Decoration uint

const (
	DecorTitlebar Decoration = 1 << iota
	DecorHandle
	DecorBorder
	DecorIconify
	DecorMaximize
	DecorClose
)

var decorNames = []string{"titlebar", "handle", "border", "iconify", "maximize", "close"}

func (d Decoration) String() string { return bitNames(uint(d), decorNames) }

type Function uint

const (
	FuncResize Function = 1 << iota
	FuncMove
	FuncIconify
	FuncMaximize
	FuncClose
)

var funcNames = []string{"resize", "move", "iconify", "maximize", "close"}

func (f Function) String() string { return bitNames(uint(f), funcNames) }

// State holds the _NET_WM_STATE flags we track.
type State uint

const (
	StateModal State = 1 << iota
	StateShaded
	StateMaxVert
	StateMaxHorz
	StateFullscreen
	StateFloating
)

var stateNames = []string{"modal", "shaded", "max-vert", "max-horz", "fullscreen", "floating"}

func (s State) String() string { return bitNames(uint(s), stateNames) }

var stateAtoms = []struct {
	name  string
	state State
}{
	{"_NET_WM_STATE_MODAL", StateModal},
	{"_NET_WM_STATE_SHADED", StateShaded},
	{"_NET_WM_STATE_MAXIMIZED_VERT", StateMaxVert},
	{"_NET_WM_STATE_MAXIMIZED_HORZ", StateMaxHorz},
	{"_NET_WM_STATE_FULLSCREEN", StateFullscreen},
	{"_NET_WM_STATE_FLOATING", StateFloating},
}

// Action is the first data word of a _NET_WM_STATE client message.
type Action uint

const (
	ActionRemove Action = ewmh.StateRemove
	ActionAdd    Action = ewmh.StateAdd
	ActionToggle Action = ewmh.StateToggle
)

func bitNames(v uint, names []string) string {
	var out []string
	for i, name := range names {
		if v&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return "none"
	}
	return strings.Join(out, ",")
}
