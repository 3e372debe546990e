package client

import (
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
)

// The hint decoders below take raw format 32 property payloads and copy out
// the fields we care about. They never fail on missing optional fields; a
// payload that is too short to carry the mandatory ones is reported as
// malformed.

// windowType returns the first type in list that we know about.
func windowType(at AtomTable, list []uint) Type {
	for _, v := range list {
		for _, ta := range typeAtoms {
			if a := at.Atom(ta.name); a != 0 && uint(a) == v {
				return ta.typ
			}
		}
	}
	return TypeNormal
}

// netState returns the flags named in a _NET_WM_STATE list. Floating is only
// ever set through client messages.
func netState(at AtomTable, list []uint) State {
	var s State
	for _, v := range list {
		for _, sa := range stateAtoms {
			if sa.state == StateFloating {
				continue
			}
			if a := at.Atom(sa.name); a != 0 && uint(a) == v {
				s |= sa.state
			}
		}
	}
	return s
}

// stateFor maps a _NET_WM_STATE atom to its flag, or 0.
func stateFor(at AtomTable, atom xproto.Atom) State {
	if atom == 0 {
		return 0
	}
	for _, sa := range stateAtoms {
		if at.Atom(sa.name) == atom {
			return sa.state
		}
	}
	return 0
}

func stateList(at AtomTable, s State) []uint {
	var out []uint
	for _, sa := range stateAtoms {
		if s&sa.state == 0 {
			continue
		}
		if a := at.Atom(sa.name); a != 0 {
			out = append(out, uint(a))
		}
	}
	return out
}

type Protocols struct {
	DeleteWindow bool
	TakeFocus    bool
}

func protocols(at AtomTable, list []uint) Protocols {
	var p Protocols
	del, focus := at.Atom("WM_DELETE_WINDOW"), at.Atom("WM_TAKE_FOCUS")
	for _, v := range list {
		switch {
		case del != 0 && uint(del) == v:
			p.DeleteWindow = true
		case focus != 0 && uint(focus) == v:
			p.TakeFocus = true
		}
	}
	return p
}

// motifElements is the number of _MOTIF_WM_HINTS fields we read: flags,
// functions and decorations.
const motifElements = 3

type MotifHints struct {
	Flags       uint
	Functions   uint
	Decorations uint
}

func decodeMotifHints(raw []uint) (MotifHints, error) {
	if len(raw) < motifElements {
		return MotifHints{}, ErrMalformed
	}
	return MotifHints{Flags: raw[0], Functions: raw[1], Decorations: raw[2]}, nil
}

// restrictsDecorations reports whether the hints limit decorations to the
// ones they name.
func (h MotifHints) restrictsDecorations() bool {
	return h.Flags&motif.HintDecorations != 0 && h.Decorations&motif.DecorationAll == 0
}

func (h MotifHints) restrictsFunctions() bool {
	return h.Flags&motif.HintFunctions != 0 && h.Functions&motif.FunctionAll == 0
}

const (
	// Pre-ICCCM clients write WM_NORMAL_HINTS without base size and gravity.
	oldSizeHintsElements = 15
	sizeHintsElements    = 18
)

// SizeHints is the part of WM_NORMAL_HINTS the window manager honors.
type SizeHints struct {
	Min, Max   Size
	Base, Inc  Size
	Gravity    Gravity
	Positioned bool
}

func defaultSizeHints() SizeHints {
	return SizeHints{
		Max:     Size{math.MaxInt32, math.MaxInt32},
		Inc:     Size{1, 1},
		Gravity: xproto.GravityNorthWest,
	}
}

func decodeSizeHints(raw []uint) (SizeHints, error) {
	h := defaultSizeHints()
	if len(raw) < oldSizeHintsElements {
		return h, ErrMalformed
	}
	flags := raw[0]
	if len(raw) < sizeHintsElements {
		flags &^= icccm.SizeHintPBaseSize | icccm.SizeHintPWinGravity
	}

	h.Positioned = flags&(icccm.SizeHintUSPosition|icccm.SizeHintPPosition) != 0
	if flags&icccm.SizeHintPWinGravity != 0 {
		h.Gravity = Gravity(raw[17])
	}
	if flags&icccm.SizeHintPMinSize != 0 {
		h.Min = Size{signed(raw[5]), signed(raw[6])}
	}
	if flags&icccm.SizeHintPMaxSize != 0 {
		h.Max = Size{signed(raw[7]), signed(raw[8])}
	}
	if flags&icccm.SizeHintPBaseSize != 0 {
		h.Base = Size{signed(raw[15]), signed(raw[16])}
	}
	if flags&icccm.SizeHintPResizeInc != 0 {
		h.Inc = Size{signed(raw[9]), signed(raw[10])}
		// Increments below one would stall or divide by zero.
		if h.Inc.Width < 1 {
			h.Inc.Width = 1
		}
		if h.Inc.Height < 1 {
			h.Inc.Height = 1
		}
	}
	return h, nil
}

const (
	// WM_HINTS without the window group field, as written by X11R3 clients.
	oldWMHintsElements = 8
	wmHintsElements    = 9
)

type WMHints struct {
	CanFocus bool
	Urgent   bool
	HasGroup bool
	Group    xproto.Window
}

func defaultWMHints() WMHints {
	return WMHints{CanFocus: true}
}

func decodeWMHints(raw []uint) (WMHints, error) {
	h := defaultWMHints()
	if len(raw) < oldWMHintsElements {
		return h, ErrMalformed
	}
	flags := raw[0]
	if flags&icccm.HintInput != 0 {
		h.CanFocus = raw[1] != 0
	}
	if flags&icccm.HintUrgency != 0 {
		h.Urgent = true
	}
	if flags&icccm.HintWindowGroup != 0 && len(raw) >= wmHintsElements {
		h.HasGroup = true
		h.Group = xproto.Window(raw[8])
	}
	return h, nil
}

// signed reinterprets a 32 bit property value as a C int.
func signed(v uint) int {
	return int(int32(uint32(v)))
}
