package client

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
)

var (
	// ErrNoProperty is returned by a PropertyStore when the window does not
	// carry the requested property.
	ErrNoProperty = errors.New("property not set")
	// ErrMalformed is returned when a property exists but has the wrong
	// type, format or length.
	ErrMalformed = errors.New("malformed property")
)

// PropertyStore reads and writes window properties. Property and type names
// are atom names; an empty type accepts any type.
type PropertyStore interface {
	// Nums returns a format 32 property.
	Nums(win xproto.Window, prop, typ string) ([]uint, error)
	// Text returns a string property (STRING or UTF8_STRING).
	Text(win xproto.Window, prop string) (string, error)
	// Texts returns a property holding a list of NUL separated strings.
	Texts(win xproto.Window, prop string) ([]string, error)
	SetNums(win xproto.Window, prop, typ string, vals ...uint) error
	Erase(win xproto.Window, prop string) error
}

// AtomTable maps atom names to interned atoms. Unknown names map to 0.
type AtomTable interface {
	Atom(name string) xproto.Atom
}

// EventQueue gives access to the events that are already pending on the
// connection but have not been dispatched yet.
type EventQueue interface {
	// Peek returns the event at the head of the queue without removing it.
	Peek() (Event, bool)
	// Discard removes the event at the head of the queue.
	Discard()
}

// Display is the part of the X connection a client needs besides
// properties.
type Display interface {
	EventQueue
	Geometry(win xproto.Window) (geom Geom, borderWidth int, err error)
	ShapeSupported() bool
	// Shaped reports whether the window has a bounding shape. Implementations
	// also subscribe to shape notifications for the window.
	Shaped(win xproto.Window) (bool, error)
}

// Layout is what a frame needs to place and draw a client.
type Layout struct {
	Geom        Geom
	BorderWidth int
	Gravity     Gravity
	Decorations Decoration
}

// Frame places the client on screen. It is told about every committed
// resize and move.
type Frame interface {
	Adjust(l Layout)
	ApplyGravity(l Layout)
}

// Manager is the window manager side of a client: everything that involves
// other windows, the screen or user policy.
type Manager interface {
	CurrentDesktop() int
	Iconify(c *Client)
	Deiconify(c *Client)
	SendToDesktop(c *Client, desktop int)
	GroupChanged(c *Client, old, new xproto.Window)
	ArbitrateFocus(c *Client)
	Maximize(c *Client, horz, vert bool)
	Shade(c *Client, shaded bool)
	Restack(c *Client)
	Raise(c *Client)
	Lower(c *Client)
}

// Deps bundles the collaborators of a client.
type Deps struct {
	Props   PropertyStore
	Atoms   AtomTable
	Display Display
	Frame   Frame
	Manager Manager
}
