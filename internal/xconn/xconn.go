// Package xconn implements the collaborators of a client on top of a live
// X connection.
package xconn

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"

	"honnef.co/go/wmclient/client"
)

// Conn is a client.PropertyStore, client.AtomTable and client.Display.
type Conn struct {
	X     *xgbutil.XUtil
	log   *slog.Logger
	shape bool
}

var (
	_ client.PropertyStore = (*Conn)(nil)
	_ client.AtomTable     = (*Conn)(nil)
	_ client.Display       = (*Conn)(nil)
)

func New(xu *xgbutil.XUtil, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Conn{X: xu, log: logger}
	if err := shape.Init(xu.Conn()); err != nil {
		c.log.Info("shape extension not available", "error", err)
	} else {
		c.shape = true
	}
	return c
}

// Atom interns name. It returns 0 if the server could not be asked.
func (c *Conn) Atom(name string) xproto.Atom {
	a, err := xprop.Atm(c.X, name)
	if err != nil {
		c.log.Warn("could not intern atom", "atom", name, "error", err)
		return 0
	}
	return a
}

func (c *Conn) get(win xproto.Window, prop string) (*xproto.GetPropertyReply, error) {
	a, err := xprop.Atm(c.X, prop)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(c.X.Conn(), false, win, a,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, fmt.Errorf("could not get %s on window %#x: %s", prop, win, err)
	}
	if reply.Format == 0 {
		return nil, fmt.Errorf("%s on window %#x: %w", prop, win, client.ErrNoProperty)
	}
	return reply, nil
}

// Nums returns a format 32 property. If typ is not empty, the property must
// be of that type.
func (c *Conn) Nums(win xproto.Window, prop, typ string) ([]uint, error) {
	reply, err := c.get(win, prop)
	if err != nil {
		return nil, err
	}
	var want xproto.Atom
	if typ != "" {
		want = c.Atom(typ)
	}
	vals, err := nums(reply, want)
	if err != nil {
		return nil, fmt.Errorf("%s on window %#x: %w", prop, win, err)
	}
	return vals, nil
}

func (c *Conn) Text(win xproto.Window, prop string) (string, error) {
	reply, err := c.get(win, prop)
	if err != nil {
		return "", err
	}
	s, err := text(reply)
	if err != nil {
		return "", fmt.Errorf("%s on window %#x: %w", prop, win, err)
	}
	return s, nil
}

func (c *Conn) Texts(win xproto.Window, prop string) ([]string, error) {
	reply, err := c.get(win, prop)
	if err != nil {
		return nil, err
	}
	strs, err := texts(reply)
	if err != nil {
		return nil, fmt.Errorf("%s on window %#x: %w", prop, win, err)
	}
	return strs, nil
}

func (c *Conn) SetNums(win xproto.Window, prop, typ string, vals ...uint) error {
	return xprop.ChangeProp32(c.X, win, prop, typ, vals...)
}

func (c *Conn) Erase(win xproto.Window, prop string) error {
	a, err := xprop.Atm(c.X, prop)
	if err != nil {
		return err
	}
	return xproto.DeletePropertyChecked(c.X.Conn(), win, a).Check()
}

// nums decodes a format 32 reply. A zero want accepts any type.
func nums(reply *xproto.GetPropertyReply, want xproto.Atom) ([]uint, error) {
	if want != 0 && reply.Type != want {
		return nil, fmt.Errorf("type %d, want %d: %w", reply.Type, want, client.ErrMalformed)
	}
	if reply.Format != 32 {
		return nil, fmt.Errorf("format %d: %w", reply.Format, client.ErrMalformed)
	}
	return xprop.PropValNums(reply, nil)
}

func text(reply *xproto.GetPropertyReply) (string, error) {
	if reply.Format != 8 {
		return "", fmt.Errorf("format %d: %w", reply.Format, client.ErrMalformed)
	}
	return xprop.PropValStr(reply, nil)
}

func texts(reply *xproto.GetPropertyReply) ([]string, error) {
	if reply.Format != 8 {
		return nil, fmt.Errorf("format %d: %w", reply.Format, client.ErrMalformed)
	}
	return xprop.PropValStrs(reply, nil)
}

func (c *Conn) Geometry(win xproto.Window) (client.Geom, int, error) {
	g, err := xproto.GetGeometry(c.X.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return client.Geom{}, 0, err
	}
	return client.Geom{
		X:      int(g.X),
		Y:      int(g.Y),
		Width:  int(g.Width),
		Height: int(g.Height),
	}, int(g.BorderWidth), nil
}

func (c *Conn) ShapeSupported() bool { return c.shape }

// Shaped reports whether win has a bounding shape and selects shape
// notifications on it.
func (c *Conn) Shaped(win xproto.Window) (bool, error) {
	if !c.shape {
		return false, nil
	}
	if err := shape.SelectInputChecked(c.X.Conn(), win, true).Check(); err != nil {
		return false, err
	}
	ext, err := shape.QueryExtents(c.X.Conn(), win).Reply()
	if err != nil {
		return false, err
	}
	return ext.BoundingShaped, nil
}
