package client

import "github.com/BurntSushi/xgb/xproto"

// Event is one of PropertyEvent, ClientMessageEvent, ShapeEvent or
// ConfigureRequestEvent.
type Event interface {
	event()
}

type PropertyEvent struct {
	Window  xproto.Window
	Atom    xproto.Atom
	Deleted bool
}

type ClientMessageEvent struct {
	Window xproto.Window
	Type   xproto.Atom
	Format byte
	Data   [5]uint32
}

type ShapeEvent struct {
	Window xproto.Window
	Shaped bool
}

func (PropertyEvent) event()      {}
func (ClientMessageEvent) event() {}
func (ShapeEvent) event()         {}

// Handle applies an event addressed to the client's window.
func (c *Client) Handle(ev Event) {
	switch ev := ev.(type) {
	case PropertyEvent:
		c.propertyChanged(ev)
	case ClientMessageEvent:
		c.clientMessage(ev)
	case ShapeEvent:
		c.shaped = ev.Shaped
	case ConfigureRequestEvent:
		c.ConfigureRequest(ev)
	}
}

// coalesce drops the run of queued events directly behind ev that match it
// and returns the last of them, along with the number dropped. The run ends
// at the first event that does not match, which stays queued.
func coalesce[E Event](q EventQueue, ev E, match func(a, b E) bool) (E, int) {
	n := 0
	for {
		next, ok := q.Peek()
		if !ok {
			break
		}
		e, ok := next.(E)
		if !ok || !match(ev, e) {
			break
		}
		q.Discard()
		ev = e
		n++
	}
	return ev, n
}

func sameProperty(a, b PropertyEvent) bool {
	return a.Window == b.Window && a.Atom == b.Atom
}

func sameMessage(a, b ClientMessageEvent) bool {
	return a.Window == b.Window && a.Type == b.Type
}

func (c *Client) propertyChanged(ev PropertyEvent) {
	ev, n := coalesce(c.display, ev, sameProperty)
	if n > 0 {
		c.log.Debug("coalesced property changes", "atom", ev.Atom, "dropped", n)
	}

	at := c.atoms
	switch ev.Atom {
	case at.Atom("WM_NORMAL_HINTS"):
		c.updateNormalHints()
	case at.Atom("WM_HINTS"):
		c.updateWMHints()
	case at.Atom("_NET_WM_NAME"), at.Atom("WM_NAME"):
		c.updateTitle()
	case at.Atom("_NET_WM_ICON_NAME"), at.Atom("WM_ICON_NAME"):
		c.updateIconTitle()
	case at.Atom("WM_CLASS"):
		c.updateClass()
	case at.Atom("WM_PROTOCOLS"):
		c.updateProtocols()
	}
}

func (c *Client) clientMessage(ev ClientMessageEvent) {
	if ev.Format != 32 {
		return
	}

	at := c.atoms
	switch ev.Type {
	case at.Atom("WM_CHANGE_STATE"):
		ev, _ = coalesce(c.display, ev, sameMessage)
		c.SetWMState(int(ev.Data[0]))
	case at.Atom("_NET_WM_DESKTOP"):
		ev, _ = coalesce(c.display, ev, sameMessage)
		d, ok := desktopFromWire(uint(ev.Data[0]))
		if !ok {
			c.log.Warn("ignoring desktop request", "desktop", int32(ev.Data[0]))
			return
		}
		c.SetDesktop(d)
	case at.Atom("_NET_WM_STATE"):
		c.SetState(Action(ev.Data[0]), xproto.Atom(ev.Data[1]), xproto.Atom(ev.Data[2]))
	}
}
