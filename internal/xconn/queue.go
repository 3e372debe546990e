package xconn

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xevent"

	"honnef.co/go/wmclient/client"
)

// Peek returns the next pending event if it is one a client understands.
// Events that are already waiting on the socket are read into the queue
// first.
func (c *Conn) Peek() (client.Event, bool) {
	xevent.Read(c.X, false)
	q := xevent.Peek(c.X)
	if len(q) == 0 || q[0].Err != nil {
		return nil, false
	}
	return Convert(q[0].Event)
}

func (c *Conn) Discard() {
	xevent.DequeueAt(c.X, 0)
}

// Convert turns an X event into the event type a client handles.
func Convert(ev xgb.Event) (client.Event, bool) {
	switch ev := ev.(type) {
	case xproto.PropertyNotifyEvent:
		return client.PropertyEvent{
			Window:  ev.Window,
			Atom:    ev.Atom,
			Deleted: ev.State == xproto.PropertyDelete,
		}, true
	case xproto.ClientMessageEvent:
		out := client.ClientMessageEvent{
			Window: ev.Window,
			Type:   ev.Type,
			Format: ev.Format,
		}
		if ev.Format == 32 {
			copy(out.Data[:], ev.Data.Data32)
		}
		return out, true
	case xproto.ConfigureRequestEvent:
		return client.ConfigureRequestEvent{
			Window:      ev.Window,
			Mask:        ev.ValueMask,
			X:           int(ev.X),
			Y:           int(ev.Y),
			Width:       int(ev.Width),
			Height:      int(ev.Height),
			BorderWidth: int(ev.BorderWidth),
			Sibling:     ev.Sibling,
			StackMode:   ev.StackMode,
		}, true
	case shape.NotifyEvent:
		if ev.ShapeKind != shape.SkBounding {
			return nil, false
		}
		return client.ShapeEvent{Window: ev.AffectedWindow, Shaped: ev.Shaped}, true
	}
	return nil, false
}
