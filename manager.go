package main

import (
	"github.com/BurntSushi/xgb/xproto"

	"honnef.co/go/wmclient/client"
)

var _ client.Manager = (*WM)(nil)

func (wm *WM) CurrentDesktop() int { return wm.desktop }

// Iconify runs before the client commits the new WM state, so visibility is
// decided here instead of through updateVisibility.
func (wm *WM) Iconify(c *client.Client) {
	w := wm.window(c)
	if w == nil {
		return
	}
	w.unmap()
	wm.lostFocus(w)
}

func (wm *WM) Deiconify(c *client.Client) {
	w := wm.window(c)
	if w == nil {
		return
	}
	if c.State()&client.StateShaded == 0 && w.onDesktop() {
		w.show()
		w.Raise()
	}
}

// SendToDesktop moves a window to a desktop that exists. Requests for a
// desktop past the last one move the window to the last desktop.
func (wm *WM) SendToDesktop(c *client.Client, desktop int) {
	w := wm.window(c)
	if w == nil {
		return
	}
	if d := clampDesktop(desktop, wm.Config.Desktops); d != desktop {
		wm.log.Debug("desktop out of range", "window", uint32(w.Id), "desktop", desktop, "using", d)
		c.SetDesktop(d)
		return
	}
	w.updateVisibility()
	if !w.visible() {
		wm.lostFocus(w)
	}
}

func clampDesktop(d, desktops int) int {
	if d == client.AllDesktops || d < desktops {
		return d
	}
	return desktops - 1
}

func (wm *WM) lostFocus(w *Window) {
	if wm.CurWindow == w {
		wm.CurWindow = nil
	}
}

func (wm *WM) GroupChanged(c *client.Client, old, new xproto.Window) {
	id := c.Window()
	if members := wm.groups[old]; members != nil {
		delete(members, id)
		if len(members) == 0 {
			delete(wm.groups, old)
		}
	}
	if new != 0 {
		if wm.groups[new] == nil {
			wm.groups[new] = make(map[xproto.Window]bool)
		}
		wm.groups[new][id] = true
	}
	wm.log.Debug("group changed", "window", uint32(id), "old", uint32(old), "new", uint32(new))
}

// Group returns the managed windows that share the group leader.
func (wm *WM) Group(leader xproto.Window) []*Window {
	var out []*Window
	for id := range wm.groups[leader] {
		if w, ok := wm.Windows[id]; ok {
			out = append(out, w)
		}
	}
	return out
}

// ArbitrateFocus gives a modal window the focus. When a window stops being
// modal, the focus goes back to its group leader.
func (wm *WM) ArbitrateFocus(c *client.Client) {
	w := wm.window(c)
	if w == nil {
		return
	}
	if c.State()&client.StateModal != 0 {
		if w.visible() {
			w.Raise()
			w.Focus()
		}
		return
	}
	if wm.CurWindow != w {
		return
	}
	if leader, ok := wm.Windows[c.Group()]; ok && leader != w && leader.visible() {
		leader.Focus()
	}
}

// Maximize fills the head the window is on, minus the configured gaps, along
// the requested axes. An axis that is no longer maximized gets back the
// geometry it had before.
func (wm *WM) Maximize(c *client.Client, horz, vert bool) {
	w := wm.window(c)
	if w == nil {
		return
	}
	g := c.Geom()
	if horz && !w.maxed[0] {
		w.restore.X, w.restore.Width = g.X, g.Width
	}
	if vert && !w.maxed[1] {
		w.restore.Y, w.restore.Height = g.Y, g.Height
	}

	screen := subtractGaps(w.Screen(), wm.Config.Gap)
	bw := 2 * w.border(c.Layout())
	switch {
	case horz:
		g.X, g.Width = screen.X(), screen.Width()-bw
	case w.maxed[0]:
		g.X, g.Width = w.restore.X, w.restore.Width
	}
	switch {
	case vert:
		g.Y, g.Height = screen.Y(), screen.Height()-bw
	case w.maxed[1]:
		g.Y, g.Height = w.restore.Y, w.restore.Height
	}
	w.maxed = [2]bool{horz, vert}

	wm.log.Debug("maximizing", "window", uint32(w.Id), "horz", horz, "vert", vert, "geom", g)
	c.Move(g.X, g.Y)
	c.Resize(client.TopLeft, g.Width, g.Height)
}

// Shade hides the window. Without a title bar there is nothing left to show
// of a shaded window.
func (wm *WM) Shade(c *client.Client, shaded bool) {
	w := wm.window(c)
	if w == nil {
		return
	}
	w.updateVisibility()
	if shaded {
		wm.lostFocus(w)
	}
}

// Restack moves the window into the layer its type and state call for.
func (wm *WM) Restack(c *client.Client) {
	if w := wm.window(c); w != nil {
		w.Raise()
	}
}

func (wm *WM) Raise(c *client.Client) {
	if w := wm.window(c); w != nil {
		w.Raise()
	}
}

func (wm *WM) Lower(c *client.Client) {
	if w := wm.window(c); w != nil {
		w.Lower()
	}
}
