package main

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xrect"
	"github.com/BurntSushi/xgbutil/xwindow"

	"honnef.co/go/wmclient/client"
	"honnef.co/go/wmclient/internal/xconn"
)

type corner int

const (
	cornerNone = 0
	cornerN    = 1
	cornerW    = 2
	cornerS    = 4
	cornerE    = 8

	cornerNW = cornerN | cornerW
	cornerNE = cornerN | cornerE
	cornerSW = cornerS | cornerW
	cornerSE = cornerS | cornerE
)

// anchor is the corner that stays in place while c is being dragged.
func (c corner) anchor() client.Corner {
	switch c {
	case cornerNW:
		return client.BottomRight
	case cornerNE:
		return client.BottomLeft
	case cornerSW:
		return client.TopRight
	default:
		return client.TopLeft
	}
}

type drag struct {
	startX, startY   int
	offsetX, offsetY int
	corner           corner
}

type Layer int

const (
	LayerDesktop Layer = -2
	LayerBelow   Layer = -1
	LayerNormal  Layer = 0
	LayerAbove   Layer = 1
)

func layerOf(t client.Type, s client.State) Layer {
	switch {
	case t == client.TypeDesktop:
		return LayerDesktop
	case t == client.TypeDock, s&(client.StateFullscreen|client.StateFloating) != 0:
		return LayerAbove
	default:
		return LayerNormal
	}
}

// Window is a managed top-level window. It is the client's frame: we don't
// reparent, so the frame is the window itself plus its border.
type Window struct {
	*xwindow.Window
	c       *client.Client
	wm      *WM
	Mapped  bool
	curDrag drag

	// unmapIgnore counts the UnmapNotify events caused by us.
	unmapIgnore int
	// restore is the geometry before maximizing.
	restore client.Geom
	maxed   [2]bool
}

var _ client.Frame = (*Window)(nil)

func (w *Window) Client() *client.Client { return w.c }

func (w *Window) Name() string {
	if w.c == nil {
		return ""
	}
	return w.c.Title()
}

func (w *Window) Layer() Layer {
	return layerOf(w.c.Type(), w.c.State())
}

func (w *Window) SetBorderColor(color uint32) {
	w.Change(xproto.CwBorderPixel, color)
}

func (w *Window) SetBorderWidth(width int) {
	xproto.ConfigureWindow(w.wm.X.Conn(), w.Id, xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
}

// border is the width of the border we draw around l.
func (w *Window) border(l client.Layout) int {
	if l.Decorations&client.DecorBorder == 0 || w.wm.Config.Ignored(w.Name()) {
		return 0
	}
	return w.wm.Config.BorderWidth
}

// origin is where the X window goes for the client area l.
func (w *Window) origin(l client.Layout) (x, y, bw int) {
	bw = w.border(l)
	dx, dy := gravityOffset(l.Gravity, bw-l.BorderWidth)
	return l.Geom.X + dx, l.Geom.Y + dy, bw
}

// Adjust applies a new size.
func (w *Window) Adjust(l client.Layout) {
	x, y, bw := w.origin(l)
	w.SetBorderWidth(bw)
	w.Window.MoveResize(x, y, max(l.Geom.Width, 1), max(l.Geom.Height, 1))
	w.SendStructureNotify(x, y, bw)
}

// ApplyGravity applies a new position.
func (w *Window) ApplyGravity(l client.Layout) {
	x, y, bw := w.origin(l)
	w.Window.Move(x, y)
	w.SendStructureNotify(x, y, bw)
}

func (w *Window) SendStructureNotify(x, y, bw int) {
	g := w.c.Geom()
	w.wm.log.Debug("sending structure notify", "window", uint32(w.Id), "x", x, "y", y, "width", g.Width, "height", g.Height)
	ev := xproto.ConfigureNotifyEvent{
		Event:            w.Id,
		Window:           w.Id,
		AboveSibling:     xevent.NoWindow,
		X:                int16(x),
		Y:                int16(y),
		Width:            uint16(max(g.Width, 1)),
		Height:           uint16(max(g.Height, 1)),
		BorderWidth:      uint16(bw),
		OverrideRedirect: false,
	}
	xproto.SendEvent(w.wm.X.Conn(), false, w.Id,
		xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

func (w *Window) Raise() {
	windows := make(map[Layer][]*Window)
	for _, ow := range w.wm.Stacking() {
		if ow == w {
			continue
		}
		windows[ow.Layer()] = append(windows[ow.Layer()], ow)
	}
	windows[w.Layer()] = append(windows[w.Layer()], w)
	w.wm.restackWindows(flatten(windows))
}

func (w *Window) Lower() {
	windows := make(map[Layer][]*Window)
	windows[w.Layer()] = []*Window{w}
	for _, ow := range w.wm.Stacking() {
		if ow == w {
			continue
		}
		windows[ow.Layer()] = append(windows[ow.Layer()], ow)
	}
	w.wm.restackWindows(flatten(windows))
}

func flatten(windows map[Layer][]*Window) []*Window {
	var update []*Window
	for layer := LayerDesktop; layer <= LayerAbove; layer++ {
		update = append(update, windows[layer]...)
	}
	return update
}

func (w *Window) MoveBegin(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
	if w.c.Functions()&client.FuncMove == 0 {
		return false, 0
	}
	g := w.c.Geom()
	w.curDrag = drag{g.X, g.Y, rootX, rootY, cornerNone}
	w.Raise()
	return true, w.wm.Cursors["fleur"]
}

func (w *Window) MoveStep(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	dx := rootX - w.curDrag.offsetX
	dy := rootY - w.curDrag.offsetY

	g := w.c.Geom()
	x := w.curDrag.startX + dx
	y := w.curDrag.startY + dy
	bw := w.wm.Config.BorderWidth

	screen := subtractGaps(w.Screen(), w.wm.Config.Gap)
	x += snapcalc(x, x+g.Width+bw*2,
		screen.X(), screen.X()+screen.Width(), w.wm.Config.Snapdist)
	y += snapcalc(y, y+g.Height+bw*2,
		screen.Y(), screen.Y()+screen.Height(), w.wm.Config.Snapdist)
	w.c.Move(x, y)
}

func (w *Window) MoveEnd(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
}

func (w *Window) ResizeBegin(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
	if w.c.Functions()&client.FuncResize == 0 {
		return false, 0
	}
	if eventX < 0 {
		eventX = 0
	}
	if eventY < 0 {
		eventY = 0
	}

	var (
		corner           corner
		x, y             int
		cursorX, cursorY string
	)

	g := w.c.Geom()
	if eventX > g.Width/2 {
		corner |= cornerE
		cursorX = "right"
		x = g.Width
	} else {
		corner |= cornerW
		cursorX = "left"
	}

	if eventY > g.Height/2 {
		corner |= cornerS
		cursorY = "bottom"
		y = g.Height
	} else {
		corner |= cornerN
		cursorY = "top"
	}

	w.curDrag = drag{g.X, g.Y, rootX, rootY, corner}
	xproto.WarpPointer(w.wm.X.Conn(), xproto.WindowNone, w.Id, 0, 0, 0, 0, int16(x), int16(y))
	return true, w.wm.Cursors[cursorY+"_"+cursorX+"_corner"]
}

func (w *Window) ResizeStep(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	width, height := dragSize(w.c.Geom(), w.curDrag.corner, rootX, rootY, w.wm.Config.BorderWidth)
	w.c.Resize(w.curDrag.corner.anchor(), width, height)
}

// dragSize is the size a window gets when its corner c is dragged to the
// pointer at x, y.
func dragSize(g client.Geom, c corner, x, y, bw int) (width, height int) {
	width, height = g.Width, g.Height
	if c&cornerW != 0 {
		width = g.X + g.Width - x + bw
	}
	if c&cornerE != 0 {
		width = x - g.X - bw
	}
	if c&cornerS != 0 {
		height = y - g.Y - bw
	}
	if c&cornerN != 0 {
		height = g.Y + g.Height - y + bw
	}
	return width, height
}

func (w *Window) ResizeEnd(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
}

func (w *Window) EnterNotify(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
	if w == w.wm.CurWindow {
		return
	}
	if !w.c.CanFocus() && !w.c.FocusNotify() {
		w.wm.log.Debug("not focusable, skipping", "window", uint32(w.Id))
		return
	}
	w.Focus()
}

func (w *Window) Focus() {
	if w.c.CanFocus() {
		w.Window.Focus()
	}
	if w.c.FocusNotify() {
		w.sendProtocol("WM_TAKE_FOCUS")
	}
	should(ewmh.ActiveWindowSet(w.wm.X, w.Id))

	if color, err := w.wm.Config.Color("activeborder"); err == nil {
		w.SetBorderColor(color)
	}
	if cur := w.wm.CurWindow; cur != nil && cur != w {
		cur.unfocused()
	}
	w.wm.CurWindow = w
}

func (w *Window) unfocused() {
	name := "inactiveborder"
	if w.c.Urgent() {
		name = "urgencyborder"
	}
	if color, err := w.wm.Config.Color(name); err == nil {
		w.SetBorderColor(color)
	}
}

// Close asks the client to close the window, or kills it if it doesn't
// speak WM_DELETE_WINDOW.
func (w *Window) Close() {
	if w.c.CanClose() {
		w.sendProtocol("WM_DELETE_WINDOW")
		return
	}
	w.wm.log.Info("killing client", "window", uint32(w.Id), "title", w.c.Title())
	w.Kill()
}

func (w *Window) sendProtocol(name string) {
	protocols, err := xprop.Atm(w.wm.X, "WM_PROTOCOLS")
	if err != nil {
		should(err)
		return
	}
	atom, err := xprop.Atm(w.wm.X, name)
	if err != nil {
		should(err)
		return
	}
	cm, err := xevent.NewClientMessage(32, w.Id, protocols, int(atom), int(w.wm.X.TimeGet()))
	if err != nil {
		should(err)
		return
	}
	should(xproto.SendEventChecked(w.wm.X.Conn(), false, w.Id, 0, string(cm.Bytes())).Check())
}

// unmap hides the window without the client noticing a withdrawal.
func (w *Window) unmap() {
	if !w.Mapped {
		return
	}
	w.unmapIgnore++
	w.Unmap()
	w.Mapped = false
}

func (w *Window) show() {
	if w.Mapped {
		return
	}
	w.Map()
	w.Mapped = true
}

// visible reports whether the window should be on screen right now.
func (w *Window) visible() bool {
	return w.c.WMState() != icccm.StateIconic &&
		w.c.State()&client.StateShaded == 0 &&
		w.onDesktop()
}

func (w *Window) onDesktop() bool {
	d := w.c.Desktop()
	return d == client.AllDesktops || d == w.wm.desktop
}

func (w *Window) updateVisibility() {
	if w.visible() {
		w.show()
	} else {
		w.unmap()
	}
}

// The root window selects substructure events too, so every structure
// event arrives twice. Only the copy sent to the window itself counts.

func (w *Window) DestroyNotify(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
	if ev.Event != w.Id {
		return
	}
	w.wm.unmanage(w, true)
}

func (w *Window) UnmapNotify(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
	if ev.Event != w.Id {
		return
	}
	if w.unmapIgnore > 0 {
		w.unmapIgnore--
		return
	}
	w.Mapped = false
	should(icccm.WmStateSet(w.wm.X, w.Id, &icccm.WmState{State: icccm.StateWithdrawn}))
	w.wm.unmanage(w, false)
}

func (w *Window) PropertyNotify(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	if cev, ok := xconn.Convert(*ev.PropertyNotifyEvent); ok {
		w.c.Handle(cev)
	}
}

func (w *Window) ClientMessage(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
	switch ev.Type {
	case w.wm.Conn.Atom("_NET_ACTIVE_WINDOW"):
		if !w.onDesktop() {
			w.wm.SwitchDesktop(w.c.Desktop())
		}
		w.c.SetWMState(icccm.StateNormal)
		w.Raise()
		w.Focus()
		return
	case w.wm.Conn.Atom("_NET_CLOSE_WINDOW"):
		w.Close()
		return
	}
	if cev, ok := xconn.Convert(*ev.ClientMessageEvent); ok {
		w.c.Handle(cev)
	}
}

func (w *Window) Init() {
	should(w.Listen(xproto.EventMaskEnterWindow, xproto.EventMaskFocusChange,
		xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange))
	w.unfocused()

	if ms, ok := w.wm.Config.MouseBinds["window_move"]; ok {
		mousebind.Drag(w.wm.X, w.Id, w.Id, ms.ToXGB(), true, w.MoveBegin, w.MoveStep, w.MoveEnd)
	}

	if ms, ok := w.wm.Config.MouseBinds["window_resize"]; ok {
		mousebind.Drag(w.wm.X, w.Id, w.Id, ms.ToXGB(), true, w.ResizeBegin, w.ResizeStep, w.ResizeEnd)
	}

	if ms, ok := w.wm.Config.MouseBinds["window_lower"]; ok {
		fn := func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) { w.Lower() }
		should(mousebind.ButtonPressFun(fn).Connect(w.wm.X, w.Id, ms.ToXGB(), false, true))
	}

	xevent.UnmapNotifyFun(w.UnmapNotify).Connect(w.wm.X, w.Id)
	xevent.DestroyNotifyFun(w.DestroyNotify).Connect(w.wm.X, w.Id)
	xevent.EnterNotifyFun(w.EnterNotify).Connect(w.wm.X, w.Id)
	xevent.PropertyNotifyFun(w.PropertyNotify).Connect(w.wm.X, w.Id)
	xevent.ClientMessageFun(w.ClientMessage).Connect(w.wm.X, w.Id)
}

func (w *Window) Center() (x, y int) {
	g := w.c.Geom()
	return g.X + g.Width/2, g.Y + g.Height/2
}

// Screen returns the physical head the window's center is on.
func (w *Window) Screen() xrect.Rect {
	screens := w.wm.Screens()
	cx, cy := w.Center()
	var screen xrect.Rect
	for _, screen = range screens {
		if (cx >= screen.X() && cx <= screen.X()+screen.Width()) &&
			(cy >= screen.Y() && cy <= screen.Y()+screen.Height()) {
			return screen
		}
	}

	return screen
}
