package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/BurntSushi/xgb/shape"
	xgbxinerama "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xrect"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/thejerf/suture/v4"

	"honnef.co/go/wmclient/client"
	"honnef.co/go/wmclient/config"
	"honnef.co/go/wmclient/internal/xconn"
)

const wmName = "wmclient"

var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_WM_ICON_NAME",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLOSE_WINDOW",
	"_NET_WM_DESKTOP",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_NORMAL",
	"_NET_WM_STATE",
	"_NET_WM_STATE_MODAL",
	"_NET_WM_STATE_MAXIMIZED_VERT",
	"_NET_WM_STATE_MAXIMIZED_HORZ",
	"_NET_WM_STATE_SHADED",
	"_NET_WM_STATE_FULLSCREEN",
}

type WM struct {
	X         *xgbutil.XUtil
	Conn      *xconn.Conn
	Cursors   map[string]xproto.Cursor
	Root      *xwindow.Window
	Config    *config.Config
	Windows   map[xproto.Window]*Window
	CurWindow *Window

	desktop int
	// groups maps a group leader to the windows in its group.
	groups  map[xproto.Window]map[xproto.Window]bool
	unnamed string
	exec    chan func()
	log     *slog.Logger

	loop                sync.Once
	before, after, quit chan struct{}
}

func NewWM(xu *xgbutil.XUtil, cfg *config.Config, logger *slog.Logger) *WM {
	return &WM{
		X:       xu,
		Conn:    xconn.New(xu, logger),
		Cursors: make(map[string]xproto.Cursor),
		Config:  cfg,
		Windows: make(map[xproto.Window]*Window),
		groups:  make(map[xproto.Window]map[xproto.Window]bool),
		unnamed: unnamedTitle(cfg.Language),
		exec:    make(chan func()),
		log:     logger,
	}
}

func (wm *WM) String() string { return "window manager" }

func (wm *WM) LoadCursors(mapping map[string]uint16) {
	var err error
	for name, cursor := range mapping {
		wm.Cursors[name], err = xcursor.CreateCursor(wm.X, cursor)
		must(err)
	}
}

// Init takes over the root window, manages the windows that already exist
// and publishes the EWMH root hints.
func (wm *WM) Init() error {
	wm.LoadCursors(map[string]uint16{
		"fleur":               xcursor.Fleur,
		"normal":              xcursor.LeftPtr,
		"top_left_corner":     xcursor.TopLeftCorner,
		"top_right_corner":    xcursor.TopRightCorner,
		"bottom_left_corner":  xcursor.BottomLeftCorner,
		"bottom_right_corner": xcursor.BottomRightCorner,
	})

	mousebind.Initialize(wm.X)
	keybind.Initialize(wm.X)
	if err := xgbxinerama.Init(wm.X.Conn()); err != nil {
		wm.log.Info("Xinerama is not available, using the root window as the only head", "error", err)
	}

	wm.Root = xwindow.New(wm.X, wm.X.RootWin())
	err := wm.Root.Listen(xproto.EventMaskStructureNotify, xproto.EventMaskSubstructureNotify,
		xproto.EventMaskFocusChange, xproto.EventMaskSubstructureRedirect)
	if err != nil {
		return fmt.Errorf("could not select substructure redirect, is another window manager running? %w", err)
	}
	xproto.ChangeWindowAttributes(wm.X.Conn(), wm.Root.Id, xproto.CwCursor, []uint32{uint32(wm.Cursors["normal"])})

	xevent.MapRequestFun(wm.MapRequest).Connect(wm.X, wm.Root.Id)
	xevent.ConfigureRequestFun(wm.ConfigureRequest).Connect(wm.X, wm.Root.Id)
	xevent.ClientMessageFun(wm.ClientMessage).Connect(wm.X, wm.Root.Id)
	xevent.HookFun(wm.shapeHook).Connect(wm.X)

	for key, cmd := range wm.Config.Keys() {
		key, cmd := key, cmd
		should(keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			wm.run(cmd)
		}).Connect(wm.X, wm.Root.Id, key.ToXGB(), true))
	}

	names := make([]string, wm.Config.Desktops)
	for i := range names {
		names[i] = strconv.Itoa(i + 1)
	}
	should(ewmh.NumberOfDesktopsSet(wm.X, uint(wm.Config.Desktops)))
	should(ewmh.DesktopNamesSet(wm.X, names))
	should(ewmh.CurrentDesktopSet(wm.X, 0))
	should(ewmh.DesktopViewportSet(wm.X, nil))
	should(ewmh.SupportedSet(wm.X, supported))

	win, err := xwindow.Create(wm.X, wm.Root.Id)
	if err != nil {
		return err
	}
	must(ewmh.SupportingWmCheckSet(wm.X, wm.Root.Id, win.Id))
	must(ewmh.SupportingWmCheckSet(wm.X, win.Id, win.Id))
	must(ewmh.WmNameSet(wm.X, win.Id, wmName))

	tree, err := xproto.QueryTree(wm.X.Conn(), wm.Root.Id).Reply()
	if err != nil {
		return err
	}
	for _, id := range tree.Children {
		if id == win.Id || !wm.wasManaged(id) {
			continue
		}
		wm.manage(id)
	}
	wm.updateClientList()
	return nil
}

// wasManaged reports whether an existing window should be managed: it is
// either mapped or was iconified by a previous window manager.
func (wm *WM) wasManaged(id xproto.Window) bool {
	attr, err := xproto.GetWindowAttributes(wm.X.Conn(), id).Reply()
	if err != nil || attr.OverrideRedirect {
		return false
	}
	if attr.MapState == xproto.MapStateViewable {
		return true
	}
	state, err := icccm.WmStateGet(wm.X, id)
	return err == nil && state.State == icccm.StateIconic
}

// Serve runs the X event loop until ctx is canceled. Functions passed to Do
// run between events. The event loop itself is started only once, so a
// restarted Serve picks up where the last one left off.
func (wm *WM) Serve(ctx context.Context) error {
	wm.loop.Do(func() {
		wm.before, wm.after, wm.quit = xevent.MainPing(wm.X)
	})
	for {
		select {
		case <-wm.before:
			<-wm.after
		case fn := <-wm.exec:
			fn()
		case <-wm.quit:
			return fmt.Errorf("X event loop stopped: %w", suture.ErrTerminateSupervisorTree)
		case <-ctx.Done():
			xevent.Quit(wm.X)
			return ctx.Err()
		}
	}
}

// Do runs fn on the event loop and waits for it to return.
func (wm *WM) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case wm.exec <- func() { defer close(done); fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

func (wm *WM) manage(id xproto.Window) *Window {
	if w, ok := wm.Windows[id]; ok {
		return w
	}
	attr, err := xproto.GetWindowAttributes(wm.X.Conn(), id).Reply()
	if err != nil {
		should(err)
		return nil
	}
	if attr.OverrideRedirect {
		return nil
	}

	w := &Window{Window: xwindow.New(wm.X, id), wm: wm, Mapped: attr.MapState != xproto.MapStateUnmapped}
	wm.Windows[id] = w
	c := client.New(wm.X.Conn().DefaultScreen, id, client.Deps{
		Props:   wm.Conn,
		Atoms:   wm.Conn,
		Display: wm.Conn,
		Frame:   w,
		Manager: wm,
	}, &client.Options{Logger: wm.log, Unnamed: wm.unnamed})
	w.c = c
	wm.log.Info("managing window", "window", uint32(id), "title", c.Title(), "type", c.Type())

	w.Init()

	iconic := wm.startsIconic(id, w.Mapped)
	g := c.Geom()
	if !w.Mapped && !iconic && !c.SizeHints().Positioned {
		ptr, err := xproto.QueryPointer(wm.X.Conn(), wm.Root.Id).Reply()
		if err == nil {
			g.X = int(ptr.RootX) - g.Width/2
			g.Y = int(ptr.RootY) - g.Height/2
		} else {
			wm.log.Warn("could not get pointer position", "error", err)
		}
	}
	c.Move(g.X, g.Y)
	c.Resize(client.TopLeft, g.Width, g.Height)

	should(icccm.WmStateSet(wm.X, id, &icccm.WmState{State: icccm.StateNormal}))
	if iconic {
		c.SetWMState(icccm.StateIconic)
	}
	name, class := c.Class()
	if d, ok := wm.Config.Autogroup(name, class); ok {
		c.SetDesktop(d)
	} else if wm.Config.Sticky {
		c.SetDesktop(client.AllDesktops)
	}
	if c.State()&client.StateShaded != 0 {
		wm.Shade(c, true)
	}
	if c.State()&(client.StateMaxHorz|client.StateMaxVert) != 0 {
		wm.Maximize(c, c.State()&client.StateMaxHorz != 0, c.State()&client.StateMaxVert != 0)
	}
	w.updateVisibility()
	w.Raise()
	wm.updateClientList()
	return w
}

// startsIconic reports whether a window is to be managed in the iconic
// state. A window being mapped asks for it in WM_HINTS; an existing window
// keeps the state a previous window manager gave it.
func (wm *WM) startsIconic(id xproto.Window, mapped bool) bool {
	if state, err := icccm.WmStateGet(wm.X, id); err == nil && state.State == icccm.StateIconic {
		return true
	}
	if mapped {
		return false
	}
	hints, err := icccm.WmHintsGet(wm.X, id)
	return err == nil && hints.Flags&icccm.HintState != 0 && hints.InitialState == icccm.StateIconic
}

func (wm *WM) unmanage(w *Window, destroyed bool) {
	if _, ok := wm.Windows[w.Id]; !ok {
		return
	}
	wm.log.Info("unmanaging window", "window", uint32(w.Id), "title", w.c.Title())
	if !destroyed {
		w.c.Destroy()
	}
	if g := w.c.Group(); g != 0 {
		wm.GroupChanged(w.c, g, 0)
	}
	w.Detach()
	delete(wm.Windows, w.Id)
	if wm.CurWindow == w {
		wm.CurWindow = nil
	}
	wm.updateClientList()
}

func (wm *WM) updateClientList() {
	var ids []xproto.Window
	for _, w := range wm.Stacking() {
		ids = append(ids, w.Id)
	}
	should(ewmh.ClientListSet(wm.X, ids))
}

// window returns the managed window of c, or nil while c is still being
// constructed.
func (wm *WM) window(c *client.Client) *Window {
	w, ok := wm.Windows[c.Window()]
	if !ok || w.c == nil {
		return nil
	}
	return w
}

func (wm *WM) MapRequest(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
	if w, ok := wm.Windows[ev.Window]; ok {
		w.c.SetWMState(icccm.StateNormal)
		return
	}
	if wm.manage(ev.Window) == nil {
		should(xproto.MapWindowChecked(xu.Conn(), ev.Window).Check())
	}
}

// ConfigureRequest hands requests of managed windows to their client and
// grants everything else as asked.
func (wm *WM) ConfigureRequest(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
	if w, ok := wm.Windows[ev.Window]; ok && w.c != nil {
		if cev, ok := xconn.Convert(*ev.ConfigureRequestEvent); ok {
			w.c.Handle(cev)
		}
		return
	}
	xwindow.New(xu, ev.Window).Configure(int(ev.ValueMask),
		int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height),
		ev.Sibling, ev.StackMode)
}

func (wm *WM) ClientMessage(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
	if ev.Type != wm.Conn.Atom("_NET_CURRENT_DESKTOP") || ev.Format != 32 {
		return
	}
	wm.SwitchDesktop(int(ev.Data.Data32[0]))
}

func (wm *WM) shapeHook(xu *xgbutil.XUtil, ev interface{}) bool {
	sev, ok := ev.(shape.NotifyEvent)
	if !ok {
		return true
	}
	if w, ok := wm.Windows[sev.AffectedWindow]; ok && w.c != nil {
		if cev, ok := xconn.Convert(sev); ok {
			w.c.Handle(cev)
		}
	}
	return false
}

func (wm *WM) SwitchDesktop(d int) {
	if d < 0 || d >= wm.Config.Desktops || d == wm.desktop {
		return
	}
	wm.log.Debug("switching desktop", "from", wm.desktop, "to", d)
	wm.desktop = d
	for _, w := range wm.Windows {
		w.updateVisibility()
	}
	if wm.CurWindow != nil && !wm.CurWindow.visible() {
		wm.CurWindow = nil
	}
	should(ewmh.CurrentDesktopSet(wm.X, uint(d)))
}

// Stacking returns the managed windows from bottom to top.
func (wm *WM) Stacking() []*Window {
	tree, err := xproto.QueryTree(wm.X.Conn(), wm.Root.Id).Reply()
	if err != nil {
		should(err)
		return nil
	}
	var out []*Window
	for _, id := range tree.Children {
		if w, ok := wm.Windows[id]; ok && w.c != nil {
			out = append(out, w)
		}
	}
	return out
}

func (wm *WM) restackWindows(windows []*Window) {
	if len(windows) < 2 {
		return
	}

	windows[0].StackSibling(windows[1].Id, xproto.StackModeBelow)
	for i := 2; i < len(windows); i++ {
		windows[i].StackSibling(windows[i-1].Id, xproto.StackModeAbove)
	}
}

func (wm *WM) Screens() []xrect.Rect {
	heads, err := xinerama.PhysicalHeads(wm.X)
	if len(heads) == 0 || err != nil {
		rect, err := wm.Root.Geometry()
		must(err)
		heads = append(heads, rect)
	}
	return heads
}
