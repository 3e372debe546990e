// Package client keeps the window manager's view of a single managed
// top-level window. It reads the ICCCM, EWMH and Motif hints of the window,
// reconciles them into one model and applies the geometry and state changes
// the client asks for.
//
// A Client is not safe for concurrent use. All methods are meant to be
// called from the goroutine that dispatches X events.
package client

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
)

const defaultUnnamed = "Unnamed Window"

type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Unnamed is shown for windows without a title.
	Unnamed string
}

type Client struct {
	screen int
	win    xproto.Window

	props   PropertyStore
	atoms   AtomTable
	display Display
	frame   Frame
	mgr     Manager
	log     *slog.Logger
	unnamed string

	geom        Geom
	borderWidth int
	logical     Size

	typ         Type
	decorations Decoration
	functions   Function
	state       State
	wmState     int
	desktop     int

	sizeHints SizeHints
	wmHints   WMHints
	group     xproto.Window
	protocols Protocols
	shaped    bool

	title     string
	iconTitle string
	appName   string
	appClass  string
}

func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("client: "+format, args...))
	}
}

// New starts managing win. Every hint is read once, in order: geometry,
// desktop, type and capabilities, Motif hints, state, shape, protocols,
// normal hints, WM hints, titles and class.
func New(screen int, win xproto.Window, deps Deps, opts *Options) *Client {
	assert(screen >= 0, "negative screen %d", screen)
	assert(win != 0, "no window")
	assert(deps.Props != nil && deps.Atoms != nil && deps.Display != nil &&
		deps.Frame != nil && deps.Manager != nil, "missing collaborator")

	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	unnamed := opts.Unnamed
	if unnamed == "" {
		unnamed = defaultUnnamed
	}

	c := &Client{
		screen:    screen,
		win:       win,
		props:     deps.Props,
		atoms:     deps.Atoms,
		display:   deps.Display,
		frame:     deps.Frame,
		mgr:       deps.Manager,
		log:       logger.With("window", uint32(win)),
		unnamed:   unnamed,
		wmState:   icccm.StateNormal,
		sizeHints: defaultSizeHints(),
		wmHints:   defaultWMHints(),
	}

	c.readGeometry()
	c.readDesktop()
	c.readType()
	c.decorations, c.functions = defaultCapabilities(c.typ)
	c.readMotifHints()
	c.readNetState()
	c.readShape()
	c.updateProtocols()
	c.updateNormalHints()
	c.updateWMHints()
	c.updateTitle()
	c.updateIconTitle()
	c.updateClass()

	c.log.Debug("managing window",
		"title", c.title,
		"class", c.appClass,
		"type", c.typ,
		"geom", c.geom,
		"desktop", c.desktop,
		"decorations", c.decorations,
		"functions", c.functions,
		"state", c.state,
		"shaped", c.shaped)
	return c
}

// Destroy forgets the per-lifetime properties of the window, so that a later
// map of the same window starts out fresh.
func (c *Client) Destroy() {
	for _, prop := range []string{"_NET_WM_DESKTOP", "_NET_WM_STATE"} {
		if err := c.props.Erase(c.win, prop); err != nil {
			c.log.Warn("could not erase property", "property", prop, "error", err)
		}
	}
}

func (c *Client) readGeometry() {
	geom, bw, err := c.display.Geometry(c.win)
	if err != nil {
		c.log.Warn("could not read geometry", "error", err)
		return
	}
	c.geom = geom
	c.borderWidth = bw
}

func (c *Client) readDesktop() {
	c.desktop = c.mgr.CurrentDesktop()
	vals, err := c.props.Nums(c.win, "_NET_WM_DESKTOP", "CARDINAL")
	if err != nil {
		c.logPropError("_NET_WM_DESKTOP", err)
		return
	}
	if len(vals) == 0 {
		return
	}
	if d, ok := desktopFromWire(vals[0]); ok {
		c.desktop = d
	}
}

func desktopFromWire(v uint) (int, bool) {
	if v == allDesktopsWire {
		return AllDesktops, true
	}
	d := signed(v)
	return d, d >= 0
}

func desktopToWire(d int) uint {
	if d == AllDesktops {
		return allDesktopsWire
	}
	return uint(d)
}

func (c *Client) readType() {
	c.typ = TypeNormal
	vals, err := c.props.Nums(c.win, "_NET_WM_WINDOW_TYPE", "ATOM")
	if err != nil {
		c.logPropError("_NET_WM_WINDOW_TYPE", err)
		return
	}
	c.typ = windowType(c.atoms, vals)
}

func (c *Client) readMotifHints() {
	vals, err := c.props.Nums(c.win, "_MOTIF_WM_HINTS", "_MOTIF_WM_HINTS")
	if err != nil {
		c.logPropError("_MOTIF_WM_HINTS", err)
		return
	}
	h, err := decodeMotifHints(vals)
	if err != nil {
		c.logPropError("_MOTIF_WM_HINTS", err)
		return
	}
	c.decorations, c.functions = applyMotif(c.decorations, c.functions, h)
}

// readNetState replaces all state flags with the ones in _NET_WM_STATE.
func (c *Client) readNetState() {
	c.state = 0
	vals, err := c.props.Nums(c.win, "_NET_WM_STATE", "ATOM")
	if err != nil {
		c.logPropError("_NET_WM_STATE", err)
		return
	}
	c.state = netState(c.atoms, vals)
}

func (c *Client) readShape() {
	c.shaped = false
	if !c.display.ShapeSupported() {
		return
	}
	shaped, err := c.display.Shaped(c.win)
	if err != nil {
		c.log.Debug("could not query shape", "error", err)
		return
	}
	c.shaped = shaped
}

func (c *Client) updateProtocols() {
	c.protocols = Protocols{}
	vals, err := c.props.Nums(c.win, "WM_PROTOCOLS", "ATOM")
	if err != nil {
		c.logPropError("WM_PROTOCOLS", err)
	} else {
		c.protocols = protocols(c.atoms, vals)
	}
	c.decorations, c.functions = applyProtocols(c.typ, c.decorations, c.functions, c.protocols)
}

func (c *Client) updateNormalHints() {
	c.sizeHints = defaultSizeHints()
	vals, err := c.props.Nums(c.win, "WM_NORMAL_HINTS", "WM_SIZE_HINTS")
	if err != nil {
		c.logPropError("WM_NORMAL_HINTS", err)
		return
	}
	h, err := decodeSizeHints(vals)
	if err != nil {
		c.logPropError("WM_NORMAL_HINTS", err)
		return
	}
	c.sizeHints = h
}

func (c *Client) updateWMHints() {
	c.wmHints = defaultWMHints()
	vals, err := c.props.Nums(c.win, "WM_HINTS", "WM_HINTS")
	if err != nil {
		c.logPropError("WM_HINTS", err)
		return
	}
	h, err := decodeWMHints(vals)
	if err != nil {
		c.logPropError("WM_HINTS", err)
		return
	}
	c.wmHints = h

	group := xproto.Window(0)
	if h.HasGroup {
		group = h.Group
	}
	if group != c.group {
		old := c.group
		c.group = group
		c.mgr.GroupChanged(c, old, group)
	}
}

func (c *Client) readTitle(netProp, oldProp string) string {
	s, err := c.props.Text(c.win, netProp)
	if err != nil || s == "" {
		s, err = c.props.Text(c.win, oldProp)
		if err != nil {
			c.logPropError(oldProp, err)
		}
	}
	if s == "" {
		return c.unnamed
	}
	return s
}

func (c *Client) updateTitle() {
	c.title = c.readTitle("_NET_WM_NAME", "WM_NAME")
}

func (c *Client) updateIconTitle() {
	c.iconTitle = c.readTitle("_NET_WM_ICON_NAME", "WM_ICON_NAME")
}

func (c *Client) updateClass() {
	c.appName, c.appClass = "", ""
	vals, err := c.props.Texts(c.win, "WM_CLASS")
	if err != nil {
		c.logPropError("WM_CLASS", err)
		return
	}
	if len(vals) > 0 {
		c.appName = vals[0]
	}
	if len(vals) > 1 {
		c.appClass = vals[1]
	}
}

// logPropError logs property read failures. Absent properties are normal
// and only logged at debug level.
func (c *Client) logPropError(prop string, err error) {
	if errors.Is(err, ErrNoProperty) {
		c.log.Debug("property not set", "property", prop)
		return
	}
	c.log.Warn("ignoring property", "property", prop, "error", err)
}

func (c *Client) layout() Layout {
	return Layout{
		Geom:        c.geom,
		BorderWidth: c.borderWidth,
		Gravity:     c.sizeHints.Gravity,
		Decorations: c.decorations,
	}
}

func (c *Client) Screen() int { return c.screen }
func (c *Client) Window() xproto.Window { return c.win }
func (c *Client) Geom() Geom { return c.geom }
func (c *Client) BorderWidth() int { return c.borderWidth }
func (c *Client) LogicalSize() Size { return c.logical }
func (c *Client) Type() Type { return c.typ }
func (c *Client) Decorations() Decoration { return c.decorations }
func (c *Client) Functions() Function { return c.functions }
func (c *Client) State() State { return c.state }
func (c *Client) WMState() int { return c.wmState }
func (c *Client) Desktop() int { return c.desktop }
func (c *Client) SizeHints() SizeHints { return c.sizeHints }
func (c *Client) Group() xproto.Window { return c.group }
func (c *Client) CanFocus() bool { return c.wmHints.CanFocus }
func (c *Client) Urgent() bool { return c.wmHints.Urgent }
func (c *Client) FocusNotify() bool { return c.protocols.TakeFocus }
func (c *Client) CanClose() bool { return c.protocols.DeleteWindow }
func (c *Client) Shaped() bool { return c.shaped }
func (c *Client) Title() string { return c.title }
func (c *Client) IconTitle() string { return c.iconTitle }
func (c *Client) Class() (name, class string) { return c.appName, c.appClass }
func (c *Client) Layout() Layout { return c.layout() }

func (c *Client) String() string {
	return fmt.Sprintf("%d (%s)", c.win, c.title)
}

// Info is a copy of a client's state.
type Info struct {
	Window      xproto.Window
	Screen      int
	Geom        Geom
	BorderWidth int
	LogicalSize Size
	Type        Type
	Decorations Decoration
	Functions   Function
	State       State
	WMState     int
	Desktop     int
	SizeHints   SizeHints
	Group       xproto.Window
	CanFocus    bool
	Urgent      bool
	FocusNotify bool
	CanClose    bool
	Shaped      bool
	Title       string
	IconTitle   string
	AppName     string
	AppClass    string
}

func (c *Client) Snapshot() Info {
	return Info{
		Window:      c.win,
		Screen:      c.screen,
		Geom:        c.geom,
		BorderWidth: c.borderWidth,
		LogicalSize: c.logical,
		Type:        c.typ,
		Decorations: c.decorations,
		Functions:   c.functions,
		State:       c.state,
		WMState:     c.wmState,
		Desktop:     c.desktop,
		SizeHints:   c.sizeHints,
		Group:       c.group,
		CanFocus:    c.wmHints.CanFocus,
		Urgent:      c.wmHints.Urgent,
		FocusNotify: c.protocols.TakeFocus,
		CanClose:    c.protocols.DeleteWindow,
		Shaped:      c.shaped,
		Title:       c.title,
		IconTitle:   c.iconTitle,
		AppName:     c.appName,
		AppClass:    c.appClass,
	}
}
