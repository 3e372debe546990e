package client

import (
	"io"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
)

const testWin xproto.Window = 0x400001

var testAtomNames = []string{
	"WM_NAME", "WM_ICON_NAME", "WM_CLASS", "WM_HINTS", "WM_NORMAL_HINTS",
	"WM_PROTOCOLS", "WM_DELETE_WINDOW", "WM_TAKE_FOCUS", "WM_CHANGE_STATE",
	"WM_STATE", "_NET_WM_NAME", "_NET_WM_ICON_NAME", "_NET_WM_DESKTOP",
	"_NET_WM_STATE", "_NET_WM_WINDOW_TYPE", "_MOTIF_WM_HINTS",
	"_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_TOOLBAR", "_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_UTILITY", "_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_DIALOG", "_NET_WM_WINDOW_TYPE_NORMAL",
	"_NET_WM_STATE_MODAL", "_NET_WM_STATE_SHADED",
	"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ",
	"_NET_WM_STATE_FULLSCREEN", "_NET_WM_STATE_FLOATING",
	"_NET_WM_STATE_STICKY",
}

type fakeAtoms map[string]xproto.Atom

func newFakeAtoms() fakeAtoms {
	at := fakeAtoms{}
	for i, name := range testAtomNames {
		at[name] = xproto.Atom(100 + i)
	}
	return at
}

func (at fakeAtoms) Atom(name string) xproto.Atom { return at[name] }

func (at fakeAtoms) nums(names ...string) []uint {
	out := make([]uint, len(names))
	for i, name := range names {
		out[i] = uint(at[name])
	}
	return out
}

type fakeProps struct {
	nums   map[string][]uint
	texts  map[string]string
	lists  map[string][]string
	reads  map[string]int
	erased []string
}

func newFakeProps() *fakeProps {
	return &fakeProps{
		nums:  map[string][]uint{},
		texts: map[string]string{},
		lists: map[string][]string{},
		reads: map[string]int{},
	}
}

func (p *fakeProps) Nums(win xproto.Window, prop, typ string) ([]uint, error) {
	p.reads[prop]++
	v, ok := p.nums[prop]
	if !ok {
		return nil, ErrNoProperty
	}
	return v, nil
}

func (p *fakeProps) Text(win xproto.Window, prop string) (string, error) {
	p.reads[prop]++
	v, ok := p.texts[prop]
	if !ok {
		return "", ErrNoProperty
	}
	return v, nil
}

func (p *fakeProps) Texts(win xproto.Window, prop string) ([]string, error) {
	p.reads[prop]++
	v, ok := p.lists[prop]
	if !ok {
		return nil, ErrNoProperty
	}
	return v, nil
}

func (p *fakeProps) SetNums(win xproto.Window, prop, typ string, vals ...uint) error {
	p.nums[prop] = append([]uint(nil), vals...)
	return nil
}

func (p *fakeProps) Erase(win xproto.Window, prop string) error {
	delete(p.nums, prop)
	p.erased = append(p.erased, prop)
	return nil
}

type fakeDisplay struct {
	queue  []Event
	geom   Geom
	shape  bool
	shaped bool
}

func (d *fakeDisplay) Peek() (Event, bool) {
	if len(d.queue) == 0 {
		return nil, false
	}
	return d.queue[0], true
}

func (d *fakeDisplay) Discard() { d.queue = d.queue[1:] }

func (d *fakeDisplay) Geometry(win xproto.Window) (Geom, int, error) {
	return d.geom, 0, nil
}

func (d *fakeDisplay) ShapeSupported() bool { return d.shape }

func (d *fakeDisplay) Shaped(win xproto.Window) (bool, error) { return d.shaped, nil }

// run dispatches queued events the way the event loop does.
func (d *fakeDisplay) run(c *Client) {
	for len(d.queue) > 0 {
		ev := d.queue[0]
		d.queue = d.queue[1:]
		c.Handle(ev)
	}
}

type fakeFrame struct {
	adjusted []Layout
	gravity  []Layout
}

func (f *fakeFrame) Adjust(l Layout) { f.adjusted = append(f.adjusted, l) }
func (f *fakeFrame) ApplyGravity(l Layout) { f.gravity = append(f.gravity, l) }

type fakeManager struct {
	desktop int
	calls   []string
	groups  [][2]xproto.Window
	maxed   [2]bool
	sentTo  []int
}

func (m *fakeManager) CurrentDesktop() int { return m.desktop }
func (m *fakeManager) Iconify(c *Client) { m.calls = append(m.calls, "iconify") }
func (m *fakeManager) Deiconify(c *Client) { m.calls = append(m.calls, "deiconify") }
func (m *fakeManager) ArbitrateFocus(c *Client) { m.calls = append(m.calls, "focus") }
func (m *fakeManager) Restack(c *Client) { m.calls = append(m.calls, "restack") }
func (m *fakeManager) Raise(c *Client) { m.calls = append(m.calls, "raise") }
func (m *fakeManager) Lower(c *Client) { m.calls = append(m.calls, "lower") }

func (m *fakeManager) SendToDesktop(c *Client, desktop int) {
	m.sentTo = append(m.sentTo, desktop)
}

func (m *fakeManager) GroupChanged(c *Client, old, new xproto.Window) {
	m.groups = append(m.groups, [2]xproto.Window{old, new})
}

func (m *fakeManager) Maximize(c *Client, horz, vert bool) {
	m.calls = append(m.calls, "maximize")
	m.maxed = [2]bool{horz, vert}
}

func (m *fakeManager) Shade(c *Client, shaded bool) {
	if shaded {
		m.calls = append(m.calls, "shade")
	} else {
		m.calls = append(m.calls, "unshade")
	}
}

type fixture struct {
	atoms   fakeAtoms
	props   *fakeProps
	display *fakeDisplay
	frame   *fakeFrame
	mgr     *fakeManager
}

func newFixture() *fixture {
	return &fixture{
		atoms:   newFakeAtoms(),
		props:   newFakeProps(),
		display: &fakeDisplay{geom: Geom{X: 100, Y: 100, Width: 400, Height: 300}},
		frame:   &fakeFrame{},
		mgr:     &fakeManager{desktop: 2},
	}
}

func (f *fixture) client() *Client {
	return New(0, testWin, Deps{
		Props:   f.props,
		Atoms:   f.atoms,
		Display: f.display,
		Frame:   f.frame,
		Manager: f.mgr,
	}, &Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}
