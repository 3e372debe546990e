package client

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
)

func TestNewDefaults(t *testing.T) {
	f := newFixture()
	c := f.client()

	if c.Type() != TypeNormal {
		t.Errorf("type = %v, want normal", c.Type())
	}
	d, fn := defaultCapabilities(TypeNormal)
	if c.Decorations() != d || c.Functions() != fn {
		t.Errorf("capabilities = %v, %v, want %v, %v", c.Decorations(), c.Functions(), d, fn)
	}
	if c.Desktop() != f.mgr.desktop {
		t.Errorf("desktop = %d, want current desktop %d", c.Desktop(), f.mgr.desktop)
	}
	if c.Geom() != f.display.geom {
		t.Errorf("geom = %+v, want %+v", c.Geom(), f.display.geom)
	}
	if c.State() != 0 || c.WMState() != icccm.StateNormal {
		t.Errorf("state = %v, WM state = %d", c.State(), c.WMState())
	}
	if c.Title() != defaultUnnamed || c.IconTitle() != defaultUnnamed {
		t.Errorf("titles = %q, %q, want placeholders", c.Title(), c.IconTitle())
	}
	if !c.CanFocus() || c.Urgent() || c.CanClose() || c.Shaped() {
		t.Errorf("unexpected flags: %+v", c.Snapshot())
	}
	if c.Group() != 0 || len(f.mgr.groups) != 0 {
		t.Errorf("group = %#x, reported %v", c.Group(), f.mgr.groups)
	}
}

func TestNewReadsProperties(t *testing.T) {
	f := newFixture()
	f.display.shape = true
	f.display.shaped = true
	f.props.nums["_NET_WM_DESKTOP"] = []uint{1}
	f.props.nums["_NET_WM_WINDOW_TYPE"] = f.atoms.nums("_NET_WM_WINDOW_TYPE_DIALOG")
	f.props.nums["_MOTIF_WM_HINTS"] = []uint{motif.HintDecorations, 0, motif.DecorationBorder | motif.DecorationTitle, 0, 0}
	f.props.nums["_NET_WM_STATE"] = f.atoms.nums("_NET_WM_STATE_MODAL", "_NET_WM_STATE_FLOATING")
	f.props.nums["WM_PROTOCOLS"] = f.atoms.nums("WM_DELETE_WINDOW")
	f.props.nums["WM_HINTS"] = []uint{icccm.HintUrgency | icccm.HintWindowGroup, 0, 0, 0, 0, 0, 0, 0, 0x500000}
	f.props.texts["_NET_WM_NAME"] = "Open File"
	f.props.texts["WM_NAME"] = "ignored"
	f.props.texts["WM_ICON_NAME"] = "open"
	f.props.lists["WM_CLASS"] = []string{"gimp", "Gimp"}
	c := f.client()

	info := c.Snapshot()
	want := Info{
		Window:      testWin,
		Geom:        f.display.geom,
		Type:        TypeDialog,
		Decorations: DecorTitlebar | DecorBorder | DecorClose,
		Functions:   FuncResize | FuncMove | FuncIconify | FuncClose,
		State:       StateModal,
		WMState:     icccm.StateNormal,
		Desktop:     1,
		SizeHints:   defaultSizeHints(),
		Group:       0x500000,
		CanFocus:    true,
		Urgent:      true,
		CanClose:    true,
		Shaped:      true,
		Title:       "Open File",
		IconTitle:   "open",
		AppName:     "gimp",
		AppClass:    "Gimp",
	}
	if info != want {
		t.Errorf("Snapshot() =\n%+v\nwant\n%+v", info, want)
	}
	if len(f.mgr.groups) != 1 || f.mgr.groups[0] != [2]xproto.Window{0, 0x500000} {
		t.Errorf("group changes = %v", f.mgr.groups)
	}
}

func TestNewAllDesktops(t *testing.T) {
	f := newFixture()
	f.props.nums["_NET_WM_DESKTOP"] = []uint{0xFFFFFFFF}
	if c := f.client(); c.Desktop() != AllDesktops {
		t.Errorf("desktop = %d, want all desktops", c.Desktop())
	}

	f = newFixture()
	f.props.nums["_NET_WM_DESKTOP"] = []uint{0xFFFFFFF0}
	if c := f.client(); c.Desktop() != f.mgr.desktop {
		t.Errorf("desktop = %d, want current desktop", c.Desktop())
	}
}

func TestNewMalformedHints(t *testing.T) {
	f := newFixture()
	f.props.nums["WM_NORMAL_HINTS"] = []uint{icccm.SizeHintPMinSize, 1, 2}
	f.props.nums["_MOTIF_WM_HINTS"] = []uint{motif.HintDecorations}
	f.props.nums["WM_HINTS"] = []uint{icccm.HintInput}
	c := f.client()

	if c.SizeHints() != defaultSizeHints() {
		t.Errorf("size hints = %+v, want defaults", c.SizeHints())
	}
	d, _ := defaultCapabilities(TypeNormal)
	if c.Decorations() != d {
		t.Errorf("decorations = %v, want %v", c.Decorations(), d)
	}
	if !c.CanFocus() {
		t.Errorf("malformed WM_HINTS changed focus")
	}
}

func TestTitleFallback(t *testing.T) {
	var tests = []struct {
		net, old string
		want     string
	}{
		{"net", "old", "net"},
		{"", "old", "old"},
		{"", "", defaultUnnamed},
	}

	for _, tt := range tests {
		f := newFixture()
		if tt.net != "" {
			f.props.texts["_NET_WM_NAME"] = tt.net
		}
		if tt.old != "" {
			f.props.texts["WM_NAME"] = tt.old
		}
		if got := f.client().Title(); got != tt.want {
			t.Errorf("title(%q, %q) = %q, want %q", tt.net, tt.old, got, tt.want)
		}
	}
}

func TestUnnamedOption(t *testing.T) {
	f := newFixture()
	f.props.texts["WM_NAME"] = "app"
	c := New(0, testWin, Deps{
		Props:   f.props,
		Atoms:   f.atoms,
		Display: f.display,
		Frame:   f.frame,
		Manager: f.mgr,
	}, &Options{Unnamed: "Sans nom"})
	if c.Title() != "app" || c.IconTitle() != "Sans nom" {
		t.Errorf("titles = %q, %q", c.Title(), c.IconTitle())
	}
}

func TestDestroyErases(t *testing.T) {
	f := newFixture()
	f.props.nums["_NET_WM_DESKTOP"] = []uint{1}
	f.props.nums["_NET_WM_STATE"] = f.atoms.nums("_NET_WM_STATE_SHADED")
	c := f.client()
	c.Destroy()

	erased := map[string]bool{}
	for _, p := range f.props.erased {
		erased[p] = true
	}
	if !erased["_NET_WM_DESKTOP"] || !erased["_NET_WM_STATE"] {
		t.Errorf("erased %v, want _NET_WM_DESKTOP and _NET_WM_STATE", f.props.erased)
	}
	if _, ok := f.props.nums["_NET_WM_STATE"]; ok {
		t.Errorf("_NET_WM_STATE still set")
	}
}

func TestGroupChanges(t *testing.T) {
	f := newFixture()
	f.props.nums["WM_HINTS"] = []uint{icccm.HintWindowGroup, 0, 0, 0, 0, 0, 0, 0, 0x700000}
	c := f.client()

	// same group again: nothing to report
	c.Handle(f.prop("WM_HINTS"))
	// hints without a group drop the client from its group
	f.props.nums["WM_HINTS"] = []uint{0, 0, 0, 0, 0, 0, 0, 0, 0}
	c.Handle(f.prop("WM_HINTS"))
	// and deleting the property leaves it alone
	delete(f.props.nums, "WM_HINTS")
	c.Handle(PropertyEvent{Window: testWin, Atom: f.atoms["WM_HINTS"], Deleted: true})

	want := [][2]xproto.Window{{0, 0x700000}, {0x700000, 0}}
	if len(f.mgr.groups) != len(want) {
		t.Fatalf("group changes = %v, want %v", f.mgr.groups, want)
	}
	for i := range want {
		if f.mgr.groups[i] != want[i] {
			t.Errorf("group change %d = %v, want %v", i, f.mgr.groups[i], want[i])
		}
	}
	if c.Group() != 0 {
		t.Errorf("group = %#x, want 0", c.Group())
	}
}

func TestStringers(t *testing.T) {
	if got := (DecorTitlebar | DecorClose).String(); got != "titlebar,close" {
		t.Errorf("Decoration.String() = %q", got)
	}
	if got := Function(0).String(); got != "none" {
		t.Errorf("Function(0).String() = %q", got)
	}
	if got := Type(42).String(); got != "unknown" {
		t.Errorf("Type(42).String() = %q", got)
	}
	if got := (StateMaxVert | StateFloating).String(); got != "max-vert,floating" {
		t.Errorf("State.String() = %q", got)
	}
}
