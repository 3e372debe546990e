package client

import (
	"testing"

	"github.com/BurntSushi/xgbutil/motif"
)

func TestDefaultCapabilities(t *testing.T) {
	var tests = []struct {
		typ   Type
		decor Decoration
		fn    Function
	}{
		{TypeNormal, DecorTitlebar | DecorHandle | DecorBorder | DecorIconify | DecorMaximize,
			FuncResize | FuncMove | FuncIconify | FuncMaximize},
		{TypeDialog, DecorTitlebar | DecorHandle | DecorBorder | DecorIconify,
			FuncResize | FuncMove | FuncIconify},
		{TypeMenu, DecorTitlebar | DecorBorder, FuncMove},
		{TypeToolbar, DecorTitlebar | DecorBorder, FuncMove},
		{TypeUtility, DecorTitlebar | DecorBorder, FuncMove},
		{TypeDesktop, 0, 0},
		{TypeDock, 0, 0},
		{TypeSplash, 0, 0},
	}

	for _, tt := range tests {
		d, f := defaultCapabilities(tt.typ)
		if d != tt.decor || f != tt.fn {
			t.Errorf("defaultCapabilities(%v) = %v, %v, want %v, %v", tt.typ, d, f, tt.decor, tt.fn)
		}
	}
}

func TestApplyMotif(t *testing.T) {
	normalD, normalF := defaultCapabilities(TypeNormal)
	dialogD, dialogF := defaultCapabilities(TypeDialog)

	var tests = []struct {
		name   string
		d      Decoration
		f      Function
		hints  MotifHints
		wantD  Decoration
		wantF  Function
	}{
		{
			"no flags",
			normalD, normalF,
			MotifHints{Decorations: 0, Functions: 0},
			normalD, normalF,
		},
		{
			"decorations all",
			normalD, normalF,
			MotifHints{Flags: motif.HintDecorations, Decorations: motif.DecorationAll},
			normalD, normalF,
		},
		{
			"no decorations",
			normalD, normalF,
			MotifHints{Flags: motif.HintDecorations, Decorations: motif.DecorationNone},
			0, normalF,
		},
		{
			"dialog border and title",
			dialogD, dialogF,
			MotifHints{Flags: motif.HintDecorations, Decorations: motif.DecorationBorder | motif.DecorationTitle},
			DecorTitlebar | DecorBorder, dialogF,
		},
		{
			"grant is not additive",
			dialogD, dialogF,
			MotifHints{
				Flags:       motif.HintDecorations | motif.HintFunctions,
				Decorations: motif.DecorationBorder | motif.DecorationMaximize,
				Functions:   motif.FunctionMaximize | motif.FunctionMove,
			},
			DecorBorder, FuncMove,
		},
		{
			"functions only",
			normalD, normalF,
			MotifHints{Flags: motif.HintFunctions, Functions: motif.FunctionMove | motif.FunctionResize},
			normalD, FuncMove | FuncResize,
		},
		{
			"close survives",
			normalD | DecorClose, normalF | FuncClose,
			MotifHints{Flags: motif.HintDecorations | motif.HintFunctions},
			DecorClose, FuncClose,
		},
	}

	for _, tt := range tests {
		d, f := applyMotif(tt.d, tt.f, tt.hints)
		if d != tt.wantD || f != tt.wantF {
			t.Errorf("%s: applyMotif = %v, %v, want %v, %v", tt.name, d, f, tt.wantD, tt.wantF)
		}
	}
}

func TestApplyProtocols(t *testing.T) {
	var tests = []struct {
		typ       Type
		p         Protocols
		wantClose bool
	}{
		{TypeNormal, Protocols{DeleteWindow: true}, true},
		{TypeNormal, Protocols{TakeFocus: true}, false},
		{TypeDialog, Protocols{DeleteWindow: true}, true},
		{TypeUtility, Protocols{DeleteWindow: true}, true},
		{TypeDock, Protocols{DeleteWindow: true}, false},
		{TypeDesktop, Protocols{DeleteWindow: true}, false},
		{TypeSplash, Protocols{DeleteWindow: true}, false},
	}

	for _, tt := range tests {
		d, f := defaultCapabilities(tt.typ)
		d, f = applyProtocols(tt.typ, d, f, tt.p)
		gotD, gotF := d&DecorClose != 0, f&FuncClose != 0
		if gotD != tt.wantClose || gotF != tt.wantClose {
			t.Errorf("applyProtocols(%v, %+v) close = %t/%t, want %t", tt.typ, tt.p, gotD, gotF, tt.wantClose)
		}
	}

	// revoking close keeps the rest
	d, f := applyProtocols(TypeNormal, DecorBorder|DecorClose, FuncMove|FuncClose, Protocols{})
	if d != DecorBorder || f != FuncMove {
		t.Errorf("revoke = %v, %v, want border, move", d, f)
	}
}

func TestCapabilitiesWithinEnvelope(t *testing.T) {
	all := MotifHints{
		Flags:       motif.HintDecorations | motif.HintFunctions,
		Decorations: motif.DecorationAll,
		Functions:   motif.FunctionAll,
	}
	for typ := TypeNormal; typ <= TypeSplash; typ++ {
		envD, envF := capabilityEnvelope(typ)
		d, f := defaultCapabilities(typ)
		d, f = applyMotif(d, f, all)
		d, f = applyProtocols(typ, d, f, Protocols{DeleteWindow: true, TakeFocus: true})
		if d&^envD != 0 || f&^envF != 0 {
			t.Errorf("%v: capabilities %v, %v exceed envelope %v, %v", typ, d, f, envD, envF)
		}
	}
}
