package client

import "github.com/BurntSushi/xgbutil/motif"

// defaultCapabilities is what a window of type t gets before any hints are
// looked at.
func defaultCapabilities(t Type) (Decoration, Function) {
	switch t {
	case TypeNormal:
		return DecorTitlebar | DecorHandle | DecorBorder | DecorIconify | DecorMaximize,
			FuncResize | FuncMove | FuncIconify | FuncMaximize
	case TypeDialog:
		// dialogs cannot be maximized
		return DecorTitlebar | DecorHandle | DecorBorder | DecorIconify,
			FuncResize | FuncMove | FuncIconify
	case TypeMenu, TypeToolbar, TypeUtility:
		return DecorTitlebar | DecorBorder, FuncMove
	default:
		// desktop, dock and splash windows are left alone
		return 0, 0
	}
}

// capabilityEnvelope is the most a window of type t may ever have: its
// defaults plus the close affordance for windows we decorate at all.
func capabilityEnvelope(t Type) (Decoration, Function) {
	d, f := defaultCapabilities(t)
	switch t {
	case TypeDesktop, TypeDock, TypeSplash:
		return d, f
	}
	return d | DecorClose, f | FuncClose
}

var motifDecorations = []struct {
	bit   uint
	decor Decoration
}{
	{motif.DecorationBorder, DecorBorder},
	{motif.DecorationResizeH, DecorHandle},
	{motif.DecorationTitle, DecorTitlebar},
	{motif.DecorationMinimize, DecorIconify},
	{motif.DecorationMaximize, DecorMaximize},
}

var motifFunctions = []struct {
	bit uint
	fn  Function
}{
	{motif.FunctionResize, FuncResize},
	{motif.FunctionMove, FuncMove},
	{motif.FunctionMinimize, FuncIconify},
	{motif.FunctionMaximize, FuncMaximize},
}

// applyMotif clears every decoration and function the hints restrict and do
// not grant. It never adds anything. Close is governed by WM_PROTOCOLS only.
func applyMotif(d Decoration, f Function, h MotifHints) (Decoration, Function) {
	if h.restrictsDecorations() {
		for _, m := range motifDecorations {
			if h.Decorations&m.bit == 0 {
				d &^= m.decor
			}
		}
	}
	if h.restrictsFunctions() {
		for _, m := range motifFunctions {
			if h.Functions&m.bit == 0 {
				f &^= m.fn
			}
		}
	}
	return d, f
}

// applyProtocols grants or revokes the close affordance, within the envelope
// of the window type.
func applyProtocols(t Type, d Decoration, f Function, p Protocols) (Decoration, Function) {
	d &^= DecorClose
	f &^= FuncClose
	if p.DeleteWindow {
		envD, envF := capabilityEnvelope(t)
		d |= envD & DecorClose
		f |= envF & FuncClose
	}
	return d, f
}
