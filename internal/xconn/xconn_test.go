package xconn

import (
	"errors"
	"reflect"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"

	"honnef.co/go/wmclient/client"
)

func reply32(typ xproto.Atom, vals ...uint32) *xproto.GetPropertyReply {
	b := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return &xproto.GetPropertyReply{Format: 32, Type: typ, ValueLen: uint32(len(vals)), Value: b}
}

func reply8(s string) *xproto.GetPropertyReply {
	return &xproto.GetPropertyReply{Format: 8, Type: xproto.AtomString, ValueLen: uint32(len(s)), Value: []byte(s)}
}

func TestNums(t *testing.T) {
	var tests = []struct {
		reply *xproto.GetPropertyReply
		want  xproto.Atom
		vals  []uint
		err   error
	}{
		{reply32(xproto.AtomCardinal, 1, 0xFFFFFFFF), xproto.AtomCardinal, []uint{1, 0xFFFFFFFF}, nil},
		{reply32(xproto.AtomAtom, 7), 0, []uint{7}, nil},
		{reply32(xproto.AtomAtom, 7), xproto.AtomCardinal, nil, client.ErrMalformed},
		{reply8("abc"), 0, nil, client.ErrMalformed},
		{reply32(xproto.AtomCardinal), xproto.AtomCardinal, []uint{}, nil},
	}

	for i, tt := range tests {
		vals, err := nums(tt.reply, tt.want)
		if !errors.Is(err, tt.err) {
			t.Errorf("%d: nums error = %v, want %v", i, err, tt.err)
		}
		if tt.err == nil && !reflect.DeepEqual(vals, tt.vals) {
			t.Errorf("%d: nums = %v, want %v", i, vals, tt.vals)
		}
	}
}

func TestTexts(t *testing.T) {
	s, err := text(reply8("xterm"))
	if err != nil || s != "xterm" {
		t.Errorf("text = %q, %v", s, err)
	}
	if _, err := text(reply32(xproto.AtomString, 1)); !errors.Is(err, client.ErrMalformed) {
		t.Errorf("text of format 32 = %v, want ErrMalformed", err)
	}

	strs, err := texts(reply8("xterm\x00XTerm\x00"))
	if err != nil || !reflect.DeepEqual(strs, []string{"xterm", "XTerm"}) {
		t.Errorf("texts = %q, %v", strs, err)
	}
}

func TestConvert(t *testing.T) {
	data := xproto.ClientMessageDataUnionData32New([]uint32{1, 2, 3, 4, 5})

	var tests = []struct {
		in   xgb.Event
		want client.Event
		ok   bool
	}{
		{
			xproto.PropertyNotifyEvent{Window: 5, Atom: 40, State: xproto.PropertyNewValue},
			client.PropertyEvent{Window: 5, Atom: 40},
			true,
		},
		{
			xproto.PropertyNotifyEvent{Window: 5, Atom: 40, State: xproto.PropertyDelete},
			client.PropertyEvent{Window: 5, Atom: 40, Deleted: true},
			true,
		},
		{
			xproto.ClientMessageEvent{Window: 5, Type: 99, Format: 32, Data: data},
			client.ClientMessageEvent{Window: 5, Type: 99, Format: 32, Data: [5]uint32{1, 2, 3, 4, 5}},
			true,
		},
		{
			xproto.ConfigureRequestEvent{
				Window: 5, ValueMask: xproto.ConfigWindowX | xproto.ConfigWindowWidth,
				X: -10, Width: 300, StackMode: xproto.StackModeBelow,
			},
			client.ConfigureRequestEvent{
				Window: 5, Mask: xproto.ConfigWindowX | xproto.ConfigWindowWidth,
				X: -10, Width: 300, StackMode: xproto.StackModeBelow,
			},
			true,
		},
		{
			shape.NotifyEvent{ShapeKind: shape.SkBounding, AffectedWindow: 5, Shaped: true},
			client.ShapeEvent{Window: 5, Shaped: true},
			true,
		},
		{shape.NotifyEvent{ShapeKind: shape.SkClip, AffectedWindow: 5, Shaped: true}, nil, false},
		{xproto.MapRequestEvent{Window: 5}, nil, false},
	}

	for _, tt := range tests {
		got, gotOK := Convert(tt.in)
		if gotOK != tt.ok || got != tt.want {
			t.Errorf("Convert(%T) = %+v, %t, want %+v, %t", tt.in, got, gotOK, tt.want, tt.ok)
		}
	}
}
