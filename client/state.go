package client

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
)

// SetWMState moves the client between the ICCCM normal and iconic states.
// Other states cannot be requested by a client and are ignored.
func (c *Client) SetWMState(state int) {
	if state == c.wmState {
		return
	}
	switch state {
	case icccm.StateIconic:
		c.mgr.Iconify(c)
	case icccm.StateNormal:
		c.mgr.Deiconify(c)
	default:
		c.log.Debug("ignoring WM state change", "state", state)
		return
	}
	c.wmState = state
	c.writeProp("WM_STATE", "WM_STATE", uint(state), 0)
}

// SetDesktop moves the client to desktop, which must be a desktop index or
// AllDesktops.
func (c *Client) SetDesktop(desktop int) {
	assert(desktop >= 0 || desktop == AllDesktops, "invalid desktop %d", desktop)

	c.desktop = desktop
	c.writeProp("_NET_WM_DESKTOP", "CARDINAL", desktopToWire(desktop))
	c.mgr.SendToDesktop(c, desktop)
}

// SetState applies a _NET_WM_STATE request for up to two state atoms. A
// zero atom is skipped, as are atoms we don't track. Toggle is resolved for
// each atom against the state before the request.
func (c *Client) SetState(action Action, first, second xproto.Atom) {
	switch action {
	case ActionAdd, ActionRemove, ActionToggle:
	default:
		c.log.Debug("ignoring invalid state action", "action", action)
		return
	}

	var flags [2]State
	var wants [2]bool
	for i, atom := range [2]xproto.Atom{first, second} {
		flags[i] = stateFor(c.atoms, atom)
		wants[i] = action == ActionAdd
		if action == ActionToggle {
			wants[i] = c.state&flags[i] == 0
		}
	}

	changed := false
	for i, flag := range flags {
		if flag == 0 {
			continue
		}
		want := wants[i]
		if on := c.state&flag != 0; on == want {
			continue
		}
		if want {
			c.state |= flag
		} else {
			c.state &^= flag
		}
		changed = true
		c.stateChanged(flag, want)
	}

	if changed {
		c.writeProp("_NET_WM_STATE", "ATOM", stateList(c.atoms, c.state)...)
	}
}

func (c *Client) stateChanged(flag State, on bool) {
	c.log.Debug("state changed", "state", flag, "on", on)
	switch flag {
	case StateModal:
		c.mgr.ArbitrateFocus(c)
	case StateMaxVert, StateMaxHorz:
		c.mgr.Maximize(c, c.state&StateMaxHorz != 0, c.state&StateMaxVert != 0)
	case StateShaded:
		c.mgr.Shade(c, on)
	case StateFullscreen, StateFloating:
		c.mgr.Restack(c)
	}
}

func (c *Client) writeProp(prop, typ string, vals ...uint) {
	if err := c.props.SetNums(c.win, prop, typ, vals...); err != nil {
		c.log.Warn("could not write property", "property", prop, "error", err)
	}
}
