package main

import (
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"

	"honnef.co/go/wmclient/client"
)

// run executes a bound command. Unknown names are started as programs.
func (wm *WM) run(cmd string) {
	wm.log.Debug("running command", "command", cmd)
	if fn, ok := commands[cmd]; ok {
		fn(wm)
		return
	}
	if n, ok := strings.CutPrefix(cmd, "movetodesktop"); ok {
		if d, err := strconv.Atoi(n); err == nil && d >= 1 && d <= wm.Config.Desktops {
			winfunc(func(w *Window) { w.c.SetDesktop(d - 1) })(wm)
		} else {
			wm.log.Warn("no such desktop", "command", cmd)
		}
		return
	}
	if n, ok := strings.CutPrefix(cmd, "desktop"); ok {
		if d, err := strconv.Atoi(n); err == nil {
			wm.SwitchDesktop(d - 1)
			return
		}
	}
	should(wm.execute(cmd))
}

func (wm *WM) execute(cmdline string) error {
	args := strings.Fields(cmdline)
	if len(args) == 0 {
		return nil
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		wm.log.Warn("could not execute command", "command", cmdline, "error", err)
		return err
	}
	return cmd.Process.Release()
}

func winmovefunc(xf, yf int) func(*WM) {
	return func(wm *WM) {
		if wm.CurWindow == nil {
			return
		}
		c := wm.CurWindow.c
		if c.Functions()&client.FuncMove == 0 {
			return
		}
		g := c.Geom()
		c.Move(g.X+xf*wm.Config.MoveAmount, g.Y+yf*wm.Config.MoveAmount)
	}
}

func winfunc(fn func(*Window)) func(*WM) {
	return func(wm *WM) {
		if wm.CurWindow == nil {
			return
		}
		fn(wm.CurWindow)
	}
}

// statefunc toggles the named _NET_WM_STATE atoms together: if all of them
// are set they are removed, otherwise they are all added.
func statefunc(names ...string) func(*WM) {
	return winfunc(func(w *Window) {
		var atoms [2]xproto.Atom
		var flags client.State
		for i, name := range names {
			atoms[i] = w.wm.Conn.Atom(name)
			flags |= stateFlags[name]
		}
		action := client.ActionAdd
		if w.c.State()&flags == flags {
			action = client.ActionRemove
		}
		w.c.SetState(action, atoms[0], atoms[1])
	})
}

var stateFlags = map[string]client.State{
	"_NET_WM_STATE_MAXIMIZED_HORZ": client.StateMaxHorz,
	"_NET_WM_STATE_MAXIMIZED_VERT": client.StateMaxVert,
	"_NET_WM_STATE_SHADED":         client.StateShaded,
	"_NET_WM_STATE_FULLSCREEN":     client.StateFullscreen,
}

var commands = map[string]func(wm *WM){
	"lower":        winfunc((*Window).Lower),
	"raise":        winfunc((*Window).Raise),
	"moveup":       winmovefunc(0, -1),
	"bigmoveup":    winmovefunc(0, -10),
	"movedown":     winmovefunc(0, 1),
	"bigmovedown":  winmovefunc(0, 10),
	"moveleft":     winmovefunc(-1, 0),
	"bigmoveleft":  winmovefunc(-10, 0),
	"moveright":    winmovefunc(1, 0),
	"bigmoveright": winmovefunc(10, 0),
	"maximize":     statefunc("_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT"),
	"hmaximize":    statefunc("_NET_WM_STATE_MAXIMIZED_HORZ"),
	"vmaximize":    statefunc("_NET_WM_STATE_MAXIMIZED_VERT"),
	"fullscreen":   statefunc("_NET_WM_STATE_FULLSCREEN"),
	"shade":        statefunc("_NET_WM_STATE_SHADED"),
	"iconify": winfunc(func(w *Window) {
		w.c.SetWMState(icccm.StateIconic)
	}),
	"delete": winfunc((*Window).Close),
	"stick": winfunc(func(w *Window) {
		if w.c.Desktop() == client.AllDesktops {
			w.c.SetDesktop(w.wm.desktop)
		} else {
			w.c.SetDesktop(client.AllDesktops)
		}
	}),
	"terminal": func(wm *WM) {
		if cmd, ok := wm.Config.Commands["term"]; ok {
			should(wm.execute(cmd))
		}
	},
}
