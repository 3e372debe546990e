package main

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	p9p "github.com/docker/go-p9p"
	"golang.org/x/net/context"

	"honnef.co/go/wmclient/client"
)

const (
	qidRoot = iota + 1
	qidWins
	qidByName
	qidCtl
	qidLast
)

type Directory interface {
	File
	Parent() Directory
	Files() []File
}

type File interface {
	Name() string
	Qid() uint64
}

type Remover interface {
	Remove()
}

type Reader interface {
	Read() []byte
}

type Writer interface {
	Write([]byte) error
}

type FSDirectory struct {
	parent Directory
	name   string
	qid    uint64
	files  []File
}

func (dir FSDirectory) Parent() Directory { return dir.parent }
func (dir FSDirectory) Name() string      { return dir.name }
func (dir FSDirectory) Qid() uint64       { return dir.qid }
func (dir FSDirectory) Files() []File     { return dir.files }

// FSWindow is the directory of one managed window. Its files show the state
// of the client at the time the directory was listed.
type FSWindow struct {
	parent Directory
	name   string
	win    *Window
	info   client.Info
}

var _ Directory = FSWindow{}

func (win FSWindow) Parent() Directory { return win.parent }

func (win FSWindow) Name() string {
	if win.name != "" {
		return win.name
	}
	return strconv.FormatUint(uint64(win.win.Id), 10)
}

// Window qids leave room for the attribute files below them.
func (win FSWindow) Qid() uint64 {
	return qidLast + uint64(win.win.Id)<<4
}

func (win FSWindow) Remove() {
	if win.win.managed() {
		win.win.Close()
	}
}

type FSWindowAttr struct {
	qid     uint64
	name    string
	readFn  func() []byte
	writeFn func([]byte) error
}

func (attr FSWindowAttr) Qid() uint64  { return attr.qid }
func (attr FSWindowAttr) Name() string { return attr.name }

func (attr FSWindowAttr) Read() []byte {
	b := attr.readFn()
	b = append(b, '\n')
	return b
}

func (attr FSWindowAttr) Write(b []byte) error {
	if attr.writeFn == nil {
		return p9p.ErrNowrite
	}
	return attr.writeFn(b)
}

// FSWindowReadOnlyAttr hides the Write method so that the file mode says
// what the file can do.
type FSWindowReadOnlyAttr struct {
	qid    uint64
	name   string
	readFn func() []byte
}

func (attr FSWindowReadOnlyAttr) Qid() uint64  { return attr.qid }
func (attr FSWindowReadOnlyAttr) Name() string { return attr.name }
func (attr FSWindowReadOnlyAttr) Read() []byte { return append(attr.readFn(), '\n') }

func (win FSWindow) Files() []File {
	info := win.info
	w := win.win
	text := func(s string) func() []byte {
		return func() []byte { return []byte(s) }
	}
	ro := func(i int, name string, s string) File {
		return FSWindowReadOnlyAttr{win.Qid() + uint64(i), name, text(s)}
	}

	return []File{
		ro(1, "id", strconv.FormatUint(uint64(info.Window), 10)),
		ro(2, "name", info.Title),
		ro(3, "icon", info.IconTitle),
		ro(4, "class", info.AppName+"\n"+info.AppClass),
		ro(5, "type", info.Type.String()),
		ro(6, "state", formatState(info)),
		ro(7, "geometry", formatGeom(info.Geom)),
		ro(10, "group", formatGroup(info.Group, w.wm.Group(info.Group))),
		FSWindowAttr{
			win.Qid() + 8,
			"size",
			text(formatSize(info.Geom)),
			func(b []byte) error {
				width, height, err := parseSize(b)
				if err != nil {
					return err
				}
				if !w.managed() {
					return p9p.ErrNotfound
				}
				w.c.Resize(client.TopLeft, width, height)
				return nil
			},
		},
		FSWindowAttr{
			win.Qid() + 9,
			"desktop",
			text(formatDesktop(info.Desktop)),
			func(b []byte) error {
				d, err := parseDesktop(b, w.wm.Config.Desktops)
				if err != nil {
					return err
				}
				if !w.managed() {
					return p9p.ErrNotfound
				}
				w.c.SetDesktop(d)
				return nil
			},
		},
	}
}

// formatGroup lists the group leader and the members of its group, one id
// per line, sorted. A window without a group has an empty group file.
func formatGroup(leader xproto.Window, members []*Window) string {
	if leader == 0 {
		return ""
	}
	ids := []string{"leader " + strconv.FormatUint(uint64(leader), 10)}
	sorted := make([]uint64, 0, len(members))
	for _, m := range members {
		sorted = append(sorted, uint64(m.Id))
	}
	slices.Sort(sorted)
	for _, id := range sorted {
		ids = append(ids, strconv.FormatUint(id, 10))
	}
	return strings.Join(ids, "\n")
}

func formatGeom(g client.Geom) string {
	return fmt.Sprintf("%d %d %d %d", g.X, g.Y, g.Width, g.Height)
}

func formatSize(g client.Geom) string {
	return fmt.Sprintf("%d %d", g.Width, g.Height)
}

func parseSize(b []byte) (width, height int, err error) {
	parts := strings.Fields(string(b))
	if len(parts) != 2 {
		return 0, 0, p9p.ErrNowrite
	}
	width, err1 := strconv.Atoi(parts[0])
	height, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || width < 1 || height < 1 {
		return 0, 0, p9p.ErrNowrite
	}
	return width, height, nil
}

func formatDesktop(d int) string {
	if d == client.AllDesktops {
		return "all"
	}
	return strconv.Itoa(d)
}

func parseDesktop(b []byte, desktops int) (int, error) {
	s := strings.TrimSpace(string(b))
	if s == "all" {
		return client.AllDesktops, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d < 0 || d >= desktops {
		return 0, p9p.ErrNowrite
	}
	return d, nil
}

func wmStateName(state int) string {
	switch state {
	case icccm.StateNormal:
		return "normal"
	case icccm.StateIconic:
		return "iconic"
	case icccm.StateWithdrawn:
		return "withdrawn"
	default:
		return "unknown"
	}
}

func formatState(info client.Info) string {
	return wmStateName(info.WMState) + " " + info.State.String()
}

// FSCtl runs the commands written to it, as if their key had been pressed.
type FSCtl struct {
	wm *WM
}

func (FSCtl) Qid() uint64  { return qidCtl }
func (FSCtl) Name() string { return "ctl" }

func (ctl FSCtl) Write(b []byte) error {
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ctl.wm.run(line)
		}
	}
	return nil
}

type Root struct {
	wm *WM
}

func (r Root) Parent() Directory { return r }
func (Root) Qid() uint64         { return qidRoot }
func (Root) Name() string        { return "/" }

func (r Root) Files() []File {
	wins := FSDirectory{
		parent: r,
		name:   "wins",
		qid:    qidWins,
	}

	for _, win := range r.wm.Windows {
		if win.c == nil {
			continue
		}
		wins.files = append(wins.files, FSWindow{
			parent: wins,
			win:    win,
			info:   win.c.Snapshot(),
		})
	}
	if cur := r.wm.CurWindow; cur != nil {
		wins.files = append(wins.files, FSWindow{
			parent: wins,
			win:    cur,
			name:   "sel",
			info:   cur.c.Snapshot(),
		})
	}
	nameGroups := FSWindowNameGroup{
		parent: wins,
		name:   "by-name",
		wm:     r.wm,
	}
	wins.files = append(wins.files, nameGroups)
	return []File{wins, FSCtl{r.wm}}
}

type FSWindowNameGroup struct {
	parent Directory
	name   string
	wm     *WM
}

func (g FSWindowNameGroup) Qid() uint64       { return qidByName }
func (g FSWindowNameGroup) Parent() Directory { return g.parent }
func (g FSWindowNameGroup) Name() string      { return g.name }

func (g FSWindowNameGroup) Files() []File {
	m := map[string][]*Window{}
	for _, win := range g.wm.Windows {
		name := win.Name()
		if name == "" {
			continue
		}
		m[name] = append(m[name], win)
	}

	var out []File
	for name, wins := range m {
		name = strings.Replace(name, "/", "_", -1)
		dir := FSDirectory{
			parent: g,
			name:   name,
			qid:    nameQid(name),
		}
		for _, win := range wins {
			dir.files = append(dir.files, FSWindow{parent: dir, win: win, info: win.c.Snapshot()})
		}
		out = append(out, dir)
	}

	return out
}

// nameQid gives by-name directories qids that cannot collide with window
// qids, which never have the top bit set.
func nameQid(name string) uint64 {
	h := fnv.New64a()
	io.WriteString(h, name)
	return h.Sum64() | 1<<63
}

// session serves one 9P connection. Every request runs on the event loop,
// which also serializes access to the fid tables.
type session struct {
	wm      *WM
	owner   string
	log     *slog.Logger
	fids    map[p9p.Fid]File
	readers map[p9p.Fid]io.ReaderAt
}

func newSession(wm *WM) session {
	owner := os.Getenv("USER")
	if owner == "" {
		owner = "none"
	}
	return session{wm, owner, wm.log.With("service", "9p"), map[p9p.Fid]File{}, map[p9p.Fid]io.ReaderAt{}}
}

func (session) Auth(ctx context.Context, afid p9p.Fid, uname string, aname string) (p9p.Qid, error) {
	return p9p.Qid{}, errors.New("no authentication required")
}

func (s session) Attach(ctx context.Context, fid p9p.Fid, afid p9p.Fid, uname string, aname string) (p9p.Qid, error) {
	s.log.Debug("attach", "fid", fid, "user", uname)
	err := s.wm.Do(ctx, func() { s.fids[fid] = Root{s.wm} })
	if err != nil {
		return p9p.Qid{}, err
	}
	return p9p.Qid{
		Type:    p9p.QTDIR,
		Version: 0,
		Path:    qidRoot,
	}, nil
}

func (s session) Clunk(ctx context.Context, fid p9p.Fid) error {
	s.log.Debug("clunk", "fid", fid)
	return s.wm.Do(ctx, func() {
		delete(s.fids, fid)
		delete(s.readers, fid)
	})
}

func (s session) Remove(ctx context.Context, fid p9p.Fid) error {
	var err error
	derr := s.wm.Do(ctx, func() {
		file, ok := s.fids[fid].(Remover)
		delete(s.fids, fid)
		delete(s.readers, fid)
		if !ok {
			err = p9p.ErrNoremove
			return
		}
		file.Remove()
	})
	return errors.Join(derr, err)
}

func (s session) Walk(ctx context.Context, fid p9p.Fid, newfid p9p.Fid, names ...string) ([]p9p.Qid, error) {
	s.log.Debug("walk", "fid", fid, "newfid", newfid, "path", strings.Join(names, "/"))
	var (
		qids []p9p.Qid
		err  error
	)
	derr := s.wm.Do(ctx, func() {
		qids, err = s.walk(fid, newfid, names)
	})
	if derr != nil {
		return nil, derr
	}
	return qids, err
}

func (s session) walk(fid, newfid p9p.Fid, names []string) ([]p9p.Qid, error) {
	node, ok := s.fids[fid]
	if !ok {
		return nil, p9p.ErrUnknownfid
	}

	var qids []p9p.Qid
outer:
	for _, name := range names {
		dir, ok := node.(Directory)
		if !ok {
			return nil, p9p.ErrWalknodir
		}
		if name == ".." {
			node = dir.Parent()
			qids = append(qids, qid(node))
			continue outer
		}
		for _, file := range dir.Files() {
			if file.Name() == name {
				node = file
				qids = append(qids, qid(file))
				continue outer
			}
		}
		return nil, p9p.ErrNotfound
	}
	s.fids[newfid] = node
	return qids, nil
}

func qid(file File) p9p.Qid {
	typ := p9p.QType(p9p.QTFILE)
	if _, isDir := file.(Directory); isDir {
		typ = p9p.QTDIR
	}
	return p9p.Qid{
		Type:    typ,
		Version: 0,
		Path:    file.Qid(),
	}
}

func (s session) Read(ctx context.Context, fid p9p.Fid, p []byte, offset int64) (n int, err error) {
	var r io.ReaderAt
	if derr := s.wm.Do(ctx, func() { r = s.readers[fid] }); derr != nil {
		return 0, derr
	}
	if r == nil {
		return 0, p9p.ErrUnknownfid
	}
	n, err = r.ReadAt(p, offset)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (s session) Write(ctx context.Context, fid p9p.Fid, p []byte, offset int64) (n int, err error) {
	if offset != 0 {
		return 0, p9p.ErrBadoffset
	}
	derr := s.wm.Do(ctx, func() {
		w, ok := s.fids[fid].(Writer)
		if !ok {
			err = p9p.ErrNowrite
			return
		}
		err = w.Write(p)
	})
	if derr != nil {
		return 0, derr
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s session) Open(ctx context.Context, fid p9p.Fid, mode p9p.Flag) (p9p.Qid, uint32, error) {
	s.log.Debug("open", "fid", fid, "mode", mode)
	var (
		q   p9p.Qid
		err error
	)
	derr := s.wm.Do(ctx, func() {
		q, err = s.open(fid, mode)
	})
	if derr != nil {
		return p9p.Qid{}, 0, derr
	}
	return q, 0, err
}

func (s session) open(fid p9p.Fid, mode p9p.Flag) (p9p.Qid, error) {
	file, ok := s.fids[fid]
	if !ok {
		return p9p.Qid{}, p9p.ErrNotfound
	}
	if mode&3 != p9p.OREAD {
		if _, ok := file.(Writer); !ok {
			return p9p.Qid{}, p9p.ErrPerm
		}
	}

	var data []byte
	switch file := file.(type) {
	case Directory:
		buf := &bytes.Buffer{}
		for _, file := range file.Files() {
			dir := s.dir(file)
			_ = p9p.EncodeDir(p9p.NewCodec(), buf, &dir)
		}
		data = buf.Bytes()
	case Reader:
		data = file.Read()
	}
	s.readers[fid] = bytes.NewReader(data)
	return qid(file), nil
}

func (session) Create(ctx context.Context, parent p9p.Fid, name string, perm uint32, mode p9p.Flag) (p9p.Qid, uint32, error) {
	return p9p.Qid{}, 0, p9p.ErrNocreate
}

func fileMode(f File) uint32 {
	var mode uint32
	if _, isReader := f.(Reader); isReader {
		mode |= uint32(p9p.DMREAD)
	}
	if _, isDir := f.(Directory); isDir {
		mode |= uint32(p9p.DMDIR | p9p.DMREAD | p9p.DMEXEC)
	}
	if _, isWriter := f.(Writer); isWriter {
		mode |= uint32(p9p.DMWRITE)
	}
	return mode
}

func (s session) dir(file File) p9p.Dir {
	now := time.Now()
	return p9p.Dir{
		Qid:        qid(file),
		Mode:       fileMode(file),
		AccessTime: now,
		ModTime:    now,
		Name:       file.Name(),
		UID:        s.owner,
		GID:        s.owner,
		MUID:       s.owner,
	}
}

func (s session) Stat(ctx context.Context, fid p9p.Fid) (p9p.Dir, error) {
	var (
		file File
		ok   bool
	)
	if err := s.wm.Do(ctx, func() { file, ok = s.fids[fid] }); err != nil {
		return p9p.Dir{}, err
	}
	if !ok {
		return p9p.Dir{}, p9p.ErrUnknownfid
	}
	return s.dir(file), nil
}

func (session) WStat(ctx context.Context, fid p9p.Fid, dir p9p.Dir) error {
	return p9p.ErrPerm
}

func (session) Version() (msize int, version string) {
	return 64 << 10, "9P2000"
}

// fileServer exports the window list over 9P on a unix socket.
type fileServer struct {
	wm   *WM
	path string
}

func (fs *fileServer) String() string { return "9p file server" }

func (fs *fileServer) Serve(ctx context.Context) error {
	// A socket left behind by an earlier run would make Listen fail.
	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	l, err := net.Listen("unix", fs.path)
	if err != nil {
		return err
	}
	defer l.Close()
	go func() {
		<-ctx.Done()
		l.Close()
	}()
	fs.wm.log.Info("serving 9p", "socket", fs.path)

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return sanitize(ctx, err)
		}
		go func() {
			defer conn.Close()
			if err := p9p.ServeConn(ctx, conn, p9p.Dispatch(newSession(fs.wm))); err != nil {
				fs.wm.log.Debug("9p connection closed", "error", err)
			}
		}()
	}
}

func (w *Window) managed() bool {
	return w.wm.Windows[w.Id] == w
}
