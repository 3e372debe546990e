// Package config loads the window manager's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

type Gap struct {
	Top, Bottom, Left, Right int
}

// KeySpec is a key or mouse button with cwm style modifiers, such as
// "CM-Return" or "4-1". C is Control, M is Mod1, S is Shift and 4 is Mod4.
type KeySpec struct {
	Mods string
	Key  string
}

func ParseKeySpec(s string) (KeySpec, error) {
	parts := strings.SplitN(s, "-", 2)
	switch {
	case s == "":
		return KeySpec{}, errors.New("empty keyspec")
	case len(parts) == 1:
		return KeySpec{Key: parts[0]}, nil
	case parts[1] == "":
		return KeySpec{}, fmt.Errorf("invalid keyspec %q", s)
	}
	for _, c := range parts[0] {
		if !strings.ContainsRune("CMS4", c) {
			return KeySpec{}, fmt.Errorf("invalid modifier %q in keyspec %q", c, s)
		}
	}
	return KeySpec{Mods: parts[0], Key: parts[1]}, nil
}

func (k *KeySpec) UnmarshalText(b []byte) error {
	ks, err := ParseKeySpec(string(b))
	if err != nil {
		return err
	}
	*k = ks
	return nil
}

func (k KeySpec) String() string {
	if k.Mods == "" {
		return k.Key
	}
	return k.Mods + "-" + k.Key
}

// ToXGB returns the key in the notation of xgbutil's keybind and mousebind.
func (k KeySpec) ToXGB() string {
	var out []string
	for _, c := range k.Mods {
		switch c {
		case 'C':
			out = append(out, "Control")
		case 'M':
			out = append(out, "Mod1")
		case 'S':
			out = append(out, "Shift")
		case '4':
			out = append(out, "Mod4")
		}
	}
	out = append(out, k.Key)
	return strings.Join(out, "-")
}

type Config struct {
	BorderWidth int    `toml:"border_width"`
	Snapdist    int    `toml:"snapdist"`
	MoveAmount  int    `toml:"move_amount"`
	Desktops    int    `toml:"desktops"`
	Language    string `toml:"language"`
	// Socket is the path of the 9P socket. Empty disables the file server.
	Socket string `toml:"socket"`
	// Sticky puts new windows on all desktops.
	Sticky bool `toml:"sticky"`
	Gap    Gap  `toml:"gap"`

	Colors map[string]string `toml:"colors"`
	// Binds maps key specs to commands. The command "unmap" removes a
	// default binding.
	Binds      map[string]string  `toml:"bind"`
	MouseBinds map[string]KeySpec `toml:"mousebind"`
	Commands   map[string]string  `toml:"command"`
	// Autogroups maps "name.class" or "class" to a desktop.
	Autogroups map[string]int `toml:"autogroup"`
	// Ignores lists window names that get no border.
	Ignores []string `toml:"ignore"`

	keys map[KeySpec]string
}

func Default() *Config {
	cfg := &Config{
		BorderWidth: 1,
		MoveAmount:  1,
		Desktops:    4,
		Language:    "en",
		Colors: map[string]string{
			"activeborder":   "#cccccc",
			"inactiveborder": "#666666",
			"urgencyborder":  "#fc8814",
		},
		Binds: map[string]string{
			"4-Return": "terminal",
			"4-Left":   "moveleft",
			"4-Right":  "moveright",
			"4-Up":     "moveup",
			"4-Down":   "movedown",
			"4S-Left":  "bigmoveleft",
			"4S-Right": "bigmoveright",
			"4S-Up":    "bigmoveup",
			"4S-Down":  "bigmovedown",
			"4-m":      "maximize",
			"4-s":      "shade",
			"4-i":      "iconify",
			"4-d":      "delete",
			"4-1":      "desktop1",
			"4-2":      "desktop2",
			"4-3":      "desktop3",
			"4-4":      "desktop4",
		},
		MouseBinds: map[string]KeySpec{
			"window_move":   {Mods: "M", Key: "1"},
			"window_lower":  {Mods: "M", Key: "2"},
			"window_resize": {Mods: "M", Key: "3"},
		},
		Commands:   map[string]string{"term": "xterm"},
		Autogroups: map[string]int{},
	}
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	if und := md.Undecoded(); len(und) > 0 {
		return nil, fmt.Errorf("unknown option %q", und[0].String())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.BorderWidth < 0 {
		return fmt.Errorf("invalid border width %d", cfg.BorderWidth)
	}
	if cfg.MoveAmount < 1 {
		return fmt.Errorf("invalid move amount %d", cfg.MoveAmount)
	}
	if cfg.Desktops < 1 {
		return fmt.Errorf("invalid number of desktops %d", cfg.Desktops)
	}
	if _, err := language.Parse(cfg.Language); err != nil {
		return fmt.Errorf("invalid language %q: %w", cfg.Language, err)
	}
	for name := range cfg.Colors {
		if _, err := cfg.Color(name); err != nil {
			return err
		}
	}
	for spec, d := range cfg.Autogroups {
		if d < 0 || d >= cfg.Desktops {
			return fmt.Errorf("autogroup %q: invalid desktop %d", spec, d)
		}
	}

	cfg.keys = make(map[KeySpec]string, len(cfg.Binds))
	for spec, cmd := range cfg.Binds {
		key, err := ParseKeySpec(spec)
		if err != nil {
			return err
		}
		if cmd == "unmap" {
			continue
		}
		cfg.keys[key] = cmd
	}
	return nil
}

// Keys returns the key bindings, without unmapped ones.
func (cfg *Config) Keys() map[KeySpec]string {
	return cfg.keys
}

// Color returns the named color as a pixel value. Colors are written as
// #rrggbb.
func (cfg *Config) Color(name string) (uint32, error) {
	s, ok := cfg.Colors[name]
	if !ok {
		return 0, fmt.Errorf("unknown color %q", name)
	}
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("color %s: invalid value %q", name, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %s: invalid value %q", name, s)
	}
	return uint32(v), nil
}

// Autogroup returns the desktop configured for a window with the given
// WM_CLASS name and class. "name.class" takes precedence over "class".
func (cfg *Config) Autogroup(name, class string) (int, bool) {
	if d, ok := cfg.Autogroups[name+"."+class]; ok {
		return d, true
	}
	d, ok := cfg.Autogroups[class]
	return d, ok
}

func (cfg *Config) Ignored(name string) bool {
	for _, ign := range cfg.Ignores {
		if ign == name {
			return true
		}
	}
	return false
}
