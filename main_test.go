package main

import (
	"path/filepath"
	"testing"
)

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("WMCLIENT_CONFIG", "")

	if got, err := configPath("/etc/wmclient.toml"); err != nil || got != "/etc/wmclient.toml" {
		t.Errorf("configPath with flag = %q, %v", got, err)
	}
	want := filepath.Join(dir, "wmclient", "config.toml")
	if got, err := configPath(""); err != nil || got != want {
		t.Errorf("configPath() = %q, %v, want %q", got, err, want)
	}

	t.Setenv("WMCLIENT_CONFIG", "/tmp/wm.toml")
	if got, err := configPath(""); err != nil || got != "/tmp/wm.toml" {
		t.Errorf("configPath with WMCLIENT_CONFIG = %q, %v", got, err)
	}
}
