package main

import "testing"

func TestUnnamedTitle(t *testing.T) {
	var tests = []struct {
		lang string
		want string
	}{
		{"en", "Unnamed Window"},
		{"de", "Unbenanntes Fenster"},
		{"de-AT", "Unbenanntes Fenster"},
		{"fr", "Fenêtre sans nom"},
		{"ja", "Unnamed Window"},
		{"not a language!", "Unnamed Window"},
	}

	for _, tt := range tests {
		if got := unnamedTitle(tt.lang); got != tt.want {
			t.Errorf("unnamedTitle(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
